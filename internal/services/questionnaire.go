// questionnaire.go
//
// Personnel vetting dossier service with questionnaire import and per-person file storage
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of dossierdb.
// dossierdb is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// dossierdb is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with dossierdb.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/localnerve/dossierdb/internal/models"
	"github.com/localnerve/dossierdb/internal/registry"
	"github.com/localnerve/dossierdb/internal/types"
)

// Questionnaire is the external "anketa" document.
type Questionnaire struct {
	LastName              types.FlexString `json:"lastName"`
	FirstName             types.FlexString `json:"firstName"`
	MidName               types.FlexString `json:"midName"`
	Birthday              types.FlexString `json:"birthday"`
	Birthplace            types.FlexString `json:"birthplace"`
	Citizen               types.FlexString `json:"citizen"`
	AdditionalCitizenship types.FlexString `json:"additionalCitizenship"`
	MaritalStatus         types.FlexString `json:"maritalStatus"`
	Inn                   types.FlexString `json:"inn"`
	Snils                 types.FlexString `json:"snils"`

	PositionName types.FlexString `json:"positionName"`
	Department   types.FlexString `json:"department"`

	PassportSerial    types.FlexString `json:"passportSerial"`
	PassportNumber    types.FlexString `json:"passportNumber"`
	PassportIssueDate types.FlexString `json:"passportIssueDate"`
	PassportIssuedBy  types.FlexString `json:"passportIssuedBy"`

	ValidAddress types.FlexString `json:"validAddress"`
	RegAddress   types.FlexString `json:"regAddress"`
	Email        types.FlexString `json:"email"`
	ContactPhone types.FlexString `json:"contactPhone"`

	Education      types.FlexList[QEducation]    `json:"education"`
	Experience     types.FlexList[QExperience]   `json:"experience"`
	NameWasChanged types.FlexList[QPreviousName] `json:"nameWasChanged"`

	Organizations               types.FlexList[QOrganization] `json:"organizations"`
	RelatedPersonsOrganizations types.FlexList[QOrganization] `json:"relatedPersonsOrganizations"`
	StateOrganizations          types.FlexList[QOrganization] `json:"stateOrganizations"`
	PublicOfficeOrganizations   types.FlexList[QOrganization] `json:"publicOfficeOrganizations"`
}

type QEducation struct {
	EducationType   types.FlexString `json:"educationType"`
	InstitutionName types.FlexString `json:"institutionName"`
	EndYear         types.FlexString `json:"endYear"`
	Specialty       types.FlexString `json:"specialty"`
}

type QExperience struct {
	BeginDate  types.FlexString `json:"beginDate"`
	EndDate    types.FlexString `json:"endDate"`
	CurrentJob types.FlexString `json:"currentJob"`
	Name       types.FlexString `json:"name"`
	Address    types.FlexString `json:"address"`
	Position   types.FlexString `json:"position"`
	FireReason types.FlexString `json:"fireReason"`
}

type QPreviousName struct {
	FirstNameBeforeChange types.FlexString `json:"firstNameBeforeChange"`
	LastNameBeforeChange  types.FlexString `json:"lastNameBeforeChange"`
	MidNameBeforeChange   types.FlexString `json:"midNameBeforeChange"`
	YearOfChange          types.FlexString `json:"yearOfChange"`
	Reason                types.FlexString `json:"reason"`
}

type QOrganization struct {
	Name types.FlexString `json:"name"`
	Inn  types.FlexString `json:"inn"`
}

// Fields is a free-form field map as accepted by the dispatcher.
type Fields = map[string]any

// Bundle is a questionnaire reshaped into the resume and per-kind buckets.
type Bundle struct {
	Resume  Fields
	Buckets map[registry.Kind][]Fields
}

// Count returns the number of bucket entries.
func (b *Bundle) Count() int {
	n := 0
	for _, entries := range b.Buckets {
		n += len(entries)
	}
	return n
}

// ParseQuestionnaire decodes a raw document. Unknown fields are ignored.
func ParseQuestionnaire(raw []byte) (*Questionnaire, error) {
	var q Questionnaire
	if err := json.Unmarshal(raw, &q); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidQuestionnaire, err)
	}
	if strings.TrimSpace(q.LastName.String()) == "" || strings.TrimSpace(q.FirstName.String()) == "" {
		return nil, fmt.Errorf("%w: lastName and firstName are required", types.ErrInvalidQuestionnaire)
	}
	if isoDate(q.Birthday) == "" {
		return nil, fmt.Errorf("%w: birthday is required", types.ErrInvalidQuestionnaire)
	}
	return &q, nil
}

// Reshape maps the questionnaire onto the entity buckets. It has no side effects.
func (q *Questionnaire) Reshape() *Bundle {
	b := &Bundle{
		Resume: Fields{
			"surname":     q.LastName.String(),
			"firstname":   q.FirstName.String(),
			"patronymic":  q.MidName.String(),
			"birthday":    isoDate(q.Birthday),
			"birthplace":  q.Birthplace.String(),
			"citizenship": q.Citizen.String(),
			"dual":        q.AdditionalCitizenship.String(),
			"marital":     q.MaritalStatus.String(),
			"inn":         q.Inn.String(),
			"snils":       q.Snils.String(),
		},
		Buckets: map[registry.Kind][]Fields{},
	}

	for _, p := range q.NameWasChanged {
		b.add(registry.Previous, Fields{
			"surname":    p.LastNameBeforeChange.String(),
			"firstname":  p.FirstNameBeforeChange.String(),
			"patronymic": p.MidNameBeforeChange.String(),
			"changed":    p.YearOfChange.String(),
			"reason":     p.Reason.String(),
		})
	}
	for _, e := range q.Education {
		b.add(registry.Educations, Fields{
			"view":        e.EducationType.String(),
			"institution": e.InstitutionName.String(),
			"finished":    e.EndYear.String(),
			"specialty":   e.Specialty.String(),
		})
	}
	for _, w := range q.Experience {
		// a job without a start date has no row to land in
		if isoDate(w.BeginDate) == "" {
			continue
		}
		b.add(registry.Workplaces, Fields{
			"starts":    isoDate(w.BeginDate),
			"finished":  isoDate(w.EndDate),
			"now_work":  w.CurrentJob.String(),
			"workplace": w.Name.String(),
			"address":   w.Address.String(),
			"position":  w.Position.String(),
			"reason":    w.FireReason.String(),
		})
	}

	b.add(registry.Staffs, Fields{
		"position":   q.PositionName.String(),
		"department": q.Department.String(),
	})
	b.add(registry.Documents, Fields{
		"view":   models.DocumentPassport,
		"series": q.PassportSerial.String(),
		"digits": q.PassportNumber.String(),
		"issue":  isoDate(q.PassportIssueDate),
		"agency": q.PassportIssuedBy.String(),
	})
	b.add(registry.Addresses,
		Fields{"view": models.AddressActual, "address": q.ValidAddress.String()},
		Fields{"view": models.AddressRegistration, "address": q.RegAddress.String()},
	)
	b.add(registry.Contacts,
		Fields{"view": models.ContactPhone, "contact": q.ContactPhone.String()},
		Fields{"view": models.ContactEmail, "contact": q.Email.String()},
	)

	categories := []struct {
		view string
		orgs []QOrganization
	}{
		{models.AffiliateCommercial, q.Organizations},
		{models.AffiliateState, q.StateOrganizations},
		{models.AffiliatePublic, q.PublicOfficeOrganizations},
		{models.AffiliateRelated, q.RelatedPersonsOrganizations},
	}
	for _, c := range categories {
		for _, o := range c.orgs {
			b.add(registry.Affiliations, Fields{
				"view":         c.view,
				"organization": o.Name.String(),
				"inn":          o.Inn.String(),
			})
		}
	}
	return b
}

// isoDate drops a time-of-day suffix from a date-time value.
func isoDate(f types.FlexString) string {
	s := strings.TrimSpace(f.String())
	if len(s) > len(types.DateLayout) && (s[10] == 'T' || s[10] == ' ') {
		return s[:len(types.DateLayout)]
	}
	return s
}

func (b *Bundle) add(kind registry.Kind, entries ...Fields) {
	b.Buckets[kind] = append(b.Buckets[kind], entries...)
}
