// kinds.go
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

package schemas

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/localnerve/dossierdb/internal/models"
	"github.com/localnerve/dossierdb/internal/types"
)

// Record is a Schema that converts into its storage record.
type Record interface {
	Schema
	Record() models.Record
}

type Person struct {
	Surname     string `json:"surname" validate:"mandatory,name,max=255"`
	Firstname   string `json:"firstname" validate:"mandatory,name,max=255"`
	Patronymic  string `json:"patronymic" validate:"name,max=255"`
	Birthday    string `json:"birthday" validate:"mandatory,omitempty,date"`
	Birthplace  string `json:"birthplace"`
	Citizenship string `json:"citizenship" validate:"max=255"`
	Dual        string `json:"dual" validate:"max=255"`
	Snils       string `json:"snils" validate:"omitempty,number,len=11"`
	Inn         string `json:"inn" validate:"omitempty,number,max=12"`
	Marital     string `json:"marital" validate:"max=255"`
	Addition    string `json:"addition"`
}

func (s *Person) Normalize() {
	s.Surname = name(s.Surname)
	s.Firstname = name(s.Firstname)
	s.Patronymic = name(s.Patronymic)
	s.Snils = digits(s.Snils)
	s.Inn = digits(s.Inn)
	trimAll(&s.Birthday, &s.Birthplace, &s.Citizenship, &s.Dual, &s.Marital, &s.Addition)
}

func (s *Person) Record() models.Record {
	return &models.Person{
		Surname:     s.Surname,
		Firstname:   s.Firstname,
		Patronymic:  opt(s.Patronymic),
		Birthday:    date(s.Birthday),
		Birthplace:  opt(s.Birthplace),
		Citizenship: opt(s.Citizenship),
		Dual:        opt(s.Dual),
		Snils:       opt(s.Snils),
		Inn:         opt(s.Inn),
		Marital:     opt(s.Marital),
		Addition:    opt(s.Addition),
	}
}

type Previous struct {
	Surname    string `json:"surname" validate:"mandatory,name,max=255"`
	Firstname  string `json:"firstname" validate:"mandatory,name,max=255"`
	Patronymic string `json:"patronymic" validate:"name,max=255"`
	Changed    string `json:"changed" validate:"omitempty,year"`
	Reason     string `json:"reason"`
}

func (s *Previous) Normalize() {
	s.Surname = name(s.Surname)
	s.Firstname = name(s.Firstname)
	s.Patronymic = name(s.Patronymic)
	trimAll(&s.Changed, &s.Reason)
}

func (s *Previous) Record() models.Record {
	return &models.Previous{
		Surname:    s.Surname,
		Firstname:  s.Firstname,
		Patronymic: opt(s.Patronymic),
		Changed:    optInt(s.Changed),
		Reason:     opt(s.Reason),
	}
}

type Education struct {
	View        string `json:"view" validate:"mandatory,max=255"`
	Institution string `json:"institution" validate:"mandatory"`
	Finished    string `json:"finished" validate:"omitempty,year"`
	Specialty   string `json:"specialty"`
}

func (s *Education) Normalize() { trimAll(&s.View, &s.Institution, &s.Finished, &s.Specialty) }

func (s *Education) Record() models.Record {
	return &models.Education{
		View:        s.View,
		Institution: s.Institution,
		Finished:    optInt(s.Finished),
		Specialty:   opt(s.Specialty),
	}
}

type Staff struct {
	Position   string `json:"position" validate:"mandatory"`
	Department string `json:"department"`
}

func (s *Staff) Normalize() {
	trimAll(&s.Position, &s.Department)
	if s.Department == "" {
		s.Department = models.DefaultDepartment
	}
}

func (s *Staff) Record() models.Record {
	return &models.Staff{Position: s.Position, Department: opt(s.Department)}
}

type Document struct {
	View   string `json:"view" validate:"mandatory,max=255"`
	Series string `json:"series" validate:"max=255"`
	Digits string `json:"digits" validate:"mandatory,max=255"`
	Agency string `json:"agency"`
	Issue  string `json:"issue" validate:"omitempty,date"`
}

func (s *Document) Normalize() { trimAll(&s.View, &s.Series, &s.Digits, &s.Agency, &s.Issue) }

func (s *Document) Record() models.Record {
	return &models.Document{
		View:   s.View,
		Series: opt(s.Series),
		Digits: s.Digits,
		Agency: opt(s.Agency),
		Issue:  optDate(s.Issue),
	}
}

type Address struct {
	View    string `json:"view" validate:"mandatory,max=255"`
	Address string `json:"address" validate:"mandatory"`
}

func (s *Address) Normalize() { trimAll(&s.View, &s.Address) }

func (s *Address) Record() models.Record {
	return &models.Address{View: s.View, Address: s.Address}
}

type Contact struct {
	View    string `json:"view" validate:"mandatory,max=255"`
	Contact string `json:"contact" validate:"mandatory,max=255"`
}

func (s *Contact) Normalize() { trimAll(&s.View, &s.Contact) }

func (s *Contact) Record() models.Record {
	return &models.Contact{View: s.View, Contact: s.Contact}
}

type Workplace struct {
	NowWork   string `json:"now_work" validate:"omitempty,boolean"`
	Starts    string `json:"starts" validate:"required,date"`
	Finished  string `json:"finished" validate:"omitempty,date"`
	Workplace string `json:"workplace" validate:"mandatory"`
	Address   string `json:"address"`
	Position  string `json:"position" validate:"mandatory"`
	Reason    string `json:"reason"`
}

func (s *Workplace) Normalize() {
	s.NowWork = flag(s.NowWork)
	trimAll(&s.Starts, &s.Finished, &s.Workplace, &s.Address, &s.Position, &s.Reason)
}

func (s *Workplace) Record() models.Record {
	now, _ := strconv.ParseBool(s.NowWork)
	return &models.Workplace{
		NowWork:   now,
		Starts:    date(s.Starts),
		Finished:  optDate(s.Finished),
		Workplace: s.Workplace,
		Address:   opt(s.Address),
		Position:  s.Position,
		Reason:    opt(s.Reason),
	}
}

type Affiliation struct {
	View         string `json:"view" validate:"mandatory,omitempty,affiliate"`
	Organization string `json:"organization" validate:"mandatory"`
	Inn          string `json:"inn" validate:"omitempty,number,max=12"`
}

func (s *Affiliation) Normalize() {
	s.Inn = digits(s.Inn)
	trimAll(&s.View, &s.Organization)
}

func (s *Affiliation) Record() models.Record {
	return &models.Affiliation{View: s.View, Organization: s.Organization, Inn: opt(s.Inn)}
}

type Relation struct {
	Relation   string `json:"relation" validate:"mandatory,omitempty,relation"`
	RelationID string `json:"relation_id" validate:"mandatory,omitempty,number"`
}

func (s *Relation) Normalize() { trimAll(&s.Relation, &s.RelationID) }

func (s *Relation) Record() models.Record {
	id, _ := strconv.ParseUint(s.RelationID, 10, 64)
	return &models.Relation{Relation: s.Relation, RelationID: uint(id)}
}

type Check struct {
	Workplace   string `json:"workplace"`
	Document    string `json:"document"`
	Inn         string `json:"inn"`
	Debt        string `json:"debt"`
	Bankruptcy  string `json:"bankruptcy"`
	Bki         string `json:"bki"`
	Courts      string `json:"courts"`
	Affiliation string `json:"affiliation"`
	Terrorist   string `json:"terrorist"`
	Mvd         string `json:"mvd"`
	Internet    string `json:"internet"`
	Cronos      string `json:"cronos"`
	Cros        string `json:"cros"`
	Addition    string `json:"addition"`
	Comment     string `json:"comment"`
	Conclusion  string `json:"conclusion" validate:"omitempty,conclusion"`
}

func (s *Check) Normalize() {
	trimAll(&s.Workplace, &s.Document, &s.Inn, &s.Debt, &s.Bankruptcy, &s.Bki, &s.Courts,
		&s.Affiliation, &s.Terrorist, &s.Mvd, &s.Internet, &s.Cronos, &s.Cros,
		&s.Addition, &s.Comment, &s.Conclusion)
}

func (s *Check) Record() models.Record {
	return &models.Check{
		Workplace:   opt(s.Workplace),
		Document:    opt(s.Document),
		Inn:         opt(s.Inn),
		Debt:        opt(s.Debt),
		Bankruptcy:  opt(s.Bankruptcy),
		Bki:         opt(s.Bki),
		Courts:      opt(s.Courts),
		Affiliation: opt(s.Affiliation),
		Terrorist:   opt(s.Terrorist),
		Mvd:         opt(s.Mvd),
		Internet:    opt(s.Internet),
		Cronos:      opt(s.Cronos),
		Cros:        opt(s.Cros),
		Addition:    opt(s.Addition),
		Comment:     opt(s.Comment),
		Conclusion:  opt(s.Conclusion),
	}
}

type Poligraf struct {
	Theme   string `json:"theme" validate:"mandatory,omitempty,poligraf"`
	Results string `json:"results" validate:"mandatory"`
}

func (s *Poligraf) Normalize() { trimAll(&s.Theme, &s.Results) }

func (s *Poligraf) Record() models.Record {
	return &models.Poligraf{Theme: s.Theme, Results: s.Results}
}

type Investigation struct {
	Theme string `json:"theme" validate:"mandatory"`
	Info  string `json:"info" validate:"mandatory"`
}

func (s *Investigation) Normalize() { trimAll(&s.Theme, &s.Info) }

func (s *Investigation) Record() models.Record {
	return &models.Investigation{Theme: s.Theme, Info: s.Info}
}

type Inquiry struct {
	Info      string `json:"info" validate:"mandatory"`
	Initiator string `json:"initiator"`
	Origins   string `json:"origins" validate:"mandatory"`
}

func (s *Inquiry) Normalize() { trimAll(&s.Info, &s.Initiator, &s.Origins) }

func (s *Inquiry) Record() models.Record {
	return &models.Inquiry{Info: s.Info, Initiator: opt(s.Initiator), Origins: s.Origins}
}

// name upper-cases and trims a name field, collapsing inner whitespace.
func name(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}

func digits(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

func flag(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "yes", "y":
		return "true"
	case "off", "no", "n":
		return "false"
	}
	return strings.TrimSpace(s)
}

func trimAll(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}

func opt(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optInt(s string) *int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

func date(s string) types.Date {
	d, _ := types.ParseDate(s)
	return d
}

func optDate(s string) *types.Date {
	if s == "" {
		return nil
	}
	d, err := types.ParseDate(s)
	if err != nil {
		return nil
	}
	return &d
}
