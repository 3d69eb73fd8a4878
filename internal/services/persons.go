// persons.go
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
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/localnerve/dossierdb/internal/models"
	"github.com/localnerve/dossierdb/internal/registry"
	"github.com/localnerve/dossierdb/internal/schemas"
	"github.com/localnerve/dossierdb/internal/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/hints"
)

// PageSize is the number of persons on one index page.
const PageSize = 12

// ResumeResult reports which person a resume landed on.
type ResumeResult struct {
	Person  *models.Person `json:"person"`
	Created bool           `json:"created"`
}

// TakeResume validates a resume and stores it. A person with the same names and
// birthday is reused and claimed for the actor unless another user holds it busy.
func (d *Dossiers) TakeResume(ctx context.Context, actor Actor, fields map[string]any) (*ResumeResult, error) {
	var schema schemas.Person
	if err := schemas.Decode(ctx, fields, &schema); err != nil {
		return nil, err
	}
	p := schema.Record().(*models.Person)

	var result *ResumeResult
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = takeResume(tx, actor, p)
		return err
	})
	if err != nil {
		return nil, err
	}

	d.log.Info("resume taken",
		zap.Uint("person_id", result.Person.ID),
		zap.Bool("created", result.Created),
		zap.String("actor", actor.Username))
	return result, nil
}

func takeResume(tx *gorm.DB, actor Actor, p *models.Person) (*ResumeResult, error) {
	existing, err := findDuplicate(tx, p)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		p.Region = actor.Region
		if p.Region == "" {
			p.Region = models.RegionMain
		}
		p.IsBusy = true
		p.UserID = &actor.ID
		if err := silent(tx).Create(p).Error; err != nil {
			return nil, fmt.Errorf("create person: %w", err)
		}
		return &ResumeResult{Person: p, Created: true}, nil
	}

	if existing.IsBusy && existing.UserID != nil && *existing.UserID != actor.ID {
		return nil, fmt.Errorf("%w: person %d", types.ErrDuplicateClaim, existing.ID)
	}

	p.ID = existing.ID
	p.Region = existing.Region
	p.Destination = existing.Destination
	p.IsBusy = true
	p.UserID = &actor.ID
	if err := silent(tx).Save(p).Error; err != nil {
		return nil, fmt.Errorf("update person %d: %w", p.ID, err)
	}
	return &ResumeResult{Person: p}, nil
}

// findDuplicate matches on the normalized (upper-cased) names and birthday.
func findDuplicate(tx *gorm.DB, p *models.Person) (*models.Person, error) {
	q := silent(tx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("surname = ? AND firstname = ? AND birthday = ?", p.Surname, p.Firstname, p.Birthday)
	if p.Patronymic == nil {
		q = q.Where("(patronymic IS NULL OR patronymic = '')")
	} else {
		q = q.Where("patronymic = ?", *p.Patronymic)
	}

	var existing models.Person
	if err := q.Order("id").First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &existing, nil
}

// ChangeRegion moves a person to region. An existing dossier directory is moved
// first; when the database update then fails the move is undone.
func (d *Dossiers) ChangeRegion(ctx context.Context, actor Actor, personID uint, region string) (*models.Person, error) {
	if !models.ValidRegion(region) {
		return nil, types.NewValidationError("region", "is not an allowed region value")
	}
	target := models.Region(region)

	db := d.db.WithContext(ctx)
	person, err := loadPerson(db, actor, personID, false)
	if err != nil {
		return nil, err
	}
	if err := checkClaim(person, actor); err != nil {
		return nil, err
	}
	if person.Region == target {
		return person, nil
	}

	updates := map[string]any{"region": target}
	var moved, from string
	if person.Destination != nil && *person.Destination != "" {
		from = *person.Destination
		moved = d.mapper.PersonPath(person, target)
		if err := d.mapper.Relocate(from, moved); err != nil {
			return nil, err
		}
		updates["destination"] = moved
	}

	if err := silent(db).Model(person).Updates(updates).Error; err != nil {
		if moved != "" {
			if undo := d.mapper.Relocate(moved, from); undo != nil {
				d.log.Error("region change left dossier directory moved",
					zap.Uint("person_id", personID),
					zap.String("directory", moved),
					zap.String("recorded", from),
					zap.Error(undo))
			}
		}
		return nil, fmt.Errorf("change region of person %d: %w", personID, err)
	}

	person.Region = target
	if moved != "" {
		person.Destination = &moved
	}
	d.log.Info("region changed",
		zap.Uint("person_id", personID),
		zap.String("region", region),
		zap.String("actor", actor.Username))
	return person, nil
}

// ToggleStanding claims a free dossier for the actor or releases the actor's claim.
func (d *Dossiers) ToggleStanding(ctx context.Context, actor Actor, personID uint) (*models.Person, error) {
	var person *models.Person
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		person, err = loadPerson(tx, actor, personID, true)
		if err != nil {
			return err
		}
		if err := checkClaim(person, actor); err != nil {
			return err
		}

		person.IsBusy = !person.IsBusy
		if person.IsBusy {
			person.UserID = &actor.ID
		}
		return silent(tx).Model(person).
			Select("isbusy", "user_id").
			Updates(map[string]any{"isbusy": person.IsBusy, "user_id": person.UserID}).Error
	})
	if err != nil {
		return nil, err
	}
	return person, nil
}

// Profile is a complete dossier.
type Profile struct {
	Person *ItemView                  `json:"person"`
	Items  map[registry.Kind]*Listing `json:"items"`
}

// Profile loads the person and every child kind.
func (d *Dossiers) Profile(ctx context.Context, actor Actor, personID uint) (*Profile, error) {
	tx := d.db.WithContext(ctx)
	out := &Profile{Items: make(map[registry.Kind]*Listing, len(registry.ChildKinds()))}

	for _, kind := range registry.Kinds() {
		entry, _ := registry.Lookup(string(kind))
		listing, err := listByPerson(tx, actor, entry, personID)
		if err != nil {
			return nil, err
		}
		if kind == registry.Persons {
			out.Person = listing.Person
			continue
		}
		out.Items[kind] = listing
	}
	return out, nil
}

// PersonRow is one line of the dossier index.
type PersonRow struct {
	models.Person
	Owner string `json:"owner"`
}

// PersonPage is one page of the dossier index.
type PersonPage struct {
	Items   []PersonRow `json:"items"`
	Page    int         `json:"page"`
	HasNext bool        `json:"has_next"`
	HasPrev bool        `json:"has_prev"`
}

var (
	digitsOnly = regexp.MustCompile(`^\d+$`)
	dottedDate = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}$`)
)

// SearchPersons lists persons newest first, PageSize per page, filtered by the
// actor's region and by search text longer than two characters. All-digit text
// searches INNs; otherwise tokens are prefixes of surname, firstname and patronymic,
// and a trailing dd.mm.yyyy token matches the birthday.
func (d *Dossiers) SearchPersons(ctx context.Context, actor Actor, search string, page int) (*PersonPage, error) {
	if page < 1 {
		page = 1
	}

	q := silent(d.db.WithContext(ctx)).
		Clauses(hints.Comment("select", "dossier_index")).
		Model(&models.Person{})
	if !actor.HeadOffice() {
		q = q.Where("region = ?", actor.Region)
	}

	search = strings.TrimSpace(search)
	if utf8.RuneCountInString(search) > 2 {
		var err error
		if q, err = applySearch(q, search); err != nil {
			return nil, err
		}
	}

	var persons []models.Person
	if err := q.Order("id DESC").Offset((page - 1) * PageSize).Limit(PageSize + 1).Find(&persons).Error; err != nil {
		return nil, fmt.Errorf("search persons: %w", err)
	}

	out := &PersonPage{Page: page, HasPrev: page > 1}
	if len(persons) > PageSize {
		out.HasNext = true
		persons = persons[:PageSize]
	}

	recs := make([]models.Record, len(persons))
	for i := range persons {
		recs[i] = &persons[i]
	}
	names, err := authorNames(d.db.WithContext(ctx), recs)
	if err != nil {
		return nil, err
	}
	out.Items = make([]PersonRow, len(persons))
	for i, p := range persons {
		out.Items[i] = PersonRow{Person: p}
		if p.UserID != nil {
			out.Items[i].Owner = names[*p.UserID]
		}
	}
	return out, nil
}

func applySearch(q *gorm.DB, search string) (*gorm.DB, error) {
	if digitsOnly.MatchString(search) {
		return q.Where("inn LIKE ?", "%"+search+"%"), nil
	}

	tokens := strings.Fields(strings.ToUpper(search))
	if n := len(tokens); n > 0 && dottedDate.MatchString(tokens[n-1]) {
		birthday, err := time.Parse("02.01.2006", tokens[n-1])
		if err != nil {
			return nil, types.NewValidationError("search", "birthday must be dd.mm.yyyy")
		}
		q = q.Where("birthday = ?", types.NewDate(birthday.Year(), birthday.Month(), birthday.Day()))
		tokens = tokens[:n-1]
	}

	columns := []string{"surname", "firstname", "patronymic"}
	for i, tok := range tokens {
		if i >= len(columns) {
			break
		}
		q = q.Where(columns[i]+" LIKE ?", tok+"%")
	}
	return q, nil
}
