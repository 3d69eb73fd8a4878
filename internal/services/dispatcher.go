// dispatcher.go
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
	"strconv"
	"strings"

	"github.com/localnerve/dossierdb/internal/dossier"
	"github.com/localnerve/dossierdb/internal/metrics"
	"github.com/localnerve/dossierdb/internal/models"
	"github.com/localnerve/dossierdb/internal/registry"
	"github.com/localnerve/dossierdb/internal/schemas"
	"github.com/localnerve/dossierdb/internal/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dossiers performs the generic per-kind operations and the person-level
// operations built on them.
type Dossiers struct {
	db     *gorm.DB
	mapper *dossier.Mapper
	log    *zap.Logger
}

// NewDossiers creates the dossier service.
func NewDossiers(db *gorm.DB, mapper *dossier.Mapper, log *zap.Logger) *Dossiers {
	return &Dossiers{db: db, mapper: mapper, log: log}
}

// Listing is the result of ListByPerson: Person for the persons kind, Items otherwise.
type Listing struct {
	Kind    registry.Kind `json:"kind"`
	Partial string        `json:"partial"`
	Person  *ItemView     `json:"person,omitempty"`
	Items   []ItemView    `json:"items,omitempty"`
}

// ListByPerson returns the records of kind owned by personID, newest first.
func (d *Dossiers) ListByPerson(ctx context.Context, actor Actor, kind string, personID uint) (*Listing, error) {
	entry, err := registry.Lookup(kind)
	if err != nil {
		return nil, err
	}
	return listByPerson(d.db.WithContext(ctx), actor, entry, personID)
}

func listByPerson(tx *gorm.DB, actor Actor, entry registry.Entry, personID uint) (*Listing, error) {
	person, err := loadPerson(tx, actor, personID, false)
	if err != nil {
		return nil, err
	}

	out := &Listing{Kind: entry.Kind, Partial: entry.Partial}
	if entry.Kind == registry.Persons {
		views, err := annotate(tx, []models.Record{person})
		if err != nil {
			return nil, err
		}
		out.Person = &views[0]
		return out, nil
	}

	slice := entry.NewSlice()
	if err := silent(tx).Where("person_id = ?", personID).Order("id DESC").Find(slice).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", entry.Kind, err)
	}
	out.Items, err = annotate(tx, entry.Records(slice))
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetItem returns one record by its own id together with its form partial.
func (d *Dossiers) GetItem(ctx context.Context, actor Actor, kind string, id uint) (*ItemView, string, error) {
	entry, err := registry.Lookup(kind)
	if err != nil {
		return nil, "", err
	}
	tx := d.db.WithContext(ctx)

	rec, err := findRecord(tx, entry, id)
	if err != nil {
		return nil, "", err
	}
	if _, err := loadPerson(tx, actor, rec.OwnerID(), false); err != nil {
		return nil, "", err
	}

	views, err := annotate(tx, []models.Record{rec})
	if err != nil {
		return nil, "", err
	}
	return &views[0], entry.Form, nil
}

func findRecord(tx *gorm.DB, entry registry.Entry, id uint) (models.Record, error) {
	rec := entry.New()
	if err := silent(tx).First(rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(string(entry.Kind), id)
		}
		return nil, err
	}
	return rec, nil
}

// Upsert validates fields and writes one record of kind for personID. A field map
// carrying the id of an existing record of that person updates it in place; one
// without an id inserts. For the persons kind, personID is the person itself.
func (d *Dossiers) Upsert(ctx context.Context, actor Actor, kind string, personID uint, fields map[string]any) (models.Record, error) {
	entry, err := registry.Lookup(kind)
	if err != nil {
		return nil, err
	}

	id, err := fieldID(fields)
	if err != nil {
		return nil, err
	}

	schema := entry.Schema()
	if err := schemas.Decode(ctx, fields, schema); err != nil {
		return nil, err
	}
	rec := schema.Record()

	err = d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return upsert(tx, actor, entry, personID, id, rec)
	})
	if err != nil {
		return nil, err
	}
	metrics.Writes.WithLabelValues(kind, "upsert").Inc()
	return rec, nil
}

func upsert(tx *gorm.DB, actor Actor, entry registry.Entry, personID, id uint, rec models.Record) error {
	person, err := loadPerson(tx, actor, personID, true)
	if err != nil {
		return err
	}
	if err := checkClaim(person, actor); err != nil {
		return err
	}

	if entry.Kind == registry.Persons {
		if id != 0 && id != personID {
			return types.NewValidationError("id", "does not match the person")
		}
		p := rec.(*models.Person)
		p.ID = person.ID
		p.Destination = person.Destination
		p.Region = person.Region
		p.IsBusy = person.IsBusy
		p.UserID = person.UserID
		return silent(tx).Save(p).Error
	}

	if rel, ok := rec.(*models.Relation); ok {
		if err := silent(tx).First(&models.Person{}, rel.RelationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NewValidationError("relation_id", "person not found")
			}
			return err
		}
	}

	rec.SetOwner(personID, actor.ID)
	if id == 0 {
		return silent(tx).Create(rec).Error
	}

	var count int64
	if err := silent(tx).Model(entry.New()).Where("id = ? AND person_id = ?", id, personID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return notFound(string(entry.Kind), id)
	}
	rec.SetID(id)
	return silent(tx).Save(rec).Error
}

// Delete removes one record by id and returns the id of its owning person.
// Deleting a person removes every child record first, and only admins may do it.
func (d *Dossiers) Delete(ctx context.Context, actor Actor, kind string, id uint) (uint, error) {
	entry, err := registry.Lookup(kind)
	if err != nil {
		return 0, err
	}

	var personID uint
	err = d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, err := findRecord(tx, entry, id)
		if err != nil {
			return err
		}
		personID = rec.OwnerID()

		person, err := loadPerson(tx, actor, personID, true)
		if err != nil {
			return err
		}

		if entry.Kind == registry.Persons {
			if !actor.HasRole(models.RoleAdmin) {
				return fmt.Errorf("%w: only admins delete persons", types.ErrForbidden)
			}
			return deletePerson(tx, person.ID)
		}

		if err := checkClaim(person, actor); err != nil {
			return err
		}
		return silent(tx).Delete(rec).Error
	})
	if err != nil {
		return 0, err
	}

	metrics.Writes.WithLabelValues(kind, "delete").Inc()
	d.log.Info("record deleted",
		zap.String("kind", kind),
		zap.Uint("id", id),
		zap.Uint("person_id", personID),
		zap.String("actor", actor.Username))
	return personID, nil
}

// deletePerson removes the children explicitly so the cascade holds on
// drivers where foreign key enforcement is off.
func deletePerson(tx *gorm.DB, personID uint) error {
	for _, kind := range registry.ChildKinds() {
		entry, _ := registry.Lookup(string(kind))
		if err := silent(tx).Where("person_id = ?", personID).Delete(entry.New()).Error; err != nil {
			return fmt.Errorf("delete %s of person %d: %w", kind, personID, err)
		}
	}
	if err := silent(tx).Where("relation_id = ?", personID).Delete(&models.Relation{}).Error; err != nil {
		return fmt.Errorf("delete relations to person %d: %w", personID, err)
	}
	if err := silent(tx).Where("person_id = ?", personID).Delete(&models.ImportLog{}).Error; err != nil {
		return fmt.Errorf("delete import log of person %d: %w", personID, err)
	}
	return silent(tx).Delete(&models.Person{}, personID).Error
}

// fieldID reads the optional "id" entry of a submitted field map.
func fieldID(fields map[string]any) (uint, error) {
	raw, ok := fields["id"]
	if !ok || raw == nil {
		return 0, nil
	}
	var s string
	switch v := raw.(type) {
	case string:
		s = strings.TrimSpace(v)
	case []string:
		if len(v) > 0 {
			s = strings.TrimSpace(v[0])
		}
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	default:
		s = strings.TrimSpace(fmt.Sprint(v))
	}
	if s == "" || s == "0" {
		return 0, nil
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, types.NewValidationError("id", "must be a positive integer")
	}
	return uint(id), nil
}
