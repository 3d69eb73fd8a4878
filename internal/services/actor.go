// actor.go
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
	"errors"
	"fmt"

	"github.com/localnerve/dossierdb/internal/models"
	"github.com/localnerve/dossierdb/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Actor is the authenticated user a request acts for. Every service call takes it explicitly.
type Actor struct {
	ID       uint          `json:"id"`
	Username string        `json:"username"`
	Fullname string        `json:"fullname"`
	Role     models.Role   `json:"role"`
	Region   models.Region `json:"region"`
}

// ActorFromUser builds the actor for a stored user.
func ActorFromUser(u *models.User) Actor {
	return Actor{ID: u.ID, Username: u.Username, Fullname: u.Fullname, Role: u.Role, Region: u.Region}
}

// HeadOffice reports whether the actor sees every region.
func (a Actor) HeadOffice() bool {
	return a.Region == models.RegionMain || a.Region == ""
}

// HasRole reports whether the actor holds one of roles.
func (a Actor) HasRole(roles ...models.Role) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}

// ItemView is a stored record annotated with the display name of its author.
type ItemView struct {
	Record models.Record
	Author string
}

// MarshalJSON flattens the record and adds an "author" field.
func (v ItemView) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(v.Record)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	fields["author"] = v.Author
	return json.Marshal(fields)
}

func silent(db *gorm.DB) *gorm.DB {
	return db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)})
}

func notFound(what string, id uint) error {
	return fmt.Errorf("%w: %s %d", types.ErrNotFound, what, id)
}

// loadPerson reads a person the actor may see. Persons of other regions are reported
// as not found to non-head-office actors.
func loadPerson(tx *gorm.DB, actor Actor, id uint, lock bool) (*models.Person, error) {
	q := silent(tx)
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var p models.Person
	if err := q.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("person", id)
		}
		return nil, err
	}
	if !actor.HeadOffice() && p.Region != actor.Region {
		return nil, notFound("person", id)
	}
	return &p, nil
}

// checkClaim rejects writes to a dossier claimed by a different user.
func checkClaim(p *models.Person, actor Actor) error {
	if p.IsBusy && p.UserID != nil && *p.UserID != actor.ID {
		return fmt.Errorf("%w: person %d is claimed by another user", types.ErrForbidden, p.ID)
	}
	return nil
}

// authorNames resolves author ids to full names.
func authorNames(tx *gorm.DB, recs []models.Record) (map[uint]string, error) {
	ids := make([]uint, 0, len(recs))
	seen := map[uint]bool{}
	for _, r := range recs {
		if id := r.AuthorID(); id != nil && !seen[*id] {
			seen[*id] = true
			ids = append(ids, *id)
		}
	}
	names := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	var users []models.User
	if err := silent(tx).Select("id", "fullname", "username").Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Fullname != "" {
			names[u.ID] = u.Fullname
		} else {
			names[u.ID] = u.Username
		}
	}
	return names, nil
}

func annotate(tx *gorm.DB, recs []models.Record) ([]ItemView, error) {
	names, err := authorNames(tx, recs)
	if err != nil {
		return nil, err
	}
	out := make([]ItemView, len(recs))
	for i, r := range recs {
		out[i] = ItemView{Record: r}
		if id := r.AuthorID(); id != nil {
			out[i].Author = names[*id]
		}
	}
	return out, nil
}
