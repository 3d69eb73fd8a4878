// record.go
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

package models

import "time"

// Record is implemented by pointers to every registered entity model.
type Record interface {
	TableName() string
	GetID() uint
	SetID(id uint)
	// OwnerID is the id of the owning Person.
	OwnerID() uint
	// AuthorID is the id of the user who last wrote the record.
	AuthorID() *uint
	SetOwner(personID, userID uint)
}

// Item holds the columns shared by every child record of a Person.
type Item struct {
	ID       uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Created  time.Time `gorm:"autoUpdateTime" json:"created"`
	PersonID uint      `gorm:"not null;index" json:"person_id"`
	UserID   *uint     `gorm:"index" json:"user_id"`
}

// GetID implements Record.
func (i *Item) GetID() uint { return i.ID }

// SetID implements Record.
func (i *Item) SetID(id uint) { i.ID = id }

// OwnerID implements Record.
func (i *Item) OwnerID() uint { return i.PersonID }

// AuthorID implements Record.
func (i *Item) AuthorID() *uint { return i.UserID }

// SetOwner implements Record.
func (i *Item) SetOwner(personID, userID uint) {
	i.PersonID = personID
	i.UserID = &userID
}
