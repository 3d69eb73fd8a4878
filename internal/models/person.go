// person.go
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

import (
	"time"

	"github.com/localnerve/dossierdb/internal/types"
)

// Person is the dossier root. It exclusively owns the records of the thirteen child kinds.
type Person struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Surname     string     `gorm:"size:255;not null;index" json:"surname"`
	Firstname   string     `gorm:"size:255;not null;index" json:"firstname"`
	Patronymic  *string    `gorm:"size:255;index" json:"patronymic"`
	Birthday    types.Date `gorm:"not null" json:"birthday"`
	Birthplace  *string    `gorm:"type:text" json:"birthplace"`
	Citizenship *string    `gorm:"size:255" json:"citizenship"`
	Dual        *string    `gorm:"size:255" json:"dual"`
	Snils       *string    `gorm:"size:11" json:"snils"`
	Inn         *string    `gorm:"size:12;index" json:"inn"`
	Marital     *string    `gorm:"size:255" json:"marital"`
	Addition    *string    `gorm:"type:text" json:"addition"`
	Destination *string    `gorm:"type:text" json:"destination"`
	Created     time.Time  `gorm:"autoUpdateTime" json:"created"`
	Region      Region     `gorm:"size:255;index" json:"region"`
	IsBusy      bool       `gorm:"column:isbusy;not null;default:false" json:"isbusy"`
	UserID      *uint      `gorm:"index" json:"user_id"`

	// Has-many associations exist for the ON DELETE CASCADE constraints only.
	Previous       []Previous      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Educations     []Education     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Staffs         []Staff         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Documents      []Document      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Addresses      []Address       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Contacts       []Contact       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Workplaces     []Workplace     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Affiliations   []Affiliation   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Relations      []Relation      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Checks         []Check         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Poligrafs      []Poligraf      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Investigations []Investigation `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Inquiries      []Inquiry       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// TableName overrides the table name for Person
func (Person) TableName() string {
	return "persons"
}

// GetID implements Record.
func (p *Person) GetID() uint { return p.ID }

// SetID implements Record.
func (p *Person) SetID(id uint) { p.ID = id }

// AuthorID implements Record; the owning user authored the dossier.
func (p *Person) AuthorID() *uint { return p.UserID }

// OwnerID implements Record; a person owns itself.
func (p *Person) OwnerID() uint { return p.ID }

// SetOwner implements Record. Person ownership is set through TakeResume, not here.
func (p *Person) SetOwner(personID, userID uint) {}

// PatronymicOrEmpty returns the patronymic or "" when absent.
func (p *Person) PatronymicOrEmpty() string {
	if p.Patronymic == nil {
		return ""
	}
	return *p.Patronymic
}
