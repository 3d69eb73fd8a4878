// items.go
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

import "github.com/localnerve/dossierdb/internal/types"

// Previous is a former name of a person.
type Previous struct {
	Item
	Surname    string  `gorm:"size:255;not null" json:"surname"`
	Firstname  string  `gorm:"size:255;not null" json:"firstname"`
	Patronymic *string `gorm:"size:255" json:"patronymic"`
	Changed    *int    `json:"changed"`
	Reason     *string `gorm:"type:text" json:"reason"`
}

func (Previous) TableName() string { return "previous" }

type Education struct {
	Item
	View        string  `gorm:"size:255;not null" json:"view"`
	Institution string  `gorm:"type:text;not null" json:"institution"`
	Finished    *int    `json:"finished"`
	Specialty   *string `gorm:"type:text" json:"specialty"`
}

func (Education) TableName() string { return "educations" }

// Staff is a position the person is being vetted for.
type Staff struct {
	Item
	Position   string  `gorm:"type:text;not null" json:"position"`
	Department *string `gorm:"type:text" json:"department"`
}

func (Staff) TableName() string { return "staffs" }

type Document struct {
	Item
	View   string      `gorm:"size:255;not null" json:"view"`
	Series *string     `gorm:"size:255" json:"series"`
	Digits string      `gorm:"size:255;not null" json:"digits"`
	Agency *string     `gorm:"type:text" json:"agency"`
	Issue  *types.Date `json:"issue"`
}

func (Document) TableName() string { return "documents" }

type Address struct {
	Item
	View    string `gorm:"size:255;not null" json:"view"`
	Address string `gorm:"column:address;type:text;not null" json:"address"`
}

func (Address) TableName() string { return "addresses" }

type Contact struct {
	Item
	View    string `gorm:"size:255;not null" json:"view"`
	Contact string `gorm:"size:255;not null" json:"contact"`
}

func (Contact) TableName() string { return "contacts" }

// Workplace is one entry of the employment history.
type Workplace struct {
	Item
	NowWork   bool        `gorm:"not null;default:false" json:"now_work"`
	Starts    types.Date  `gorm:"not null" json:"starts"`
	Finished  *types.Date `json:"finished"`
	Workplace string      `gorm:"type:text;not null" json:"workplace"`
	Address   *string     `gorm:"type:text" json:"address"`
	Position  string      `gorm:"type:text;not null" json:"position"`
	Reason    *string     `gorm:"type:text" json:"reason"`
}

func (Workplace) TableName() string { return "workplaces" }

// Affiliation links the person to an organization under one of the Affiliates categories.
type Affiliation struct {
	Item
	View         string  `gorm:"size:255;not null" json:"view"`
	Organization string  `gorm:"type:text;not null" json:"organization"`
	Inn          *string `gorm:"size:12" json:"inn"`
}

func (Affiliation) TableName() string { return "affiliations" }

// Relation links the person to another person.
type Relation struct {
	Item
	Relation   string `gorm:"size:255;not null" json:"relation"`
	RelationID uint   `gorm:"not null;index" json:"relation_id"`
}

func (Relation) TableName() string { return "relations" }

// Check is a background check with its conclusion.
type Check struct {
	Item
	Workplace   *string `gorm:"type:text" json:"workplace"`
	Document    *string `gorm:"type:text" json:"document"`
	Inn         *string `gorm:"type:text" json:"inn"`
	Debt        *string `gorm:"type:text" json:"debt"`
	Bankruptcy  *string `gorm:"type:text" json:"bankruptcy"`
	Bki         *string `gorm:"type:text" json:"bki"`
	Courts      *string `gorm:"type:text" json:"courts"`
	Affiliation *string `gorm:"type:text" json:"affiliation"`
	Terrorist   *string `gorm:"type:text" json:"terrorist"`
	Mvd         *string `gorm:"type:text" json:"mvd"`
	Internet    *string `gorm:"type:text" json:"internet"`
	Cronos      *string `gorm:"type:text" json:"cronos"`
	Cros        *string `gorm:"type:text" json:"cros"`
	Addition    *string `gorm:"type:text" json:"addition"`
	Comment     *string `gorm:"type:text" json:"comment"`
	Conclusion  *string `gorm:"size:255;index" json:"conclusion"`
}

func (Check) TableName() string { return "checks" }

type Poligraf struct {
	Item
	Theme   string `gorm:"size:255;not null" json:"theme"`
	Results string `gorm:"type:text;not null" json:"results"`
}

func (Poligraf) TableName() string { return "poligrafs" }

type Investigation struct {
	Item
	Theme string `gorm:"type:text;not null" json:"theme"`
	Info  string `gorm:"type:text;not null" json:"info"`
}

func (Investigation) TableName() string { return "investigations" }

type Inquiry struct {
	Item
	Info      string  `gorm:"type:text;not null" json:"info"`
	Initiator *string `gorm:"type:text" json:"initiator"`
	Origins   string  `gorm:"type:text;not null" json:"origins"`
}

func (Inquiry) TableName() string { return "inquiries" }

// All returns one zero value of every persisted model, in migration order.
func All() []any {
	return []any{
		&User{},
		&Person{},
		&Previous{},
		&Education{},
		&Staff{},
		&Document{},
		&Address{},
		&Contact{},
		&Workplace{},
		&Affiliation{},
		&Relation{},
		&Check{},
		&Poligraf{},
		&Investigation{},
		&Inquiry{},
		&ImportLog{},
	}
}
