// user.go
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
)

// User is an operator account. Records authored by a user reference it weakly:
// deleting or blocking a user never touches dossier data.
type User struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Fullname   string    `gorm:"size:255" json:"fullname"`
	Username   string    `gorm:"size:255;uniqueIndex;not null" json:"username"`
	Passhash   string    `gorm:"size:255" json:"-"`
	PswdCreate time.Time `json:"pswd_create"`
	ChangePswd bool      `gorm:"not null" json:"change_pswd"`
	Blocked    bool      `gorm:"not null;default:false" json:"blocked"`
	Deleted    bool      `gorm:"not null;default:false" json:"deleted"`
	Attempt    int       `gorm:"not null;default:0" json:"attempt"`
	Role       Role      `gorm:"size:32;not null" json:"role"`
	Region     Region    `gorm:"size:255" json:"region"`
	Created    time.Time `gorm:"autoCreateTime" json:"created"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}
