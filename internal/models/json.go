// json.go
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
	"database/sql/driver"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// JSON wraps datatypes.JSON so the column type can be chosen per dialect.
type JSON struct {
	datatypes.JSON
}

// NewJSON copies raw into a JSON column value.
func NewJSON(raw []byte) JSON {
	return JSON{JSON: datatypes.JSON(append([]byte(nil), raw...))}
}

// Value promotes the embedded JSON's Value method
func (j JSON) Value() (driver.Value, error) {
	if len(j.JSON) == 0 {
		return nil, nil
	}
	return j.JSON.Value()
}

// Scan promotes the embedded JSON's Scan method
func (j *JSON) Scan(value interface{}) error {
	return j.JSON.Scan(value)
}

// GormDBDataType picks a JSON-capable column type; MSSQL has none.
func (JSON) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "mysql":
		return "JSON"
	case "postgres":
		return "JSONB"
	case "sqlserver", "mssql":
		return "NVARCHAR(MAX)"
	case "sqlite":
		return "JSON"
	}
	return "TEXT"
}

// ImportLog records one accepted questionnaire with its raw document.
type ImportLog struct {
	ID       uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	BatchID  string    `gorm:"size:36;uniqueIndex;not null" json:"batch_id"`
	PersonID uint      `gorm:"not null;index" json:"person_id"`
	UserID   uint      `gorm:"not null" json:"user_id"`
	Records  int       `gorm:"not null" json:"records"`
	Document JSON      `json:"document"`
	Created  time.Time `gorm:"autoCreateTime" json:"created"`
}

// TableName overrides the table name for ImportLog
func (ImportLog) TableName() string {
	return "import_logs"
}
