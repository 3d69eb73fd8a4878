// db.go
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

// Package testutil holds fixtures shared by the package tests.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/localnerve/dossierdb/internal/config"
	"github.com/localnerve/dossierdb/internal/database"
	"github.com/localnerve/dossierdb/internal/models"
	"github.com/localnerve/dossierdb/internal/types"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Password is the password of every fixture user.
const Password = "Secret123"

// NewDB opens a migrated SQLite database in a temp directory.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	cfg := &config.Config{
		DBType:            "sqlite",
		DBDatabase:        filepath.Join(t.TempDir(), "dossier.db"),
		DBConnectionLimit: 1,
	}
	db, err := database.Connect(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

// CreateUser stores an active user with Password and a fresh password date.
func CreateUser(t testing.TB, db *gorm.DB, username string, role models.Role, region models.Region) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	user := &models.User{
		Fullname:   "Test " + username,
		Username:   username,
		Passhash:   string(hash),
		PswdCreate: time.Now(),
		Role:       role,
		Region:     region,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return user
}

// CreatePerson stores a person in region owned by owner, or unowned when owner is nil.
func CreatePerson(t testing.TB, db *gorm.DB, surname, firstname string, region models.Region, owner *models.User) *models.Person {
	t.Helper()
	p := &models.Person{
		Surname:   surname,
		Firstname: firstname,
		Birthday:  types.NewDate(1990, time.March, 14),
		Region:    region,
	}
	if owner != nil {
		p.UserID = &owner.ID
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("Failed to create person %s: %v", surname, err)
	}
	return p
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
