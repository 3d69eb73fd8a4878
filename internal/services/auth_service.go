// auth_service.go
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
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/localnerve/dossierdb/internal/metrics"
	"github.com/localnerve/dossierdb/internal/models"
	"github.com/localnerve/dossierdb/internal/types"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	// MaxAttempts failed logins block a user until an admin resets it.
	MaxAttempts = 5
	// PasswordLifetime is how long a password stays valid.
	PasswordLifetime = 365 * 24 * time.Hour
	// SuperAdmin is the account seeded into an empty users table.
	SuperAdmin = "superadmin"
)

// Auth authenticates users and manages their passwords.
type Auth struct {
	db              *gorm.DB
	defaultPassword string
	log             *zap.Logger
	now             func() time.Time
}

// NewAuth creates the auth service.
func NewAuth(db *gorm.DB, defaultPassword string, log *zap.Logger) *Auth {
	return &Auth{db: db, defaultPassword: defaultPassword, log: log, now: time.Now}
}

// HashPassword hashes a password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// ValidatePassword checks the complexity rule: 8 to 16 characters with at least
// one lower-case letter, one upper-case letter and one digit.
func ValidatePassword(password string) error {
	if n := utf8.RuneCountInString(password); n < 8 || n > 16 {
		return types.ErrWeakPassword
	}
	var lower, upper, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !lower || !upper || !digit {
		return types.ErrWeakPassword
	}
	return nil
}

// Login verifies credentials. Every failure counts toward MaxAttempts; a blocked
// user is rejected even with the right password. A correct password that must be
// changed yields ErrPasswordExpired.
func (a *Auth) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := a.verify(a.db.WithContext(ctx), username, password)
	if err == nil && (user.ChangePswd || a.now().Sub(user.PswdCreate) > PasswordLifetime) {
		err = types.ErrPasswordExpired
	}

	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, types.ErrPasswordExpired):
		outcome = "expired"
	case errors.Is(err, types.ErrUserBlocked):
		outcome = "blocked"
	case errors.Is(err, types.ErrInvalidCredentials):
		outcome = "invalid"
	default:
		outcome = "error"
	}
	metrics.Logins.WithLabelValues(outcome).Inc()

	if err != nil && !errors.Is(err, types.ErrPasswordExpired) {
		return nil, err
	}
	return user, err
}

// ChangePassword replaces the password after verifying the current one.
func (a *Auth) ChangePassword(ctx context.Context, username, password, newPassword string) error {
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	db := a.db.WithContext(ctx)
	user, err := a.verify(db, username, password)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Passhash), []byte(newPassword)) == nil {
		return types.ErrPasswordReuse
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := silent(db).Model(user).Updates(map[string]any{
		"passhash":    hash,
		"pswd_create": a.now(),
		"change_pswd": false,
		"attempt":     0,
	}).Error; err != nil {
		return fmt.Errorf("change password of %s: %w", username, err)
	}
	a.log.Info("password changed", zap.String("username", user.Username))
	return nil
}

// verify checks the password, maintaining the failed attempt counter.
func (a *Auth) verify(db *gorm.DB, username, password string) (*models.User, error) {
	var user models.User
	err := silent(db).Where("username = ? AND deleted = ?", username, false).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrInvalidCredentials
		}
		return nil, err
	}
	if user.Blocked {
		return nil, types.ErrUserBlocked
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Passhash), []byte(password)) != nil {
		user.Attempt++
		updates := map[string]any{"attempt": user.Attempt}
		if user.Attempt >= MaxAttempts {
			updates["blocked"] = true
		}
		if err := silent(db).Model(&user).Updates(updates).Error; err != nil {
			return nil, err
		}
		if user.Attempt >= MaxAttempts {
			metrics.Lockouts.Inc()
			a.log.Warn("user blocked after failed logins", zap.String("username", username))
			return nil, types.ErrUserBlocked
		}
		return nil, types.ErrInvalidCredentials
	}

	if user.Attempt != 0 {
		user.Attempt = 0
		if err := silent(db).Model(&user).Update("attempt", 0).Error; err != nil {
			return nil, err
		}
	}
	return &user, nil
}

// SeedAdmin creates the superadmin account when the users table is empty.
func (a *Auth) SeedAdmin(ctx context.Context) error {
	db := a.db.WithContext(ctx)
	var count int64
	if err := silent(db).Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := HashPassword(a.defaultPassword)
	if err != nil {
		return err
	}
	admin := &models.User{
		Fullname:   "Администратор",
		Username:   SuperAdmin,
		Passhash:   hash,
		PswdCreate: a.now(),
		ChangePswd: true,
		Role:       models.RoleAdmin,
		Region:     models.RegionMain,
	}
	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("seed %s: %w", SuperAdmin, err)
	}
	a.log.Info("seeded admin account", zap.String("username", SuperAdmin))
	return nil
}
