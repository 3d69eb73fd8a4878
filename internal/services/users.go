// users.go
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

	"github.com/localnerve/dossierdb/internal/database"
	"github.com/localnerve/dossierdb/internal/models"
	"github.com/localnerve/dossierdb/internal/schemas"
	"github.com/localnerve/dossierdb/internal/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// User administration actions.
const (
	ActionDrop   = "drop"
	ActionBlock  = "block"
	ActionDelete = "delete"
)

var latinLogin = regexp.MustCompile(`^[A-Za-z_]+$`)

// Users is the admin-only user management service.
type Users struct {
	db              *gorm.DB
	defaultPassword string
	log             *zap.Logger
}

// NewUsers creates the user management service.
func NewUsers(db *gorm.DB, defaultPassword string, log *zap.Logger) *Users {
	return &Users{db: db, defaultPassword: defaultPassword, log: log}
}

// List returns users newest first. Search text longer than two characters filters
// usernames when it is latin letters and underscores, full names otherwise.
func (u *Users) List(ctx context.Context, search string) ([]models.User, error) {
	q := silent(u.db.WithContext(ctx)).Order("id DESC")

	search = strings.TrimSpace(search)
	if utf8.RuneCountInString(search) > 2 {
		if latinLogin.MatchString(search) {
			q = q.Where("username LIKE ?", "%"+strings.ToLower(search)+"%")
		} else {
			q = q.Where("fullname LIKE ?", "%"+search+"%")
		}
	}

	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Get returns one user.
func (u *Users) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := silent(u.db.WithContext(ctx)).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("user", id)
		}
		return nil, err
	}
	return &user, nil
}

// Create adds a guest in the head office with the default password, to be changed at first login.
func (u *Users) Create(ctx context.Context, actor Actor, fields map[string]any) (*models.User, error) {
	var input schemas.NewUser
	if err := schemas.Decode(ctx, fields, &input); err != nil {
		return nil, err
	}

	hash, err := HashPassword(u.defaultPassword)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Fullname:   input.Fullname,
		Username:   input.Username,
		Passhash:   hash,
		PswdCreate: time.Now(),
		ChangePswd: true,
		Role:       models.RoleGuest,
		Region:     models.RegionMain,
	}
	if err := silent(u.db.WithContext(ctx)).Create(user).Error; err != nil {
		if database.IsDuplicate(err) {
			return nil, fmt.Errorf("%w: username %q is taken", types.ErrConflict, input.Username)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	u.log.Info("user created", zap.String("username", user.Username), zap.String("actor", actor.Username))
	return user, nil
}

// Act applies drop, block or delete to a user other than the actor. block and
// delete toggle; drop resets the password to the default and unblocks.
func (u *Users) Act(ctx context.Context, actor Actor, id uint, action string) (*models.User, error) {
	if id == actor.ID {
		return nil, types.ErrSelfAction
	}
	user, err := u.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var updates map[string]any
	switch action {
	case ActionDrop:
		hash, err := HashPassword(u.defaultPassword)
		if err != nil {
			return nil, err
		}
		updates = map[string]any{
			"passhash":    hash,
			"pswd_create": time.Now(),
			"change_pswd": true,
			"blocked":     false,
			"attempt":     0,
		}
	case ActionBlock:
		updates = map[string]any{"blocked": !user.Blocked}
	case ActionDelete:
		updates = map[string]any{"deleted": !user.Deleted}
	default:
		return nil, types.NewValidationError("action", "must be drop, block or delete")
	}

	if err := silent(u.db.WithContext(ctx)).Model(user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("%s user %d: %w", action, id, err)
	}
	u.log.Info("user action", zap.String("action", action), zap.Uint("user_id", id), zap.String("actor", actor.Username))
	return u.Get(ctx, id)
}

// SetAccess changes the role and/or region of a user other than the actor.
func (u *Users) SetAccess(ctx context.Context, actor Actor, id uint, fields map[string]any) (*models.User, error) {
	if id == actor.ID {
		return nil, types.ErrSelfAction
	}
	var input schemas.UserAccess
	if err := schemas.Decode(ctx, fields, &input); err != nil {
		return nil, err
	}
	user, err := u.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Role != "" {
		updates["role"] = input.Role
	}
	if input.Region != "" {
		updates["region"] = input.Region
	}
	if len(updates) == 0 {
		return user, nil
	}
	if err := silent(u.db.WithContext(ctx)).Model(user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}
	return u.Get(ctx, id)
}
