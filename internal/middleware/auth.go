// auth.go
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

package middleware

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/localnerve/dossierdb/internal/models"
	"github.com/localnerve/dossierdb/internal/services"
	"github.com/localnerve/dossierdb/internal/types"
	"gorm.io/gorm"
)

const (
	// SessionUserKey holds the user id in the session.
	SessionUserKey = "uid"
	actorKey       = "actor"
)

// Authenticate resolves the session user on every request and stores the actor
// in Locals. Sessions of blocked, deleted or vanished users are destroyed.
func Authenticate(store *session.Store, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			return fmt.Errorf("load session: %w", err)
		}

		uid, ok := sess.Get(SessionUserKey).(uint)
		if !ok || uid == 0 {
			return c.Next()
		}

		var user models.User
		err = db.WithContext(c.UserContext()).First(&user, uid).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && (user.Blocked || user.Deleted)):
			if err := sess.Destroy(); err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			c.Locals(actorKey, services.ActorFromUser(&user))
		}
		return c.Next()
	}
}

// ActorFrom returns the authenticated actor of the request.
func ActorFrom(c *fiber.Ctx) (services.Actor, bool) {
	actor, ok := c.Locals(actorKey).(services.Actor)
	return actor, ok
}

// RequireLogin rejects unauthenticated requests.
func RequireLogin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := ActorFrom(c); !ok {
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: "Login required",
				Type:    "auth.login",
			}
		}
		return c.Next()
	}
}

// RequireRoles rejects actors outside roles.
func RequireRoles(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := ActorFrom(c)
		if !ok {
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: "Login required",
				Type:    "auth.login",
			}
		}
		if !actor.HasRole(roles...) {
			return &types.CustomError{
				Code:    fiber.StatusForbidden,
				Message: fmt.Sprintf("Role %q may not access this resource", actor.Role),
				Type:    "auth.role",
			}
		}
		return c.Next()
	}
}
