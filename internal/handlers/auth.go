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

package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/localnerve/dossierdb/internal/middleware"
	"github.com/localnerve/dossierdb/internal/schemas"
	"github.com/localnerve/dossierdb/internal/services"
	"github.com/localnerve/dossierdb/internal/types"
	"github.com/localnerve/dossierdb/internal/utils"
	"go.uber.org/zap"
)

// AuthHandler handles login, logout and password changes
type AuthHandler struct {
	Auth     *services.Auth
	Sessions *session.Store
	Log      *zap.Logger
}

// AuthState is the body of GET /auth
type AuthState struct {
	Authenticated bool            `json:"authenticated"`
	User          *services.Actor `json:"user,omitempty"`
}

// GetAuth handles GET /auth
// @Summary Current session
// @Description Report whether the session is authenticated and as whom
// @Tags Auth
// @Produce json
// @Success 200 {object} AuthState
// @Router /auth [get]
func (h *AuthHandler) GetAuth(c *fiber.Ctx) error {
	if a, ok := middleware.ActorFrom(c); ok {
		return c.JSON(AuthState{Authenticated: true, User: &a})
	}
	return c.JSON(AuthState{})
}

// PostAuth handles POST /auth/:action
// @Summary Log in or change password
// @Description action "login" opens a session; action "password" replaces the password (new_password)
// @Tags Auth
// @Accept json
// @Produce json
// @Param action path string true "login or password"
// @Param credentials body schemas.Credentials true "Credentials"
// @Success 200 {object} AuthState
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /auth/{action} [post]
func (h *AuthHandler) PostAuth(c *fiber.Ctx) error {
	fields, err := readFields(c)
	if err != nil {
		return respondError(c, err)
	}
	var creds schemas.Credentials
	if err := schemas.Decode(c.UserContext(), fields, &creds); err != nil {
		return respondError(c, err)
	}

	switch c.Params("action") {
	case "login":
		return h.login(c, creds)
	case "password":
		if err := h.Auth.ChangePassword(c.UserContext(), creds.Username, creds.Password, creds.NewPassword); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"ok": true, "message": "Password changed, log in with the new password"})
	}
	return utils.ErrorResponse(c, "Unknown auth action", fiber.StatusNotFound, "auth.action")
}

func (h *AuthHandler) login(c *fiber.Ctx, creds schemas.Credentials) error {
	user, err := h.Auth.Login(c.UserContext(), creds.Username, creds.Password)
	if err != nil {
		if !errors.Is(err, types.ErrPasswordExpired) {
			h.Log.Info("login rejected", zap.String("username", creds.Username), zap.Error(err))
		}
		return respondError(c, err)
	}

	sess, err := h.Sessions.Get(c)
	if err != nil {
		return err
	}
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(middleware.SessionUserKey, user.ID)
	if err := sess.Save(); err != nil {
		return err
	}

	a := services.ActorFromUser(user)
	h.Log.Info("login", zap.String("username", user.Username))
	return c.JSON(AuthState{Authenticated: true, User: &a})
}

// Logout handles GET /logout
// @Summary Log out
// @Tags Auth
// @Success 204
// @Router /logout [get]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sess, err := h.Sessions.Get(c)
	if err != nil {
		return err
	}
	if err := sess.Destroy(); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
