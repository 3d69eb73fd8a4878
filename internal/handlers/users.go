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

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/dossierdb/internal/services"
	"github.com/localnerve/dossierdb/internal/utils"
)

// UserHandler handles the admin user management routes
type UserHandler struct {
	Users *services.Users
}

// ListUsers handles GET and POST /users
// @Summary List users
// @Description Newest first; search over two characters filters usernames (latin) or full names
// @Tags Users
// @Produce json
// @Param search query string false "Search text"
// @Success 200 {array} models.User
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /users [get]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	search := c.Query("search")
	if c.Method() == fiber.MethodPost {
		fields, err := readFields(c)
		if err != nil {
			return respondError(c, err)
		}
		search = fieldString(fields, "search")
	}

	users, err := h.Users.List(c.UserContext(), search)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

// CreateUser handles POST /user
// @Summary Create a user
// @Description New users are guests in the head office with the default password
// @Tags Users
// @Accept json
// @Produce json
// @Param user body schemas.NewUser true "User"
// @Success 201 {object} models.User
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /user [post]
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	fields, err := readFields(c)
	if err != nil {
		return respondError(c, err)
	}
	user, err := h.Users.Create(c.UserContext(), actor(c), fields)
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, user, fiber.StatusCreated)
}

// GetUser handles GET /user/:id
// @Summary Get a user or apply an action
// @Description With ?action=drop|block|delete the action is applied first. Acting on yourself answers 205.
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Param action query string false "drop, block or delete"
// @Success 200 {object} models.User
// @Success 205
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /user/{id} [get]
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if action := c.Query("action"); action != "" {
		user, err := h.Users.Act(c.UserContext(), actor(c), id, action)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(user)
	}

	user, err := h.Users.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// UpdateUser handles POST /user/:id
// @Summary Change role or region
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param access body schemas.UserAccess true "Role and/or region"
// @Success 200 {object} models.User
// @Success 205
// @Failure 400 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /user/{id} [post]
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	fields, err := readFields(c)
	if err != nil {
		return respondError(c, err)
	}

	if action := fieldString(fields, "action"); action != "" {
		user, err := h.Users.Act(c.UserContext(), actor(c), id, action)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(user)
	}

	user, err := h.Users.SetAccess(c.UserContext(), actor(c), id, fields)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}
