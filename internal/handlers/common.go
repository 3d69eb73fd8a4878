// common.go
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
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/dossierdb/internal/middleware"
	"github.com/localnerve/dossierdb/internal/services"
	"github.com/localnerve/dossierdb/internal/types"
	"github.com/localnerve/dossierdb/internal/utils"
)

// readFields collects the submitted fields from a JSON, urlencoded or multipart body.
func readFields(c *fiber.Ctx) (map[string]any, error) {
	fields := map[string]any{}

	switch {
	case strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON):
		if len(c.Body()) == 0 {
			return fields, nil
		}
		if err := json.Unmarshal(c.Body(), &fields); err != nil {
			return nil, types.NewValidationError("body", "must be a JSON object")
		}

	case strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm):
		form, err := c.MultipartForm()
		if err != nil {
			return nil, types.NewValidationError("body", "malformed multipart form")
		}
		for key, values := range form.Value {
			if len(values) > 0 {
				fields[key] = values[0]
			}
		}

	default:
		c.Request().PostArgs().VisitAll(func(key, value []byte) {
			fields[string(key)] = string(value)
		})
	}

	return fields, nil
}

// fieldString reads one field of a submitted field map as a trimmed string.
func fieldString(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return strings.TrimSpace(s)
}

// paramID parses a positive integer route parameter.
func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, types.NewValidationError(name, "must be a positive integer")
	}
	return uint(id), nil
}

// actor returns the request actor; routes using it sit behind RequireLogin.
func actor(c *fiber.Ctx) services.Actor {
	a, _ := middleware.ActorFrom(c)
	return a
}

// respondError maps service errors onto the error envelope.
func respondError(c *fiber.Ctx, err error) error {
	var verr *types.ValidationError
	if errors.As(err, &verr) {
		return utils.ValidationErrorResponse(c, verr.Fields)
	}

	var cerr *types.CustomError
	if errors.As(err, &cerr) {
		return utils.ErrorResponse(c, cerr.Message, cerr.Code, cerr.Type)
	}

	switch {
	case errors.Is(err, types.ErrSelfAction):
		return c.SendStatus(fiber.StatusResetContent)
	case errors.Is(err, types.ErrUnknownEntityKind):
		return utils.ErrorResponse(c, err.Error(), fiber.StatusNotFound, "kind")
	case errors.Is(err, types.ErrNotFound):
		return utils.ErrorResponse(c, err.Error(), fiber.StatusNotFound, "notFound")
	case errors.Is(err, types.ErrUnauthorized), errors.Is(err, types.ErrInvalidCredentials):
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "auth.credentials")
	case errors.Is(err, types.ErrUserBlocked):
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "auth.blocked")
	case errors.Is(err, types.ErrPasswordExpired):
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "auth.password")
	case errors.Is(err, types.ErrForbidden):
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "forbidden")
	case errors.Is(err, types.ErrWeakPassword), errors.Is(err, types.ErrPasswordReuse):
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "auth.password")
	case errors.Is(err, types.ErrDuplicateClaim):
		return utils.ErrorResponse(c, err.Error(), fiber.StatusConflict, "duplicateClaim")
	case errors.Is(err, types.ErrConflict):
		return utils.ErrorResponse(c, err.Error(), fiber.StatusConflict, "conflict")
	case errors.Is(err, types.ErrInvalidQuestionnaire):
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnprocessableEntity, "questionnaire")
	}

	return err
}
