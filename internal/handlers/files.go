// files.go
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
	"fmt"
	"io"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/dossierdb/data"
	"github.com/localnerve/dossierdb/internal/services"
	"github.com/localnerve/dossierdb/internal/types"
	"github.com/localnerve/dossierdb/internal/utils"
)

// MaxAnketaSize bounds an uploaded questionnaire.
const MaxAnketaSize = 10 << 20

// FileHandler handles uploads into dossier directories
type FileHandler struct {
	Dossiers *services.Dossiers
}

// Upload handles POST /file/:kind/:person_id
// @Summary Upload files into a dossier
// @Description Files come in the multipart field "{kind}-file-{person_id}". kind "image" replaces the photo, kind "anketa" imports a questionnaire, any entity kind stores files under the dossier directory.
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Param kind path string true "image, anketa or an entity kind"
// @Param person_id path int true "Person ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Success 201 {object} services.ImportResult
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 422 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /file/{kind}/{person_id} [post]
func (h *FileHandler) Upload(c *fiber.Ctx) error {
	personID, err := paramID(c, "person_id")
	if err != nil {
		return respondError(c, err)
	}
	kind := c.Params("kind")

	form, err := c.MultipartForm()
	if err != nil {
		return respondError(c, types.NewValidationError("file", "malformed multipart form"))
	}
	field := fmt.Sprintf("%s-file-%d", kind, personID)
	files := form.File[field]
	if len(files) == 0 {
		return respondError(c, types.NewValidationError(field, "is required"))
	}

	ctx := c.UserContext()
	switch kind {
	case services.UploadImage:
		path, err := h.Dossiers.SaveImage(ctx, actor(c), personID, files[0])
		if err != nil {
			return respondError(c, err)
		}
		return utils.MutationSuccessResponse(c, personID, fiber.Map{"path": path})

	case services.UploadAnketa:
		if files[0].Size > MaxAnketaSize {
			return respondError(c, types.NewValidationError(field, "is too large"))
		}
		src, err := files[0].Open()
		if err != nil {
			return err
		}
		raw, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return err
		}
		result, err := h.Dossiers.Import(ctx, actor(c), raw)
		if err != nil {
			return respondError(c, err)
		}
		status := fiber.StatusOK
		if result.Created {
			status = fiber.StatusCreated
		}
		return utils.SuccessResponse(c, result, status)
	}

	stored, err := h.Dossiers.SaveFiles(ctx, actor(c), kind, personID, files)
	if err != nil {
		return respondError(c, err)
	}
	return utils.MutationSuccessResponse(c, personID, fiber.Map{"files": stored})
}

// Photo handles GET /image/:person_id
// @Summary Dossier photo
// @Description The stored photo, or a placeholder when the person has none
// @Tags Files
// @Produce image/jpeg,image/png
// @Param person_id path int true "Person ID"
// @Success 200 {file} binary
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /image/{person_id} [get]
func (h *FileHandler) Photo(c *fiber.Ctx) error {
	personID, err := paramID(c, "person_id")
	if err != nil {
		return respondError(c, err)
	}
	path, err := h.Dossiers.PhotoPath(c.UserContext(), actor(c), personID)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderCacheControl, "no-store")
	if path == "" {
		c.Type("png")
		return c.Send(data.NoPhoto)
	}
	c.Type(filepath.Ext(path))
	return c.SendFile(path)
}
