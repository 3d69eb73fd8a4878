// dossiers.go
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
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/dossierdb/internal/models"
	"github.com/localnerve/dossierdb/internal/registry"
	"github.com/localnerve/dossierdb/internal/services"
	"github.com/localnerve/dossierdb/internal/types"
	"github.com/localnerve/dossierdb/internal/utils"
)

// DossierHandler handles browsing, resume intake and the generic item routes
type DossierHandler struct {
	Dossiers *services.Dossiers
}

// Index handles GET /, GET /index/:page and POST /index/:page
// @Summary Dossier index
// @Description Persons newest first, 12 per page, limited to the caller's region outside the head office
// @Tags Dossiers
// @Produce json
// @Param page path int false "Page number"
// @Param search query string false "INN digits, or surname firstname patronymic [dd.mm.yyyy]"
// @Success 200 {object} services.PersonPage
// @Failure 401 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /index/{page} [get]
func (h *DossierHandler) Index(c *fiber.Ctx) error {
	page := 1
	if raw := c.Params("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return respondError(c, types.NewValidationError("page", "must be a positive integer"))
		}
		page = n
	}

	search := c.Query("search")
	if c.Method() == fiber.MethodPost {
		fields, err := readFields(c)
		if err != nil {
			return respondError(c, err)
		}
		search = fieldString(fields, "search")
	}

	result, err := h.Dossiers.SearchPersons(c.UserContext(), actor(c), search, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// Profile handles GET /profile/:person_id
// @Summary Full dossier
// @Description The person and every child kind. ?standing=1 toggles the caller's claim first (user role).
// @Tags Dossiers
// @Produce json
// @Param person_id path int true "Person ID"
// @Param standing query int false "1 to toggle isbusy"
// @Success 200 {object} services.Profile
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /profile/{person_id} [get]
func (h *DossierHandler) Profile(c *fiber.Ctx) error {
	personID, err := paramID(c, "person_id")
	if err != nil {
		return respondError(c, err)
	}

	a := actor(c)
	if c.Query("standing") == "1" {
		if !a.HasRole(models.RoleUser) {
			return utils.ErrorResponse(c, "Only users may claim dossiers", fiber.StatusForbidden, "auth.role")
		}
		if _, err := h.Dossiers.ToggleStanding(c.UserContext(), a, personID); err != nil {
			return respondError(c, err)
		}
	}

	profile, err := h.Dossiers.Profile(c.UserContext(), a, personID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// ResumeForm handles GET /resume
// @Summary Resume form
// @Tags Dossiers
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security CookieAuth
// @Router /resume [get]
func (h *DossierHandler) ResumeForm(c *fiber.Ctx) error {
	entry, err := registry.Lookup(string(registry.Persons))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"form": entry.Form, "regions": models.Regions})
}

// TakeResume handles POST /resume
// @Summary Submit a resume
// @Description Creates the person, or reuses a person with the same names and birthday and claims it
// @Tags Dossiers
// @Accept json
// @Produce json
// @Param resume body schemas.Person true "Resume"
// @Success 200 {object} services.ResumeResult
// @Success 201 {object} services.ResumeResult
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /resume [post]
func (h *DossierHandler) TakeResume(c *fiber.Ctx) error {
	fields, err := readFields(c)
	if err != nil {
		return respondError(c, err)
	}
	result, err := h.Dossiers.TakeResume(c.UserContext(), actor(c), fields)
	if err != nil {
		return respondError(c, err)
	}
	status := fiber.StatusOK
	if result.Created {
		status = fiber.StatusCreated
	}
	return utils.SuccessResponse(c, result, status)
}

// ChangeRegion handles POST /region/:person_id
// @Summary Move a person to another region
// @Description Moves the dossier directory along with the record
// @Tags Dossiers
// @Accept json
// @Produce json
// @Param person_id path int true "Person ID"
// @Param region body object true "{\"region\": \"РЦ Юг\"}"
// @Success 200 {object} models.Person
// @Failure 400 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /region/{person_id} [post]
func (h *DossierHandler) ChangeRegion(c *fiber.Ctx) error {
	personID, err := paramID(c, "person_id")
	if err != nil {
		return respondError(c, err)
	}
	fields, err := readFields(c)
	if err != nil {
		return respondError(c, err)
	}
	person, err := h.Dossiers.ChangeRegion(c.UserContext(), actor(c), personID, fieldString(fields, "region"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(person)
}

// GetItem handles GET /:kind/:action/:item_id
// @Summary Read records of a kind
// @Description action "list" returns the records of person item_id; action "form" returns record item_id with its form partial
// @Tags Items
// @Produce json
// @Param kind path string true "Entity kind"
// @Param action path string true "list or form"
// @Param item_id path int true "Person ID for list, record ID for form"
// @Success 200 {object} services.Listing
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /{kind}/{action}/{item_id} [get]
func (h *DossierHandler) GetItem(c *fiber.Ctx) error {
	id, err := paramID(c, "item_id")
	if err != nil {
		return respondError(c, err)
	}
	kind := c.Params("kind")

	switch c.Params("action") {
	case "list":
		listing, err := h.Dossiers.ListByPerson(c.UserContext(), actor(c), kind, id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(listing)
	case "form":
		item, form, err := h.Dossiers.GetItem(c.UserContext(), actor(c), kind, id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"form": form, "item": item})
	}
	return utils.ErrorResponse(c, "Unknown item action", fiber.StatusNotFound, "action")
}

// PostItem handles POST /:kind/:item_id
// @Summary Create or update a record
// @Description Writes a record of kind for person item_id; an "id" field updates that record in place
// @Tags Items
// @Accept json
// @Produce json
// @Param kind path string true "Entity kind"
// @Param item_id path int true "Person ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /{kind}/{item_id} [post]
func (h *DossierHandler) PostItem(c *fiber.Ctx) error {
	personID, err := paramID(c, "item_id")
	if err != nil {
		return respondError(c, err)
	}
	fields, err := readFields(c)
	if err != nil {
		return respondError(c, err)
	}
	rec, err := h.Dossiers.Upsert(c.UserContext(), actor(c), c.Params("kind"), personID, fields)
	if err != nil {
		return respondError(c, err)
	}
	return utils.MutationSuccessResponse(c, rec.GetID(), rec)
}

// DeleteItem handles GET /delete/:kind/:item_id
// @Summary Delete a record
// @Description Deleting a person (admin only) deletes every record it owns
// @Tags Items
// @Produce json
// @Param kind path string true "Entity kind"
// @Param item_id path int true "Record ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /delete/{kind}/{item_id} [get]
func (h *DossierHandler) DeleteItem(c *fiber.Ctx) error {
	id, err := paramID(c, "item_id")
	if err != nil {
		return respondError(c, err)
	}
	personID, err := h.Dossiers.Delete(c.UserContext(), actor(c), c.Params("kind"), id)
	if err != nil {
		return respondError(c, err)
	}
	return utils.MutationSuccessResponse(c, id, fiber.Map{"person_id": personID})
}
