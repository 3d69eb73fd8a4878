// information.go
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

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/dossierdb/internal/models"
	"github.com/localnerve/dossierdb/internal/services"
	"github.com/localnerve/dossierdb/internal/types"
)

// InformationHandler serves the check statistics
type InformationHandler struct {
	Reports *services.Reports
}

func reportQuery(c *fiber.Ctx) (services.ReportQuery, error) {
	var q services.ReportQuery

	fields := map[string]any{
		"from":   c.Query("from"),
		"to":     c.Query("to"),
		"region": c.Query("region"),
	}
	if c.Method() == fiber.MethodPost {
		posted, err := readFields(c)
		if err != nil {
			return q, err
		}
		fields = posted
	}

	for name, target := range map[string]*types.Date{"from": &q.From, "to": &q.To} {
		raw := fieldString(fields, name)
		if raw == "" {
			continue
		}
		d, err := types.ParseDate(raw)
		if err != nil {
			return q, types.NewValidationError(name, "must be a date in YYYY-MM-DD format")
		}
		*target = d
	}
	q.Region = models.Region(fieldString(fields, "region"))
	return q, nil
}

// Information handles GET and POST /information
// @Summary Check statistics
// @Description Checks grouped by conclusion over a date window, defaulting to the last 30 days
// @Tags Information
// @Produce json
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD"
// @Param region query string false "Region, head office only"
// @Success 200 {object} services.Report
// @Failure 400 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /information [get]
func (h *InformationHandler) Information(c *fiber.Ctx) error {
	q, err := reportQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	report, err := h.Reports.Stats(c.UserContext(), actor(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// Export handles GET /information/export
// @Summary Check statistics workbook
// @Tags Information
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD"
// @Param region query string false "Region, head office only"
// @Success 200 {file} binary
// @Security CookieAuth
// @Router /information/export [get]
func (h *InformationHandler) Export(c *fiber.Ctx) error {
	q, err := reportQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	report, err := h.Reports.Stats(c.UserContext(), actor(c), q)
	if err != nil {
		return respondError(c, err)
	}
	book, err := report.Workbook()
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="checks-%s-%s.xlsx"`, report.From, report.To))
	return c.Send(book)
}
