// report.go
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
	"fmt"
	"time"

	"github.com/localnerve/dossierdb/internal/models"
	"github.com/localnerve/dossierdb/internal/types"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// DefaultReportDays is the report window when no dates are given.
const DefaultReportDays = 30

// ReportQuery selects the checks to count. Zero dates default to the last
// DefaultReportDays days; an empty region means every region.
type ReportQuery struct {
	From   types.Date
	To     types.Date
	Region models.Region
}

// ConclusionCount is one row of the report.
type ConclusionCount struct {
	Conclusion string `json:"conclusion"`
	Count      int64  `json:"count"`
}

// Report counts checks by conclusion.
type Report struct {
	From   types.Date        `json:"from"`
	To     types.Date        `json:"to"`
	Region models.Region     `json:"region"`
	Rows   []ConclusionCount `json:"rows"`
	Total  int64             `json:"total"`
}

// Reports aggregates check outcomes.
type Reports struct {
	db  *gorm.DB
	now func() time.Time
}

// NewReports creates the report service.
func NewReports(db *gorm.DB) *Reports {
	return &Reports{db: db, now: time.Now}
}

// Stats counts checks created in the query window, grouped by conclusion. Actors
// outside the head office only see their own region.
func (r *Reports) Stats(ctx context.Context, actor Actor, q ReportQuery) (*Report, error) {
	now := r.now()
	if q.To.IsZero() {
		q.To = types.NewDate(now.Year(), now.Month(), now.Day())
	}
	if q.From.IsZero() {
		from := q.To.AddDate(0, 0, -DefaultReportDays)
		q.From = types.NewDate(from.Year(), from.Month(), from.Day())
	}
	if q.From.After(q.To.Time) {
		return nil, types.NewValidationError("from", "must not be after to")
	}
	if !actor.HeadOffice() {
		q.Region = actor.Region
	}
	if q.Region != "" && !models.ValidRegion(string(q.Region)) {
		return nil, types.NewValidationError("region", "is not an allowed region value")
	}

	start := time.Date(q.From.Year(), q.From.Month(), q.From.Day(), 0, 0, 0, 0, time.Local)
	end := time.Date(q.To.Year(), q.To.Month(), q.To.Day(), 0, 0, 0, 0, time.Local).AddDate(0, 0, 1)

	stmt := silent(r.db.WithContext(ctx)).
		Clauses(hints.Comment("select", "check_report")).
		Table("checks").
		Select("checks.conclusion AS conclusion, COUNT(checks.id) AS count").
		Joins("JOIN persons ON persons.id = checks.person_id").
		Where("checks.created >= ? AND checks.created < ?", start, end)
	if q.Region != "" {
		stmt = stmt.Where("persons.region = ?", q.Region)
	}

	var rows []struct {
		Conclusion *string
		Count      int64
	}
	if err := stmt.Group("checks.conclusion").Order("checks.conclusion").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("check report: %w", err)
	}

	out := &Report{From: q.From, To: q.To, Region: q.Region, Rows: make([]ConclusionCount, 0, len(rows))}
	for _, row := range rows {
		c := ConclusionCount{Count: row.Count}
		if row.Conclusion != nil {
			c.Conclusion = *row.Conclusion
		}
		out.Rows = append(out.Rows, c)
		out.Total += row.Count
	}
	return out, nil
}

// reportSheet is the worksheet name of the XLSX export.
const reportSheet = "Проверки"

// Workbook renders the report as an XLSX workbook.
func (rep *Report) Workbook() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(reportSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	region := string(rep.Region)
	if region == "" {
		region = "Все регионы"
	}
	meta := [][]any{
		{"Период", rep.From.String() + " - " + rep.To.String()},
		{"Регион", region},
		{""},
		{"Решение", "Количество"},
	}
	for _, row := range rep.Rows {
		name := row.Conclusion
		if name == "" {
			name = "Без решения"
		}
		meta = append(meta, []any{name, row.Count})
	}
	meta = append(meta, []any{"Итого", rep.Total})

	for i, values := range meta {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(reportSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	if err := f.SetCellStyle(reportSheet, "A4", "B4", headerStyle); err != nil {
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}
	if err := f.SetColWidth(reportSheet, "A", "A", 40); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(reportSheet, "B", "B", 20); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
