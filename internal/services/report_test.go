package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/localnerve/dossierdb/internal/models"
	"github.com/localnerve/dossierdb/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReportStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reports := NewReports(f.db)
	reports.now = func() time.Time { return time.Date(2026, time.March, 15, 12, 0, 0, 0, time.Local) }

	head := f.person(t, "ИВАНОВ", models.RegionMain)
	south := f.person(t, "ПЕТРОВ", models.RegionSouth)
	add := func(p *models.Person, conclusion string, created time.Time) {
		c := &models.Check{Conclusion: &conclusion}
		c.SetOwner(p.ID, f.user.ID)
		require.NoError(t, f.db.Create(c).Error)
		require.NoError(t, f.db.Model(c).UpdateColumn("created", created).Error)
	}
	inWindow := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.Local)
	add(head, models.ConclusionAgreed, inWindow)
	add(head, models.ConclusionAgreed, inWindow)
	add(head, models.ConclusionDenied, inWindow)
	add(south, models.ConclusionAgreed, inWindow)
	add(south, models.ConclusionComments, time.Date(2025, time.December, 1, 0, 0, 0, 0, time.Local))

	all, err := reports.Stats(ctx, f.admin, ReportQuery{})
	require.NoError(t, err)
	assert.Equal(t, "2026-02-13", all.From.String())
	assert.Equal(t, "2026-03-15", all.To.String())
	assert.Equal(t, int64(4), all.Total)
	assert.Equal(t, []ConclusionCount{
		{Conclusion: models.ConclusionDenied, Count: 1},
		{Conclusion: models.ConclusionAgreed, Count: 3},
	}, all.Rows)

	southOnly, err := reports.Stats(ctx, f.admin, ReportQuery{Region: models.RegionSouth})
	require.NoError(t, err)
	assert.Equal(t, int64(1), southOnly.Total)

	// regional actors are pinned to their region whatever they ask for
	pinned, err := reports.Stats(ctx, f.regional, ReportQuery{
		From:   types.NewDate(2025, time.January, 1),
		Region: models.RegionMain,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RegionSouth, pinned.Region)
	assert.Equal(t, int64(2), pinned.Total)

	_, err = reports.Stats(ctx, f.admin, ReportQuery{
		From: types.NewDate(2026, time.March, 2),
		To:   types.NewDate(2026, time.March, 1),
	})
	var verr *types.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestReportWorkbook(t *testing.T) {
	rep := &Report{
		From:  types.NewDate(2026, time.March, 1),
		To:    types.NewDate(2026, time.March, 31),
		Rows:  []ConclusionCount{{Conclusion: models.ConclusionAgreed, Count: 3}, {Conclusion: models.ConclusionDenied, Count: 1}},
		Total: 4,
	}

	book, err := rep.Workbook()
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(book))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{reportSheet}, f.GetSheetList())
	rows, err := f.GetRows(reportSheet)
	require.NoError(t, err)

	var found bool
	for _, row := range rows {
		if len(row) >= 2 && row[0] == models.ConclusionAgreed {
			found = true
			assert.Equal(t, "3", row[1])
		}
	}
	assert.True(t, found)
}
