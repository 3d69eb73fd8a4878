package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/localnerve/dossierdb/internal/dossier"
	"github.com/localnerve/dossierdb/internal/models"
	"github.com/localnerve/dossierdb/internal/registry"
	"github.com/localnerve/dossierdb/internal/testutil"
	"github.com/localnerve/dossierdb/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func resume(surname, firstname, patronymic, birthday string) map[string]any {
	return map[string]any{
		"surname":    surname,
		"firstname":  firstname,
		"patronymic": patronymic,
		"birthday":   birthday,
	}
}

func TestTakeResumeCreatesClaimedPerson(t *testing.T) {
	f := newFixture(t)

	result, err := f.dossiers.TakeResume(context.Background(), f.regional, resume("Иванов", "Петр", "", "1985-07-01"))
	require.NoError(t, err)
	assert.True(t, result.Created)

	p := result.Person
	assert.Equal(t, "ИВАНОВ", p.Surname)
	assert.Nil(t, p.Patronymic)
	assert.True(t, p.IsBusy)
	require.NotNil(t, p.UserID)
	assert.Equal(t, f.regional.ID, *p.UserID)
	assert.Equal(t, models.RegionSouth, p.Region)
	assert.Nil(t, p.Destination)
}

func TestTakeResumeRejectsPathInName(t *testing.T) {
	f := newFixture(t)

	_, err := f.dossiers.TakeResume(context.Background(), f.user, resume("A/../../../../escaped", "X", "", "1985-07-01"))
	var verr *types.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "surname")

	var count int64
	require.NoError(t, f.db.Model(&models.Person{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestTakeResumeReusesDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.dossiers.TakeResume(ctx, f.user, resume("Иванов", "Петр", "Сергеевич", "1985-07-01"))
	require.NoError(t, err)
	require.NoError(t, f.db.Model(first.Person).Update("isbusy", false).Error)

	second, err := f.dossiers.TakeResume(ctx, f.other, resume("  иванов ", "ПЕТР", "сергеевич", "1985-07-01"))
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Person.ID, second.Person.ID)
	require.NotNil(t, second.Person.UserID)
	assert.Equal(t, f.other.ID, *second.Person.UserID)

	// busy for another user now
	_, err = f.dossiers.TakeResume(ctx, f.user, resume("Иванов", "Петр", "Сергеевич", "1985-07-01"))
	assert.ErrorIs(t, err, types.ErrDuplicateClaim)

	// a different birthday or patronymic is a different person
	third, err := f.dossiers.TakeResume(ctx, f.user, resume("Иванов", "Петр", "", "1985-07-01"))
	require.NoError(t, err)
	assert.True(t, third.Created)

	var count int64
	require.NoError(t, f.db.Model(&models.Person{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestTakeResumeValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.dossiers.TakeResume(context.Background(), f.user, map[string]any{"surname": "Иванов", "birthday": "01.07.1985"})
	var verr *types.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "firstname")
	assert.Contains(t, verr.Fields, "birthday")
}

func TestToggleStanding(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.person(t, "ИВАНОВ", models.RegionMain)

	got, err := f.dossiers.ToggleStanding(ctx, f.user, p.ID)
	require.NoError(t, err)
	assert.True(t, got.IsBusy)
	assert.Equal(t, f.user.ID, *got.UserID)

	_, err = f.dossiers.ToggleStanding(ctx, f.other, p.ID)
	assert.ErrorIs(t, err, types.ErrForbidden)

	got, err = f.dossiers.ToggleStanding(ctx, f.user, p.ID)
	require.NoError(t, err)
	assert.False(t, got.IsBusy)

	var stored models.Person
	require.NoError(t, f.db.First(&stored, p.ID).Error)
	assert.False(t, stored.IsBusy)
}

func TestChangeRegionWithoutDirectory(t *testing.T) {
	f := newFixture(t)
	p := f.person(t, "ИВАНОВ", models.RegionMain)

	got, err := f.dossiers.ChangeRegion(context.Background(), f.user, p.ID, string(models.RegionUral))
	require.NoError(t, err)
	assert.Equal(t, models.RegionUral, got.Region)
	assert.Nil(t, got.Destination)

	_, err = f.dossiers.ChangeRegion(context.Background(), f.user, p.ID, "Марс")
	var verr *types.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestChangeRegionMovesDirectory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.person(t, "ИВАНОВ", models.RegionMain)

	withDir, err := f.dossiers.EnsureDestination(ctx, f.user, p.ID)
	require.NoError(t, err)
	from := *withDir.Destination
	require.NoError(t, os.WriteFile(filepath.Join(from, "note.txt"), []byte("x"), 0o600))

	got, err := f.dossiers.ChangeRegion(ctx, f.user, p.ID, string(models.RegionEast))
	require.NoError(t, err)
	want := f.mapper.PersonPath(p, models.RegionEast)
	assert.Equal(t, want, *got.Destination)
	assert.FileExists(t, filepath.Join(want, "note.txt"))
	assert.NoDirExists(t, from)

	var stored models.Person
	require.NoError(t, f.db.First(&stored, p.ID).Error)
	assert.Equal(t, models.RegionEast, stored.Region)
	assert.Equal(t, want, *stored.Destination)
}

func TestChangeRegionRenameFailureChangesNothing(t *testing.T) {
	f := newFixture(t, dossier.WithRename(func(string, string) error { return errors.New("device busy") }))
	ctx := context.Background()
	p := f.person(t, "ИВАНОВ", models.RegionMain)

	withDir, err := f.dossiers.EnsureDestination(ctx, f.user, p.ID)
	require.NoError(t, err)

	_, err = f.dossiers.ChangeRegion(ctx, f.user, p.ID, string(models.RegionWest))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device busy")

	var stored models.Person
	require.NoError(t, f.db.First(&stored, p.ID).Error)
	assert.Equal(t, models.RegionMain, stored.Region)
	assert.Equal(t, *withDir.Destination, *stored.Destination)
	assert.DirExists(t, *withDir.Destination)
}

func TestChangeRegionDatabaseFailureMovesDirectoryBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.person(t, "ИВАНОВ", models.RegionMain)

	withDir, err := f.dossiers.EnsureDestination(ctx, f.user, p.ID)
	require.NoError(t, err)
	from := *withDir.Destination

	require.NoError(t, f.db.Callback().Update().Before("gorm:update").Register("test:refuse", func(tx *gorm.DB) {
		if tx.Statement.Table == "persons" {
			_ = tx.AddError(errors.New("update refused"))
		}
	}))

	_, err = f.dossiers.ChangeRegion(ctx, f.user, p.ID, string(models.RegionWest))
	require.Error(t, err)
	assert.DirExists(t, from)
	assert.NoDirExists(t, f.mapper.PersonPath(p, models.RegionWest))
}

func TestProfileCollectsEveryKind(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.person(t, "ИВАНОВ", models.RegionMain)
	_, err := f.dossiers.Upsert(ctx, f.user, "checks", p.ID, map[string]any{"conclusion": models.ConclusionAgreed})
	require.NoError(t, err)

	profile, err := f.dossiers.Profile(ctx, f.guest, p.ID)
	require.NoError(t, err)
	require.NotNil(t, profile.Person)
	assert.Len(t, profile.Items, len(registry.ChildKinds()))
	assert.Len(t, profile.Items[registry.Checks].Items, 1)
	assert.Empty(t, profile.Items[registry.Staffs].Items)

	_, err = f.dossiers.Profile(ctx, f.regional, p.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestSearchPersonsPaging(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < PageSize+1; i++ {
		f.person(t, fmt.Sprintf("ФАМИЛИЯ%02d", i), models.RegionMain)
	}
	f.person(t, "ЮЖНЫЙ", models.RegionSouth)

	page, err := f.dossiers.SearchPersons(ctx, f.user, "", 1)
	require.NoError(t, err)
	assert.Len(t, page.Items, PageSize)
	assert.True(t, page.HasNext)
	assert.False(t, page.HasPrev)
	assert.Equal(t, "ЮЖНЫЙ", page.Items[0].Surname)

	page, err = f.dossiers.SearchPersons(ctx, f.user, "", 2)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.False(t, page.HasNext)
	assert.True(t, page.HasPrev)

	regional, err := f.dossiers.SearchPersons(ctx, f.regional, "", 1)
	require.NoError(t, err)
	require.Len(t, regional.Items, 1)
	assert.Equal(t, "ЮЖНЫЙ", regional.Items[0].Surname)
}

func TestSearchPersonsFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ivanov := testutil.CreatePerson(t, f.db, "ИВАНОВ", "ПЕТР", models.RegionMain, nil)
	require.NoError(t, f.db.Model(ivanov).Updates(map[string]any{"inn": "770112345678", "patronymic": "СЕРГЕЕВИЧ", "isbusy": true, "user_id": f.user.ID}).Error)
	petrov := testutil.CreatePerson(t, f.db, "ПЕТРОВ", "ИВАН", models.RegionMain, nil)
	require.NoError(t, f.db.Model(petrov).Update("birthday", types.NewDate(1970, 1, 2)).Error)

	cases := []struct {
		search string
		want   []string
	}{
		{"ab", []string{"ПЕТРОВ", "ИВАНОВ"}},
		{"12345", []string{"ИВАНОВ"}},
		{"иван", []string{"ИВАНОВ"}},
		{"иванов петр серг", []string{"ИВАНОВ"}},
		{"петров иван 02.01.1970", []string{"ПЕТРОВ"}},
		{"петров иван 03.01.1970", nil},
		{"сидоров", nil},
	}
	for _, c := range cases {
		page, err := f.dossiers.SearchPersons(ctx, f.user, c.search, 1)
		require.NoError(t, err, c.search)
		var got []string
		for _, row := range page.Items {
			got = append(got, row.Surname)
		}
		assert.Equal(t, c.want, got, c.search)
	}

	page, err := f.dossiers.SearchPersons(ctx, f.user, "ИВАНОВ", 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Test user", page.Items[0].Owner)

	_, err = f.dossiers.SearchPersons(ctx, f.user, "иванов 31.02.1990", 1)
	var verr *types.ValidationError
	assert.ErrorAs(t, err, &verr)
}
