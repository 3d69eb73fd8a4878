package dossier

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/localnerve/dossierdb/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathDerivation(t *testing.T) {
	m := New("/data")

	assert.Equal(t,
		filepath.Join("/data", "РЦ Юг", "И", "42-ИВАНОВ ПЕТР СЕРГЕЕВИЧ"),
		m.Path(models.RegionSouth, "ИВАНОВ", "ПЕТР", "СЕРГЕЕВИЧ", 42))

	assert.Equal(t,
		filepath.Join("/data", "Главный офис", "П", "7-ПЕТРОВ ИВАН"),
		m.Path(models.RegionMain, "ПЕТРОВ", "ИВАН", "", 7))
}

func TestPathStaysUnderBase(t *testing.T) {
	base := t.TempDir()
	m := New(base)

	dir := m.Path(models.RegionMain, "A/../../../../escaped", "X\\..\\y", "Z\x00", 9)
	rel, err := filepath.Rel(base, dir)
	require.NoError(t, err)
	assert.False(t, strings.HasPrefix(rel, ".."), rel)
	assert.Equal(t, filepath.Join("Главный офис", "A", "9-A_________escaped X___y Z_"), rel)

	assert.Equal(t,
		filepath.Join(base, "Главный офис", "_", "1-_ ИВАН"),
		m.Path(models.RegionMain, "..", "ИВАН", "", 1))

	require.NoError(t, m.Ensure(dir))
	assert.DirExists(t, dir)
}

func TestEnsureRefusesOutsideBase(t *testing.T) {
	root := t.TempDir()
	m := New(filepath.Join(root, "base"))
	outside := filepath.Join(root, "elsewhere")

	assert.Error(t, m.Ensure(outside))
	assert.NoDirExists(t, outside)

	inside := filepath.Join(m.Base(), "a")
	require.NoError(t, m.Ensure(inside))
	assert.Error(t, m.Relocate(inside, outside))
	assert.DirExists(t, inside)
	assert.NoDirExists(t, outside)
}

func TestEnsureIsIdempotent(t *testing.T) {
	m := New(t.TempDir())
	dir := m.Path(models.RegionWest, "СИДОРОВ", "ОЛЕГ", "", 3)

	require.NoError(t, m.Ensure(dir))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "note.txt"), []byte("x"), 0o644))
	require.NoError(t, m.Ensure(dir))

	_, err := os.Stat(filepath.Join(dir, "note.txt"))
	assert.NoError(t, err)
}

func TestRelocateMovesTree(t *testing.T) {
	m := New(t.TempDir())
	from := m.Path(models.RegionMain, "ИВАНОВ", "ПЕТР", "", 1)
	to := m.Path(models.RegionEast, "ИВАНОВ", "ПЕТР", "", 1)

	photo, err := m.ItemDir(from, "image")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(photo, "image.jpg"), []byte("jpg"), 0o644))

	require.NoError(t, m.Relocate(from, to))

	_, err = os.Stat(from)
	assert.True(t, os.IsNotExist(err))
	data, err := os.ReadFile(filepath.Join(to, "image", "image.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpg", string(data))
}

func TestRelocateMissingSourceCreatesTarget(t *testing.T) {
	m := New(t.TempDir())
	to := m.Path(models.RegionUral, "ПЕТРОВ", "ИВАН", "", 2)

	require.NoError(t, m.Relocate(filepath.Join(m.Base(), "gone"), to))
	info, err := os.Stat(to)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestRelocateFailureLeavesSource(t *testing.T) {
	m := New(t.TempDir(), WithRename(func(string, string) error { return errors.New("device busy") }))
	from := m.Path(models.RegionMain, "ИВАНОВ", "ПЕТР", "", 1)
	to := m.Path(models.RegionSouth, "ИВАНОВ", "ПЕТР", "", 1)
	require.NoError(t, m.Ensure(from))

	err := m.Relocate(from, to)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device busy")

	_, err = os.Stat(from)
	assert.NoError(t, err)
	_, err = os.Stat(to)
	assert.True(t, os.IsNotExist(err))
}

func TestRelocateRefusesExistingTarget(t *testing.T) {
	m := New(t.TempDir())
	from := filepath.Join(m.Base(), "a")
	to := filepath.Join(m.Base(), "b")
	require.NoError(t, m.Ensure(from))
	require.NoError(t, m.Ensure(to))

	assert.Error(t, m.Relocate(from, to))
}

func TestPrepareAndWritable(t *testing.T) {
	m := New(filepath.Join(t.TempDir(), "PersonalDB"))
	require.NoError(t, m.Prepare())

	for _, region := range models.Regions {
		_, err := os.Stat(filepath.Join(m.Base(), string(region), "Ё"))
		assert.NoError(t, err, region)
	}
	assert.NoError(t, m.Writable())
}
