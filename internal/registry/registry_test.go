package registry

import (
	"errors"
	"testing"

	"github.com/localnerve/dossierdb/internal/models"
	"github.com/localnerve/dossierdb/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryIsClosedOverFourteenKinds(t *testing.T) {
	kinds := Kinds()
	require.Len(t, kinds, 14)
	assert.Equal(t, Persons, kinds[0])
	assert.Len(t, ChildKinds(), 13)
	assert.NotContains(t, ChildKinds(), Persons)

	tables := map[string]bool{}
	for _, k := range kinds {
		e, err := Lookup(string(k))
		require.NoError(t, err, k)
		assert.Equal(t, k, e.Kind)
		assert.Equal(t, "profile/divs/"+string(k), e.Partial)
		assert.Equal(t, "profile/forms/"+string(k), e.Form)

		rec := e.New()
		require.NotNil(t, rec)
		assert.Equal(t, string(k), rec.TableName())
		tables[rec.TableName()] = true

		require.NotNil(t, e.Schema())
		assert.Empty(t, e.Records(e.NewSlice()))
	}
	assert.Len(t, tables, 14)
}

func TestLookupUnknownKind(t *testing.T) {
	for _, name := range []string{"", "users", "image", "Persons"} {
		_, err := Lookup(name)
		assert.True(t, errors.Is(err, types.ErrUnknownEntityKind), name)
	}
}

func TestRecordsFlattensSlice(t *testing.T) {
	e, err := Lookup(string(Contacts))
	require.NoError(t, err)

	slice := e.NewSlice()
	*slice.(*[]models.Contact) = []models.Contact{{View: "Телефон"}, {View: "Электронная почта"}}
	recs := e.Records(slice)
	require.Len(t, recs, 2)

	recs[1].SetID(7)
	assert.Equal(t, uint(7), (*slice.(*[]models.Contact))[1].ID)
}

func TestSchemaRoundTripsIntoRecord(t *testing.T) {
	e, err := Lookup(string(Addresses))
	require.NoError(t, err)

	s := e.Schema()
	s.Normalize()
	rec := s.Record()
	_, ok := rec.(*models.Address)
	assert.True(t, ok)
}
