package services

import (
	"bytes"
	"mime/multipart"
	"testing"

	"github.com/localnerve/dossierdb/internal/dossier"
	"github.com/localnerve/dossierdb/internal/models"
	"github.com/localnerve/dossierdb/internal/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	mapper   *dossier.Mapper
	dossiers *Dossiers
	admin    Actor
	user     Actor
	other    Actor
	regional Actor
	guest    Actor
}

func newFixture(t *testing.T, opts ...dossier.Option) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	mapper := dossier.New(t.TempDir(), opts...)
	return &fixture{
		db:       db,
		mapper:   mapper,
		dossiers: NewDossiers(db, mapper, zap.NewNop()),
		admin:    ActorFromUser(testutil.CreateUser(t, db, "admin", models.RoleAdmin, models.RegionMain)),
		user:     ActorFromUser(testutil.CreateUser(t, db, "user", models.RoleUser, models.RegionMain)),
		other:    ActorFromUser(testutil.CreateUser(t, db, "other", models.RoleUser, models.RegionMain)),
		regional: ActorFromUser(testutil.CreateUser(t, db, "south", models.RoleUser, models.RegionSouth)),
		guest:    ActorFromUser(testutil.CreateUser(t, db, "guest", models.RoleGuest, models.RegionMain)),
	}
}

// person stores an unclaimed person in region.
func (f *fixture) person(t *testing.T, surname string, region models.Region) *models.Person {
	t.Helper()
	return testutil.CreatePerson(t, f.db, surname, "ПЕТР", region, nil)
}

// fileHeaders builds multipart file headers the way an upload parses them.
func fileHeaders(t *testing.T, field string, files map[string][]byte) []*multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, content := range files {
		part, err := w.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File[field]
}
