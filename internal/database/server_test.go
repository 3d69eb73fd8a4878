package database_test

import (
	"testing"

	"github.com/localnerve/dossierdb/internal/database"
	"github.com/localnerve/dossierdb/internal/models"
	"github.com/localnerve/dossierdb/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestServerDatabases(t *testing.T) {
	for _, dbType := range []string{"mariadb", "postgres"} {
		t.Run(dbType, func(t *testing.T) {
			cfg := testutil.StartDatabase(t, dbType)

			db, err := database.Connect(cfg, zap.NewNop())
			require.NoError(t, err)
			defer database.Close(db)
			require.NoError(t, database.AutoMigrate(db))

			owner := testutil.CreateUser(t, db, "owner", models.RoleUser, models.RegionMain)
			err = db.Create(&models.User{Username: "owner", Role: models.RoleGuest}).Error
			require.Error(t, err)
			assert.True(t, database.IsDuplicate(err))

			person := testutil.CreatePerson(t, db, "ИВАНОВ", "ПЕТР", models.RegionMain, owner)
			edu := &models.Education{View: "Высшее", Institution: "МГУ"}
			edu.SetOwner(person.ID, owner.ID)
			require.NoError(t, db.Create(edu).Error)

			// Foreign keys cascade on the server databases
			require.NoError(t, db.Delete(&models.Person{}, person.ID).Error)
			var count int64
			require.NoError(t, db.Model(&models.Education{}).Where("person_id = ?", person.ID).Count(&count).Error)
			assert.Zero(t, count)
		})
	}
}
