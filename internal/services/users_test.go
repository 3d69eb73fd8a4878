package services

import (
	"context"
	"testing"

	"github.com/localnerve/dossierdb/internal/models"
	"github.com/localnerve/dossierdb/internal/testutil"
	"github.com/localnerve/dossierdb/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newUsers(t *testing.T) (*Users, Actor) {
	t.Helper()
	db := testutil.NewDB(t)
	admin := testutil.CreateUser(t, db, "admin", models.RoleAdmin, models.RegionMain)
	return NewUsers(db, "88888888", zap.NewNop()), ActorFromUser(admin)
}

func TestCreateUser(t *testing.T) {
	users, admin := newUsers(t)
	ctx := context.Background()

	u, err := users.Create(ctx, admin, map[string]any{"fullname": "Петров Иван", "username": "Petrov"})
	require.NoError(t, err)
	assert.Equal(t, "petrov", u.Username)
	assert.Equal(t, models.RoleGuest, u.Role)
	assert.Equal(t, models.RegionMain, u.Region)
	assert.True(t, u.ChangePswd)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Passhash), []byte("88888888")))

	_, err = users.Create(ctx, admin, map[string]any{"fullname": "Другой", "username": "petrov"})
	assert.ErrorIs(t, err, types.ErrConflict)

	_, err = users.Create(ctx, admin, map[string]any{"fullname": "Плохой", "username": "пётр"})
	var verr *types.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "username")
}

func TestListUsers(t *testing.T) {
	users, admin := newUsers(t)
	ctx := context.Background()
	for _, f := range []map[string]any{
		{"fullname": "Петров Иван", "username": "petrov"},
		{"fullname": "Сидоров Олег", "username": "sidorov"},
	} {
		_, err := users.Create(ctx, admin, f)
		require.NoError(t, err)
	}

	all, err := users.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "sidorov", all[0].Username)

	byLogin, err := users.List(ctx, "PETR")
	require.NoError(t, err)
	require.Len(t, byLogin, 1)
	assert.Equal(t, "petrov", byLogin[0].Username)

	byName, err := users.List(ctx, "Сидор")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "sidorov", byName[0].Username)

	short, err := users.List(ctx, "pe")
	require.NoError(t, err)
	assert.Len(t, short, 3)
}

func TestUserActions(t *testing.T) {
	users, admin := newUsers(t)
	ctx := context.Background()
	u, err := users.Create(ctx, admin, map[string]any{"fullname": "Петров Иван", "username": "petrov"})
	require.NoError(t, err)

	_, err = users.Act(ctx, admin, admin.ID, ActionBlock)
	assert.ErrorIs(t, err, types.ErrSelfAction)

	got, err := users.Act(ctx, admin, u.ID, ActionBlock)
	require.NoError(t, err)
	assert.True(t, got.Blocked)
	got, err = users.Act(ctx, admin, u.ID, ActionBlock)
	require.NoError(t, err)
	assert.False(t, got.Blocked)

	got, err = users.Act(ctx, admin, u.ID, ActionDelete)
	require.NoError(t, err)
	assert.True(t, got.Deleted)

	require.NoError(t, users.db.Model(u).Updates(map[string]any{"blocked": true, "attempt": 5, "change_pswd": false}).Error)
	got, err = users.Act(ctx, admin, u.ID, ActionDrop)
	require.NoError(t, err)
	assert.False(t, got.Blocked)
	assert.Zero(t, got.Attempt)
	assert.True(t, got.ChangePswd)

	_, err = users.Act(ctx, admin, u.ID, "promote")
	var verr *types.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = users.Act(ctx, admin, 999, ActionBlock)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestSetAccess(t *testing.T) {
	users, admin := newUsers(t)
	ctx := context.Background()
	u, err := users.Create(ctx, admin, map[string]any{"fullname": "Петров Иван", "username": "petrov"})
	require.NoError(t, err)

	got, err := users.SetAccess(ctx, admin, u.ID, map[string]any{"role": "user", "region": string(models.RegionUral)})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, got.Role)
	assert.Equal(t, models.RegionUral, got.Region)

	_, err = users.SetAccess(ctx, admin, u.ID, map[string]any{"role": "root"})
	var verr *types.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "role")

	_, err = users.SetAccess(ctx, admin, admin.ID, map[string]any{"role": "guest"})
	assert.ErrorIs(t, err, types.ErrSelfAction)
}
