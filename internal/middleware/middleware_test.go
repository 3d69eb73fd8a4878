package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/localnerve/dossierdb/internal/middleware"
	"github.com/localnerve/dossierdb/internal/models"
	"github.com/localnerve/dossierdb/internal/testutil"
	"github.com/localnerve/dossierdb/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

// setupApp mounts Authenticate and a /login route that opens a session for :uid.
func setupApp(t *testing.T, db *gorm.DB, log *zap.Logger, guard ...fiber.Handler) *fiber.App {
	t.Helper()
	store := session.New()

	app := fiber.New(fiber.Config{ErrorHandler: func(c *fiber.Ctx, err error) error {
		var cerr *types.CustomError
		if errors.As(err, &cerr) {
			return c.Status(cerr.Code).SendString(cerr.Type)
		}
		return c.SendStatus(fiber.StatusInternalServerError)
	}})
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(log))
	app.Use(middleware.Authenticate(store, db))

	app.Get("/login/:uid", func(c *fiber.Ctx) error {
		uid, err := c.ParamsInt("uid")
		if err != nil {
			return err
		}
		sess, err := store.Get(c)
		if err != nil {
			return err
		}
		sess.Set(middleware.SessionUserKey, uint(uid))
		return sess.Save()
	})

	handlers := append(guard, func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFrom(c)
		if !ok {
			return c.SendString("anonymous")
		}
		return c.SendString(actor.Username)
	})
	app.Get("/whoami", handlers...)
	return app
}

func loginCookie(t *testing.T, app *fiber.App, uid uint) *http.Cookie {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/login/"+strconv.FormatUint(uint64(uid), 10), nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	for _, c := range resp.Cookies() {
		if c.Name == "session_id" {
			return c
		}
	}
	t.Fatal("no session cookie")
	return nil
}

func get(t *testing.T, app *fiber.App, cookie *http.Cookie) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	buf := make([]byte, 64)
	n, _ := resp.Body.Read(buf)
	return resp.StatusCode, string(buf[:n])
}

func TestAuthenticate(t *testing.T) {
	db := testutil.NewDB(t)
	app := setupApp(t, db, zap.NewNop())
	user := testutil.CreateUser(t, db, "jdoe", models.RoleUser, models.RegionMain)

	status, body := get(t, app, nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "anonymous", body)

	cookie := loginCookie(t, app, user.ID)
	_, body = get(t, app, cookie)
	assert.Equal(t, "jdoe", body)

	require.NoError(t, db.Model(user).Update("deleted", true).Error)
	_, body = get(t, app, cookie)
	assert.Equal(t, "anonymous", body)

	// the session was destroyed, restoring the user does not revive it
	require.NoError(t, db.Model(user).Update("deleted", false).Error)
	_, body = get(t, app, cookie)
	assert.Equal(t, "anonymous", body)

	vanished := loginCookie(t, app, 9999)
	_, body = get(t, app, vanished)
	assert.Equal(t, "anonymous", body)
}

func TestRequireRoles(t *testing.T) {
	db := testutil.NewDB(t)
	app := setupApp(t, db, zap.NewNop(), middleware.RequireRoles(models.RoleUser, models.RoleAdmin))
	user := testutil.CreateUser(t, db, "jdoe", models.RoleUser, models.RegionMain)
	admin := testutil.CreateUser(t, db, "root", models.RoleAdmin, models.RegionMain)
	guest := testutil.CreateUser(t, db, "guest", models.RoleGuest, models.RegionMain)

	tests := []struct {
		name   string
		uid    uint
		status int
		body   string
	}{
		{"anonymous", 0, fiber.StatusUnauthorized, "auth.login"},
		{"guest", guest.ID, fiber.StatusForbidden, "auth.role"},
		{"user", user.ID, fiber.StatusOK, "jdoe"},
		{"admin", admin.ID, fiber.StatusOK, "root"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cookie *http.Cookie
			if tt.uid != 0 {
				cookie = loginCookie(t, app, tt.uid)
			}
			status, body := get(t, app, cookie)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.body, body)
		})
	}
}

func TestRequireLogin(t *testing.T) {
	db := testutil.NewDB(t)
	app := setupApp(t, db, zap.NewNop(), middleware.RequireLogin())
	guest := testutil.CreateUser(t, db, "guest", models.RoleGuest, models.RegionMain)

	status, body := get(t, app, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "auth.login", body)

	status, body = get(t, app, loginCookie(t, app, guest.ID))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "guest", body)
}

func TestRequestLogger(t *testing.T) {
	db := testutil.NewDB(t)
	core, logs := observer.New(zapcore.InfoLevel)
	app := setupApp(t, db, zap.New(core), middleware.RequireLogin())
	user := testutil.CreateUser(t, db, "jdoe", models.RoleUser, models.RegionMain)
	cookie := loginCookie(t, app, user.ID)

	get(t, app, nil)
	get(t, app, cookie)

	var whoami []observer.LoggedEntry
	for _, e := range logs.All() {
		if e.ContextMap()["path"] == "/whoami" {
			whoami = append(whoami, e)
		}
	}
	require.Len(t, whoami, 2)

	rejected := whoami[0]
	assert.Equal(t, zapcore.WarnLevel, rejected.Level)
	assert.Equal(t, int64(fiber.StatusUnauthorized), rejected.ContextMap()["status"])
	assert.NotEmpty(t, rejected.ContextMap()["request_id"])
	assert.NotContains(t, rejected.ContextMap(), "actor")

	served := whoami[1]
	assert.Equal(t, zapcore.InfoLevel, served.Level)
	assert.Equal(t, "jdoe", served.ContextMap()["actor"])
	assert.Equal(t, "GET", served.ContextMap()["method"])
}
