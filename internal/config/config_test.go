package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"PORT", "DB_TYPE", "DB_DATABASE", "BASE_PATH", "SESSION_TTL", "DB_USER", "SECRET_KEY"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBType)
	assert.Equal(t, "database.db", cfg.DBDatabase)
	assert.Equal(t, "PersonalDB", cfg.BasePath)
	assert.Equal(t, "88888888", cfg.DefaultPassword)
	assert.Equal(t, 5, cfg.DBConnectionLimit)
	assert.Equal(t, 8*time.Hour, cfg.SessionExpiration())
	assert.True(t, cfg.IsSQLite())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_TYPE", "MariaDB")
	t.Setenv("DB_USER", "dossier")
	t.Setenv("DB_PASSWORD", "s3cret")
	t.Setenv("DB_CONNECTION_LIMIT", "12")
	t.Setenv("BASE_PATH", "/srv/dossiers")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "mariadb", cfg.DBType)
	assert.Equal(t, 12, cfg.DBConnectionLimit)
	assert.Equal(t, "/srv/dossiers", cfg.BasePath)
	assert.False(t, cfg.IsSQLite())

	out := cfg.String()
	assert.NotContains(t, out, "s3cret")
	assert.True(t, strings.Contains(out, "DBPassword: ********"))
}

func TestLoadRequiresUserForServerDatabases(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_TYPE", "postgres")
	t.Setenv("DB_USER", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_USER is required")
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(dir+"/.env", []byte("BASE_PATH=from-dotenv\n"), 0o600))
	t.Setenv("BASE_PATH", "")
	require.NoError(t, os.Unsetenv("BASE_PATH"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.BasePath)
}

func TestLoadValidatesSecretKey(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_TYPE", "sqlite")
	t.Setenv("SECRET_KEY", "not-a-key")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SECRET_KEY")

	t.Setenv("SECRET_KEY", "MDEyMzQ1Njc4OWFiY2RlZjAxMjM0NTY3ODlhYmNkZWY=")
	cfg, err := Load()
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.SecretKey)
}
