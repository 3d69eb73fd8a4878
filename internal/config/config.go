// config.go
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

package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port       string `mapstructure:"PORT"`
	SecretKey  string `mapstructure:"SECRET_KEY"`
	SessionTTL int    `mapstructure:"SESSION_TTL"` // hours

	// Database configuration
	DBType            string `mapstructure:"DB_TYPE"` // sqlite, sqlite3, mysql, mariadb, postgres, sqlserver
	DBHost            string `mapstructure:"DB_HOST"`
	DBPort            string `mapstructure:"DB_PORT"`
	DBDatabase        string `mapstructure:"DB_DATABASE"`
	DBUser            string `mapstructure:"DB_USER"`
	DBPassword        string `mapstructure:"DB_PASSWORD"`
	DBConnectionLimit int    `mapstructure:"DB_CONNECTION_LIMIT"`

	// Dossier storage
	BasePath        string `mapstructure:"BASE_PATH"`
	DefaultPassword string `mapstructure:"DEFAULT_PASSWORD"`

	// Session storage, in-memory when RedisAddr is empty
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	// Logging
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
}

var defaults = map[string]any{
	"PORT":                "3000",
	"SECRET_KEY":          "",
	"SESSION_TTL":         8,
	"DB_TYPE":             "sqlite",
	"DB_HOST":             "localhost",
	"DB_PORT":             "",
	"DB_DATABASE":         "database.db",
	"DB_USER":             "",
	"DB_PASSWORD":         "",
	"DB_CONNECTION_LIMIT": 5,
	"BASE_PATH":           "PersonalDB",
	"DEFAULT_PASSWORD":    "88888888",
	"REDIS_ADDR":          "",
	"REDIS_PASSWORD":      "",
	"REDIS_DB":            0,
	"LOG_LEVEL":           "info",
	"LOG_FORMAT":          "json",
}

// Load loads configuration from environment variables, reading .env first when present
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.DBType = strings.ToLower(cfg.DBType)

	// Validate required fields
	if cfg.DBDatabase == "" {
		return nil, fmt.Errorf("DB_DATABASE is required")
	}
	if cfg.BasePath == "" {
		return nil, fmt.Errorf("BASE_PATH is required")
	}
	if !cfg.IsSQLite() && cfg.DBUser == "" {
		return nil, fmt.Errorf("DB_USER is required for %s", cfg.DBType)
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive, got %d", cfg.SessionTTL)
	}

	if cfg.SecretKey != "" {
		key, err := base64.StdEncoding.DecodeString(cfg.SecretKey)
		if err != nil || len(key) != 32 {
			return nil, fmt.Errorf("SECRET_KEY must be 32 base64 encoded bytes")
		}
	}

	return &cfg, nil
}

// IsSQLite reports whether the configured database is a local SQLite file.
func (c *Config) IsSQLite() bool {
	return c.DBType == "sqlite" || c.DBType == "sqlite3"
}

// SessionExpiration is the session lifetime.
func (c *Config) SessionExpiration() time.Duration {
	return time.Duration(c.SessionTTL) * time.Hour
}

// String masks secrets so the config can be logged at startup.
func (c *Config) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "  Port: %s\n", c.Port)
	fmt.Fprintf(&sb, "  DBType: %s\n", c.DBType)
	fmt.Fprintf(&sb, "  DBHost: %s\n", c.DBHost)
	fmt.Fprintf(&sb, "  DBPort: %s\n", c.DBPort)
	fmt.Fprintf(&sb, "  DBDatabase: %s\n", c.DBDatabase)
	fmt.Fprintf(&sb, "  DBUser: %s\n", c.DBUser)
	fmt.Fprintf(&sb, "  DBPassword: %s\n", mask(c.DBPassword))
	fmt.Fprintf(&sb, "  DBConnectionLimit: %d\n", c.DBConnectionLimit)
	fmt.Fprintf(&sb, "  BasePath: %s\n", c.BasePath)
	fmt.Fprintf(&sb, "  DefaultPassword: %s\n", mask(c.DefaultPassword))
	fmt.Fprintf(&sb, "  SecretKey: %s\n", mask(c.SecretKey))
	fmt.Fprintf(&sb, "  SessionTTL: %dh\n", c.SessionTTL)
	fmt.Fprintf(&sb, "  RedisAddr: %s\n", c.RedisAddr)
	fmt.Fprintf(&sb, "  RedisPassword: %s\n", mask(c.RedisPassword))
	fmt.Fprintf(&sb, "  LogLevel: %s\n", c.LogLevel)
	return sb.String()
}

func mask(secret string) string {
	if secret == "" {
		return "(empty)"
	}
	return "********"
}
