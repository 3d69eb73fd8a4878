// containers.go
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

package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	"github.com/localnerve/dossierdb/internal/config"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Default container images, overridden by DB_IMAGE and REDIS_IMAGE.
const (
	MariaDBImage  = "mariadb:11.4"
	PostgresImage = "postgres:17-alpine"
	RedisImage    = "redis:7-alpine"
)

const (
	containerDatabase = "dossier"
	containerUser     = "dossier"
	containerPassword = "dossier-test"
)

// RequireDocker skips the test in -short mode or when no Docker daemon answers.
func RequireDocker(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("container test skipped in short mode")
	}

	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		t.Skipf("docker client unavailable: %v", err)
	}
	defer cli.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := cli.Ping(ctx); err != nil {
		t.Skipf("docker daemon unreachable: %v", err)
	}
}

// RunDatabase starts a mariadb or postgres container and returns the config to reach it.
func RunDatabase(ctx context.Context, dbType string) (testcontainers.Container, *config.Config, error) {
	var (
		image string
		port  nat.Port
		env   map[string]string
		ready wait.Strategy
	)
	switch dbType {
	case "mariadb", "mysql":
		image, port = MariaDBImage, nat.Port("3306/tcp")
		env = map[string]string{
			"MARIADB_ROOT_PASSWORD": containerPassword,
			"MARIADB_DATABASE":      containerDatabase,
			"MARIADB_USER":          containerUser,
			"MARIADB_PASSWORD":      containerPassword,
		}
		ready = wait.ForLog("ready for connections").WithOccurrence(2)
	case "postgres":
		image, port = PostgresImage, nat.Port("5432/tcp")
		env = map[string]string{
			"POSTGRES_DB":       containerDatabase,
			"POSTGRES_USER":     containerUser,
			"POSTGRES_PASSWORD": containerPassword,
		}
		ready = wait.ForLog("database system is ready to accept connections").WithOccurrence(2)
	default:
		return nil, nil, fmt.Errorf("no container recipe for %s", dbType)
	}
	if override := os.Getenv("DB_IMAGE"); override != "" {
		image = override
	}

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        image,
			ExposedPorts: []string{string(port)},
			Env:          env,
			WaitingFor: wait.ForAll(ready, wait.ForListeningPort(port)).
				WithDeadline(90 * time.Second),
			HostConfigModifier: func(hc *container.HostConfig) {
				hc.Tmpfs = map[string]string{dataDir(dbType): "rw"}
			},
		},
		Started: true,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("start %s: %w", image, err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, nil, fmt.Errorf("read container host: %w", err)
	}
	mapped, err := c.MappedPort(ctx, port)
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, nil, fmt.Errorf("read mapped port: %w", err)
	}

	return c, &config.Config{
		DBType:            dbType,
		DBHost:            host,
		DBPort:            mapped.Port(),
		DBDatabase:        containerDatabase,
		DBUser:            containerUser,
		DBPassword:        containerPassword,
		DBConnectionLimit: 5,
	}, nil
}

// RunRedis starts a redis container and returns its host:port endpoint.
func RunRedis(ctx context.Context) (testcontainers.Container, string, error) {
	image := RedisImage
	if override := os.Getenv("REDIS_IMAGE"); override != "" {
		image = override
	}
	port := nat.Port("6379/tcp")

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        image,
			ExposedPorts: []string{string(port)},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, "", fmt.Errorf("start %s: %w", image, err)
	}

	endpoint, err := c.PortEndpoint(ctx, port, "")
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, "", fmt.Errorf("read redis endpoint: %w", err)
	}
	return c, endpoint, nil
}

// StartDatabase runs RunDatabase for the duration of the test.
func StartDatabase(t *testing.T, dbType string) *config.Config {
	t.Helper()
	RequireDocker(t)

	c, cfg, err := RunDatabase(context.Background(), dbType)
	if err != nil {
		t.Fatalf("Failed to start %s: %v", dbType, err)
	}
	t.Cleanup(func() {
		if err := c.Terminate(context.Background()); err != nil {
			t.Logf("Failed to terminate %s: %v", dbType, err)
		}
	})
	return cfg
}

// StartRedis runs RunRedis for the duration of the test.
func StartRedis(t *testing.T) string {
	t.Helper()
	RequireDocker(t)

	c, endpoint, err := RunRedis(context.Background())
	if err != nil {
		t.Fatalf("Failed to start redis: %v", err)
	}
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })
	return endpoint
}

func dataDir(dbType string) string {
	if dbType == "postgres" {
		return "/var/lib/postgresql/data"
	}
	return "/var/lib/mysql"
}
