package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/localnerve/dossierdb/internal/testutil"
	"github.com/testcontainers/testcontainers-go"
)

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")
	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	var withRedis bool
	flag.BoolVar(&withRedis, "redis", false, "also start a redis session store")
	flag.Parse()

	usage := `
Run a dossierdb database (and optionally redis) in containers for local development.
DB_TYPE selects mariadb (default) or postgres; DB_IMAGE and REDIS_IMAGE override the images.
The environment for the server is printed once the containers are ready.

Usage:

testcontainers [-h] [-redis] [-f ENV_FILE_PATH]

example
  testcontainers -redis -f /path/to/something/.env
`
	if showHelp {
		fmt.Println(usage)
		return
	}

	if envFilename != "" {
		log.Printf("Loading environment variables from %s\n", envFilename)
		if err := godotenv.Load(envFilename); err != nil {
			log.Fatalf("Failed to load environment variables: %v\n", err)
		}
	}

	dbType := strings.ToLower(os.Getenv("DB_TYPE"))
	if dbType == "" || dbType == "sqlite" || dbType == "sqlite3" {
		dbType = "mariadb"
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	var running []testcontainers.Container
	terminate := func() {
		for _, c := range running {
			if err := c.Terminate(context.Background()); err != nil {
				log.Printf("Failed to terminate container: %v\n", err)
			}
		}
	}

	db, cfg, err := testutil.RunDatabase(ctx, dbType)
	if err != nil {
		log.Fatalf("Failed to create database container: %v\n", err)
	}
	running = append(running, db)

	fmt.Printf("DB_TYPE=%s\nDB_HOST=%s\nDB_PORT=%s\nDB_DATABASE=%s\nDB_USER=%s\nDB_PASSWORD=%s\n",
		cfg.DBType, cfg.DBHost, cfg.DBPort, cfg.DBDatabase, cfg.DBUser, cfg.DBPassword)

	if withRedis {
		redis, endpoint, err := testutil.RunRedis(ctx)
		if err != nil {
			terminate()
			log.Fatalf("Failed to create redis container: %v\n", err)
		}
		running = append(running, redis)
		fmt.Printf("REDIS_ADDR=%s\n", endpoint)
	}

	<-ctx.Done()
	log.Printf("\nReceived signal, terminating containers...\n")
	terminate()
}
