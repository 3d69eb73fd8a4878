// main.go
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

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/swagger"
	"github.com/google/uuid"
	"github.com/localnerve/dossierdb/internal/config"
	"github.com/localnerve/dossierdb/internal/database"
	"github.com/localnerve/dossierdb/internal/dossier"
	"github.com/localnerve/dossierdb/internal/handlers"
	"github.com/localnerve/dossierdb/internal/logger"
	"github.com/localnerve/dossierdb/internal/middleware"
	"github.com/localnerve/dossierdb/internal/services"
	dossiersession "github.com/localnerve/dossierdb/internal/session"
	"go.uber.org/zap"

	_ "github.com/localnerve/dossierdb/docs/api" // Swagger docs
)

// SessionCookie is the name of the session cookie.
const SessionCookie = "dossier_session"

// @title DossierDB API
// @version 1.0.0
// @description Personnel vetting dossier service
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/localnerve/dossierdb
// @contact.email info@localnerve.com

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name dossier_session

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, "dossierdb")
	if err != nil {
		panic("failed to build logger: " + err.Error())
	}
	defer log.Sync()
	log.Debug("configuration loaded", zap.Stringer("config", cfg))

	// Connect to database
	db, err := database.Connect(cfg, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Prepare the dossier tree and the first administrator
	mapper := dossier.New(cfg.BasePath)
	if err := mapper.Prepare(); err != nil {
		log.Fatal("failed to prepare dossier storage", zap.String("base_path", cfg.BasePath), zap.Error(err))
	}
	if err := services.NewAuth(db, cfg.DefaultPassword, log).SeedAdmin(context.Background()); err != nil {
		log.Fatal("failed to seed administrator", zap.Error(err))
	}

	// Sessions
	sessionConfig := session.Config{
		Expiration:     cfg.SessionExpiration(),
		KeyLookup:      "cookie:" + SessionCookie,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	}
	if cfg.RedisAddr != "" {
		storage, err := dossiersession.NewRedisStorage(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatal("failed to connect session storage", zap.Error(err))
		}
		defer storage.Close()
		sessionConfig.Storage = storage
		log.Info("sessions stored in redis", zap.String("addr", cfg.RedisAddr))
	}
	sessions := session.New(sessionConfig)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(log),
		BodyLimit:    32 << 20,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(compress.New())
	app.Use(middleware.RequestLogger(log))
	if cfg.SecretKey != "" {
		app.Use(encryptcookie.New(encryptcookie.Config{Key: cfg.SecretKey}))
	}

	// Prometheus metrics
	prometheus := fiberprometheus.New("dossierdb")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	handlers.Register(app, handlers.Deps{
		Config:   cfg,
		DB:       db,
		Mapper:   mapper,
		Sessions: sessions,
		Log:      log,
	})

	// 404 handler
	app.Use(handlers.NotFound)

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info("gracefully shutting down")
		_ = app.Shutdown()
	}()

	// Start server
	log.Info("starting server", zap.String("port", cfg.Port), zap.String("db_type", cfg.DBType))
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}

	log.Info("server stopped")
}
