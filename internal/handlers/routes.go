// routes.go
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

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/localnerve/dossierdb/internal/config"
	"github.com/localnerve/dossierdb/internal/dossier"
	"github.com/localnerve/dossierdb/internal/middleware"
	"github.com/localnerve/dossierdb/internal/models"
	"github.com/localnerve/dossierdb/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps carries everything the routes need.
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Mapper   *dossier.Mapper
	Sessions *session.Store
	Log      *zap.Logger
}

// Register mounts the application routes on router. Fixed paths are mounted
// before the generic /:kind routes that would otherwise shadow them.
func Register(router fiber.Router, d Deps) {
	dossiers := services.NewDossiers(d.DB, d.Mapper, d.Log)

	authHandler := &AuthHandler{Auth: services.NewAuth(d.DB, d.Config.DefaultPassword, d.Log), Sessions: d.Sessions, Log: d.Log}
	userHandler := &UserHandler{Users: services.NewUsers(d.DB, d.Config.DefaultPassword, d.Log)}
	dossierHandler := &DossierHandler{Dossiers: dossiers}
	fileHandler := &FileHandler{Dossiers: dossiers}
	infoHandler := &InformationHandler{Reports: services.NewReports(d.DB)}
	healthHandler := &HealthHandler{Config: d.Config, DB: d.DB, Mapper: d.Mapper, Log: d.Log}

	router.Get("/health", healthHandler.Health)

	router.Use(middleware.Authenticate(d.Sessions, d.DB))

	// Auth
	router.Get("/auth", authHandler.GetAuth)
	router.Post("/auth", authHandler.GetAuth)
	router.Post("/auth/:action", authHandler.PostAuth)
	router.Get("/logout", authHandler.Logout)

	login := middleware.RequireLogin()
	admin := middleware.RequireRoles(models.RoleAdmin)
	user := middleware.RequireRoles(models.RoleUser)
	editor := middleware.RequireRoles(models.RoleUser, models.RoleAdmin)

	// User administration
	router.Get("/users", admin, userHandler.ListUsers)
	router.Post("/users", admin, userHandler.ListUsers)
	router.Post("/user", admin, userHandler.CreateUser)
	router.Get("/user/:id", admin, userHandler.GetUser)
	router.Post("/user/:id", admin, userHandler.UpdateUser)

	// Browsing
	router.Get("/", login, dossierHandler.Index)
	router.Get("/index/:page", login, dossierHandler.Index)
	router.Post("/index/:page", login, dossierHandler.Index)
	router.Get("/profile/:person_id", login, dossierHandler.Profile)
	router.Get("/image/:person_id", login, fileHandler.Photo)

	// Reporting
	router.Get("/information/export", login, infoHandler.Export)
	router.Get("/information", login, infoHandler.Information)
	router.Post("/information", login, infoHandler.Information)

	// Resume intake
	router.Get("/resume", user, dossierHandler.ResumeForm)
	router.Post("/resume", user, dossierHandler.TakeResume)
	router.Post("/region/:person_id", user, dossierHandler.ChangeRegion)

	// Files
	router.Post("/file/:kind/:person_id", user, fileHandler.Upload)

	// Generic items
	router.Get("/delete/:kind/:item_id", editor, dossierHandler.DeleteItem)
	router.Get("/:kind/:action/:item_id", login, dossierHandler.GetItem)
	router.Post("/:kind/:item_id", user, dossierHandler.PostItem)
}
