// routes.go
//
// Laboratory chemical inventory tracking service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of chemtrack.
// chemtrack is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// chemtrack is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with chemtrack.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/uscann/chemtrack/internal/config"
	"github.com/uscann/chemtrack/internal/middleware"
	"github.com/uscann/chemtrack/internal/services"
)

// Dependencies are shared by all route handlers.
type Dependencies struct {
	DB        *gorm.DB
	Config    *config.Config
	Log       *zap.Logger
	Tokens    *services.TokenIssuer
	Compounds services.CompoundLookup
}

// RegisterRoutes mounts every API route on the router.
func RegisterRoutes(router fiber.Router, deps Dependencies) {
	auth := &AuthHandler{DB: deps.DB, Tokens: deps.Tokens}
	chemicals := &ChemicalHandler{DB: deps.DB, Compounds: deps.Compounds}
	locations := &LocationHandler{DB: deps.DB}
	identity := &IdentityHandler{DB: deps.DB}
	health := &HealthHandler{DB: deps.DB, Config: deps.Config, Log: deps.Log}

	router.Get("/health", health.Health)

	// Auth
	router.Post("/login", auth.Login)
	router.Post("/pi-login", auth.PILogin)

	// Chemicals
	router.Get("/chemicals", chemicals.List)
	router.Post("/chemicals", chemicals.Create)
	router.Get("/chemicals/query", chemicals.Query)
	router.Get("/chemicals/lookup", chemicals.Lookup)
	router.Get("/chemicals/export", chemicals.Export)
	router.Get("/chemicals/room/:room_id", chemicals.ByRoom)
	router.Put("/chemicals/update", chemicals.Update)
	router.Post("/add_chemical", chemicals.Create)
	router.Delete("/chemicaldelete/:id", chemicals.Delete)
	router.Post("/scan/check_chemical", chemicals.Check)

	// Search is scoped to the caller's PIs
	router.Post("/search-chemical", middleware.Authenticate(deps.Tokens), chemicals.Search)

	// Buildings, rooms and spaces
	router.Post("/buildings", locations.CreateBuilding)
	router.Get("/buildings-fetch", locations.ListBuildings)
	router.Post("/rooms", locations.CreateRoom)
	router.Post("/add_room", locations.AddRoom)
	router.Post("/rooms/update_field", locations.UpdateRoomField)
	router.Post("/rooms/details", locations.RoomDetails)
	router.Get("/rooms/:room_id/spaces", locations.RoomSpaces)
	router.Delete("/rooms/:room_id", locations.DeleteRoom)
	router.Post("/spaces", locations.CreateSpaces)
	router.Post("/manage_space", locations.ManageSpace)
	router.Delete("/spaces/:id", locations.DeleteSpace)

	// Users, PIs and their associations
	router.Post("/users", identity.CreateUser)
	router.Get("/users/all", identity.ListUsers)
	router.Get("/users/:id/pis", identity.UserPIs)
	router.Post("/users/:id/pis/:pi_id", identity.Associate)
	router.Delete("/users/:id/pis/:pi_id", identity.Dissociate)
	router.Post("/pis", identity.CreatePI)
	router.Get("/pis/all", identity.ListPIs)
}
