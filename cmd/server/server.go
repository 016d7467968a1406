// cmd/server/server.go
package main

import (
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/labplanner/internal/api"
	"github.com/codr1/labplanner/internal/api/apiutil"
	"github.com/codr1/labplanner/internal/api/bookings"
	"github.com/codr1/labplanner/internal/api/data"
	"github.com/codr1/labplanner/internal/api/equipment"
	"github.com/codr1/labplanner/internal/api/projects"
	"github.com/codr1/labplanner/internal/config"
	"github.com/codr1/labplanner/internal/db"
	"github.com/codr1/labplanner/internal/layout"
	"github.com/codr1/labplanner/internal/ratelimit"
)

func newServer(cfg *config.Config, database *db.DB, cache *layout.Cache, limiter *ratelimit.Limiter) *http.Server {
	return &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.App.Port),
		Handler:      newHandler(cfg, database, cache, limiter),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func newHandler(cfg *config.Config, database *db.DB, cache *layout.Cache, limiter *ratelimit.Limiter) http.Handler {
	router := http.NewServeMux()

	data.InitHandlers(database.Queries, cfg.Calendar, cache)
	bookings.InitHandlers(database, cfg.Booking, cache)
	equipment.InitHandlers(database.Queries, cfg.Defaults, cache)
	projects.InitHandlers(database.Queries, cfg.Defaults.TextColor)

	registerRoutes(router, cfg.App.StaticDir)

	return api.ChainMiddleware(
		router,
		api.WithWriteLimit(limiter),
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
	)
}

func registerRoutes(mux *http.ServeMux, staticDir string) {
	// Calendar page
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
	})

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := apiutil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"}); err != nil {
			log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write health response")
		}
	})

	mux.HandleFunc("GET /api/data", data.HandleData)

	// Booking routes
	mux.HandleFunc("GET /api/bookings", bookings.HandleBookingsList)
	mux.HandleFunc("POST /api/bookings", bookings.HandleBookingCreate)
	mux.HandleFunc("GET /api/bookings.ics", bookings.HandleBookingsICS)
	mux.HandleFunc("PUT /api/bookings/{id}", bookings.HandleBookingUpdate)
	mux.HandleFunc("DELETE /api/bookings/{id}", bookings.HandleBookingDelete)

	// Equipment routes
	mux.HandleFunc("GET /api/equipment", equipment.HandleEquipmentList)
	mux.HandleFunc("POST /api/equipment", equipment.HandleEquipmentCreate)
	mux.HandleFunc("PUT /api/equipment/{name}", equipment.HandleEquipmentUpdate)
	mux.HandleFunc("DELETE /api/equipment/{name}", equipment.HandleEquipmentDelete)
	mux.HandleFunc("GET /api/equipment/capacity-overrides", equipment.HandleCapacityOverridesList)
	mux.HandleFunc("POST /api/equipment/{name}/capacity-overrides", equipment.HandleCapacityOverrideCreate)
	mux.HandleFunc("DELETE /api/equipment/capacity-overrides/{id}", equipment.HandleCapacityOverrideDelete)

	// Project routes
	mux.HandleFunc("GET /api/projects", projects.HandleProjectsList)
	mux.HandleFunc("POST /api/projects", projects.HandleProjectCreate)
	mux.HandleFunc("PUT /api/projects/{name}", projects.HandleProjectUpdate)
	mux.HandleFunc("DELETE /api/projects/{name}", projects.HandleProjectDelete)

	fs := http.FileServer(http.Dir(staticDir))
	mux.Handle("GET /static/", http.StripPrefix("/static/", fs))
}
