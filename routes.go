package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"recontrack/config"
	"recontrack/dashboard"
	"recontrack/loader"
)

// withConfig resolves the current configuration per request, so settings
// saved through /api/settings apply without a restart.
func withConfig(build func(cfg config.Config) http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		build(config.GetConfig())(w, r)
	}
}

func setupRoutes(r chi.Router, db *sqlx.DB) {
	r.Get("/api/dashboard/stats", withConfig(func(cfg config.Config) http.HandlerFunc {
		return dashboard.StatsHandler(db, cfg)
	}))
	r.Get("/api/vehicles", dashboard.VehiclesHandler(db))
	r.Get("/api/vehicles/{vin}", dashboard.VehicleDetailHandler(db))

	r.Get("/api/ingest/logs", withConfig(func(cfg config.Config) http.HandlerFunc {
		return loader.IngestionLogsHandler(db, cfg)
	}))
	r.Post("/api/ingest/trigger", withConfig(func(cfg config.Config) http.HandlerFunc {
		return loader.TriggerIngestHandler(db, cfg)
	}))
	r.Post("/api/ingest/upload", withConfig(func(cfg config.Config) http.HandlerFunc {
		return loader.UploadHandler(db, cfg)
	}))

	r.Get("/api/settings", GetSettingsHandler())
	r.Put("/api/settings", SaveSettingsHandler())
}
