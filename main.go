package main

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"recontrack/config"
	"recontrack/database"
	"recontrack/loader"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Warn("failed to load config file, using defaults")
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		logrus.WithError(err).Fatal("failed to open database")
	}
	defer db.Close()

	if err := database.InitSchema(db); err != nil {
		logrus.WithError(err).Fatal("failed to initialize database schema")
	}
	if err := loader.EnsureDirs(cfg); err != nil {
		logrus.WithError(err).Fatal("failed to create data directories")
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	setupRoutes(r, db)

	logrus.WithField("addr", cfg.ListenAddr).Info("starting recon tracker")
	if err := http.ListenAndServe(cfg.ListenAddr, r); err != nil {
		logrus.WithError(err).Fatal("server exited")
	}
}
