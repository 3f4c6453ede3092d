package main

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"recontrack/config"
	"recontrack/loader"
)

func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

// GetSettingsHandler returns the current runtime configuration.
func GetSettingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(config.GetConfig())
	}
}

// SaveSettingsHandler persists a new configuration to the config file.
// Policy flags and thresholds apply from the next request; the listen
// address and DB path need a restart.
func SaveSettingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Decoding over the current config makes partial updates safe:
		// omitted keys keep their values instead of resetting, which matters
		// for the boolean policy flags where defaults cannot backfill.
		newCfg := config.GetConfig()
		if err := json.NewDecoder(r.Body).Decode(&newCfg); err != nil {
			writeJSONError(w, "Invalid settings payload: "+err.Error(), http.StatusBadRequest)
			return
		}

		if err := config.SaveConfig(newCfg); err != nil {
			logrus.WithError(err).Error("failed to save settings")
			writeJSONError(w, "Failed to save settings", http.StatusInternalServerError)
			return
		}

		// Intake directories may have moved.
		if err := loader.EnsureDirs(config.GetConfig()); err != nil {
			logrus.WithError(err).Error("failed to create data directories")
			writeJSONError(w, "Settings saved but directories could not be created", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(config.GetConfig())
	}
}
