package dashboard

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"recontrack/config"
	"recontrack/database"
	"recontrack/model"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logrus.WithError(err).Error("failed to encode JSON response")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}

// StatsHandler serves the dashboard KPI aggregates.
func StatsHandler(db *sqlx.DB, cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.GetDashboardStats(db, cfg.AgingThresholdDays)
		if err != nil {
			logrus.WithError(err).Error("failed to compute dashboard stats")
			respondError(w, http.StatusInternalServerError, "Failed to compute dashboard stats")
			return
		}
		respondJSON(w, http.StatusOK, stats)
	}
}

// VehiclesHandler serves the filtered, sorted, paginated vehicle list.
func VehiclesHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filters := model.VehicleFilters{
			Search: q.Get("search"),
			Store:  q.Get("store"),
			Status: q.Get("status"),
			SortBy: q.Get("sortBy"),
			Page:   positiveInt(q.Get("page"), 1),
			Limit:  positiveInt(q.Get("limit"), 50),
		}

		items, total, err := database.ListFacts(db, filters)
		if err != nil {
			logrus.WithError(err).Error("failed to list vehicles")
			respondError(w, http.StatusInternalServerError, "Failed to list vehicles")
			return
		}
		if items == nil {
			items = []model.FactReconVehicle{}
		}
		respondJSON(w, http.StatusOK, model.VehicleList{Items: items, Total: total})
	}
}

// VehicleDetailHandler serves one fact row plus the vehicle's full repair
// order history with detail lines.
func VehicleDetailHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vin := chi.URLParam(r, "vin")

		vehicle, err := database.GetFactByVIN(db, vin)
		if err != nil {
			logrus.WithField("vin", vin).WithError(err).Error("failed to get vehicle")
			respondError(w, http.StatusInternalServerError, "Failed to get vehicle")
			return
		}
		if vehicle == nil {
			respondError(w, http.StatusNotFound, "Vehicle not found")
			return
		}

		ros, err := database.ListServiceROsByVIN(db, vin)
		if err != nil {
			logrus.WithField("vin", vin).WithError(err).Error("failed to get RO history")
			respondError(w, http.StatusInternalServerError, "Failed to get RO history")
			return
		}

		roNumbers := make([]string, len(ros))
		for i, ro := range ros {
			roNumbers[i] = ro.RONumber
		}
		details, err := database.ListRODetailsByRONumbers(db, roNumbers)
		if err != nil {
			logrus.WithField("vin", vin).WithError(err).Error("failed to get RO details")
			respondError(w, http.StatusInternalServerError, "Failed to get RO details")
			return
		}
		detailsByRO := make(map[string][]model.ServiceRODetail, len(ros))
		for _, d := range details {
			detailsByRO[d.RONumber] = append(detailsByRO[d.RONumber], d)
		}

		history := make([]model.ROWithDetails, len(ros))
		for i, ro := range ros {
			history[i] = model.ROWithDetails{ServiceRO: ro, Details: detailsByRO[ro.RONumber]}
			if history[i].Details == nil {
				history[i].Details = []model.ServiceRODetail{}
			}
		}

		respondJSON(w, http.StatusOK, model.VehicleDetail{Vehicle: *vehicle, ROHistory: history})
	}
}

func positiveInt(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
