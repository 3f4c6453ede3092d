package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"recontrack/config"
	"recontrack/database"
	"recontrack/model"
)

func newTestServer(t *testing.T) (*sqlx.DB, *httptest.Server) {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, database.InitSchema(db))
	t.Cleanup(func() { db.Close() })

	cfg := config.Config{AgingThresholdDays: 10}
	r := chi.NewRouter()
	r.Get("/api/dashboard/stats", StatsHandler(db, cfg))
	r.Get("/api/vehicles", VehiclesHandler(db))
	r.Get("/api/vehicles/{vin}", VehicleDetailHandler(db))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return db, srv
}

func seedFacts(t *testing.T, db *sqlx.DB, facts []model.FactReconVehicle) {
	t.Helper()
	tx, err := db.Beginx()
	require.NoError(t, err)
	require.NoError(t, database.ReplaceFacts(tx, facts))
	require.NoError(t, tx.Commit())
}

func getJSON(t *testing.T, url string, out interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestStatsHandlerEmptyDB(t *testing.T) {
	_, srv := newTestServer(t)

	var stats model.DashboardStats
	code := getJSON(t, srv.URL+"/api/dashboard/stats", &stats)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 0, stats.AvgReconDays)
	require.Equal(t, 0, stats.CountInProgress)
	require.True(t, stats.TotalReconCost.IsZero())
}

func TestVehiclesHandlerListAndFilters(t *testing.T) {
	db, srv := newTestServer(t)
	seedFacts(t, db, []model.FactReconVehicle{
		{VIN: "VIN1", StockNo: "A100", Store: model.StoreACF, EntryDate: "2023-10-01",
			ReconDays: 12, ReconStatus: model.ReconStatusComplete, TotalReconCost: decimal.NewFromInt(500)},
		{VIN: "VIN2", StockNo: "B200", Store: model.StoreLCF, EntryDate: "2023-10-05",
			ReconDays: 3, ReconStatus: model.ReconStatusInProgress, TotalReconCost: decimal.NewFromInt(150)},
	})

	var list model.VehicleList
	code := getJSON(t, srv.URL+"/api/vehicles", &list)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 2, list.Total)
	require.Equal(t, "VIN1", list.Items[0].VIN, "days_desc is the default order")

	code = getJSON(t, srv.URL+"/api/vehicles?store=2", &list)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 1, list.Total)
	require.Equal(t, "VIN2", list.Items[0].VIN)
}

func TestVehiclesHandlerEmptyListIsJSONArray(t *testing.T) {
	_, srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/vehicles")
	require.NoError(t, err)
	defer resp.Body.Close()

	var raw map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	require.JSONEq(t, `[]`, string(raw["items"]), "empty result must serialize as [], not null")
}

func TestVehicleDetailHandlerNotFound(t *testing.T) {
	_, srv := newTestServer(t)

	var body map[string]string
	code := getJSON(t, srv.URL+"/api/vehicles/NOPE", &body)
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, "Vehicle not found", body["message"])
}

func TestVehicleDetailHandlerWithHistory(t *testing.T) {
	db, srv := newTestServer(t)
	seedFacts(t, db, []model.FactReconVehicle{
		{VIN: "VIN1", StockNo: "A100", Store: model.StoreACF, EntryDate: "2023-10-01",
			ReconDays: 4, ReconStatus: model.ReconStatusComplete, TotalReconCost: decimal.NewFromInt(60)},
	})

	tx, err := db.Beginx()
	require.NoError(t, err)
	require.NoError(t, database.UpsertServiceROs(tx, []model.ServiceRO{
		{RONumber: "R1", VIN: "VIN1", OpenDate: "2023-10-02", CloseDate: "2023-10-05"},
		{RONumber: "R2", VIN: "VIN1", OpenDate: "2023-10-06", IsOpen: true},
	}))
	require.NoError(t, database.InsertRODetails(tx, []model.ServiceRODetail{
		{RONumber: "R1", OpCode: "UCI", OpDescription: "Used car inspection",
			LaborCost: decimal.NewFromInt(50), PartsCost: decimal.NewFromInt(10)},
	}))
	require.NoError(t, tx.Commit())

	var detail model.VehicleDetail
	code := getJSON(t, srv.URL+"/api/vehicles/VIN1", &detail)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "VIN1", detail.Vehicle.VIN)
	require.Len(t, detail.ROHistory, 2)

	// Closed ROs sort before open ones (empty close dates last).
	require.Equal(t, "R1", detail.ROHistory[0].RONumber)
	require.Len(t, detail.ROHistory[0].Details, 1)
	require.Equal(t, "UCI", detail.ROHistory[0].Details[0].OpCode)
	require.Empty(t, detail.ROHistory[1].Details, "open RO without lines gets an empty array")
}
