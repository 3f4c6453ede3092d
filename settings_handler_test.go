package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"recontrack/config"
)

// chdir stands in for t.Chdir, which requires Go 1.24+.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(old) })
}

func TestSaveSettingsPartialBodyKeepsPolicyFlags(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := config.LoadConfig()
	require.NoError(t, err)

	cfg := config.GetConfig()
	cfg.IncludeNoReconFound = true
	cfg.OverwriteStoreOnConflict = true
	require.NoError(t, config.SaveConfig(cfg))

	req := httptest.NewRequest(http.MethodPut, "/api/settings",
		strings.NewReader(`{"agingThresholdDays":14}`))
	rec := httptest.NewRecorder()
	SaveSettingsHandler()(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	got := config.GetConfig()
	require.Equal(t, 14, got.AgingThresholdDays)
	require.True(t, got.IncludeNoReconFound, "omitted flags keep their saved values")
	require.True(t, got.OverwriteStoreOnConflict)
}

func TestSaveSettingsRejectsMalformedBody(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := config.LoadConfig()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/api/settings", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()
	SaveSettingsHandler()(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
