package main

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/schedboard/internal/clients/scheduledata"
	"github.com/aristath/schedboard/internal/config"
	"github.com/aristath/schedboard/internal/domain"
	"github.com/aristath/schedboard/internal/modules/charts"
	"github.com/aristath/schedboard/internal/modules/dashboard"
	"github.com/aristath/schedboard/internal/render/web"
	testingpkg "github.com/aristath/schedboard/internal/testing"
)

// setFlags sets the persistent flag values and restores them after the test
func setFlags(t *testing.T, api, level, wire, bucket string) {
	t.Helper()
	apiURL, logLevel, codec, week = api, level, wire, bucket
	t.Cleanup(func() {
		apiURL, logLevel, codec, week = "", "", "", ""
	})
}

func setEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"SCHEDBOARD_FETCH_TIMEOUT",
		"SCHEDBOARD_ASSIGNMENT_KIND",
		"SCHEDBOARD_ASSIGNMENT_TITLE",
		"SCHEDBOARD_EXPORT_DIR",
		"SCHEDBOARD_ECHARTS_URL",
		"LOG_FILE",
		"MAX_WIDTH",
		"MAX_HEIGHT",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("SCHEDBOARD_API_URL", "http://env.example.com")
	t.Setenv("SCHEDBOARD_DEFAULT_WEEK", "Week 2")
	t.Setenv("SCHEDBOARD_CODEC", "json")
	t.Setenv("LOG_LEVEL", "warn")
}

func TestLoadConfig_FlagsOverrideEnvironment(t *testing.T) {
	tests := []struct {
		name      string
		api       string
		level     string
		codec     string
		week      string
		wantURL   string
		wantLevel string
		wantCodec string
		wantWeek  domain.Bucket
	}{
		{
			name:      "no flags keeps environment",
			wantURL:   "http://env.example.com",
			wantLevel: "warn",
			wantCodec: config.CodecJSON,
			wantWeek:  domain.Week2,
		},
		{
			name:      "api url",
			api:       "https://flag.example.com/",
			wantURL:   "https://flag.example.com",
			wantLevel: "warn",
			wantCodec: config.CodecJSON,
			wantWeek:  domain.Week2,
		},
		{
			name:      "codec is lowercased",
			codec:     "MSGPACK",
			wantURL:   "http://env.example.com",
			wantLevel: "warn",
			wantCodec: config.CodecMsgpack,
			wantWeek:  domain.Week2,
		},
		{
			name:      "bare week number",
			week:      "3",
			wantURL:   "http://env.example.com",
			wantLevel: "warn",
			wantCodec: config.CodecJSON,
			wantWeek:  domain.Week3,
		},
		{
			name:      "all flags",
			api:       "http://localhost:9000",
			level:     "debug",
			codec:     "json",
			week:      "week-4",
			wantURL:   "http://localhost:9000",
			wantLevel: "debug",
			wantCodec: config.CodecJSON,
			wantWeek:  domain.Week4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t)
			setFlags(t, tt.api, tt.level, tt.codec, tt.week)

			cfg, err := loadConfig()
			require.NoError(t, err)
			assert.Equal(t, tt.wantURL, cfg.APIURL)
			assert.Equal(t, tt.wantLevel, cfg.LogLevel)
			assert.Equal(t, tt.wantCodec, cfg.Codec)
			assert.Equal(t, tt.wantWeek, cfg.DefaultBucket)
		})
	}
}

func TestLoadConfig_InvalidFlags(t *testing.T) {
	tests := []struct {
		name    string
		api     string
		codec   string
		week    string
		wantErr string
	}{
		{name: "unknown week", week: "9", wantErr: "invalid bucket"},
		{name: "unknown codec", codec: "xml", wantErr: "invalid codec"},
		{name: "unsupported scheme", api: "ftp://files.example.com", wantErr: "unsupported scheme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t)
			setFlags(t, tt.api, "", tt.codec, tt.week)

			_, err := loadConfig()
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func newAssetServer(t *testing.T, status int) string {
	t.Helper()
	r := chi.NewRouter()
	r.Get("/"+web.AssetName, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte("/* echarts */"))
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv.URL + "/" + web.AssetName
}

func exportConfig(apiURL, assetURL string) *config.Config {
	return &config.Config{
		APIURL:          apiURL,
		DefaultBucket:   domain.Week1,
		FetchTimeout:    5 * time.Second,
		Codec:           config.CodecJSON,
		AssignmentKind:  charts.KindBar,
		AssignmentTitle: charts.DefaultAssignmentTitle,
		EChartsURL:      assetURL,
		LogLevel:        "error",
	}
}

func newBackend(t *testing.T) *testingpkg.ScheduleServer {
	t.Helper()
	srv := testingpkg.NewScheduleServer(t)
	for _, f := range charts.Families() {
		srv.SetRecords(f.Endpoint(), domain.Week1, testingpkg.NewRecordFixtures())
	}
	return srv
}

func pages(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "chart-*.html"))
	require.NoError(t, err)
	return matches
}

func TestExportHTML_WritesEveryChart(t *testing.T) {
	srv := newBackend(t)
	dir := t.TempDir()

	err := exportHTML(exportConfig(srv.URL, newAssetServer(t, http.StatusOK)), dir, zerolog.Nop())
	require.NoError(t, err)
	assert.Len(t, pages(t, dir), len(charts.Families()))
	assert.FileExists(t, filepath.Join(dir, web.AssetName))
}

func TestExportHTML_ReportsFailedFetch(t *testing.T) {
	srv := newBackend(t)
	srv.SetEndpointStatus(charts.FamilyOrder.Endpoint(), http.StatusInternalServerError)
	dir := t.TempDir()

	err := exportHTML(exportConfig(srv.URL, newAssetServer(t, http.StatusOK)), dir, zerolog.Nop())
	require.Error(t, err)
	assert.ErrorIs(t, err, dashboard.ErrFetchFailed)
	assert.ErrorIs(t, err, scheduledata.ErrUnexpectedStatus)
	assert.ErrorContains(t, err, "Order Cost")
	assert.NotContains(t, err.Error(), "Schedule Cost")

	assert.Len(t, pages(t, dir), len(charts.Families())-1)
}

func TestExportHTML_ReportsUnconstructedCharts(t *testing.T) {
	srv := newBackend(t)
	dir := t.TempDir()

	err := exportHTML(exportConfig(srv.URL, newAssetServer(t, http.StatusNotFound)), dir, zerolog.Nop())
	require.Error(t, err)
	assert.ErrorIs(t, err, dashboard.ErrRenderInit)
	for _, f := range charts.Families() {
		assert.ErrorContains(t, err, charts.MustPlanFor(f).Title)
	}
	assert.Empty(t, pages(t, dir))
}
