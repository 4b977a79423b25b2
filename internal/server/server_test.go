package server

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"bikeflow/internal/config"
	"bikeflow/internal/overlay"
	"bikeflow/internal/storage"
	"bikeflow/internal/traffic"
)

func newTestServer(t *testing.T) (*Server, *overlay.Controller) {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"), discard)
	if err != nil {
		t.Fatalf("storage.Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{MaxZoom: 18, CORSOrigins: []string{"https://maps.example.org"}}
	ctrl := overlay.NewController(time.Minute, discard)
	t.Cleanup(ctrl.Close)
	return New(cfg, ctrl, db, discard), ctrl
}

func TestServer_ReadyLifecycle(t *testing.T) {
	s, ctrl := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/traffic")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("before ready: status = %d, want 503", resp.StatusCode)
	}

	ctrl.SetDataset(
		[]traffic.Station{{ShortName: "A", Lon: -71.05, Lat: 42.36}},
		[]traffic.Trip{{StartStationID: "A", EndStationID: "A"}},
	)
	s.SetReady()
	s.SetReady() // idempotent

	resp, err = http.Get(ts.URL + "/api/traffic?time=-1")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("after ready: status = %d, want 200", resp.StatusCode)
	}
	if resp.Header.Get(requestIDHeader) == "" {
		t.Error("response missing request id")
	}
}

func TestServer_CORSPreflight(t *testing.T) {
	s, _ := newTestServer(t)
	s.SetReady()

	req := httptest.NewRequest("OPTIONS", "/api/traffic", nil)
	req.Header.Set("Origin", "https://maps.example.org")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://maps.example.org" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestServer_Metrics(t *testing.T) {
	s, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "bikeflow_dataset_stations") {
		t.Error("metrics output missing bikeflow_dataset_stations")
	}
}

func TestServer_StaticAssets(t *testing.T) {
	s, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/static/app.js?v=1", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
