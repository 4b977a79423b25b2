package bluebikes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"bikeflow/internal/storage"
	"bikeflow/internal/traffic"
)

const registryDoc = `{"data":{"stations":[
  {"short_name":"A","name":"Alpha","lon":-71.05,"lat":42.36},
  {"short_name":"B","name":"Bravo","lon":-71.10,"lat":42.37}
]}}`

const tripsCSV = "ride_id,started_at,ended_at,start_station_id,end_station_id\n" +
	"R1,2024-03-01 10:00:00,2024-03-01 10:15:00,A,B\n" +
	"R2,not a time,2024-03-01 18:30:00,B,A\n" +
	"R3,2024-03-01 07:00:00,2024-03-01 07:20:00,A,X\n"

func newTestProvider(t *testing.T, stationsSrc, tripsSrc string) (*Provider, *storage.DB) {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"), discard)
	if err != nil {
		t.Fatalf("storage.Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	loader := NewLoader(NewFetcher(discard), stationsSrc, tripsSrc, discard)
	return NewProvider(loader, db, time.UTC, discard), db
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestProvider_EnsureDataAndRead(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(registryDoc))
	}))
	defer srv.Close()

	p, db := newTestProvider(t, srv.URL+"/station_information.json", writeFile(t, "trips.csv", tripsCSV))
	ctx := context.Background()

	if err := p.EnsureData(ctx); err != nil {
		t.Fatalf("EnsureData() error = %v", err)
	}
	if v, _ := db.GetMetadata(ctx, "imported_at"); v == "" {
		t.Error("imported_at metadata not set")
	}

	stations, trips, err := p.Read(ctx)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(stations) != 2 || stations[0].ShortName != "A" || stations[1].Name != "Bravo" {
		t.Errorf("stations = %+v", stations)
	}
	if len(trips) != 3 {
		t.Fatalf("trips = %d, want 3", len(trips))
	}
	if got := traffic.MinutesSinceMidnight(trips[0].StartedAt); got != 600 {
		t.Errorf("trips[0] start minute = %d, want 600", got)
	}
	if !trips[1].StartedAt.IsZero() {
		t.Errorf("unparseable start = %v, want zero time", trips[1].StartedAt)
	}

	agg := traffic.Aggregate(stations, trips)
	if agg[0].Departures != 2 || agg[0].Arrivals != 1 {
		t.Errorf("A = %+v, want 2 departures, 1 arrival", agg[0])
	}

	// A second EnsureData must not re-import.
	if err := p.EnsureData(ctx); err != nil {
		t.Fatalf("second EnsureData() error = %v", err)
	}
	if n, _ := db.TripCount(ctx); n != 3 {
		t.Errorf("TripCount() = %d after second EnsureData, want 3", n)
	}
}

func TestProvider_StationRegistryFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	p, db := newTestProvider(t, srv.URL, writeFile(t, "trips.csv", tripsCSV))
	ctx := context.Background()

	if err := p.EnsureData(ctx); err == nil {
		t.Fatal("EnsureData() error = nil, want station registry error")
	}
	if db.HasData(ctx) {
		t.Error("HasData() = true after failed load")
	}
}

func TestProvider_MissingTripLog(t *testing.T) {
	p, _ := newTestProvider(t,
		writeFile(t, "stations.json", registryDoc),
		filepath.Join(t.TempDir(), "missing.csv"))

	if err := p.EnsureData(context.Background()); err == nil {
		t.Error("EnsureData() error = nil, want missing trip log error")
	}
}

func TestProvider_SpringForwardKeepsWallClock(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tz database unavailable: %v", err)
	}
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"), discard)
	if err != nil {
		t.Fatalf("storage.Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	trips := "started_at,ended_at,start_station_id,end_station_id\n" +
		"2024-03-10 01:50:00,2024-03-10 02:30:00,A,B\n"
	loader := NewLoader(NewFetcher(discard),
		writeFile(t, "stations.json", registryDoc), writeFile(t, "trips.csv", trips), discard)
	p := NewProvider(loader, db, loc, discard)

	ctx := context.Background()
	if err := p.EnsureData(ctx); err != nil {
		t.Fatalf("EnsureData() error = %v", err)
	}
	_, got, err := p.Read(ctx)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("trips = %d, want 1", len(got))
	}
	if m := traffic.MinutesSinceMidnight(got[0].EndedAt); m != 150 {
		t.Errorf("ended_at minute = %d, want 150", m)
	}
	if m := traffic.MinutesSinceMidnight(got[0].StartedAt); m != 110 {
		t.Errorf("started_at minute = %d, want 110", m)
	}
	if n := len(traffic.FilterByAnchor(got, 210)); n != 1 {
		t.Errorf("FilterByAnchor(210) kept %d trips, want 1", n)
	}
}
