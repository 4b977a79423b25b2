package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration from environment variables.
type Config struct {
	Port   int
	DBPath string // empty means an in-memory database

	DataDir        string // directory holding overlay GeoJSON files
	StationsSource string // path or http(s) URL of the station registry
	TripsSource    string // path or http(s) URL of the trip log CSV
	Timezone       string // zone used to read trip timestamps

	MapboxToken string
	CenterLon   float64
	CenterLat   float64
	Zoom        float64
	MinZoom     float64
	MaxZoom     float64
	Overlays    []Overlay

	CORSOrigins []string
	CacheTTLSec int
}

// Overlay is a static GeoJSON line layer drawn under the station markers.
type Overlay struct {
	ID    string
	File  string
	Color string // hex without '#'
}

const defaultOverlays = "boston_route=Existing_Bike_Network_2022.geojson#32D400," +
	"cambridge_route=cambridge.json#FF69B4"

// Load reads configuration from environment variables with defaults.
// A .env file in the working directory is applied first if present.
func Load() *Config {
	_ = godotenv.Load()

	overlays, err := ParseOverlays(envStr("BIKEFLOW_OVERLAYS", defaultOverlays))
	if err != nil {
		overlays, _ = ParseOverlays(defaultOverlays)
	}

	return &Config{
		Port:           envInt("BIKEFLOW_PORT", 8080),
		DBPath:         envStr("BIKEFLOW_DB_PATH", ""),
		DataDir:        envStr("BIKEFLOW_DATA_DIR", "./data"),
		StationsSource: envStr("BIKEFLOW_STATIONS_SOURCE", "./data/bluebikes-stations.json"),
		TripsSource:    envStr("BIKEFLOW_TRIPS_SOURCE", "./data/bluebikes-traffic-2024-03.csv"),
		Timezone:       envStr("BIKEFLOW_TIMEZONE", "America/New_York"),
		MapboxToken:    envStr("BIKEFLOW_MAPBOX_TOKEN", ""),
		CenterLon:      envFloat("BIKEFLOW_CENTER_LON", -71.05826923630575),
		CenterLat:      envFloat("BIKEFLOW_CENTER_LAT", 42.36017173587506),
		Zoom:           envFloat("BIKEFLOW_ZOOM", 12),
		MinZoom:        envFloat("BIKEFLOW_MIN_ZOOM", 5),
		MaxZoom:        envFloat("BIKEFLOW_MAX_ZOOM", 18),
		Overlays:       overlays,
		CORSOrigins:    envList("BIKEFLOW_CORS_ORIGINS", []string{"*"}),
		CacheTTLSec:    envInt("BIKEFLOW_CACHE_TTL_SEC", 300),
	}
}

// ParseOverlays parses "id=file#color,id=file#color".
func ParseOverlays(s string) ([]Overlay, error) {
	var out []Overlay
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		id, rest, ok := strings.Cut(item, "=")
		if !ok || id == "" {
			return nil, fmt.Errorf("overlay %q: missing id", item)
		}
		file, color, _ := strings.Cut(rest, "#")
		if file == "" {
			return nil, fmt.Errorf("overlay %q: missing file", item)
		}
		if color == "" {
			color = "32D400"
		}
		out = append(out, Overlay{ID: id, File: file, Color: color})
	}
	return out, nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
