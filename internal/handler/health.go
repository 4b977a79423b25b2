package handler

import (
	"net/http"
	"time"
)

// HealthResponse is the JSON body of GET /healthz.
type HealthResponse struct {
	Status     string    `json:"status"`
	Dataset    string    `json:"dataset"`
	Stations   int       `json:"stations"`
	Trips      int       `json:"trips"`
	MaxTraffic int       `json:"maxTraffic"`
	ImportedAt string    `json:"importedAt,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Health reports whether the dataset is loaded. It answers 503 while loading.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	stations, trips, maxTraffic := h.ctrl.Stats()
	resp := HealthResponse{
		Status:     "ok",
		Dataset:    "loaded",
		Stations:   stations,
		Trips:      trips,
		MaxTraffic: maxTraffic,
		Timestamp:  time.Now().UTC(),
	}
	if imported, err := h.db.GetMetadata(r.Context(), "imported_at"); err == nil {
		resp.ImportedAt = imported
	}

	status := http.StatusOK
	if !h.ctrl.Loaded() {
		resp.Status = "unavailable"
		resp.Dataset = "loading"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}
