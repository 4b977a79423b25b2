package handler

import (
	"errors"
	"net/http"

	"bikeflow/internal/overlay"
	"bikeflow/internal/traffic"
)

// TrafficResponse is the JSON body of GET /api/traffic.
type TrafficResponse struct {
	Time      int              `json:"time"`
	Label     string           `json:"label"`
	Filtered  bool             `json:"filtered"`
	MinRadius float64          `json:"minRadius"`
	MaxRadius float64          `json:"maxRadius"`
	Stations  []overlay.Marker `json:"stations"`
}

// Traffic handles GET /api/traffic?time=N.
// A missing time or -1 returns traffic over all trips.
func (h *Handler) Traffic(w http.ResponseWriter, r *http.Request) {
	anchor, err := traffic.ParseAnchor(r.URL.Query().Get("time"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	markers, err := h.ctrl.Markers(anchor)
	if err != nil {
		h.markerError(w, err)
		return
	}

	minRadius, maxRadius := traffic.RadiusRange(anchor)
	writeJSON(w, http.StatusOK, TrafficResponse{
		Time:      int(anchor),
		Label:     traffic.FormatAnchor(anchor),
		Filtered:  anchor != traffic.Unfiltered,
		MinRadius: minRadius,
		MaxRadius: maxRadius,
		Stations:  markers,
	})
}

// StationResponse is the JSON body of GET /api/stations/{id}.
type StationResponse struct {
	overlay.Marker
	Capacity int    `json:"capacity"`
	Time     int    `json:"time"`
	Label    string `json:"label"`
}

// Station handles GET /api/stations/{id}?time=N.
func (h *Handler) Station(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	anchor, err := traffic.ParseAnchor(r.URL.Query().Get("time"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	m, ok, err := h.ctrl.Marker(id, anchor)
	if err != nil {
		h.markerError(w, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "station not found")
		return
	}

	resp := StationResponse{Marker: m, Time: int(anchor), Label: traffic.FormatAnchor(anchor)}
	if row, err := h.db.StationByShortName(r.Context(), id); err != nil {
		h.logger.Warn("station lookup failed", "station", id, "error", err)
	} else if row != nil {
		resp.Capacity = row.Capacity
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) markerError(w http.ResponseWriter, err error) {
	if errors.Is(err, overlay.ErrNotLoaded) {
		w.Header().Set("Retry-After", "5")
		writeError(w, http.StatusServiceUnavailable, "dataset not loaded")
		return
	}
	h.logger.Error("computing markers", "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}
