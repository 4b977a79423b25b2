package handler

import (
	"net/http"
	"path/filepath"

	"bikeflow/internal/templates"
	"bikeflow/internal/traffic"
)

// Home renders the traffic map.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	settings := templates.MapSettings{
		Token:     h.cfg.MapboxToken,
		CenterLon: h.cfg.CenterLon,
		CenterLat: h.cfg.CenterLat,
		Zoom:      h.cfg.Zoom,
		MinZoom:   h.cfg.MinZoom,
		MaxZoom:   h.cfg.MaxZoom,
		SliderMin: int(traffic.Unfiltered),
		SliderMax: int(traffic.MaxAnchor),
	}
	for _, o := range h.cfg.Overlays {
		settings.Overlays = append(settings.Overlays, templates.OverlayLayer{
			ID:    o.ID,
			URL:   "/overlays/" + o.File,
			Color: o.Color,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.MapPage(h.page("Bike Traffic"), settings).Render(r.Context(), w); err != nil {
		h.logger.Error("rendering map page", "error", err)
	}
}

// Overlay serves a configured GeoJSON overlay file from the data directory.
// Only files named in the overlay configuration are served.
func (h *Handler) Overlay(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("file")
	for _, o := range h.cfg.Overlays {
		if o.File == name {
			w.Header().Set("Content-Type", "application/geo+json")
			w.Header().Set("Cache-Control", "public, max-age=86400")
			http.ServeFile(w, r, filepath.Join(h.cfg.DataDir, o.File))
			return
		}
	}
	http.NotFound(w, r)
}
