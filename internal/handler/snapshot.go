package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"bikeflow/internal/geo"
	"bikeflow/internal/overlay"
	"bikeflow/internal/templates"
	"bikeflow/internal/traffic"
)

const (
	snapshotPadding = 30
	minSnapshotSize = 100
	maxSnapshotSize = 4000
)

// Marker fill colors, blended by departure ratio.
var (
	departuresColor = rgb{70, 130, 180} // steelblue
	arrivalsColor   = rgb{255, 140, 0}  // darkorange
)

// Snapshot handles GET /api/snapshot.svg?time=N&width=W&height=H and renders
// the station markers as a standalone SVG fitted to the station bounds.
func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	anchor, err := traffic.ParseAnchor(q.Get("time"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	width, err := sizeParam(q.Get("width"), 800)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	height, err := sizeParam(q.Get("height"), 600)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	markers, err := h.ctrl.Markers(anchor)
	if err != nil {
		h.markerError(w, err)
		return
	}

	snap := buildSnapshot(markers, anchor, float64(width), float64(height), h.cfg.MaxZoom)
	w.Header().Set("Content-Type", "image/svg+xml")
	if err := templates.SnapshotSVG(snap).Render(r.Context(), w); err != nil {
		h.logger.Error("rendering snapshot", "error", err)
	}
}

func sizeParam(s string, fallback int) (int, error) {
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < minSnapshotSize || n > maxSnapshotSize {
		return 0, fmt.Errorf("size %q must be between %d and %d", s, minSnapshotSize, maxSnapshotSize)
	}
	return n, nil
}

// buildSnapshot projects markers into a width x height canvas fitted to
// the station bounds.
func buildSnapshot(markers []overlay.Marker, anchor traffic.Anchor, width, height, maxZoom float64) templates.Snapshot {
	snap := templates.Snapshot{
		Width:  width,
		Height: height,
		Label:  traffic.FormatAnchor(anchor),
	}
	if len(markers) == 0 {
		return snap
	}

	b := geo.NewBounds(markers[0].Lon, markers[0].Lat)
	for _, m := range markers[1:] {
		b.Extend(m.Lon, m.Lat)
	}
	vp := geo.FitViewport(b, width, height, snapshotPadding, maxZoom)

	snap.Circles = make([]templates.Circle, len(markers))
	for i, m := range markers {
		p := vp.Project(m.Lon, m.Lat)
		snap.Circles[i] = templates.Circle{
			X:     p.X,
			Y:     p.Y,
			R:     m.Radius,
			Fill:  blend(m.DepartureRatio),
			Title: m.Name + ": " + m.Title,
		}
	}
	return snap
}

type rgb struct{ r, g, b uint8 }

// blend mixes departuresColor and arrivalsColor: ratio 1 is all departures.
func blend(ratio float64) string {
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a)*ratio + float64(b)*(1-ratio) + 0.5)
	}
	return fmt.Sprintf("#%02x%02x%02x",
		mix(departuresColor.r, arrivalsColor.r),
		mix(departuresColor.g, arrivalsColor.g),
		mix(departuresColor.b, arrivalsColor.b))
}
