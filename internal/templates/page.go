package templates

import "strconv"

// Page holds fields shared by every rendered page.
type Page struct {
	Title        string
	AssetVersion string
}

// MapSettings configures the Mapbox map and the time slider.
type MapSettings struct {
	Token     string
	CenterLon float64
	CenterLat float64
	Zoom      float64
	MinZoom   float64
	MaxZoom   float64
	SliderMin int
	SliderMax int
	Overlays  []OverlayLayer
}

// OverlayLayer is a GeoJSON line layer added on map load.
type OverlayLayer struct {
	ID    string
	URL   string
	Color string // hex without '#'
}

// Snapshot is a standalone SVG of the station markers.
type Snapshot struct {
	Width   float64
	Height  float64
	Label   string
	Circles []Circle
}

// Circle is one projected station marker.
type Circle struct {
	X, Y  float64
	R     float64
	Fill  string
	Title string
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func fixed(f float64, prec int) string {
	return strconv.FormatFloat(f, 'f', prec, 64)
}

func viewBox(w, h float64) string {
	return "0 0 " + num(w) + " " + num(h)
}
