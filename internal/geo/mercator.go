package geo

import "math"

// TileSize is the pixel size of a zoom-0 world in Web Mercator.
const TileSize = 256

// maxLat is the latitude limit of the Web Mercator projection.
const maxLat = 85.05112878

// Point is a projected screen position in pixels.
type Point struct {
	X, Y float64
}

// Project converts lon/lat to world pixel coordinates at the given zoom,
// the same projection slippy maps use for their tiles.
func Project(lon, lat, zoom float64) Point {
	lat = math.Max(-maxLat, math.Min(maxLat, lat))
	scale := TileSize * math.Pow(2, zoom)
	x := (lon + 180) / 360 * scale
	sin := math.Sin(toRad(lat))
	y := (0.5 - math.Log((1+sin)/(1-sin))/(4*math.Pi)) * scale
	return Point{X: x, Y: y}
}

// Bounds is a lon/lat bounding box.
type Bounds struct {
	MinLon, MinLat, MaxLon, MaxLat float64
}

// Extend grows b to include the point. Start from NewBounds, not the zero value.
func (b *Bounds) Extend(lon, lat float64) {
	b.MinLon = math.Min(b.MinLon, lon)
	b.MaxLon = math.Max(b.MaxLon, lon)
	b.MinLat = math.Min(b.MinLat, lat)
	b.MaxLat = math.Max(b.MaxLat, lat)
}

// NewBounds returns a box that starts at a single point.
func NewBounds(lon, lat float64) Bounds {
	return Bounds{MinLon: lon, MinLat: lat, MaxLon: lon, MaxLat: lat}
}

// Center returns the midpoint of the box.
func (b Bounds) Center() (lon, lat float64) {
	return (b.MinLon + b.MaxLon) / 2, (b.MinLat + b.MaxLat) / 2
}

// Viewport maps lon/lat to pixels inside a width x height canvas.
type Viewport struct {
	Zoom   float64
	origin Point // world pixel at the canvas top-left corner
}

// FitViewport picks the largest zoom (capped at maxZoom) that fits b inside a
// width x height canvas with padding pixels on each side, centered on b.
func FitViewport(b Bounds, width, height, padding, maxZoom float64) Viewport {
	innerW := math.Max(1, width-2*padding)
	innerH := math.Max(1, height-2*padding)

	nw := Project(b.MinLon, b.MaxLat, 0)
	se := Project(b.MaxLon, b.MinLat, 0)
	spanX := se.X - nw.X
	spanY := se.Y - nw.Y

	zoom := maxZoom
	if spanX > 0 {
		zoom = math.Min(zoom, math.Log2(innerW/spanX))
	}
	if spanY > 0 {
		zoom = math.Min(zoom, math.Log2(innerH/spanY))
	}

	// Center on the projected midpoint, which differs from the lat midpoint.
	nwZ := Project(b.MinLon, b.MaxLat, zoom)
	seZ := Project(b.MaxLon, b.MinLat, zoom)
	cx, cy := (nwZ.X+seZ.X)/2, (nwZ.Y+seZ.Y)/2
	return Viewport{Zoom: zoom, origin: Point{X: cx - width/2, Y: cy - height/2}}
}

// Project converts lon/lat to canvas pixels.
func (v Viewport) Project(lon, lat float64) Point {
	p := Project(lon, lat, v.Zoom)
	return Point{X: p.X - v.origin.X, Y: p.Y - v.origin.Y}
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
