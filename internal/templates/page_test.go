package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestMapPage(t *testing.T) {
	var buf bytes.Buffer
	err := MapPage(
		Page{Title: "Bikes & Traffic", AssetVersion: "abc123"},
		MapSettings{
			Token:     `pk.x"y`,
			CenterLon: -71.05827,
			CenterLat: 42.36017,
			Zoom:      12,
			MinZoom:   5,
			MaxZoom:   18,
			SliderMin: -1,
			SliderMax: 1440,
			Overlays:  []OverlayLayer{{ID: "boston_route", URL: "/overlays/boston.geojson", Color: "32D400"}},
		},
	).Render(context.Background(), &buf)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	html := buf.String()

	for _, want := range []string{
		"<title>Bikes &amp; Traffic</title>",
		`min="-1" max="1440" value="-1"`,
		`data-center-lon="-71.05827"`,
		`data-token="pk.x&#34;y"`,
		`data-url="/overlays/boston.geojson"`,
		`data-color="#32D400"`,
		"/static/app.js?v=abc123",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("MapPage output missing %q", want)
		}
	}
}

func TestMapPage_OverlayLoop(t *testing.T) {
	var buf bytes.Buffer
	err := MapPage(Page{Title: "t"}, MapSettings{Overlays: []OverlayLayer{
		{ID: "a", URL: "/overlays/a.json", Color: "111111"},
		{ID: "b", URL: "/overlays/b.json", Color: "222222"},
	}}).Render(context.Background(), &buf)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if n := strings.Count(buf.String(), `class="overlay"`); n != 2 {
		t.Errorf("overlay spans = %d, want 2", n)
	}
	if !strings.Contains(buf.String(), `class="legend"`) {
		t.Error("MapPage output missing legend")
	}
}

func TestSnapshotSVG(t *testing.T) {
	tests := []struct {
		name    string
		snap    Snapshot
		want    []string
		notWant string
	}{
		{
			name: "filtered",
			snap: Snapshot{
				Width:  400,
				Height: 300,
				Label:  "10:00 AM",
				Circles: []Circle{
					{X: 12.34, Y: 56.78, R: 3.456, Fill: "#4682b4", Title: "Bravo <North>: 1 trips"},
				},
			},
			want: []string{
				`width="400" height="300" viewBox="0 0 400 300"`,
				`<circle cx="12.3" cy="56.8" r="3.46" fill="#4682b4"`,
				"<title>Bravo &lt;North&gt;: 1 trips</title>",
				">10:00 AM</text>",
			},
		},
		{
			name:    "unfiltered has no label",
			snap:    Snapshot{Width: 800, Height: 600},
			want:    []string{`viewBox="0 0 800 600"`, "</svg>"},
			notWant: "<text",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := SnapshotSVG(tt.snap).Render(context.Background(), &buf); err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			svg := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(svg, want) {
					t.Errorf("SnapshotSVG output missing %q in %s", want, svg)
				}
			}
			if tt.notWant != "" && strings.Contains(svg, tt.notWant) {
				t.Errorf("SnapshotSVG output contains %q", tt.notWant)
			}
		})
	}
}
