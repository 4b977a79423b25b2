// Package overlay owns the loaded dataset and turns a time-of-day anchor
// into render-ready station markers.
package overlay

import (
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"bikeflow/internal/metrics"
	"bikeflow/internal/traffic"
)

// ErrNotLoaded is returned before a dataset has been installed.
var ErrNotLoaded = errors.New("dataset not loaded")

// Marker is one station circle: traffic counts plus its visual encoding.
type Marker struct {
	ShortName      string  `json:"shortName"`
	Name           string  `json:"name"`
	Lon            float64 `json:"lon"`
	Lat            float64 `json:"lat"`
	Arrivals       int     `json:"arrivals"`
	Departures     int     `json:"departures"`
	TotalTraffic   int     `json:"totalTraffic"`
	Radius         float64 `json:"radius"`
	DepartureRatio float64 `json:"departureRatio"`
	Title          string  `json:"title"`
}

// Controller holds the application state. Every query re-derives filtered
// trips and station traffic from the immutable dataset, so concurrent
// requests never share mutable records.
type Controller struct {
	mu         sync.RWMutex
	stations   []traffic.Station
	trips      []traffic.Trip
	maxTraffic int // from the unfiltered dataset
	loaded     bool
	generation int

	cache  *Cache
	logger *slog.Logger
}

// NewController creates an empty Controller. cacheTTL <= 0 disables caching.
func NewController(cacheTTL time.Duration, logger *slog.Logger) *Controller {
	c := &Controller{logger: logger}
	if cacheTTL > 0 {
		c.cache = NewCache(cacheTTL)
	}
	return c
}

// Close releases the marker cache.
func (c *Controller) Close() {
	if c.cache != nil {
		c.cache.Close()
	}
}

// SetDataset installs a dataset and clears cached markers.
func (c *Controller) SetDataset(stations []traffic.Station, trips []traffic.Trip) {
	maxTraffic := traffic.MaxTraffic(traffic.Aggregate(stations, trips))

	c.mu.Lock()
	c.stations = stations
	c.trips = trips
	c.maxTraffic = maxTraffic
	c.loaded = true
	c.generation++
	if c.cache != nil {
		c.cache.Reset()
	}
	c.mu.Unlock()

	metrics.DatasetStations.Set(float64(len(stations)))
	metrics.DatasetTrips.Set(float64(len(trips)))
	c.logger.Info("dataset installed", "stations", len(stations), "trips", len(trips), "max_traffic", maxTraffic)
}

// Loaded reports whether a dataset is installed.
func (c *Controller) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Stats returns the dataset sizes and the unfiltered maximum traffic.
func (c *Controller) Stats() (stations, trips, maxTraffic int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.stations), len(c.trips), c.maxTraffic
}

// Markers returns one marker per station, in registry order, for the anchor.
// The returned slice is shared with the cache and must not be modified.
func (c *Controller) Markers(anchor traffic.Anchor) ([]Marker, error) {
	if c.cache != nil {
		if m, ok := c.cache.Get(anchor); ok {
			metrics.MarkerCache.WithLabelValues("hit").Inc()
			return m, nil
		}
		metrics.MarkerCache.WithLabelValues("miss").Inc()
	}

	c.mu.RLock()
	stations, trips, maxTraffic, loaded, gen := c.stations, c.trips, c.maxTraffic, c.loaded, c.generation
	c.mu.RUnlock()
	if !loaded {
		return nil, ErrNotLoaded
	}

	markers := Build(stations, trips, maxTraffic, anchor)
	if c.cache != nil {
		// Skip caching if the dataset was replaced while building.
		c.mu.RLock()
		if c.generation == gen {
			c.cache.Set(anchor, markers)
		}
		c.mu.RUnlock()
	}
	return markers, nil
}

// Marker returns the marker for a single station.
func (c *Controller) Marker(shortName string, anchor traffic.Anchor) (Marker, bool, error) {
	markers, err := c.Markers(anchor)
	if err != nil {
		return Marker{}, false, err
	}
	for _, m := range markers {
		if m.ShortName == shortName {
			return m, true, nil
		}
	}
	return Marker{}, false, nil
}

// Build filters trips by anchor, aggregates station traffic and applies the
// radius and color scales. maxTraffic is the unfiltered domain maximum.
func Build(stations []traffic.Station, trips []traffic.Trip, maxTraffic int, anchor traffic.Anchor) []Marker {
	start := time.Now()
	agg := traffic.Aggregate(stations, traffic.FilterByAnchor(trips, anchor))
	metrics.AggregationDuration.WithLabelValues(strconv.FormatBool(anchor != traffic.Unfiltered)).
		Observe(time.Since(start).Seconds())

	scale := traffic.NewRadiusScale(maxTraffic, anchor)
	markers := make([]Marker, len(agg))
	for i, st := range agg {
		markers[i] = Marker{
			ShortName:      st.ShortName,
			Name:           st.Name,
			Lon:            st.Lon,
			Lat:            st.Lat,
			Arrivals:       st.Arrivals,
			Departures:     st.Departures,
			TotalTraffic:   st.TotalTraffic,
			Radius:         scale.Radius(st.TotalTraffic),
			DepartureRatio: traffic.DepartureRatio(st.Departures, st.TotalTraffic),
			Title:          traffic.Tooltip(st),
		}
	}
	return markers
}
