package bluebikes

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"bikeflow/internal/metrics"
)

// Loader fetches and parses the station registry and the trip log.
type Loader struct {
	fetcher        *Fetcher
	stationsSource string
	tripsSource    string
	logger         *slog.Logger
}

// NewLoader creates a Loader for the given sources.
func NewLoader(fetcher *Fetcher, stationsSource, tripsSource string, logger *slog.Logger) *Loader {
	return &Loader{
		fetcher:        fetcher,
		stationsSource: stationsSource,
		tripsSource:    tripsSource,
		logger:         logger,
	}
}

// Load fetches both sources concurrently. Both must succeed; the first
// failure cancels the other fetch and is returned. Nothing is retried.
func (l *Loader) Load(ctx context.Context) (*Dataset, error) {
	ds := &Dataset{StationsSource: l.stationsSource, TripsSource: l.tripsSource}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stations, err := l.loadStations(ctx)
		if err != nil {
			l.logger.Error("failed to load station registry", "source", l.stationsSource, "error", err)
			return err
		}
		ds.Stations = stations
		return nil
	})
	g.Go(func() error {
		trips, err := l.loadTrips(ctx)
		if err != nil {
			l.logger.Error("failed to load trip log", "source", l.tripsSource, "error", err)
			return err
		}
		ds.Trips = trips
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	l.logger.Info("dataset loaded",
		"stations", len(ds.Stations),
		"trips", len(ds.Trips),
	)
	return ds, nil
}

func (l *Loader) loadStations(ctx context.Context) ([]StationRecord, error) {
	start := time.Now()
	rc, err := l.fetcher.Open(ctx, l.stationsSource)
	if err != nil {
		return nil, fmt.Errorf("station registry: %w", err)
	}
	defer rc.Close()

	stations, err := ParseStations(rc, l.logger)
	if err != nil {
		return nil, fmt.Errorf("station registry: %w", err)
	}
	metrics.LoadDuration.WithLabelValues("stations").Observe(time.Since(start).Seconds())
	return stations, nil
}

func (l *Loader) loadTrips(ctx context.Context) ([]TripRecord, error) {
	start := time.Now()
	rc, err := l.fetcher.Open(ctx, l.tripsSource)
	if err != nil {
		return nil, fmt.Errorf("trip log: %w", err)
	}
	defer rc.Close()

	trips, err := ParseTrips(rc)
	if err != nil {
		return nil, fmt.Errorf("trip log: %w", err)
	}
	metrics.LoadDuration.WithLabelValues("trips").Observe(time.Since(start).Seconds())
	return trips, nil
}
