package bluebikes

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bikeflow/internal/storage"
	"bikeflow/internal/traffic"
)

// Provider makes sure the dataset store is populated and reads it back as
// traffic records.
type Provider struct {
	loader   *Loader
	importer *Importer
	db       *storage.DB
	logger   *slog.Logger
}

// NewProvider creates a Provider.
func NewProvider(loader *Loader, db *storage.DB, loc *time.Location, logger *slog.Logger) *Provider {
	return &Provider{
		loader:   loader,
		importer: NewImporter(db, loc, logger),
		db:       db,
		logger:   logger,
	}
}

// EnsureData loads and imports the sources if the store is empty.
func (p *Provider) EnsureData(ctx context.Context) error {
	if p.db.HasData(ctx) {
		imported, _ := p.db.GetMetadata(ctx, "imported_at")
		trips, err := p.db.TripCount(ctx)
		if err != nil {
			return fmt.Errorf("count stored trips: %w", err)
		}
		p.logger.Info("dataset already present", "imported_at", imported, "trips", trips)
		return nil
	}
	return p.Reload(ctx)
}

// Reload fetches both sources again and replaces the stored dataset.
func (p *Provider) Reload(ctx context.Context) error {
	ds, err := p.loader.Load(ctx)
	if err != nil {
		return err
	}
	return p.importer.Import(ctx, ds)
}

// Read returns the stored stations in registry order and trips in load order.
func (p *Provider) Read(ctx context.Context) ([]traffic.Station, []traffic.Trip, error) {
	stationRows, err := p.db.Stations(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("read stations: %w", err)
	}
	tripRows, err := p.db.Trips(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("read trips: %w", err)
	}

	stations := make([]traffic.Station, len(stationRows))
	for i, s := range stationRows {
		stations[i] = traffic.Station{ShortName: s.ShortName, Name: s.Name, Lon: s.Lon, Lat: s.Lat}
	}

	trips := make([]traffic.Trip, len(tripRows))
	for i, t := range tripRows {
		trips[i] = traffic.Trip{
			StartStationID: t.StartStationID,
			EndStationID:   t.EndStationID,
			StartedAt:      storedTime(t.StartedAt),
			EndedAt:        storedTime(t.EndedAt),
		}
	}
	return stations, trips, nil
}

// storedTime reads a stored wall clock back. UTC is used only as a zone
// without DST so every stored clock time exists.
func storedTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(storage.TimestampLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
