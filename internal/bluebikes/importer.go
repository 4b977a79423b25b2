package bluebikes

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"bikeflow/internal/storage"
)

// Importer loads a parsed Dataset into SQLite.
type Importer struct {
	db     *storage.DB
	loc    *time.Location
	logger *slog.Logger
}

// NewImporter creates an Importer. Zone-less trip timestamps keep their
// wall clock; timestamps with an offset are converted to loc.
func NewImporter(db *storage.DB, loc *time.Location, logger *slog.Logger) *Importer {
	return &Importer{db: db, loc: loc, logger: logger}
}

// Import replaces the stored dataset. The entire operation runs in a single
// transaction.
func (imp *Importer) Import(ctx context.Context, ds *Dataset) error {
	start := time.Now()

	tx, err := imp.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, t := range []string{"trips", "stations", "dataset_metadata"} {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", t)); err != nil {
			return fmt.Errorf("clear %s: %w", t, err)
		}
	}

	if err := imp.importStations(ctx, tx, ds.Stations); err != nil {
		return err
	}
	unparsed, err := imp.importTrips(ctx, tx, ds.Trips)
	if err != nil {
		return err
	}

	meta := map[string]string{
		"imported_at":     time.Now().UTC().Format(time.RFC3339),
		"stations_source": ds.StationsSource,
		"trips_source":    ds.TripsSource,
	}
	for k, v := range meta {
		if err := storage.SetMetadata(ctx, tx, k, v); err != nil {
			return fmt.Errorf("set %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	if unparsed > 0 {
		imp.logger.Warn("trip timestamps could not be parsed", "count", unparsed)
	}
	imp.logger.Info("dataset import complete",
		"duration", time.Since(start).Round(time.Millisecond),
		"stations", len(ds.Stations),
		"trips", len(ds.Trips),
	)
	return nil
}

func (imp *Importer) importStations(ctx context.Context, tx *sql.Tx, stations []StationRecord) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO stations (short_name, name, lon, lat, capacity, position) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare stations: %w", err)
	}
	defer stmt.Close()

	for i, s := range stations {
		if _, err := stmt.ExecContext(ctx, s.ShortName, s.Name,
			float64(s.Lon), float64(s.Lat), s.Capacity, i); err != nil {
			return fmt.Errorf("insert station %s: %w", s.ShortName, err)
		}
	}
	imp.logger.Info("imported stations", "count", len(stations))
	return nil
}

// importTrips inserts trips with normalized timestamps and returns how many
// timestamps could not be parsed.
func (imp *Importer) importTrips(ctx context.Context, tx *sql.Tx, trips []TripRecord) (int, error) {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO trips (ride_id, rideable_type, member_casual,
		 start_station_id, end_station_id, started_at, ended_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare trips: %w", err)
	}
	defer stmt.Close()

	unparsed := 0
	for _, t := range trips {
		startedAt, ok := imp.normalize(t.StartedAt)
		if !ok {
			unparsed++
		}
		endedAt, ok := imp.normalize(t.EndedAt)
		if !ok {
			unparsed++
		}
		if _, err := stmt.ExecContext(ctx, t.RideID, t.RideableType, t.MemberCasual,
			t.StartStationID, t.EndStationID, startedAt, endedAt); err != nil {
			return 0, fmt.Errorf("insert trip %s: %w", t.RideID, err)
		}
	}
	imp.logger.Info("imported trips", "count", len(trips))
	return unparsed, nil
}

func (imp *Importer) normalize(ts string) (string, bool) {
	t, ok := ParseTimestamp(ts, imp.loc)
	if !ok {
		return "", false
	}
	return t.Format(storage.TimestampLayout), true
}
