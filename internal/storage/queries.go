package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// TimestampLayout is how trip timestamps are stored: wall clock, no zone.
const TimestampLayout = "2006-01-02T15:04:05.999999999"

// GetMetadata retrieves a value from the dataset_metadata table.
func (db *DB) GetMetadata(ctx context.Context, key string) (string, error) {
	var value string
	err := db.QueryRowContext(ctx, `SELECT value FROM dataset_metadata WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// Execer is satisfied by *DB, *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// SetMetadata stores a key-value pair in the dataset_metadata table. Pass a
// transaction to make the write part of an import.
func SetMetadata(ctx context.Context, ex Execer, key, value string) error {
	_, err := ex.ExecContext(ctx,
		`INSERT OR REPLACE INTO dataset_metadata (key, value) VALUES (?, ?)`,
		key, value)
	return err
}

// StationRow is a station as stored, in registry order.
type StationRow struct {
	ShortName string
	Name      string
	Lon       float64
	Lat       float64
	Capacity  int
}

// TripRow is a trip as stored. StartedAt and EndedAt use TimestampLayout
// and are empty when the source value could not be parsed.
type TripRow struct {
	RideID         string
	RideableType   string
	MemberCasual   string
	StartStationID string
	EndStationID   string
	StartedAt      string
	EndedAt        string
}

// Stations returns all stations in registry order.
func (db *DB) Stations(ctx context.Context) ([]StationRow, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT short_name, name, lon, lat, capacity
		FROM stations
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("stations query: %w", err)
	}
	defer rows.Close()

	var stations []StationRow
	for rows.Next() {
		var s StationRow
		if err := rows.Scan(&s.ShortName, &s.Name, &s.Lon, &s.Lat, &s.Capacity); err != nil {
			return nil, fmt.Errorf("scan station: %w", err)
		}
		stations = append(stations, s)
	}
	return stations, rows.Err()
}

// StationByShortName returns a single station, or nil if it does not exist.
func (db *DB) StationByShortName(ctx context.Context, shortName string) (*StationRow, error) {
	var s StationRow
	err := db.QueryRowContext(ctx, `
		SELECT short_name, name, lon, lat, capacity
		FROM stations WHERE short_name = ?`, shortName).
		Scan(&s.ShortName, &s.Name, &s.Lon, &s.Lat, &s.Capacity)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("station %s: %w", shortName, err)
	}
	return &s, nil
}

// Trips returns all trips in load order.
func (db *DB) Trips(ctx context.Context) ([]TripRow, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT ride_id, rideable_type, member_casual,
		       start_station_id, end_station_id, started_at, ended_at
		FROM trips
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("trips query: %w", err)
	}
	defer rows.Close()

	var trips []TripRow
	for rows.Next() {
		var t TripRow
		if err := rows.Scan(&t.RideID, &t.RideableType, &t.MemberCasual,
			&t.StartStationID, &t.EndStationID, &t.StartedAt, &t.EndedAt); err != nil {
			return nil, fmt.Errorf("scan trip: %w", err)
		}
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

// TripCount returns the number of stored trips.
func (db *DB) TripCount(ctx context.Context) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM trips`).Scan(&n)
	return n, err
}

// HasData returns true if a station registry has been imported.
func (db *DB) HasData(ctx context.Context) bool {
	var count int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM stations`).Scan(&count)
	return err == nil && count > 0
}
