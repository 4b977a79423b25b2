package storage

import "fmt"

// migrate creates the dataset schema if it doesn't exist.
func (db *DB) migrate() error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	db.logger.Info("database migrations applied")
	return nil
}

var migrations = []string{
	// Station registry
	`CREATE TABLE IF NOT EXISTS stations (
		short_name TEXT PRIMARY KEY,
		name       TEXT NOT NULL DEFAULT '',
		lon        REAL NOT NULL,
		lat        REAL NOT NULL,
		capacity   INTEGER NOT NULL DEFAULT 0,
		position   INTEGER NOT NULL
	)`,

	// Trip log. Station ids are not foreign keys: unmatched ids are kept
	// and simply never counted. Timestamps are wall-clock text without zone,
	// empty when the source value could not be parsed.
	`CREATE TABLE IF NOT EXISTS trips (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		ride_id          TEXT NOT NULL DEFAULT '',
		rideable_type    TEXT NOT NULL DEFAULT '',
		member_casual    TEXT NOT NULL DEFAULT '',
		start_station_id TEXT NOT NULL,
		end_station_id   TEXT NOT NULL,
		started_at       TEXT NOT NULL,
		ended_at         TEXT NOT NULL
	)`,

	// Dataset metadata (imported_at, sources, counts)
	`CREATE TABLE IF NOT EXISTS dataset_metadata (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_stations_position ON stations(position)`,
	`CREATE INDEX IF NOT EXISTS idx_trips_start ON trips(start_station_id)`,
	`CREATE INDEX IF NOT EXISTS idx_trips_end ON trips(end_station_id)`,
}
