package storage

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"
)

// memoryDSN is a named shared-cache in-memory database, so every pooled
// connection sees the same tables.
const memoryDSN = "file:bikeflow?mode=memory&cache=shared&_foreign_keys=on"

// DB wraps a SQLite database connection with station and trip operations.
type DB struct {
	*sql.DB
	logger *slog.Logger
}

// Open creates or opens a SQLite database at the given path and applies migrations.
// An empty path opens an in-memory database that lives as long as the process.
func Open(path string, logger *slog.Logger) (*DB, error) {
	dsn := memoryDSN
	if path != "" {
		dsn = fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on", path)
	}
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if path == "" {
		// The shared in-memory database is dropped once its last connection closes.
		sqlDB.SetConnMaxIdleTime(0)
		sqlDB.SetMaxIdleConns(1)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	db := &DB{DB: sqlDB, logger: logger}

	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	if path == "" {
		logger.Info("database opened", "path", ":memory:")
	} else {
		logger.Info("database opened", "path", path)
	}
	return db, nil
}
