package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bikeflow/internal/bluebikes"
	"bikeflow/internal/config"
	"bikeflow/internal/overlay"
	"bikeflow/internal/server"
	"bikeflow/internal/storage"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg := config.Load()

	// CLI flags
	importOnly := flag.Bool("import", false, "Load and import the station registry and trip log, then exit")
	flag.IntVar(&cfg.Port, "port", cfg.Port, "HTTP server port")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path (empty for in-memory)")
	flag.StringVar(&cfg.StationsSource, "stations", cfg.StationsSource, "Station registry path or URL")
	flag.StringVar(&cfg.TripsSource, "trips", cfg.TripsSource, "Trip log CSV path or URL")
	flag.Parse()

	if err := checkImportTarget(*importOnly, cfg.DBPath); err != nil {
		logger.Error("invalid flags", "error", err)
		os.Exit(2)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, using UTC", "timezone", cfg.Timezone, "error", err)
		loc = time.UTC
	}

	db, err := storage.Open(cfg.DBPath, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	loader := bluebikes.NewLoader(bluebikes.NewFetcher(logger), cfg.StationsSource, cfg.TripsSource, logger)
	provider := bluebikes.NewProvider(loader, db, loc, logger)

	if *importOnly {
		logger.Info("force importing dataset")
		if err := provider.Reload(ctx); err != nil {
			logger.Error("import failed", "error", err)
			os.Exit(1)
		}
		logger.Info("import complete")
		return
	}

	ctrl := overlay.NewController(time.Duration(cfg.CacheTTLSec)*time.Second, logger)
	defer ctrl.Close()
	srv := server.New(cfg, ctrl, db, logger)

	// The map stays on the loading page until both sources are in. A failed
	// load is logged and the server never becomes ready.
	go func() {
		if err := provider.EnsureData(ctx); err != nil {
			logger.Error("failed to load dataset", "error", err)
			return
		}
		stations, trips, err := provider.Read(ctx)
		if err != nil {
			logger.Error("failed to read dataset", "error", err)
			return
		}
		ctrl.SetDataset(stations, trips)
		srv.SetReady()
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutting down")
		cancel()
		os.Exit(0)
	}()

	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// checkImportTarget rejects -import against the in-memory store, which would
// be discarded on exit.
func checkImportTarget(importOnly bool, dbPath string) error {
	if importOnly && dbPath == "" {
		return errors.New("-import needs a database file, set -db or BIKEFLOW_DB_PATH")
	}
	return nil
}
