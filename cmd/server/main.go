/*
main.go - Application entry point

PURPOSE:
  Starts the utilisation board server: loads configuration, opens the
  dataset store, seeds the default dataset and serves the API.

STARTUP SEQUENCE:
  1. Load .env, environment and flags
  2. Build logger and metrics
  3. Open store (SQLite when -db/DB_PATH is set, in-memory otherwise)
  4. Seed dataset "default" from -data/DATA_FILE or the bundled sample,
     unless it already exists
  5. Configure router and start server with graceful shutdown

COMMAND-LINE FLAGS (override environment):
  -port        HTTP server port (PORT, default: 8080)
  -db          SQLite database path (DB_PATH, default: in-memory store)
  -data        Source JSON seeding the default dataset (DATA_FILE)
  -columns     YAML header overrides (COLUMNS_FILE)
  -log-level   debug|info|warn|error (LOG_LEVEL)
  -log-format  json|console (LOG_FORMAT)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close the store
  4. Exit

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: Settings
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/utilisation-board/api"
	"github.com/warp/utilisation-board/config"
	"github.com/warp/utilisation-board/dataset"
	"github.com/warp/utilisation-board/observability"
	"github.com/warp/utilisation-board/store"
	"github.com/warp/utilisation-board/store/memory"
	"github.com/warp/utilisation-board/store/sqlite"
	"github.com/warp/utilisation-board/table"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.Load(flag.CommandLine, os.Args[1:])
	if err != nil {
		return err
	}

	logger, err := observability.NewLogger(observability.LogConfig{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return err
	}
	defer logger.Sync()

	metrics := observability.NewMetrics("utilisation")

	// Initialize store
	st, err := openStore(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := seedDefault(context.Background(), st, cfg.DataFile, logger); err != nil {
		return err
	}

	columns, err := table.LoadColumns(cfg.ColumnsFile)
	if err != nil {
		return err
	}

	// Initialize handler
	handler := api.NewHandler(st, logger, metrics)
	handler.Columns = columns
	handler.MaxBodyBytes = cfg.MaxBodyBytes

	router := api.NewRouter(handler, api.RouterOptions{AllowedOrigins: cfg.CORSOrigins})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.Int("port", cfg.Port),
			zap.String("store", storeKind(cfg.DBPath)),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

func openStore(dbPath string) (store.Store, error) {
	if dbPath == "" {
		return memory.NewMemory(), nil
	}
	s, err := sqlite.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return s, nil
}

func storeKind(dbPath string) string {
	if dbPath == "" {
		return "memory"
	}
	return "sqlite:" + dbPath
}

// seedDefault fills the default dataset on first start. An existing dataset
// (from a previous run against the same database) is left alone.
func seedDefault(ctx context.Context, st store.Store, dataFile string, logger *zap.Logger) error {
	_, err := st.Records(ctx, store.DefaultDataset)
	if err == nil {
		logger.Info("default dataset already present")
		return nil
	}
	if !errors.Is(err, store.ErrDatasetNotFound) {
		return err
	}

	records := dataset.Sample()
	source := "bundled sample"
	if dataFile != "" {
		if records, err = dataset.LoadFile(dataFile); err != nil {
			return err
		}
		source = dataFile
	}

	if err := st.Replace(ctx, store.DefaultDataset, records); err != nil {
		return fmt.Errorf("failed to seed default dataset: %w", err)
	}
	logger.Info("default dataset seeded", zap.String("source", source), zap.Int("records", len(records)))
	return nil
}
