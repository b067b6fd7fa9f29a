package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contract-explorer-service/internal/adapters/cache"
	"contract-explorer-service/internal/adapters/explorerapi"
	"contract-explorer-service/internal/adapters/mapengine"
	"contract-explorer-service/internal/adapters/repositories"
	"contract-explorer-service/internal/api"
	"contract-explorer-service/internal/config"
	"contract-explorer-service/internal/platform/db"
	"contract-explorer-service/internal/platform/obs"
	"contract-explorer-service/internal/ports"
	"contract-explorer-service/internal/services"

	"github.com/joho/godotenv"
)

// main is the application composition root.
// It wires concrete adapters (explorer API, SQL, Redis) behind ports and starts the HTTP server.
func main() {
	envErr := godotenv.Load()
	logger := obs.Setup()
	if envErr != nil {
		logger.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		fatal(logger, "config", err)
	}

	client, err := explorerapi.NewClient(cfg.ExplorerAPIBaseURL, cfg.ExplorerAPIKey)
	if err != nil {
		fatal(logger, "explorer_client", err)
	}

	var conn *sql.DB
	var driver string
	if cfg.DatabaseURL != "" {
		conn, driver, err = db.Open(cfg.DatabaseURL)
		if err != nil {
			fatal(logger, "database", err)
		}
		defer conn.Close()

		if err := prepareDatabase(conn, driver, cfg.StationsPath, logger); err != nil {
			fatal(logger, "database", err)
		}
	}

	var stations ports.StationSource = repositories.JSONStationSource{Path: cfg.StationsPath}
	if conn != nil {
		stations = repositories.NewSQLStationRepository(conn)
	}

	store := summaryStore(cfg, conn, driver, logger)

	registry := services.NewRegistry(stations, services.ExplorerDeps{
		API:    client,
		Store:  store,
		Logger: logger,
		NewEngine: func(sink ports.ViewportSink) ports.MapEngine {
			return mapengine.NewHeadless(sink)
		},
	}, services.ExplorerOptions{
		Cluster: services.ClusterOptions{
			Radius:  cfg.ClusterRadiusPx,
			MaxZoom: cfg.ClusterMaxZoom,
		},
		Actuator: services.ActuatorOptions{
			Padding:  cfg.CameraPaddingPx,
			Duration: cfg.CameraDuration,
		},
		LayerConcurrency: cfg.LayerLoadConcurrency,
		ToastDuration:    cfg.ToastDuration,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go sweepSessions(ctx, registry, cfg.SessionIdle, logger)

	// Write timeout covers a cold layer load of several contractors.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(registry),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown_failed", "err", err)
		}
	}()

	logger.Info("server_listening", "addr", srv.Addr, "explorer_api", cfg.ExplorerAPIBaseURL, "database", driver, "redis", cfg.RedisAddr != "")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fatal(logger, "http_server", err)
	}
	logger.Info("server_stopped")
}

// prepareDatabase creates the schema. SQLite databases are local runs and get
// the station seed loaded on startup.
func prepareDatabase(conn *sql.DB, driver, stationsPath string, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := repositories.InitSchema(ctx, conn); err != nil {
		return err
	}
	if driver != db.DriverSQLite {
		return nil
	}
	if _, err := os.Stat(stationsPath); err != nil {
		logger.Warn("station_seed_missing", "path", stationsPath, "err", err)
		return nil
	}

	n, err := repositories.SeedStationsFromJSON(ctx, conn, driver, stationsPath)
	if err != nil {
		return err
	}
	logger.Info("stations_seeded", "count", n, "path", stationsPath)
	return nil
}

// summaryStore prefers Redis, falls back to SQL, and returns nil when neither
// is configured. An unreachable Redis is logged and skipped.
func summaryStore(cfg config.Config, conn *sql.DB, driver string, logger *slog.Logger) ports.SummaryStore {
	if rdb := cache.OpenRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); rdb != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		err := rdb.Ping(ctx).Err()
		if err == nil {
			return cache.NewRedisSummaryStore(rdb, cfg.SummaryStoreTTL)
		}
		logger.Warn("redis_unavailable", "addr", cfg.RedisAddr, "err", err)
		_ = rdb.Close()
	}
	if conn != nil {
		return cache.NewSQLSummaryStore(conn, driver)
	}
	return nil
}

func sweepSessions(ctx context.Context, registry *services.Registry, idle time.Duration, logger *slog.Logger) {
	if idle <= 0 {
		return
	}
	ticker := time.NewTicker(idle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := registry.Sweep(idle); n > 0 {
				logger.Info("sessions_swept", "count", n, "active", registry.Len())
			}
		}
	}
}

func fatal(logger *slog.Logger, stage string, err error) {
	logger.Error("startup_failed", "stage", stage, "err", err)
	os.Exit(1)
}
