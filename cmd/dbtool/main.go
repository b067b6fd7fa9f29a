package main

import (
	"context"
	"os"
	"strings"
	"time"

	"contract-explorer-service/internal/adapters/repositories"
	"contract-explorer-service/internal/config"
	"contract-explorer-service/internal/platform/db"
	"contract-explorer-service/internal/platform/obs"

	"github.com/joho/godotenv"
)

func main() {
	envErr := godotenv.Load()
	logger := obs.Setup()
	if envErr != nil {
		logger.Info("no .env file found, using environment variables")
	}

	databaseURL := config.Get("DATABASE_URL", "")
	if strings.TrimSpace(databaseURL) == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	conn, driver, err := db.Open(databaseURL)
	if err != nil {
		logger.Error("open database failed", "err", err)
		os.Exit(1)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	logger.Info("initializing database schema", "driver", driver)
	if err := repositories.InitSchema(ctx, conn); err != nil {
		logger.Error("schema initialization failed", "err", err)
		os.Exit(1)
	}
	logger.Info("schema ready")

	stationsPath := config.Get("STATIONS_PATH", "data/stations.json")
	logger.Info("seeding stations", "path", stationsPath)
	n, err := repositories.SeedStationsFromJSON(ctx, conn, driver, stationsPath)
	if err != nil {
		logger.Error("seeding failed", "err", err)
		os.Exit(1)
	}
	logger.Info("seeding complete", "stations", n)
}
