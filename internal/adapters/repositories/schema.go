package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"contract-explorer-service/internal/domain"
	"contract-explorer-service/internal/platform/db"
)

// InitSchema creates the station and summary tables. The DDL is valid for both
// SQLite and Postgres.
func InitSchema(ctx context.Context, conn *sql.DB) error {
	if conn == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createStationsQuery := `
	CREATE TABLE IF NOT EXISTS stations (
		station_id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		cruise_id TEXT NOT NULL,
		contractor_id TEXT NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL
	);
	`

	createSummaryQuery := `
	CREATE TABLE IF NOT EXISTS contractor_summaries (
		contractor_id TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		fetched_at BIGINT NOT NULL
	);
	`

	createContractorIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_stations_contractor
	ON stations(contractor_id);
	`

	createCruiseIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_stations_cruise
	ON stations(cruise_id);
	`

	statements := []string{
		createStationsQuery,
		createSummaryQuery,
		createContractorIndexQuery,
		createCruiseIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// ReadStationsJSON loads and validates a station seed file.
func ReadStationsJSON(jsonPath string) ([]domain.Station, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read stations: read %q: %w", jsonPath, err)
	}

	var data []domain.Station
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("read stations: parse json: %w", err)
	}

	rows := make([]domain.Station, 0, len(data))
	seen := make(map[string]struct{}, len(data))
	for i, s := range data {
		s.ID = strings.TrimSpace(s.ID)
		s.CruiseID = strings.TrimSpace(s.CruiseID)
		s.ContractorID = strings.TrimSpace(s.ContractorID)

		if s.ID == "" {
			return nil, fmt.Errorf("read stations: item at index %d: id cannot be empty", i+1)
		}
		if _, dup := seen[s.ID]; dup {
			return nil, fmt.Errorf("read stations: duplicate station id %q at index %d", s.ID, i+1)
		}
		seen[s.ID] = struct{}{}

		if s.CruiseID == "" || s.ContractorID == "" {
			return nil, fmt.Errorf("read stations: station %q: cruiseId and contractorId are required", s.ID)
		}
		if !validLatLon(s.Latitude, s.Longitude) {
			return nil, fmt.Errorf("read stations: station %q: invalid position (%v, %v)", s.ID, s.Latitude, s.Longitude)
		}
		rows = append(rows, s)
	}

	return rows, nil
}

// SeedStationsFromJSON upserts the stations of a seed file.
func SeedStationsFromJSON(ctx context.Context, conn *sql.DB, driver, jsonPath string) (int, error) {
	rows, err := ReadStationsJSON(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed stations: %w", err)
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("seed stations: begin tx: %w", err)
	}
	defer tx.Rollback()

	query := db.Rebind(driver, `
	INSERT INTO stations (
		station_id,
		name,
		cruise_id,
		contractor_id,
		latitude,
		longitude
	)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT (station_id) DO UPDATE
	SET name = excluded.name,
		cruise_id = excluded.cruise_id,
		contractor_id = excluded.contractor_id,
		latitude = excluded.latitude,
		longitude = excluded.longitude;
	`)
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("seed stations: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range rows {
		if _, err := stmt.ExecContext(ctx, s.ID, s.Name, s.CruiseID, s.ContractorID, s.Latitude, s.Longitude); err != nil {
			return 0, fmt.Errorf("seed stations: insert station_id=%s: %w", s.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("seed stations: commit tx: %w", err)
	}

	return len(rows), nil
}

func validLatLon(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
