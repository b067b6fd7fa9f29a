package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"contract-explorer-service/internal/domain"
	"contract-explorer-service/internal/platform/obs"
)

// SQL-backed implementation of the StationSource port.
type SQLStationRepository struct{ DB *sql.DB }

func NewSQLStationRepository(conn *sql.DB) *SQLStationRepository {
	return &SQLStationRepository{DB: conn}
}

// Return all stations ordered by id.
func (s *SQLStationRepository) ListStations(ctx context.Context) (_ []domain.Station, err error) {
	defer obs.Time(ctx, "stations.ListStations")(&err)

	if s.DB == nil {
		return nil, errors.New("sql station repository: DB is nil")
	}

	query := `
	SELECT
		station_id,
		name,
		cruise_id,
		contractor_id,
		latitude,
		longitude
	FROM stations
	ORDER BY station_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list stations: query stations table: %w", err)
	}
	defer rows.Close()

	stations := make([]domain.Station, 0, 256)
	for rows.Next() {
		var st domain.Station
		if err := rows.Scan(&st.ID, &st.Name, &st.CruiseID, &st.ContractorID, &st.Latitude, &st.Longitude); err != nil {
			return nil, fmt.Errorf("list stations: scan row: %w", err)
		}
		stations = append(stations, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stations: row iteration: %w", err)
	}

	return stations, nil
}
