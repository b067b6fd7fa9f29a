package ports

import (
	"context"

	"contract-explorer-service/internal/domain"
)

// Port: a boundary for retrieving survey stations from a data source.
type StationSource interface {
	ListStations(ctx context.Context) ([]domain.Station, error)
}
