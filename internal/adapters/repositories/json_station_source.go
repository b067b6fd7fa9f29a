package repositories

import (
	"context"
	"sort"

	"contract-explorer-service/internal/domain"
)

// JSONStationSource serves stations straight from a seed file, for runs
// without a database.
type JSONStationSource struct{ Path string }

func (j JSONStationSource) ListStations(ctx context.Context) ([]domain.Station, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stations, err := ReadStationsJSON(j.Path)
	if err != nil {
		return nil, err
	}
	sort.Slice(stations, func(a, b int) bool { return stations[a].ID < stations[b].ID })
	return stations, nil
}
