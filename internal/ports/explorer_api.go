package ports

import (
	"context"
	"encoding/json"
	"errors"

	"contract-explorer-service/internal/domain"
)

// ErrUpstream matches any non-success response from the explorer API.
var ErrUpstream = errors.New("explorer api error")

// AreaRecord is a contractor area as delivered by the explorer API, before
// geometry normalization.
type AreaRecord struct {
	AreaID           string
	AreaName         string
	GeoJSON          json.RawMessage
	CenterLat        *float64
	CenterLon        *float64
	TotalAreaSizeKm2 float64
	Blocks           []BlockRecord
}

type BlockRecord struct {
	BlockID     string
	BlockName   string
	Status      string
	GeoJSON     json.RawMessage
	CenterLat   *float64
	CenterLon   *float64
	AreaSizeKm2 float64
}

// Port: the remote explorer API that serves contractor layers and analytics.
type ExplorerAPI interface {
	// Return the license areas (with blocks) held by a contractor.
	ContractorAreas(ctx context.Context, contractorID string) ([]AreaRecord, error)
	ContractorSummary(ctx context.Context, contractorID string) (domain.ContractorSummary, error)
	BlockAnalytics(ctx context.Context, blockID string) (domain.BlockAnalytics, error)
}
