package explorerapi

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"contract-explorer-service/internal/platform/obs"
	"contract-explorer-service/internal/ports"
)

// ContractorAreas fetches the GeoJSON area layers of one contractor.
// Geometry is passed through untouched; normalization happens at ingestion.
func (c *Client) ContractorAreas(ctx context.Context, contractorID string) (_ []ports.AreaRecord, err error) {
	defer obs.Time(ctx, "explorer.ContractorAreas")(&err)

	contractorID = strings.TrimSpace(contractorID)
	if contractorID == "" {
		return nil, errors.New("contractor areas: contractor id must be non-empty")
	}

	var payload []areaPayload
	url := c.endpoint("MapFilter", "contractor-areas-geojson", contractorID)
	if err := c.getJSON(ctx, "contractor_areas", url, &payload); err != nil {
		return nil, fmt.Errorf("contractor areas %q: %w", contractorID, err)
	}

	out := make([]ports.AreaRecord, 0, len(payload))
	for _, a := range payload {
		blocks := make([]ports.BlockRecord, 0, len(a.Blocks))
		for _, b := range a.Blocks {
			blocks = append(blocks, ports.BlockRecord{
				BlockID:     string(b.BlockID),
				BlockName:   b.BlockName,
				Status:      b.Status,
				GeoJSON:     b.GeoJSON,
				CenterLat:   b.CenterLat.ptr(),
				CenterLon:   b.CenterLon.ptr(),
				AreaSizeKm2: b.AreaSizeKm2.v,
			})
		}

		out = append(out, ports.AreaRecord{
			AreaID:           string(a.AreaID),
			AreaName:         a.AreaName,
			GeoJSON:          a.GeoJSON,
			CenterLat:        a.CenterLat.ptr(),
			CenterLon:        a.CenterLon.ptr(),
			TotalAreaSizeKm2: a.TotalAreaSizeKm2.v,
			Blocks:           blocks,
		})
	}

	return out, nil
}
