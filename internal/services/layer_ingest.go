package services

import (
	"log/slog"
	"math"
	"strings"

	"contract-explorer-service/internal/domain"
	"contract-explorer-service/internal/geo"
	"contract-explorer-service/internal/platform/obs"
	"contract-explorer-service/internal/ports"

	"github.com/paulmach/orb"
)

// ingestAreas normalizes raw area records. An area with unusable geometry is
// dropped with its blocks; a block with unusable geometry or an unknown
// status is dropped alone.
func ingestAreas(logger *slog.Logger, contractorID string, records []ports.AreaRecord) []domain.AreaLayer {
	out := make([]domain.AreaLayer, 0, len(records))
	seen := make(map[string]struct{}, len(records))

	for _, r := range records {
		areaID := strings.TrimSpace(r.AreaID)
		if areaID == "" {
			dropped(logger, "area", "missing_id", contractorID, "", nil)
			continue
		}
		if _, dup := seen[areaID]; dup {
			dropped(logger, "area", "duplicate_id", contractorID, areaID, nil)
			continue
		}

		g, err := geo.ParseGeometry(r.GeoJSON)
		if err != nil {
			dropped(logger, "area", "geometry", contractorID, areaID, err)
			continue
		}
		seen[areaID] = struct{}{}

		area := domain.AreaLayer{
			ContractorID:     contractorID,
			AreaID:           areaID,
			AreaName:         r.AreaName,
			Geometry:         g,
			Center:           centerOf(r.CenterLat, r.CenterLon, g),
			TotalAreaSizeKm2: r.TotalAreaSizeKm2,
			Blocks:           make([]domain.BlockLayer, 0, len(r.Blocks)),
		}

		for _, b := range r.Blocks {
			blockID := strings.TrimSpace(b.BlockID)
			if blockID == "" {
				dropped(logger, "block", "missing_id", contractorID, "", nil)
				continue
			}
			status, err := domain.ParseBlockStatus(b.Status)
			if err != nil {
				dropped(logger, "block", "status", contractorID, blockID, err)
				continue
			}
			bg, err := geo.ParseGeometry(b.GeoJSON)
			if err != nil {
				dropped(logger, "block", "geometry", contractorID, blockID, err)
				continue
			}

			area.Blocks = append(area.Blocks, domain.BlockLayer{
				BlockID:     blockID,
				BlockName:   b.BlockName,
				Status:      status,
				Geometry:    bg,
				Center:      centerOf(b.CenterLat, b.CenterLon, bg),
				AreaSizeKm2: b.AreaSizeKm2,
			})
		}

		out = append(out, area)
	}
	return out
}

func centerOf(lat, lon *float64, g orb.Geometry) domain.Coordinates {
	if lat != nil && lon != nil && finite(*lat) && finite(*lon) {
		return domain.Coordinates{Lon: *lon, Lat: *lat}
	}
	return geo.Centroid(g)
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

func dropped(logger *slog.Logger, kind, reason, contractorID, id string, err error) {
	obs.DroppedFeaturesTotal.WithLabelValues(kind, reason).Inc()
	logger.Warn("feature_dropped",
		"kind", kind,
		"reason", reason,
		"contractor_id", contractorID,
		"id", id,
		"err", err,
	)
}
