package export

import (
	"contract-explorer-service/internal/domain"

	"github.com/paulmach/orb/geojson"
)

// Feature layer names, matching the interactive layers of the map.
const (
	LayerAreas    = "areas"
	LayerBlocks   = "blocks"
	LayerClusters = "clusters"
	LayerStations = "stations"
)

// Features builds one collection holding the area outlines, the blocks styled
// by status, and the cluster markers. Areas come first so they render below.
func Features(areas []domain.AreaLayer, clusters []domain.Cluster) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, a := range areas {
		f := geojson.NewFeature(a.Geometry)
		f.ID = a.Key()
		f.Properties = geojson.Properties{
			"layer":            LayerAreas,
			"contractorId":     a.ContractorID,
			"areaId":           a.AreaID,
			"areaName":         a.AreaName,
			"totalAreaSizeKm2": a.TotalAreaSizeKm2,
			"centerLat":        a.Center.Lat,
			"centerLon":        a.Center.Lon,
		}
		fc.Append(f)
	}

	for _, a := range areas {
		for _, b := range a.Blocks {
			f := geojson.NewFeature(b.Geometry)
			f.ID = b.BlockID
			f.Properties = geojson.Properties{
				"layer":        LayerBlocks,
				"contractorId": a.ContractorID,
				"areaId":       a.AreaID,
				"blockId":      b.BlockID,
				"blockName":    b.BlockName,
				"status":       string(b.Status),
				"areaSizeKm2":  b.AreaSizeKm2,
			}
			if color, err := b.Status.Color(); err == nil {
				f.Properties["color"] = color
			}
			fc.Append(f)
		}
	}

	for _, c := range clusters {
		f := geojson.NewFeature(c.Coordinates.Point())
		f.ID = c.ID
		if c.IsPoint() && c.Station != nil {
			f.Properties = geojson.Properties{
				"layer":        LayerStations,
				"stationId":    c.Station.ID,
				"name":         c.Station.Name,
				"cruiseId":     c.Station.CruiseID,
				"contractorId": c.Station.ContractorID,
			}
		} else {
			f.Properties = geojson.Properties{
				"layer":         LayerClusters,
				"clusterId":     c.ID,
				"pointCount":    c.Count,
				"sizeTier":      string(domain.SizeTierFor(c.Count)),
				"expansionZoom": c.ExpansionZoom,
			}
		}
		fc.Append(f)
	}

	return fc
}
