package geo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"contract-explorer-service/internal/domain"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

var ErrMalformedGeometry = errors.New("malformed geometry")

// ParseGeometry normalizes a GeoJSON value into an orb geometry. The value may
// be a Geometry, Feature or FeatureCollection object, or a JSON string holding
// one of those.
func ParseGeometry(raw json.RawMessage) (orb.Geometry, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("parse geometry: decode string: %w: %v", ErrMalformedGeometry, err)
		}
		raw = bytes.TrimSpace([]byte(s))
	}
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, fmt.Errorf("parse geometry: empty: %w", ErrMalformedGeometry)
	}

	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("parse geometry: %w: %v", ErrMalformedGeometry, err)
	}

	var g orb.Geometry
	switch head.Type {
	case "Feature":
		f, err := geojson.UnmarshalFeature(raw)
		if err != nil {
			return nil, fmt.Errorf("parse geometry: feature: %w: %v", ErrMalformedGeometry, err)
		}
		g = f.Geometry
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(raw)
		if err != nil {
			return nil, fmt.Errorf("parse geometry: feature collection: %w: %v", ErrMalformedGeometry, err)
		}
		var coll orb.Collection
		for _, f := range fc.Features {
			if f.Geometry != nil {
				coll = append(coll, f.Geometry)
			}
		}
		if len(coll) == 1 {
			g = coll[0]
		} else if len(coll) > 1 {
			g = coll
		}
	default:
		gj, err := geojson.UnmarshalGeometry(raw)
		if err != nil {
			return nil, fmt.Errorf("parse geometry: %w: %v", ErrMalformedGeometry, err)
		}
		g = gj.Geometry()
	}

	if g == nil || isEmpty(g) {
		return nil, fmt.Errorf("parse geometry: no coordinates: %w", ErrMalformedGeometry)
	}
	return g, nil
}

func isEmpty(g orb.Geometry) bool {
	b := g.Bound()
	for _, v := range [4]float64{b.Min[0], b.Min[1], b.Max[0], b.Max[1]} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	switch t := g.(type) {
	case orb.Polygon:
		return len(t) == 0 || len(t[0]) == 0
	case orb.MultiPolygon:
		return len(t) == 0
	case orb.LineString:
		return len(t) == 0
	case orb.MultiLineString:
		return len(t) == 0
	case orb.MultiPoint:
		return len(t) == 0
	case orb.Collection:
		return len(t) == 0
	}
	return false
}

// Centroid returns the area-weighted centroid, falling back to the envelope
// center for degenerate shapes.
func Centroid(g orb.Geometry) domain.Coordinates {
	c, _ := planar.CentroidArea(g)
	if math.IsNaN(c[0]) || math.IsNaN(c[1]) {
		c = g.Bound().Center()
	}
	return domain.CoordinatesOf(c)
}

// Envelope is the geographic bounding box of g.
func Envelope(g orb.Geometry) domain.GeoBounds {
	return domain.BoundsFromOrb(g.Bound())
}
