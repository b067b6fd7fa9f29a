package geo

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"contract-explorer-service/internal/domain"

	"github.com/paulmach/orb"
)

const square = `{"type":"Polygon","coordinates":[[[10,10],[20,10],[20,20],[10,20],[10,10]]]}`

func TestMercatorRoundTrip(t *testing.T) {
	for _, lat := range []float64{-80, -45, 0, 12.5, 60, 85} {
		got := YToLat(LatToY(lat))
		if math.Abs(got-lat) > 1e-9 {
			t.Errorf("YToLat(LatToY(%v)) = %v", lat, got)
		}
	}
	for _, lon := range []float64{-180, -90, 0, 45, 179.5} {
		if got := XToLon(LonToX(lon)); math.Abs(got-lon) > 1e-9 {
			t.Errorf("XToLon(LonToX(%v)) = %v", lon, got)
		}
	}
}

func TestWrapLon(t *testing.T) {
	cases := map[float64]float64{190: -170, -190: 170, 180: -180, 0: 0, 540: -180}
	for in, want := range cases {
		if got := WrapLon(in); math.Abs(got-want) > 1e-9 {
			t.Errorf("WrapLon(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestBoundsForIsOrdered(t *testing.T) {
	viewports := []domain.Viewport{
		domain.WorldView(),
		{Longitude: 10, Latitude: 50, Zoom: 6},
		{Longitude: -120, Latitude: -30, Zoom: 3, Bearing: 45},
		{Longitude: 0, Latitude: 84, Zoom: 2, Bearing: 200, Pitch: 60},
		{Longitude: 179, Latitude: 0, Zoom: 4},
	}

	for _, v := range viewports {
		b := BoundsFor(v, 1024, 768)
		if b.MinLat > b.MaxLat || b.MinLon > b.MaxLon {
			t.Errorf("BoundsFor(%+v) unordered: %+v", v, b)
		}
		if !b.Contains(v.Longitude, ClampLat(v.Latitude)) {
			t.Errorf("BoundsFor(%+v) = %+v does not contain center", v, b)
		}
	}
}

func TestBoundsForWorldWideSpanCollapses(t *testing.T) {
	b := BoundsFor(domain.Viewport{Zoom: 0}, 2048, 512)
	if b.MinLon != -180 || b.MaxLon != 180 {
		t.Fatalf("lon span = [%v, %v], want [-180, 180]", b.MinLon, b.MaxLon)
	}
}

func TestBoundsForAntimeridianStaysUnwrapped(t *testing.T) {
	b := BoundsFor(domain.Viewport{Longitude: 179, Zoom: 4}, 1024, 768)
	if b.MaxLon <= 180 {
		t.Fatalf("MaxLon = %v, want > 180 for a view crossing the antimeridian", b.MaxLon)
	}
	if !b.Contains(-179, 0) {
		t.Fatalf("bounds %+v should contain -179 through wrapping", b)
	}
}

func TestFitZoomContainsBounds(t *testing.T) {
	target := domain.GeoBounds{MinLat: 10, MaxLat: 20, MinLon: 40, MaxLon: 60}
	center, zoom := FitZoom(target, 1024, 768, 40, 14)

	got := BoundsFor(domain.Viewport{Longitude: center.Lon, Latitude: center.Lat, Zoom: zoom}, 1024, 768)
	const eps = 1e-6
	if got.MinLon > target.MinLon+eps || got.MaxLon < target.MaxLon-eps ||
		got.MinLat > target.MinLat+eps || got.MaxLat < target.MaxLat-eps {
		t.Fatalf("fitted view %+v does not contain %+v", got, target)
	}
}

func TestFitZoomPointUsesMaxZoom(t *testing.T) {
	_, zoom := FitZoom(domain.GeoBounds{MinLat: 5, MaxLat: 5, MinLon: 5, MaxLon: 5}, 800, 600, 20, 12)
	if zoom != 12 {
		t.Fatalf("zoom = %v, want max zoom", zoom)
	}
}

func TestParseGeometryForms(t *testing.T) {
	str, _ := json.Marshal(square)
	feature := `{"type":"Feature","properties":{},"geometry":` + square + `}`
	collection := `{"type":"FeatureCollection","features":[` + feature + `]}`

	for name, raw := range map[string]string{
		"object":     square,
		"string":     string(str),
		"feature":    feature,
		"collection": collection,
	} {
		g, err := ParseGeometry(json.RawMessage(raw))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if _, ok := g.(orb.Polygon); !ok {
			t.Fatalf("%s: got %T, want orb.Polygon", name, g)
		}
	}
}

func TestParseGeometryRejectsMalformed(t *testing.T) {
	for _, raw := range []string{``, `null`, `""`, `"not json"`, `{"type":"Polygon"}`, `{"type":"Blob","coordinates":[]}`, `{"type":"FeatureCollection","features":[]}`} {
		if _, err := ParseGeometry(json.RawMessage(raw)); !errors.Is(err, ErrMalformedGeometry) {
			t.Errorf("ParseGeometry(%s) err = %v, want ErrMalformedGeometry", raw, err)
		}
	}
}

func TestCentroid(t *testing.T) {
	g, err := ParseGeometry(json.RawMessage(square))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c := Centroid(g)
	if math.Abs(c.Lon-15) > 1e-9 || math.Abs(c.Lat-15) > 1e-9 {
		t.Fatalf("centroid = %+v, want (15, 15)", c)
	}
	if e := Envelope(g); e.MinLon != 10 || e.MaxLat != 20 {
		t.Fatalf("envelope = %+v", e)
	}
}
