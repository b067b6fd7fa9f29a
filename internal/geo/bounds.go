package geo

import (
	"math"

	"contract-explorer-service/internal/domain"
)

// BoundsFor returns the geographic envelope visible through a width x height
// pixel surface. The surface corners are rotated by the bearing before
// unprojection; pitch is ignored.
func BoundsFor(v domain.Viewport, width, height float64) domain.GeoBounds {
	ws := WorldSize(v.Zoom)
	cx := LonToX(v.Longitude) * ws
	cy := LatToY(v.Latitude) * ws

	rad := v.Bearing * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	hw, hh := width/2, height/2

	var bb domain.BoundsBuilder
	for _, c := range [4][2]float64{{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh}} {
		dx := c[0]*cos - c[1]*sin
		dy := c[0]*sin + c[1]*cos

		x := (cx + dx) / ws
		y := math.Min(1, math.Max(0, (cy+dy)/ws))
		bb.Add(XToLon(x), YToLat(y))
	}

	b, _ := bb.Bounds()
	if b.MaxLon-b.MinLon >= 360 {
		b.MinLon, b.MaxLon = -180, 180
	}
	return b
}

// FitZoom returns the largest zoom at which b fits in the surface after
// padding, capped at maxZoom. The center is the mercator midpoint of b.
func FitZoom(b domain.GeoBounds, width, height, padding, maxZoom float64) (domain.Coordinates, float64) {
	x0, x1 := LonToX(b.MinLon), LonToX(b.MaxLon)
	y0, y1 := LatToY(b.MaxLat), LatToY(b.MinLat)

	center := domain.Coordinates{
		Lon: WrapLon(XToLon((x0 + x1) / 2)),
		Lat: YToLat((y0 + y1) / 2),
	}

	w := math.Max(1, width-2*padding)
	h := math.Max(1, height-2*padding)
	spanX, spanY := (x1-x0)*TileSize, (y1-y0)*TileSize

	zoom := maxZoom
	if spanX > 0 {
		zoom = math.Min(zoom, math.Log2(w/spanX))
	}
	if spanY > 0 {
		zoom = math.Min(zoom, math.Log2(h/spanY))
	}
	return center, math.Max(domain.MinZoom, zoom)
}
