// Package geo holds Web Mercator math and geometry normalization shared by the
// viewport, clustering and camera code.
package geo

import "math"

// TileSize is the pixel width of the whole world at zoom 0.
const TileSize = 512.0

// MaxLatitude is the Web Mercator latitude limit.
const MaxLatitude = 85.0511287798066

// LonToX maps a longitude to the unit world width. Values outside [-180, 180]
// map outside [0, 1].
func LonToX(lon float64) float64 { return lon/360 + 0.5 }

// LatToY maps a latitude to the unit world height, north at 0.
func LatToY(lat float64) float64 {
	lat = ClampLat(lat)
	sin := math.Sin(lat * math.Pi / 180)
	y := 0.5 - 0.25*math.Log((1+sin)/(1-sin))/math.Pi
	return math.Min(1, math.Max(0, y))
}

func XToLon(x float64) float64 { return (x - 0.5) * 360 }

func YToLat(y float64) float64 {
	y2 := (180 - y*360) * math.Pi / 180
	return 360*math.Atan(math.Exp(y2))/math.Pi - 90
}

// WorldSize is the world width in pixels at zoom z.
func WorldSize(z float64) float64 { return TileSize * math.Exp2(z) }

func ClampLat(lat float64) float64 {
	return math.Max(-MaxLatitude, math.Min(MaxLatitude, lat))
}

// WrapLon folds a longitude into [-180, 180).
func WrapLon(lon float64) float64 {
	w := math.Mod(lon+180, 360)
	if w < 0 {
		w += 360
	}
	return w - 180
}
