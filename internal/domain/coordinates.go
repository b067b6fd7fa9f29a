package domain

import "github.com/paulmach/orb"

// Immutable geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Point returns the coordinates as an orb point ([lon, lat]).
func (c Coordinates) Point() orb.Point { return orb.Point{c.Lon, c.Lat} }

func CoordinatesOf(p orb.Point) Coordinates { return Coordinates{Lon: p.Lon(), Lat: p.Lat()} }
