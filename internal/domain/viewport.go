package domain

// Zoom limits accepted by the viewport.
const (
	MinZoom = 0
	MaxZoom = 24
)

// Viewport is the camera state of a map session.
type Viewport struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Zoom      float64 `json:"zoom"`
	Bearing   float64 `json:"bearing"`
	Pitch     float64 `json:"pitch"`
}

// WorldView is the viewport every session starts with.
func WorldView() Viewport {
	return Viewport{Longitude: 0, Latitude: 20, Zoom: 1.5}
}

func (v Viewport) Center() Coordinates {
	return Coordinates{Lon: v.Longitude, Lat: v.Latitude}
}
