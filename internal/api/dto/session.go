package dto

import "time"

type CreateSessionResponse struct {
	ID       string `json:"id"`
	Stations int    `json:"stations"`
}

type SurfaceRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type ViewportRequest struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Zoom      float64 `json:"zoom"`
	Bearing   float64 `json:"bearing"`
	Pitch     float64 `json:"pitch"`
}

type ViewportResponse struct {
	Seq           uint64          `json:"seq"`
	Longitude     float64         `json:"longitude"`
	Latitude      float64         `json:"latitude"`
	Zoom          float64         `json:"zoom"`
	Bearing       float64         `json:"bearing"`
	Pitch         float64         `json:"pitch"`
	Bounds        *BoundsResponse `json:"bounds,omitempty"`
	UserNavigated bool            `json:"user_navigated"`
}

type BoundsResponse struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
}

// CameraResponse is the last programmatic move, for the browser to animate.
type CameraResponse struct {
	Seq        uint64  `json:"seq"`
	Longitude  float64 `json:"longitude"`
	Latitude   float64 `json:"latitude"`
	Zoom       float64 `json:"zoom"`
	DurationMs int64   `json:"duration_ms"`
}

type ToastResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expires_at"`
}
