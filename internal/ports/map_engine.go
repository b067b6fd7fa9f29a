package ports

import (
	"context"
	"time"

	"contract-explorer-service/internal/domain"
)

// CameraTransition is one programmatic camera move. Either Bounds or Center
// is set; Zoom applies only with Center.
type CameraTransition struct {
	Bounds   *domain.GeoBounds
	Center   *domain.Coordinates
	Zoom     float64
	Padding  float64
	MaxZoom  float64
	Duration time.Duration
}

// Port: the map rendering engine as seen by the camera code.
type MapEngine interface {
	// Start a camera transition. The returned channel delivers exactly one
	// value once the move has completed or failed.
	Transition(ctx context.Context, t CameraTransition) <-chan error
}

// Camera is a resolved transition: where the camera ended up and how long the
// browser should take to get there.
type Camera struct {
	Seq      uint64
	Target   domain.Viewport
	Duration time.Duration
}

// CameraRecorder is implemented by engines that keep the last resolved move.
type CameraRecorder interface {
	Last() (Camera, bool)
}

// ViewportSink is the viewport state a map engine reads and writes.
type ViewportSink interface {
	Viewport() domain.Viewport
	SetViewport(v domain.Viewport)
	Surface() (width, height float64, ok bool)
}
