// Package mapengine provides a server-side map engine. It resolves camera
// transitions against the session viewport and records them so the browser
// can replay the animation.
package mapengine

import (
	"context"
	"sync"
	"time"

	"contract-explorer-service/internal/domain"
	"contract-explorer-service/internal/geo"
	"contract-explorer-service/internal/ports"
)

// Headless applies transitions to a ViewportSink. With Animate set, the
// viewport is updated and the transition acknowledged only after the
// transition's duration has elapsed.
type Headless struct {
	sink    ports.ViewportSink
	Animate bool

	mu   sync.Mutex
	seq  uint64
	last *ports.Camera
}

func NewHeadless(sink ports.ViewportSink) *Headless {
	return &Headless{sink: sink}
}

func (h *Headless) Transition(ctx context.Context, t ports.CameraTransition) <-chan error {
	ack := make(chan error, 1)

	target, err := h.resolve(t)
	if err != nil {
		ack <- err
		return ack
	}

	h.mu.Lock()
	h.seq++
	cam := ports.Camera{Seq: h.seq, Target: target, Duration: t.Duration}
	h.last = &cam
	h.mu.Unlock()

	if !h.Animate || t.Duration <= 0 {
		h.sink.SetViewport(target)
		ack <- nil
		return ack
	}

	go func() {
		timer := time.NewTimer(t.Duration)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			ack <- ctx.Err()
			return
		case <-timer.C:
		}
		h.sink.SetViewport(target)
		ack <- nil
	}()
	return ack
}

// Last returns the most recent transition, if any.
func (h *Headless) Last() (ports.Camera, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.last == nil {
		return ports.Camera{}, false
	}
	return *h.last, true
}

func (h *Headless) resolve(t ports.CameraTransition) (domain.Viewport, error) {
	target := h.sink.Viewport()

	maxZoom := t.MaxZoom
	if maxZoom <= 0 || maxZoom > domain.MaxZoom {
		maxZoom = domain.MaxZoom
	}

	switch {
	case t.Bounds != nil:
		w, hgt, ok := h.sink.Surface()
		if !ok {
			return domain.Viewport{}, ErrSurfaceNotReady
		}
		center, zoom := geo.FitZoom(*t.Bounds, w, hgt, t.Padding, maxZoom)
		target.Longitude, target.Latitude, target.Zoom = center.Lon, center.Lat, zoom
	case t.Center != nil:
		target.Longitude, target.Latitude = t.Center.Lon, t.Center.Lat
		target.Zoom = min(t.Zoom, maxZoom)
	default:
		return domain.Viewport{}, ErrEmptyTransition
	}

	return target, nil
}
