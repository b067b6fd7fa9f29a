package mapengine

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"contract-explorer-service/internal/domain"
	"contract-explorer-service/internal/ports"
)

type sink struct {
	mu   sync.Mutex
	vp   domain.Viewport
	w, h float64
	sets int
}

func (s *sink) Viewport() domain.Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vp
}

func (s *sink) SetViewport(v domain.Viewport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vp = v
	s.sets++
}

func (s *sink) Surface() (float64, float64, bool) { return s.w, s.h, s.w > 0 && s.h > 0 }

func TestTransitionToCenter(t *testing.T) {
	s := &sink{vp: domain.Viewport{Bearing: 30}, w: 800, h: 600}
	h := NewHeadless(s)

	ack := h.Transition(context.Background(), ports.CameraTransition{
		Center:  &domain.Coordinates{Lon: 50, Lat: 20},
		Zoom:    18,
		MaxZoom: 12,
	})
	if err := <-ack; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := s.Viewport()
	if got.Longitude != 50 || got.Latitude != 20 || got.Zoom != 12 || got.Bearing != 30 {
		t.Fatalf("viewport = %+v", got)
	}

	cam, ok := h.Last()
	if !ok || cam.Seq != 1 || cam.Target != got {
		t.Fatalf("last camera = %+v, ok=%v", cam, ok)
	}
}

func TestTransitionToBounds(t *testing.T) {
	s := &sink{w: 1000, h: 800}
	h := NewHeadless(s)

	b := domain.GeoBounds{MinLat: -10, MaxLat: 10, MinLon: -10, MaxLon: 10}
	if err := <-h.Transition(context.Background(), ports.CameraTransition{Bounds: &b, Padding: 20}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := s.Viewport()
	if math.Abs(got.Longitude) > 1e-9 || math.Abs(got.Latitude) > 1e-9 || got.Zoom <= 0 {
		t.Fatalf("viewport = %+v", got)
	}
}

func TestTransitionErrors(t *testing.T) {
	h := NewHeadless(&sink{})

	b := domain.WorldBounds()
	if err := <-h.Transition(context.Background(), ports.CameraTransition{Bounds: &b}); !errors.Is(err, ErrSurfaceNotReady) {
		t.Fatalf("err = %v, want ErrSurfaceNotReady", err)
	}
	if err := <-h.Transition(context.Background(), ports.CameraTransition{}); !errors.Is(err, ErrEmptyTransition) {
		t.Fatalf("err = %v, want ErrEmptyTransition", err)
	}
}

func TestAnimatedTransitionAppliesAfterDuration(t *testing.T) {
	s := &sink{w: 800, h: 600}
	h := NewHeadless(s)
	h.Animate = true

	ack := h.Transition(context.Background(), ports.CameraTransition{
		Center:   &domain.Coordinates{Lon: 1, Lat: 2},
		Zoom:     5,
		Duration: 20 * time.Millisecond,
	})

	if s.Viewport().Zoom != 0 {
		t.Fatal("viewport changed before the animation finished")
	}
	if err := <-ack; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Viewport().Zoom != 5 {
		t.Fatalf("viewport = %+v after ack", s.Viewport())
	}
}

func TestAnimatedTransitionCancelled(t *testing.T) {
	s := &sink{w: 800, h: 600}
	h := NewHeadless(s)
	h.Animate = true

	ctx, cancel := context.WithCancel(context.Background())
	ack := h.Transition(ctx, ports.CameraTransition{
		Center:   &domain.Coordinates{Lon: 1, Lat: 2},
		Zoom:     5,
		Duration: time.Hour,
	})
	cancel()

	if err := <-ack; !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if s.sets != 0 {
		t.Fatal("cancelled transition touched the viewport")
	}
}
