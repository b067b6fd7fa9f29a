package services

import (
	"math"
	"testing"

	"contract-explorer-service/internal/domain"
	"contract-explorer-service/internal/geo"
)

func TestViewportStoreStartsAtWorldView(t *testing.T) {
	s := NewViewportStore()
	if got := s.Viewport(); got != domain.WorldView() {
		t.Fatalf("initial viewport = %+v, want world view", got)
	}
	if s.UserNavigated() {
		t.Fatal("fresh store reports user navigation")
	}
}

func TestViewportStoreSanitizes(t *testing.T) {
	s := NewViewportStore()

	s.SetViewport(domain.Viewport{Longitude: 190, Latitude: 89, Zoom: 30, Bearing: -90, Pitch: 120})
	v := s.Viewport()
	if math.Abs(v.Longitude-(-170)) > 1e-9 {
		t.Errorf("longitude = %v, want -170", v.Longitude)
	}
	if v.Latitude != geo.MaxLatitude {
		t.Errorf("latitude = %v, want %v", v.Latitude, geo.MaxLatitude)
	}
	if v.Zoom != domain.MaxZoom {
		t.Errorf("zoom = %v, want %v", v.Zoom, domain.MaxZoom)
	}
	if v.Bearing != 270 {
		t.Errorf("bearing = %v, want 270", v.Bearing)
	}
	if v.Pitch != 85 {
		t.Errorf("pitch = %v, want 85", v.Pitch)
	}

	s.SetViewport(domain.Viewport{Longitude: math.NaN(), Latitude: 5, Zoom: math.Inf(1)})
	v = s.Viewport()
	if math.Abs(v.Longitude-(-170)) > 1e-9 || v.Zoom != domain.MaxZoom {
		t.Fatalf("non-finite fields were not kept: %+v", v)
	}
	if v.Latitude != 5 {
		t.Fatalf("latitude = %v, want 5", v.Latitude)
	}
}

func TestViewportStoreBoundsNeedLayout(t *testing.T) {
	s := NewViewportStore()

	if _, ok := s.Bounds(); ok {
		t.Fatal("bounds available before layout")
	}
	s.Resize(0, 600)
	s.Resize(800, math.Inf(1))
	if _, ok := s.Bounds(); ok {
		t.Fatal("invalid resize marked the surface as laid out")
	}

	s.Resize(800, 600)
	b, ok := s.Bounds()
	if !ok {
		t.Fatal("bounds unavailable after layout")
	}
	if b.MinLat > b.MaxLat || b.MinLon > b.MaxLon {
		t.Fatalf("bounds not ordered: %+v", b)
	}
}

func TestViewportStoreProgrammaticMoves(t *testing.T) {
	s := NewViewportStore()

	end := s.BeginProgrammatic()
	s.SetViewport(domain.Viewport{Longitude: 10, Latitude: 10, Zoom: 4})
	if s.UserNavigated() {
		t.Fatal("programmatic move counted as user navigation")
	}
	end()
	end()

	s.SetViewport(domain.Viewport{Longitude: 11, Latitude: 10, Zoom: 4})
	if !s.UserNavigated() {
		t.Fatal("user move not recorded")
	}
	s.ResetNavigation()
	if s.UserNavigated() {
		t.Fatal("reset did not clear navigation")
	}
}

func TestViewportStoreNotifiesInOrder(t *testing.T) {
	s := NewViewportStore()

	var got []ViewportChange
	s.Subscribe(func(ch ViewportChange) { got = append(got, ch) })

	s.SetViewport(domain.Viewport{Zoom: 2})
	s.Resize(640, 480)
	s.SetViewport(domain.Viewport{Zoom: 3})

	if len(got) != 3 {
		t.Fatalf("got %d notifications, want 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Seq <= got[i-1].Seq {
			t.Fatalf("sequence not increasing: %d after %d", got[i].Seq, got[i-1].Seq)
		}
	}
	if got[0].HasBounds {
		t.Error("change before layout carries bounds")
	}
	if !got[2].HasBounds || got[2].Viewport.Zoom != 3 {
		t.Errorf("last change = %+v", got[2])
	}
}
