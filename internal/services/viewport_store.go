package services

import (
	"math"
	"sync"

	"contract-explorer-service/internal/domain"
	"contract-explorer-service/internal/geo"
)

// ViewportChange is delivered to subscribers after every viewport or surface
// update. Seq increases with every change so late deliveries can be discarded.
type ViewportChange struct {
	Seq       uint64
	Viewport  domain.Viewport
	Bounds    domain.GeoBounds
	HasBounds bool
}

type ViewportListener func(ViewportChange)

// ViewportStore owns the camera state of one session. It is the only place
// that records whether the user has moved the map by hand.
type ViewportStore struct {
	mu           sync.Mutex
	vp           domain.Viewport
	width        float64
	height       float64
	laidOut      bool
	navigated    bool
	programmatic int
	seq          uint64
	listeners    []ViewportListener
}

func NewViewportStore() *ViewportStore {
	return &ViewportStore{vp: domain.WorldView()}
}

// Subscribe registers fn to run synchronously on every change.
func (s *ViewportStore) Subscribe(fn ViewportListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *ViewportStore) Viewport() domain.Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vp
}

// SetViewport stores v after sanitizing it: non-finite fields keep their
// previous value, zoom and latitude are clamped and longitude is wrapped.
// Outside a programmatic move the user is marked as having navigated.
func (s *ViewportStore) SetViewport(v domain.Viewport) {
	s.mu.Lock()
	s.vp = sanitize(v, s.vp)
	if s.programmatic == 0 {
		s.navigated = true
	}
	ch, listeners := s.changeLocked()
	s.mu.Unlock()

	notify(listeners, ch)
}

// Resize records the pixel size of the rendering surface. Non-positive sizes
// are ignored.
func (s *ViewportStore) Resize(width, height float64) {
	if !(width > 0 && height > 0) || math.IsInf(width, 0) || math.IsInf(height, 0) {
		return
	}

	s.mu.Lock()
	s.width, s.height = width, height
	s.laidOut = true
	ch, listeners := s.changeLocked()
	s.mu.Unlock()

	notify(listeners, ch)
}

func (s *ViewportStore) Surface() (width, height float64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height, s.laidOut
}

// Bounds returns the visible envelope; ok is false until the surface has been
// laid out.
func (s *ViewportStore) Bounds() (domain.GeoBounds, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.laidOut {
		return domain.GeoBounds{}, false
	}
	return geo.BoundsFor(s.vp, s.width, s.height), true
}

// Current returns the latest change without advancing the sequence.
func (s *ViewportStore) Current() ViewportChange {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := ViewportChange{Seq: s.seq, Viewport: s.vp, HasBounds: s.laidOut}
	if s.laidOut {
		ch.Bounds = geo.BoundsFor(s.vp, s.width, s.height)
	}
	return ch
}

func (s *ViewportStore) UserNavigated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.navigated
}

func (s *ViewportStore) ResetNavigation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.navigated = false
}

// BeginProgrammatic marks the start of a camera move issued by code. Viewport
// updates made before the returned func is called do not count as user
// navigation. The returned func is safe to call more than once.
func (s *ViewportStore) BeginProgrammatic() (end func()) {
	s.mu.Lock()
	s.programmatic++
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.programmatic--
			s.mu.Unlock()
		})
	}
}

func (s *ViewportStore) changeLocked() (ViewportChange, []ViewportListener) {
	s.seq++
	ch := ViewportChange{Seq: s.seq, Viewport: s.vp, HasBounds: s.laidOut}
	if s.laidOut {
		ch.Bounds = geo.BoundsFor(s.vp, s.width, s.height)
	}
	return ch, s.listeners
}

func notify(listeners []ViewportListener, ch ViewportChange) {
	for _, fn := range listeners {
		fn(ch)
	}
}

func sanitize(v, prev domain.Viewport) domain.Viewport {
	out := domain.Viewport{
		Longitude: finiteOr(v.Longitude, prev.Longitude),
		Latitude:  finiteOr(v.Latitude, prev.Latitude),
		Zoom:      finiteOr(v.Zoom, prev.Zoom),
		Bearing:   finiteOr(v.Bearing, prev.Bearing),
		Pitch:     finiteOr(v.Pitch, prev.Pitch),
	}

	out.Longitude = geo.WrapLon(out.Longitude)
	out.Latitude = geo.ClampLat(out.Latitude)
	out.Zoom = math.Max(domain.MinZoom, math.Min(domain.MaxZoom, out.Zoom))
	out.Bearing = math.Mod(out.Bearing, 360)
	if out.Bearing < 0 {
		out.Bearing += 360
	}
	out.Pitch = math.Max(0, math.Min(85, out.Pitch))
	return out
}

func finiteOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}
