package services

import (
	"context"
	"errors"
	"time"

	"contract-explorer-service/internal/domain"
	"contract-explorer-service/internal/geo"
	"contract-explorer-service/internal/ports"
)

var ErrNothingToFrame = errors.New("nothing to frame")

type ActuatorOptions struct {
	Padding  float64
	Duration time.Duration
	// MaxZoom caps fitted zooms so small features are not framed at street level.
	MaxZoom float64
}

// ViewportActuator issues programmatic camera moves. Moves it issues never
// count as user navigation.
type ViewportActuator struct {
	engine ports.MapEngine
	store  *ViewportStore
	opts   ActuatorOptions
}

func NewViewportActuator(engine ports.MapEngine, store *ViewportStore, opts ActuatorOptions) *ViewportActuator {
	if opts.MaxZoom <= 0 {
		opts.MaxZoom = 12
	}
	return &ViewportActuator{engine: engine, store: store, opts: opts}
}

func (a *ViewportActuator) ZoomToArea(ctx context.Context, area domain.AreaLayer) <-chan error {
	b := geo.Envelope(area.Geometry)
	return a.issue(ctx, ports.CameraTransition{Bounds: &b})
}

func (a *ViewportActuator) ZoomToBlock(ctx context.Context, block domain.BlockLayer) <-chan error {
	b := geo.Envelope(block.Geometry)
	return a.issue(ctx, ports.CameraTransition{Bounds: &b})
}

// ZoomToCruise centers on the arithmetic mean of the station coordinates at
// the zoom that fits them all.
func (a *ViewportActuator) ZoomToCruise(ctx context.Context, stations []domain.Station) (<-chan error, error) {
	t, err := a.CruiseTarget(stations)
	if err != nil {
		return nil, err
	}
	return a.issue(ctx, t), nil
}

// CruiseTarget computes the transition ZoomToCruise would issue.
func (a *ViewportActuator) CruiseTarget(stations []domain.Station) (ports.CameraTransition, error) {
	if len(stations) == 0 {
		return ports.CameraTransition{}, ErrNothingToFrame
	}

	var bb domain.BoundsBuilder
	var sumLon, sumLat float64
	for _, s := range stations {
		sumLon += s.Longitude
		sumLat += s.Latitude
		bb.Add(s.Longitude, s.Latitude)
	}
	n := float64(len(stations))
	center := domain.Coordinates{Lon: sumLon / n, Lat: sumLat / n}

	b, _ := bb.Bounds()
	zoom := a.opts.MaxZoom
	if w, h, ok := a.store.Surface(); ok {
		_, zoom = geo.FitZoom(b, w, h, a.opts.Padding, a.opts.MaxZoom)
	}

	return ports.CameraTransition{Center: &center, Zoom: zoom}, nil
}

// ZoomToCluster flies to a cluster at its expansion zoom.
func (a *ViewportActuator) ZoomToCluster(ctx context.Context, c domain.Cluster, zoom int) <-chan error {
	center := c.Coordinates
	return a.issue(ctx, ports.CameraTransition{
		Center:  &center,
		Zoom:    float64(zoom),
		MaxZoom: domain.MaxZoom,
	})
}

// FitResults frames a fresh result set unless the user has moved the map
// since the last filter reset. ok reports whether a move was issued.
func (a *ViewportActuator) FitResults(ctx context.Context, b domain.GeoBounds) (ack <-chan error, ok bool) {
	if a.store.UserNavigated() {
		return nil, false
	}
	return a.issue(ctx, ports.CameraTransition{Bounds: &b}), true
}

// ResetFilters re-enables automatic framing of the next result set.
func (a *ViewportActuator) ResetFilters() {
	a.store.ResetNavigation()
}

func (a *ViewportActuator) issue(ctx context.Context, t ports.CameraTransition) <-chan error {
	if t.Padding == 0 {
		t.Padding = a.opts.Padding
	}
	if t.Duration == 0 {
		t.Duration = a.opts.Duration
	}
	if t.MaxZoom == 0 {
		t.MaxZoom = a.opts.MaxZoom
	}

	end := a.store.BeginProgrammatic()
	ack := a.engine.Transition(ctx, t)

	out := make(chan error, 1)
	go func() {
		err := <-ack
		end()
		out <- err
	}()
	return out
}
