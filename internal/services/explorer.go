package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"contract-explorer-service/internal/domain"
	"contract-explorer-service/internal/platform/obs"
	"contract-explorer-service/internal/ports"
)

var (
	ErrUnknownLayer   = errors.New("unknown layer")
	ErrUnknownFeature = errors.New("unknown feature")
)

// Interactive layers of the map.
const (
	LayerStations = "stations"
	LayerClusters = "clusters"
	LayerBlocks   = "blocks"
	LayerAreas    = "areas"
)

// FeatureClick is a click or hover on a rendered feature. Lon/Lat is where
// the pointer was.
type FeatureClick struct {
	Layer string
	ID    string
	Lon   float64
	Lat   float64
}

type ExplorerDeps struct {
	API      ports.ExplorerAPI
	Store    ports.SummaryStore
	Stations []domain.Station
	Logger   *slog.Logger
	// NewEngine builds the map engine bound to the session's viewport.
	NewEngine func(sink ports.ViewportSink) ports.MapEngine
}

type ExplorerOptions struct {
	Cluster          ClusterOptions
	Actuator         ActuatorOptions
	LayerConcurrency int
	ToastDuration    time.Duration
}

// FilterResult describes what ApplyFilter did.
type FilterResult struct {
	Layers   *LayerSnapshot
	Stations int
	// Started is false when another filter was still loading; the call then
	// left the session untouched.
	Started bool
	// Framed reports whether the camera was moved to the results.
	Framed bool
}

// Explorer is one map session: the viewport, the loaded layers, the
// clusters and the selection, wired together.
type Explorer struct {
	logger *slog.Logger

	store     *ViewportStore
	engine    ports.MapEngine
	actuator  *ViewportActuator
	layers    *GeoDataCache
	clusters  *ClusterEngine
	summaries *SummaryCache
	toaster   *Toaster
	selection *SelectionCoordinator

	all []domain.Station

	mu       sync.Mutex
	applying bool
	filter   []string
	visible  []domain.Station
}

func NewExplorer(deps ExplorerDeps, opts ExplorerOptions) (*Explorer, error) {
	if deps.API == nil {
		return nil, fmt.Errorf("new explorer: missing explorer api")
	}
	if deps.NewEngine == nil {
		return nil, fmt.Errorf("new explorer: missing map engine")
	}
	logger := deps.Logger
	if logger == nil {
		logger = obs.L()
	}

	e := &Explorer{
		logger: logger,
		store:  NewViewportStore(),
		all:    canonicalPoints(deps.Stations),
	}
	e.engine = deps.NewEngine(e.store)
	e.actuator = NewViewportActuator(e.engine, e.store, opts.Actuator)
	e.layers = NewGeoDataCache(deps.API, logger, opts.LayerConcurrency)
	e.clusters = NewClusterEngine(opts.Cluster)
	e.summaries = NewSummaryCache(deps.API, deps.Store, logger)
	e.toaster = NewToaster(opts.ToastDuration)
	e.selection = NewSelectionCoordinator(deps.API, e.summaries, e.layers, e.actuator, e.toaster, logger)

	e.visible = FilterStations(e.all, nil)
	e.clusters.SetPoints(e.visible)
	e.store.Subscribe(e.clusters.Recompute)
	return e, nil
}

func (e *Explorer) Resize(width, height float64) {
	e.store.Resize(width, height)
}

// SetViewport records a camera move reported by the map.
func (e *Explorer) SetViewport(v domain.Viewport) domain.Viewport {
	e.store.SetViewport(v)
	return e.store.Viewport()
}

// ApplyFilter narrows the session to the given contractors: stations are
// filtered and re-clustered, missing layers are loaded, and the camera frames
// the results unless the user has moved the map since the last reset.
func (e *Explorer) ApplyFilter(ctx context.Context, contractorIDs []string) (res FilterResult, err error) {
	defer obs.Time(ctx, "apply_filter")(&err)

	ids := uniqueIDs(contractorIDs)
	visible := FilterStations(e.all, ids)

	// A filter that arrives while another one is loading changes nothing, so
	// stations and layers always belong to the same contractor set.
	e.mu.Lock()
	if e.applying {
		res = FilterResult{Layers: e.layers.Snapshot(), Stations: len(e.visible)}
		e.mu.Unlock()
		return res, nil
	}
	e.applying = true
	e.filter = ids
	e.visible = visible
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.applying = false
		e.mu.Unlock()
	}()

	e.clusters.SetPoints(visible)
	e.clusters.Recompute(e.store.Current())

	snap, started := e.layers.LoadContractors(ctx, ids)
	res = FilterResult{Layers: snap, Stations: len(visible), Started: started}
	if !started || len(ids) == 0 {
		return res, nil
	}

	var bb domain.BoundsBuilder
	if b, ok := snap.Bounds(); ok {
		bb.AddBounds(b)
	}
	if b, ok := stationBounds(visible); ok {
		bb.AddBounds(b)
	}
	b, ok := bb.Bounds()
	if !ok {
		return res, nil
	}
	if _, _, ok := e.store.Surface(); !ok {
		return res, nil
	}

	ack, framed := e.actuator.FitResults(ctx, b)
	if !framed {
		return res, nil
	}
	if err := wait(ctx, ack); err != nil {
		return res, fmt.Errorf("apply filter: frame results: %w", err)
	}
	res.Framed = true
	return res, nil
}

// ResetFilters clears the contractor filter and re-enables automatic framing.
func (e *Explorer) ResetFilters(ctx context.Context) (FilterResult, error) {
	e.actuator.ResetFilters()
	return e.ApplyFilter(ctx, nil)
}

// ClickCluster flies into a cluster at the zoom where it splits. A single
// station marker selects the station instead.
func (e *Explorer) ClickCluster(ctx context.Context, clusterID int) error {
	c, err := e.clusters.Cluster(clusterID)
	if err != nil {
		return fmt.Errorf("click cluster: %w", err)
	}
	if c.IsPoint() && c.Station != nil {
		e.selection.SelectStation(*c.Station)
		return nil
	}

	zoom, err := e.clusters.ExpansionZoom(clusterID)
	if err != nil {
		return fmt.Errorf("click cluster: %w", err)
	}
	if err := wait(ctx, e.actuator.ZoomToCluster(ctx, c, zoom)); err != nil {
		return fmt.Errorf("click cluster %d: %w", clusterID, err)
	}
	return nil
}

// ClickFeature dispatches a click on a rendered feature by layer.
func (e *Explorer) ClickFeature(ctx context.Context, f FeatureClick) error {
	switch f.Layer {
	case LayerStations:
		return e.SelectStation(f.ID)
	case LayerClusters:
		id, err := strconv.Atoi(f.ID)
		if err != nil {
			return fmt.Errorf("click feature: cluster id %q: %w", f.ID, ErrUnknownFeature)
		}
		return e.ClickCluster(ctx, id)
	case LayerBlocks:
		return e.selection.SelectBlock(ctx, f.ID)
	case LayerAreas:
		area, ok := e.layers.FindArea(f.ID)
		if !ok {
			return fmt.Errorf("click feature: area %q: %w", f.ID, ErrUnknownFeature)
		}
		e.selection.OpenPopup(areaPopup(area))
		if err := wait(ctx, e.actuator.ZoomToArea(ctx, area)); err != nil {
			return fmt.Errorf("click feature: area %q: %w", f.ID, err)
		}
		return nil
	default:
		return fmt.Errorf("click feature: %q: %w", f.Layer, ErrUnknownLayer)
	}
}

// Hover opens the popup of the hovered feature. An empty id closes it.
func (e *Explorer) Hover(f FeatureClick) error {
	if f.ID == "" {
		e.selection.ClosePopup()
		return nil
	}

	switch f.Layer {
	case LayerStations:
		s, ok := e.station(f.ID)
		if !ok {
			return fmt.Errorf("hover: station %q: %w", f.ID, ErrUnknownFeature)
		}
		e.selection.OpenPopup(Popup{
			Layer:       f.Layer,
			FeatureID:   s.ID,
			Coordinates: s.Coordinates(),
			Properties: map[string]any{
				"name":         s.Name,
				"cruiseId":     s.CruiseID,
				"contractorId": s.ContractorID,
			},
		})
	case LayerBlocks:
		block, area, ok := e.layers.Block(f.ID)
		if !ok {
			return fmt.Errorf("hover: block %q: %w", f.ID, ErrUnknownFeature)
		}
		e.selection.OpenPopup(Popup{
			Layer:       f.Layer,
			FeatureID:   block.BlockID,
			Coordinates: domain.Coordinates{Lon: f.Lon, Lat: f.Lat},
			Properties: map[string]any{
				"blockName":   block.BlockName,
				"status":      string(block.Status),
				"areaSizeKm2": block.AreaSizeKm2,
				"areaName":    area.AreaName,
			},
		})
	case LayerAreas:
		area, ok := e.layers.FindArea(f.ID)
		if !ok {
			return fmt.Errorf("hover: area %q: %w", f.ID, ErrUnknownFeature)
		}
		e.selection.OpenPopup(areaPopup(area))
	default:
		return fmt.Errorf("hover: %q: %w", f.Layer, ErrUnknownLayer)
	}
	return nil
}

func (e *Explorer) SelectStation(stationID string) error {
	s, ok := e.station(stationID)
	if !ok {
		return fmt.Errorf("select station %q: %w", stationID, ErrUnknownFeature)
	}
	e.selection.SelectStation(s)
	return nil
}

// SelectCruise selects a cruise among all known stations, filtered or not.
func (e *Explorer) SelectCruise(ctx context.Context, cruiseID string) error {
	stations := StationsOfCruise(e.all, cruiseID)
	if len(stations) == 0 {
		return fmt.Errorf("select cruise %q: %w", cruiseID, ErrUnknownFeature)
	}
	return e.selection.SelectCruise(ctx, cruiseID, stations)
}

func (e *Explorer) SelectBlock(ctx context.Context, blockID string) error {
	return e.selection.SelectBlock(ctx, blockID)
}

func (e *Explorer) SelectContractor(contractorID string) {
	e.selection.SelectContractor(contractorID)
}

func (e *Explorer) ViewContractorSummary(ctx context.Context) error {
	return e.selection.ViewContractorSummary(ctx)
}

func (e *Explorer) SetSummaryVisible(visible bool) bool {
	return e.selection.SetSummaryVisible(visible)
}

func (e *Explorer) ClosePanel() { e.selection.ClosePanel() }

func (e *Explorer) CloseAll() { e.selection.CloseAll() }

// Clusters returns the clusters of the latest viewport and its sequence.
func (e *Explorer) Clusters() ([]domain.Cluster, uint64) { return e.clusters.Clusters() }

func (e *Explorer) ClusterLeaves(clusterID int) ([]domain.Station, error) {
	return e.clusters.Leaves(clusterID)
}

func (e *Explorer) Layers() *LayerSnapshot { return e.layers.Snapshot() }

func (e *Explorer) LayersLoading() bool { return e.layers.Loading() }

func (e *Explorer) State() SelectionState { return e.selection.State() }

func (e *Explorer) Toast() (Toast, bool) { return e.toaster.Current() }

func (e *Explorer) DismissToast(id string) bool { return e.toaster.Dismiss(id) }

func (e *Explorer) Viewport() ViewportChange { return e.store.Current() }

func (e *Explorer) UserNavigated() bool { return e.store.UserNavigated() }

// Filter returns the active contractor filter.
func (e *Explorer) Filter() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.filter...)
}

func (e *Explorer) VisibleStations() []domain.Station {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]domain.Station(nil), e.visible...)
}

func (e *Explorer) station(id string) (domain.Station, bool) {
	for _, s := range e.all {
		if s.ID == id {
			return s, true
		}
	}
	return domain.Station{}, false
}

func areaPopup(area domain.AreaLayer) Popup {
	return Popup{
		Layer:       LayerAreas,
		FeatureID:   area.AreaID,
		Coordinates: area.Center,
		Properties: map[string]any{
			"areaName":         area.AreaName,
			"contractorId":     area.ContractorID,
			"totalAreaSizeKm2": area.TotalAreaSizeKm2,
			"blocks":           len(area.Blocks),
		},
	}
}

func wait(ctx context.Context, ack <-chan error) error {
	select {
	case err := <-ack:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Camera returns the last programmatic move when the engine records them.
func (e *Explorer) Camera() (ports.Camera, bool) {
	rec, ok := e.engine.(ports.CameraRecorder)
	if !ok {
		return ports.Camera{}, false
	}
	return rec.Last()
}
