package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"contract-explorer-service/internal/domain"
	"contract-explorer-service/internal/ports"
)

var (
	ErrNoContractor = errors.New("no contractor selected")
	// ErrSuperseded is returned when a newer selection replaced the one whose
	// fetch just completed; the fetched result is discarded.
	ErrSuperseded = errors.New("selection superseded")
)

type SelectionKind int

const (
	SelectionNone SelectionKind = iota
	SelectionStation
	SelectionCruise
	SelectionBlockAnalytics
	SelectionContractorSummary
)

func (k SelectionKind) String() string {
	switch k {
	case SelectionStation:
		return "station"
	case SelectionCruise:
		return "cruise"
	case SelectionBlockAnalytics:
		return "blockAnalytics"
	case SelectionContractorSummary:
		return "contractorSummary"
	default:
		return "none"
	}
}

// Popup is the hover or click popup anchored on a map feature.
type Popup struct {
	Layer       string
	FeatureID   string
	Coordinates domain.Coordinates
	Properties  map[string]any
}

// SelectionState is a value copy of the coordinator state. Pointer fields are
// never mutated after being published.
type SelectionState struct {
	Kind     SelectionKind
	Station  *domain.Station
	CruiseID string
	Block    *domain.BlockAnalytics
	// Summary is the summary on display for the selected contractor. It
	// survives ClosePanel and is cleared by CloseAll or a contractor change.
	Summary        *domain.ContractorSummary
	ContractorID   string
	PanelOpen      bool
	SummaryVisible bool
	Popup          *Popup
	Loading        bool
}

// SelectionCoordinator decides which detail or summary panel is shown and
// what it shows. At most one selection kind is active at a time.
//
// Every applied transition bumps a generation counter. Async transitions
// capture it before they wait and apply their result only if no other
// transition ran in the meantime. Fetches also take a request token so that
// only the latest fetch may apply; a fetch that fails changes nothing.
type SelectionCoordinator struct {
	api       ports.ExplorerAPI
	summaries *SummaryCache
	layers    *GeoDataCache
	actuator  *ViewportActuator
	toaster   *Toaster
	logger    *slog.Logger

	mu    sync.Mutex
	state SelectionState
	gen   uint64
	req   uint64
}

func NewSelectionCoordinator(
	api ports.ExplorerAPI,
	summaries *SummaryCache,
	layers *GeoDataCache,
	actuator *ViewportActuator,
	toaster *Toaster,
	logger *slog.Logger,
) *SelectionCoordinator {
	return &SelectionCoordinator{
		api:       api,
		summaries: summaries,
		layers:    layers,
		actuator:  actuator,
		toaster:   toaster,
		logger:    logger,
	}
}

func (c *SelectionCoordinator) State() SelectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SelectStation shows a station, dropping block analytics and any popup.
func (c *SelectionCoordinator) SelectStation(s domain.Station) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	c.clearDetailLocked()
	c.state.Kind = SelectionStation
	c.state.Station = &s
	c.state.Popup = nil
	c.state.PanelOpen = true
	c.state.SummaryVisible = false
}

// SelectCruise selects a cruise, requests the zoom to its stations, and opens
// the panel once the map engine has acknowledged the move. The panel is never
// shown before the zoom was requested, and not at all if another selection
// happens first.
func (c *SelectionCoordinator) SelectCruise(ctx context.Context, cruiseID string, stations []domain.Station) error {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.clearDetailLocked()
	c.state.Kind = SelectionCruise
	c.state.CruiseID = cruiseID
	c.state.PanelOpen = false
	c.state.SummaryVisible = false
	c.mu.Unlock()

	ack, err := c.actuator.ZoomToCruise(ctx, stations)
	if err != nil && !errors.Is(err, ErrNothingToFrame) {
		return fmt.Errorf("select cruise %q: %w", cruiseID, err)
	}
	if ack != nil {
		select {
		case err := <-ack:
			if err != nil {
				c.logger.Warn("cruise_zoom_failed", "cruise_id", cruiseID, "err", err)
			}
		case <-ctx.Done():
			return fmt.Errorf("select cruise %q: %w", cruiseID, ctx.Err())
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return ErrSuperseded
	}
	c.state.PanelOpen = true
	return nil
}

// SelectBlock fetches analytics for a block. On failure the state is left
// as it was and one error toast is shown. On success the block analytics
// replace the current selection and the camera moves to the block.
func (c *SelectionCoordinator) SelectBlock(ctx context.Context, blockID string) error {
	c.mu.Lock()
	req, gen := c.beginFetchLocked()
	c.mu.Unlock()

	analytics, err := c.api.BlockAnalytics(ctx, blockID)

	c.mu.Lock()
	if !c.endFetchLocked(req, gen) {
		c.mu.Unlock()
		return ErrSuperseded
	}
	if err != nil {
		c.mu.Unlock()
		c.toaster.Show(ToastError, "Could not load analytics for this block.")
		return fmt.Errorf("select block %q: %w", blockID, err)
	}

	c.gen++
	c.clearDetailLocked()
	c.state.Kind = SelectionBlockAnalytics
	c.state.Block = &analytics
	c.state.PanelOpen = true
	c.state.SummaryVisible = false
	c.mu.Unlock()

	if block, _, ok := c.layers.Block(blockID); ok {
		// The panel does not wait for the camera.
		_ = c.actuator.ZoomToBlock(ctx, block)
	}
	return nil
}

// SelectContractor makes id the contractor summaries refer to. Switching
// contractor drops block analytics and the displayed summary.
func (c *SelectionCoordinator) SelectContractor(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id == c.state.ContractorID {
		return
	}
	// Fetches in flight belong to the previous contractor.
	c.req++
	c.state.ContractorID = id
	c.state.Summary = nil
	c.state.Block = nil
	c.state.Loading = false
	if c.state.Kind == SelectionBlockAnalytics || c.state.Kind == SelectionContractorSummary {
		c.gen++
		c.state.Kind = SelectionNone
		c.state.PanelOpen = false
		c.state.SummaryVisible = false
	}
}

// ViewContractorSummary shows the selected contractor's summary, fetching it
// when not cached. A failed fetch leaves the state unchanged and shows one
// error toast.
func (c *SelectionCoordinator) ViewContractorSummary(ctx context.Context) error {
	c.mu.Lock()
	id := c.state.ContractorID
	if id == "" {
		c.mu.Unlock()
		c.toaster.Show(ToastInfo, "Select a contractor to see its summary.")
		return ErrNoContractor
	}
	if s, ok := c.summaries.Peek(id); ok {
		c.req++
		c.gen++
		c.showSummaryLocked(s)
		c.mu.Unlock()
		return nil
	}
	req, gen := c.beginFetchLocked()
	c.mu.Unlock()

	s, err := c.summaries.Get(ctx, id)

	c.mu.Lock()
	if !c.endFetchLocked(req, gen) {
		c.mu.Unlock()
		return ErrSuperseded
	}
	if err != nil {
		c.mu.Unlock()
		c.toaster.Show(ToastError, "Could not load the contractor summary.")
		return fmt.Errorf("view contractor summary: %w", err)
	}
	c.gen++
	c.showSummaryLocked(s)
	c.mu.Unlock()
	return nil
}

// SetSummaryVisible shows or hides the summary panel itself. Showing needs a
// summary already on display and reports false otherwise; hiding keeps the
// summary so it can be shown again without a fetch.
func (c *SelectionCoordinator) SetSummaryVisible(visible bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !visible {
		c.state.SummaryVisible = false
		if c.state.Kind == SelectionContractorSummary {
			c.gen++
			c.state.Kind = SelectionNone
			c.state.PanelOpen = false
		}
		return true
	}

	if c.state.Summary == nil {
		return false
	}
	c.gen++
	c.showSummaryLocked(*c.state.Summary)
	return true
}

// ClosePanel returns to None. The selected contractor and its summary are kept.
func (c *SelectionCoordinator) ClosePanel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	c.clearDetailLocked()
	c.state.Kind = SelectionNone
	c.state.PanelOpen = false
	c.state.SummaryVisible = false
	c.state.Popup = nil
}

// CloseAll returns to None and also drops the displayed summary. The summary
// cache is not touched.
func (c *SelectionCoordinator) CloseAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	c.clearDetailLocked()
	c.state.Kind = SelectionNone
	c.state.Summary = nil
	c.state.PanelOpen = false
	c.state.SummaryVisible = false
	c.state.Popup = nil
}

func (c *SelectionCoordinator) OpenPopup(p Popup) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Popup = &p
}

func (c *SelectionCoordinator) ClosePopup() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Popup = nil
}

// beginFetchLocked starts a fetch that replaces any fetch still in flight.
func (c *SelectionCoordinator) beginFetchLocked() (req, gen uint64) {
	c.req++
	c.state.Loading = true
	return c.req, c.gen
}

// endFetchLocked finishes a fetch and reports whether its result may still
// be applied: no newer fetch started and no transition ran meanwhile.
func (c *SelectionCoordinator) endFetchLocked(req, gen uint64) bool {
	if c.req != req {
		return false
	}
	c.state.Loading = false
	return c.gen == gen
}

func (c *SelectionCoordinator) showSummaryLocked(s domain.ContractorSummary) {
	c.clearDetailLocked()
	c.state.Kind = SelectionContractorSummary
	c.state.Summary = &s
	c.state.PanelOpen = true
	c.state.SummaryVisible = true
}

// clearDetailLocked drops the transient data of the detail panel.
func (c *SelectionCoordinator) clearDetailLocked() {
	c.state.Station = nil
	c.state.CruiseID = ""
	c.state.Block = nil
	c.state.Loading = false
}
