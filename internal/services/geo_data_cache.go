package services

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"contract-explorer-service/internal/domain"
	"contract-explorer-service/internal/platform/obs"
	"contract-explorer-service/internal/ports"

	"golang.org/x/sync/errgroup"
)

// LayerSnapshot is an immutable view of the loaded area layers, sorted by
// contractor id then area id. Consumers must not modify it.
type LayerSnapshot struct {
	Areas []domain.AreaLayer
	keys  []string
}

func newLayerSnapshot(areas []domain.AreaLayer) *LayerSnapshot {
	sort.Slice(areas, func(i, j int) bool {
		if areas[i].ContractorID != areas[j].ContractorID {
			return areas[i].ContractorID < areas[j].ContractorID
		}
		return areas[i].AreaID < areas[j].AreaID
	})
	keys := make([]string, len(areas))
	for i, a := range areas {
		keys[i] = a.Key()
	}
	return &LayerSnapshot{Areas: areas, keys: keys}
}

func (s *LayerSnapshot) sameKeys(keys []string) bool {
	if len(s.keys) != len(keys) {
		return false
	}
	for i := range keys {
		if s.keys[i] != keys[i] {
			return false
		}
	}
	return true
}

// BlockCount is the number of blocks across all areas.
func (s *LayerSnapshot) BlockCount() int {
	n := 0
	for _, a := range s.Areas {
		n += len(a.Blocks)
	}
	return n
}

// Bounds is the envelope of every area geometry.
func (s *LayerSnapshot) Bounds() (domain.GeoBounds, bool) {
	var bb domain.BoundsBuilder
	for _, a := range s.Areas {
		bb.AddBounds(domain.BoundsFromOrb(a.Geometry.Bound()))
	}
	return bb.Bounds()
}

// GeoDataCache lazily loads contractor area layers. At most one load batch
// runs at a time; loaded contractors stay resident for the session.
type GeoDataCache struct {
	api         ports.ExplorerAPI
	logger      *slog.Logger
	concurrency int

	mu       sync.Mutex
	resident map[string][]domain.AreaLayer
	snapshot *LayerSnapshot
	loading  bool
}

func NewGeoDataCache(api ports.ExplorerAPI, logger *slog.Logger, concurrency int) *GeoDataCache {
	if concurrency < 1 {
		concurrency = 1
	}
	return &GeoDataCache{
		api:         api,
		logger:      logger,
		concurrency: concurrency,
		resident:    map[string][]domain.AreaLayer{},
		snapshot:    newLayerSnapshot(nil),
	}
}

// LoadContractors makes the layers of ids resident and returns the snapshot of
// exactly those contractors. Contractors that are not resident are fetched
// concurrently and the batch waits for every fetch to settle; a failed
// contractor contributes nothing and is retried by the next call.
//
// If a batch is already in flight the call returns the current snapshot and
// started is false. If the resulting set of area keys equals the current
// snapshot's, the current snapshot pointer is returned unchanged.
func (c *GeoDataCache) LoadContractors(ctx context.Context, ids []string) (snap *LayerSnapshot, started bool) {
	wanted := uniqueIDs(ids)

	c.mu.Lock()
	if c.loading {
		snap = c.snapshot
		c.mu.Unlock()
		return snap, false
	}
	c.loading = true

	missing := make([]string, 0, len(wanted))
	for _, id := range wanted {
		if _, ok := c.resident[id]; !ok {
			missing = append(missing, id)
		}
	}
	c.mu.Unlock()

	fetched := c.fetchAll(ctx, missing)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false

	for id, areas := range fetched {
		c.resident[id] = areas
	}

	var areas []domain.AreaLayer
	for _, id := range wanted {
		areas = append(areas, c.resident[id]...)
	}
	next := newLayerSnapshot(areas)
	if !c.snapshot.sameKeys(next.keys) {
		c.snapshot = next
	}
	return c.snapshot, true
}

// fetchAll runs one fetch per id with bounded concurrency. Only successful
// fetches appear in the result.
func (c *GeoDataCache) fetchAll(ctx context.Context, ids []string) map[string][]domain.AreaLayer {
	results := make([][]domain.AreaLayer, len(ids))
	ok := make([]bool, len(ids))

	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			records, err := c.api.ContractorAreas(ctx, id)
			if err != nil {
				obs.LayerLoadsTotal.WithLabelValues("error").Inc()
				c.logger.Warn("contractor_layers_load_failed", "req_id", obs.RequestID(ctx), "contractor_id", id, "err", err)
				return nil
			}
			obs.LayerLoadsTotal.WithLabelValues("ok").Inc()
			results[i] = ingestAreas(c.logger, id, records)
			ok[i] = true
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string][]domain.AreaLayer, len(ids))
	for i, id := range ids {
		if ok[i] {
			out[id] = results[i]
		}
	}
	return out
}

func (c *GeoDataCache) Snapshot() *LayerSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

func (c *GeoDataCache) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Resident reports whether a contractor's layers have been loaded.
func (c *GeoDataCache) Resident(contractorID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.resident[contractorID]
	return ok
}

// Block finds a block of the current snapshot and the area that owns it.
func (c *GeoDataCache) Block(blockID string) (domain.BlockLayer, domain.AreaLayer, bool) {
	snap := c.Snapshot()
	for _, a := range snap.Areas {
		for _, b := range a.Blocks {
			if b.BlockID == blockID {
				return b, a, true
			}
		}
	}
	return domain.BlockLayer{}, domain.AreaLayer{}, false
}

func (c *GeoDataCache) Area(contractorID, areaID string) (domain.AreaLayer, bool) {
	snap := c.Snapshot()
	for _, a := range snap.Areas {
		if a.ContractorID == contractorID && a.AreaID == areaID {
			return a, true
		}
	}
	return domain.AreaLayer{}, false
}

// FindArea looks an area up by id alone, taking the first match in snapshot
// order.
func (c *GeoDataCache) FindArea(areaID string) (domain.AreaLayer, bool) {
	snap := c.Snapshot()
	for _, a := range snap.Areas {
		if a.AreaID == areaID {
			return a, true
		}
	}
	return domain.AreaLayer{}, false
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
