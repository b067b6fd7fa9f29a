package services

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"contract-explorer-service/internal/domain"
	"contract-explorer-service/internal/platform/obs"

	"github.com/cespare/xxhash/v2"
)

var ErrUnknownCluster = errors.New("unknown cluster")

type ClusterOptions struct {
	// Radius is the merge distance in pixels at the given tile extent.
	Radius    float64
	Extent    float64
	MaxZoom   int
	MinPoints int
}

func (o ClusterOptions) withDefaults() ClusterOptions {
	if o.Radius <= 0 {
		o.Radius = 50
	}
	if o.Extent <= 0 {
		o.Extent = 512
	}
	if o.MaxZoom <= 0 {
		o.MaxZoom = 14
	}
	// Five id bits encode the formation zoom.
	if o.MaxZoom > 30 {
		o.MaxZoom = 30
	}
	if o.MinPoints < 2 {
		o.MinPoints = 2
	}
	return o
}

// ClusterEngine partitions the visible stations into clusters and single
// markers. Output is a pure function of the point set, the integer zoom and
// the radius: the hierarchy is rebuilt only when the point set changes.
type ClusterEngine struct {
	opts ClusterOptions

	mu          sync.Mutex
	points      []domain.Station
	index       *clusterIndex
	fingerprint uint64
	// pointsGen counts SetPoints calls; appliedGen is the one latest was
	// computed from.
	pointsGen  uint64
	appliedGen uint64
	seq        uint64
	latest     []domain.Cluster
}

func NewClusterEngine(opts ClusterOptions) *ClusterEngine {
	return &ClusterEngine{opts: opts.withDefaults(), latest: []domain.Cluster{}}
}

// SetPoints replaces the station set used by Recompute.
func (e *ClusterEngine) SetPoints(points []domain.Station) {
	sorted := canonicalPoints(points)

	e.mu.Lock()
	e.points = sorted
	e.pointsGen++
	e.mu.Unlock()
}

// ComputeClusters returns the clusters and single points of points visible in
// bounds at the viewport's zoom, ordered by id. Input order does not matter.
func (e *ClusterEngine) ComputeClusters(points []domain.Station, v domain.Viewport, b domain.GeoBounds) []domain.Cluster {
	if len(points) == 0 {
		return []domain.Cluster{}
	}
	sorted := canonicalPoints(points)

	e.mu.Lock()
	idx := e.indexForLocked(sorted)
	e.mu.Unlock()

	out := idx.query(b, v.Zoom)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Recompute refreshes the latest clusters for a viewport change. A result is
// dropped when a newer point set or a newer viewport was applied first.
func (e *ClusterEngine) Recompute(ch ViewportChange) {
	if !ch.HasBounds {
		return
	}
	start := time.Now()

	e.mu.Lock()
	if e.staleLocked(ch.Seq, e.pointsGen) {
		e.mu.Unlock()
		return
	}
	gen := e.pointsGen
	var idx *clusterIndex
	if len(e.points) > 0 {
		idx = e.indexForLocked(e.points)
	}
	e.mu.Unlock()

	clusters := []domain.Cluster{}
	if idx != nil {
		clusters = idx.query(ch.Bounds, ch.Viewport.Zoom)
		sort.Slice(clusters, func(i, j int) bool { return clusters[i].ID < clusters[j].ID })
	}

	if e.apply(ch.Seq, gen, clusters) {
		obs.ClusterRecomputeMs.Observe(float64(time.Since(start).Microseconds()) / 1000)
	}
}

// apply stores clusters computed for viewport seq from point set gen unless a
// newer result is already in place.
func (e *ClusterEngine) apply(seq, gen uint64, clusters []domain.Cluster) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.staleLocked(seq, gen) {
		return false
	}
	e.seq = seq
	e.appliedGen = gen
	e.latest = clusters
	return true
}

func (e *ClusterEngine) staleLocked(seq, gen uint64) bool {
	if gen != e.appliedGen {
		return gen < e.appliedGen
	}
	return seq < e.seq
}

// Clusters returns the latest result and the viewport sequence it belongs to.
func (e *ClusterEngine) Clusters() ([]domain.Cluster, uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.latest, e.seq
}

// ExpansionZoom returns the zoom at which the cluster splits into at least two
// markers.
func (e *ClusterEngine) ExpansionZoom(clusterID int) (int, error) {
	n, idx, err := e.node(clusterID)
	if err != nil {
		return 0, err
	}
	if n.point >= 0 {
		return 0, fmt.Errorf("expansion zoom: %d is a single point: %w", clusterID, ErrUnknownCluster)
	}
	return idx.expansionZoom(n), nil
}

// Cluster looks up a cluster or point of the current hierarchy.
func (e *ClusterEngine) Cluster(clusterID int) (domain.Cluster, error) {
	n, idx, err := e.node(clusterID)
	if err != nil {
		return domain.Cluster{}, err
	}
	return idx.toCluster(n), nil
}

// Children returns the markers a cluster splits into one zoom level deeper.
func (e *ClusterEngine) Children(clusterID int) ([]domain.Cluster, error) {
	n, idx, err := e.node(clusterID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Cluster, 0, len(n.children))
	for _, c := range n.children {
		out = append(out, idx.toCluster(c))
	}
	return out, nil
}

// Leaves returns every station absorbed by the cluster.
func (e *ClusterEngine) Leaves(clusterID int) ([]domain.Station, error) {
	n, idx, err := e.node(clusterID)
	if err != nil {
		return nil, err
	}
	return idx.leaves(n, make([]domain.Station, 0, n.count)), nil
}

func (e *ClusterEngine) node(clusterID int) (*clusterNode, *clusterIndex, error) {
	e.mu.Lock()
	idx := e.index
	e.mu.Unlock()

	if idx == nil {
		return nil, nil, fmt.Errorf("cluster %d: %w", clusterID, ErrUnknownCluster)
	}
	n, ok := idx.byID[clusterID]
	if !ok {
		return nil, nil, fmt.Errorf("cluster %d: %w", clusterID, ErrUnknownCluster)
	}
	return n, idx, nil
}

func (e *ClusterEngine) indexForLocked(sorted []domain.Station) *clusterIndex {
	fp := fingerprint(sorted)
	if e.index != nil && e.fingerprint == fp {
		return e.index
	}
	e.index = newClusterIndex(sorted, e.opts.Radius, e.opts.Extent, e.opts.MaxZoom, e.opts.MinPoints)
	e.fingerprint = fp
	return e.index
}

// canonicalPoints copies points sorted by position then id, dropping
// non-finite coordinates.
func canonicalPoints(points []domain.Station) []domain.Station {
	out := make([]domain.Station, 0, len(points))
	for _, p := range points {
		if math.IsNaN(p.Longitude) || math.IsNaN(p.Latitude) || math.IsInf(p.Longitude, 0) || math.IsInf(p.Latitude, 0) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Longitude != b.Longitude {
			return a.Longitude < b.Longitude
		}
		if a.Latitude != b.Latitude {
			return a.Latitude < b.Latitude
		}
		return a.ID < b.ID
	})
	return out
}

func fingerprint(sorted []domain.Station) uint64 {
	d := xxhash.New()
	var buf [16]byte
	for _, p := range sorted {
		for _, f := range [3]string{p.ID, p.CruiseID, p.ContractorID} {
			_, _ = d.WriteString(f)
			_, _ = d.Write([]byte{0})
		}
		binary.LittleEndian.PutUint64(buf[:8], math.Float64bits(p.Longitude))
		binary.LittleEndian.PutUint64(buf[8:], math.Float64bits(p.Latitude))
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}
