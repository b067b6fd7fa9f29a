package services

import (
	"math"

	"contract-explorer-service/internal/domain"
	"contract-explorer-service/internal/geo"
)

// clusterNode is a point or a cluster in one zoom level of the hierarchy.
// Coordinates are in unit mercator space.
//
// Ids: a point has id index<<5, a cluster formed at zoom z from the node at
// index i of level z+1 has id (i<<5)+(z+1). The low five bits therefore name
// the zoom a cluster was formed at and are zero for points.
type clusterNode struct {
	x, y     float64
	id       int
	count    int
	zoom     int
	parent   int
	point    int
	formedAt int
	children []*clusterNode
}

// clusterIndex is a supercluster-style hierarchy built once per point set.
// levels[z] holds the nodes visible at integer zoom z, for z in 0..maxZoom+1.
type clusterIndex struct {
	radius    float64
	extent    float64
	maxZoom   int
	minPoints int

	points []domain.Station
	levels [][]*clusterNode
	byID   map[int]*clusterNode
}

func newClusterIndex(points []domain.Station, radius, extent float64, maxZoom, minPoints int) *clusterIndex {
	idx := &clusterIndex{
		radius:    radius,
		extent:    extent,
		maxZoom:   maxZoom,
		minPoints: minPoints,
		points:    points,
		levels:    make([][]*clusterNode, maxZoom+2),
		byID:      make(map[int]*clusterNode, len(points)*2),
	}

	leaves := make([]*clusterNode, len(points))
	for i, p := range points {
		n := &clusterNode{
			x:        geo.LonToX(geo.WrapLon(p.Longitude)),
			y:        geo.LatToY(p.Latitude),
			id:       i << 5,
			count:    1,
			zoom:     math.MaxInt,
			parent:   -1,
			point:    i,
			formedAt: -1,
		}
		leaves[i] = n
		idx.byID[n.id] = n
	}
	idx.levels[maxZoom+1] = leaves

	for z := maxZoom; z >= 0; z-- {
		idx.levels[z] = idx.cluster(idx.levels[z+1], z)
	}
	return idx
}

// cluster merges the nodes of level zoom+1 into level zoom.
func (idx *clusterIndex) cluster(prev []*clusterNode, zoom int) []*clusterNode {
	r := idx.radius / (idx.extent * math.Exp2(float64(zoom)))
	grid := newNodeGrid(prev, r)

	out := make([]*clusterNode, 0, len(prev))
	for i, p := range prev {
		if p.zoom <= zoom {
			continue
		}
		p.zoom = zoom

		neighbors := grid.within(p.x, p.y)
		num := p.count
		for _, b := range neighbors {
			if b.zoom > zoom {
				num += b.count
			}
		}

		if num > p.count && num >= idx.minPoints {
			id := (i << 5) + (zoom + 1)
			c := &clusterNode{
				id:       id,
				count:    num,
				zoom:     math.MaxInt,
				parent:   -1,
				point:    -1,
				formedAt: zoom,
				children: []*clusterNode{p},
			}

			wx := p.x * float64(p.count)
			wy := p.y * float64(p.count)
			p.parent = id
			for _, b := range neighbors {
				if b.zoom <= zoom {
					continue
				}
				b.zoom = zoom
				b.parent = id
				wx += b.x * float64(b.count)
				wy += b.y * float64(b.count)
				c.children = append(c.children, b)
			}
			c.x = wx / float64(num)
			c.y = wy / float64(num)

			out = append(out, c)
			idx.byID[id] = c
			continue
		}

		out = append(out, p)
		if num > 1 {
			for _, b := range neighbors {
				if b.zoom <= zoom {
					continue
				}
				b.zoom = zoom
				out = append(out, b)
			}
		}
	}
	return out
}

// limitZoom maps a fractional zoom onto a level index.
func (idx *clusterIndex) limitZoom(zoom float64) int {
	z := int(math.Floor(zoom))
	if math.IsNaN(zoom) || z < 0 {
		return 0
	}
	return min(z, idx.maxZoom+1)
}

func (idx *clusterIndex) query(b domain.GeoBounds, zoom float64) []domain.Cluster {
	level := idx.levels[idx.limitZoom(zoom)]

	out := make([]domain.Cluster, 0, len(level))
	for _, n := range level {
		c := idx.toCluster(n)
		if b.Contains(c.Coordinates.Lon, c.Coordinates.Lat) {
			out = append(out, c)
		}
	}
	return out
}

func (idx *clusterIndex) toCluster(n *clusterNode) domain.Cluster {
	if n.point >= 0 {
		st := idx.points[n.point]
		return domain.Cluster{
			ID:          n.id,
			Coordinates: st.Coordinates(),
			Count:       1,
			Station:     &st,
		}
	}
	return domain.Cluster{
		ID:            n.id,
		Coordinates:   domain.Coordinates{Lon: geo.XToLon(n.x), Lat: geo.YToLat(n.y)},
		Count:         n.count,
		ExpansionZoom: idx.expansionZoom(n),
	}
}

// expansionZoom is the first zoom at which n no longer renders as one marker.
func (idx *clusterIndex) expansionZoom(n *clusterNode) int {
	ez := n.formedAt
	for ez <= idx.maxZoom {
		children := n.children
		ez++
		if len(children) != 1 {
			break
		}
		n = children[0]
	}
	return ez
}

func (idx *clusterIndex) leaves(n *clusterNode, out []domain.Station) []domain.Station {
	if n.point >= 0 {
		return append(out, idx.points[n.point])
	}
	for _, c := range n.children {
		out = idx.leaves(c, out)
	}
	return out
}

// nodeGrid buckets nodes into square cells of the search radius so a radius
// query only inspects the 3x3 neighborhood.
type nodeGrid struct {
	r     float64
	cells map[[2]int][]*clusterNode
}

func newNodeGrid(nodes []*clusterNode, r float64) *nodeGrid {
	g := &nodeGrid{r: r, cells: make(map[[2]int][]*clusterNode, len(nodes))}
	for _, n := range nodes {
		k := g.key(n.x, n.y)
		g.cells[k] = append(g.cells[k], n)
	}
	return g
}

func (g *nodeGrid) key(x, y float64) [2]int {
	return [2]int{int(math.Floor(x / g.r)), int(math.Floor(y / g.r))}
}

func (g *nodeGrid) within(x, y float64) []*clusterNode {
	k := g.key(x, y)
	r2 := g.r * g.r

	var out []*clusterNode
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for _, n := range g.cells[[2]int{k[0] + dx, k[1] + dy}] {
				ddx, ddy := n.x-x, n.y-y
				if ddx*ddx+ddy*ddy <= r2 {
					out = append(out, n)
				}
			}
		}
	}
	return out
}
