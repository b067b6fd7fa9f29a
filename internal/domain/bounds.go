package domain

import "github.com/paulmach/orb"

// GeoBounds is an axis-aligned geographic envelope. Longitudes are not wrapped:
// a view crossing the antimeridian yields MinLon < -180 or MaxLon > 180, which
// keeps MinLon <= MaxLon.
type GeoBounds struct {
	MinLat float64 `json:"minLat"`
	MaxLat float64 `json:"maxLat"`
	MinLon float64 `json:"minLon"`
	MaxLon float64 `json:"maxLon"`
}

// WorldBounds covers every representable coordinate.
func WorldBounds() GeoBounds {
	return GeoBounds{MinLat: -90, MaxLat: 90, MinLon: -180, MaxLon: 180}
}

// Contains reports whether the point lies in the envelope, trying the point's
// longitude shifted by one turn in either direction.
func (b GeoBounds) Contains(lon, lat float64) bool {
	if lat < b.MinLat || lat > b.MaxLat {
		return false
	}
	for _, l := range [3]float64{lon, lon - 360, lon + 360} {
		if l >= b.MinLon && l <= b.MaxLon {
			return true
		}
	}
	return false
}

// Extend grows the envelope to include the point. The zero envelope is treated
// as empty only through BoundsBuilder.
func (b GeoBounds) Extend(lon, lat float64) GeoBounds {
	if lon < b.MinLon {
		b.MinLon = lon
	}
	if lon > b.MaxLon {
		b.MaxLon = lon
	}
	if lat < b.MinLat {
		b.MinLat = lat
	}
	if lat > b.MaxLat {
		b.MaxLat = lat
	}
	return b
}

func (b GeoBounds) Union(o GeoBounds) GeoBounds {
	return b.Extend(o.MinLon, o.MinLat).Extend(o.MaxLon, o.MaxLat)
}

func BoundsFromOrb(b orb.Bound) GeoBounds {
	return GeoBounds{MinLat: b.Min.Lat(), MaxLat: b.Max.Lat(), MinLon: b.Min.Lon(), MaxLon: b.Max.Lon()}
}

// BoundsBuilder accumulates an envelope starting from empty.
type BoundsBuilder struct {
	b   GeoBounds
	set bool
}

func (bb *BoundsBuilder) Add(lon, lat float64) {
	if !bb.set {
		bb.b = GeoBounds{MinLat: lat, MaxLat: lat, MinLon: lon, MaxLon: lon}
		bb.set = true
		return
	}
	bb.b = bb.b.Extend(lon, lat)
}

func (bb *BoundsBuilder) AddBounds(o GeoBounds) {
	bb.Add(o.MinLon, o.MinLat)
	bb.Add(o.MaxLon, o.MaxLat)
}

// Bounds returns the accumulated envelope and false if nothing was added.
func (bb *BoundsBuilder) Bounds() (GeoBounds, bool) { return bb.b, bb.set }
