package domain

// Cluster is one rendered marker for a viewport: either a group of stations or,
// when Count is 1, a single station.
type Cluster struct {
	ID            int
	Coordinates   Coordinates
	Count         int
	ExpansionZoom int
	Station       *Station
}

func (c Cluster) IsPoint() bool { return c.Count == 1 }

type SizeTier string

const (
	TierSmall      SizeTier = "small"
	TierMedium     SizeTier = "medium"
	TierLarge      SizeTier = "large"
	TierExtraLarge SizeTier = "extra-large"
)

// SizeTierFor buckets a cluster count for rendering emphasis.
func SizeTierFor(count int) SizeTier {
	switch {
	case count < 10:
		return TierSmall
	case count < 50:
		return TierMedium
	case count < 100:
		return TierLarge
	default:
		return TierExtraLarge
	}
}
