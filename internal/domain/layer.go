package domain

import "github.com/paulmach/orb"

// AreaLayer is one license area of a contractor, with its blocks.
// Values are immutable once ingested.
type AreaLayer struct {
	ContractorID     string
	AreaID           string
	AreaName         string
	Geometry         orb.Geometry
	Center           Coordinates
	TotalAreaSizeKm2 float64
	Blocks           []BlockLayer
}

// Key identifies the area across contractors.
func (a AreaLayer) Key() string { return a.ContractorID + "/" + a.AreaID }

type BlockLayer struct {
	BlockID     string
	BlockName   string
	Status      BlockStatus
	Geometry    orb.Geometry
	Center      Coordinates
	AreaSizeKm2 float64
}
