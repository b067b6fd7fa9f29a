package dto

type ClusterResponse struct {
	ID            int              `json:"id"`
	Longitude     float64          `json:"longitude"`
	Latitude      float64          `json:"latitude"`
	Count         int              `json:"count"`
	SizeTier      string           `json:"size_tier,omitempty"`
	ExpansionZoom int              `json:"expansion_zoom,omitempty"`
	Station       *StationResponse `json:"station,omitempty"`
}

type ListClustersResponse struct {
	Seq      uint64            `json:"seq"`
	Clusters []ClusterResponse `json:"clusters"`
}

type StationResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	CruiseID     string  `json:"cruise_id"`
	ContractorID string  `json:"contractor_id"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
}

type FilterRequest struct {
	ContractorIDs []string `json:"contractor_ids"`
}

type FilterResponse struct {
	ContractorIDs []string        `json:"contractor_ids"`
	Stations      int             `json:"stations"`
	Areas         int             `json:"areas"`
	Blocks        int             `json:"blocks"`
	Started       bool            `json:"started"`
	Framed        bool            `json:"framed"`
	Camera        *CameraResponse `json:"camera,omitempty"`
}

type FeatureRequest struct {
	Layer     string  `json:"layer"`
	ID        string  `json:"id"`
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}
