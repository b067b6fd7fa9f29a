package domain

// ContractorSummary is the aggregate analytics of one contractor. Fields holds
// the full upstream summary object; the typed fields are extracted from it.
type ContractorSummary struct {
	ContractorID  string         `json:"contractorId"`
	TotalAreaKm2  float64        `json:"totalAreaKm2"`
	TotalStations int            `json:"totalStations"`
	Fields        map[string]any `json:"fields,omitempty"`
}

// BlockAnalytics is the transient result of a block-scoped analytics fetch.
type BlockAnalytics struct {
	BlockID string         `json:"blockId"`
	Data    map[string]any `json:"data"`
}
