package dto

type SelectRequest struct {
	ID string `json:"id"`
}

type SummaryVisibilityRequest struct {
	Visible bool `json:"visible"`
}

type PopupResponse struct {
	Layer      string         `json:"layer"`
	FeatureID  string         `json:"feature_id"`
	Longitude  float64        `json:"longitude"`
	Latitude   float64        `json:"latitude"`
	Properties map[string]any `json:"properties,omitempty"`
}

type SummaryResponse struct {
	ContractorID  string         `json:"contractor_id"`
	TotalAreaKm2  float64        `json:"total_area_km2"`
	TotalStations int            `json:"total_stations"`
	Fields        map[string]any `json:"fields,omitempty"`
}

type BlockAnalyticsResponse struct {
	BlockID string         `json:"block_id"`
	Data    map[string]any `json:"data"`
}

type StateResponse struct {
	Kind           string                  `json:"kind"`
	Station        *StationResponse        `json:"station,omitempty"`
	CruiseID       string                  `json:"cruise_id,omitempty"`
	Block          *BlockAnalyticsResponse `json:"block,omitempty"`
	Summary        *SummaryResponse        `json:"summary,omitempty"`
	ContractorID   string                  `json:"contractor_id,omitempty"`
	PanelOpen      bool                    `json:"panel_open"`
	SummaryVisible bool                    `json:"summary_visible"`
	Loading        bool                    `json:"loading"`
	Popup          *PopupResponse          `json:"popup,omitempty"`
	Toast          *ToastResponse          `json:"toast,omitempty"`
	Camera         *CameraResponse         `json:"camera,omitempty"`
}
