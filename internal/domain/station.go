package domain

// Station is a survey point of a cruise. Stations are supplied by an external
// source and only read here.
type Station struct {
	ID           string  `json:"id"`
	Name         string  `json:"name,omitempty"`
	CruiseID     string  `json:"cruiseId"`
	ContractorID string  `json:"contractorId"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
}

func (s Station) Coordinates() Coordinates {
	return Coordinates{Lon: s.Longitude, Lat: s.Latitude}
}
