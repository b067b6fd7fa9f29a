package services

import "contract-explorer-service/internal/domain"

// FilterStations keeps the stations of the given contractors. An empty
// contractor set does not narrow anything.
func FilterStations(stations []domain.Station, contractorIDs []string) []domain.Station {
	ids := uniqueIDs(contractorIDs)
	if len(ids) == 0 {
		out := make([]domain.Station, len(stations))
		copy(out, stations)
		return out
	}

	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	out := make([]domain.Station, 0, len(stations))
	for _, s := range stations {
		if _, ok := set[s.ContractorID]; ok {
			out = append(out, s)
		}
	}
	return out
}

// StationsOfCruise returns the stations that belong to a cruise, in input order.
func StationsOfCruise(stations []domain.Station, cruiseID string) []domain.Station {
	var out []domain.Station
	for _, s := range stations {
		if s.CruiseID == cruiseID {
			out = append(out, s)
		}
	}
	return out
}

func stationBounds(stations []domain.Station) (domain.GeoBounds, bool) {
	var bb domain.BoundsBuilder
	for _, s := range stations {
		bb.Add(s.Longitude, s.Latitude)
	}
	return bb.Bounds()
}
