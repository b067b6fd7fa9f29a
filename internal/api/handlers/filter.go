package handlers

import (
	"net/http"

	"contract-explorer-service/internal/api/dto"
	"contract-explorer-service/internal/export"
	"contract-explorer-service/internal/platform/obs"
	"contract-explorer-service/internal/services"
)

func (h *SessionHandler) Filter(w http.ResponseWriter, r *http.Request) {
	ex, ok := h.explorer(w, r)
	if !ok {
		return
	}
	var req dto.FilterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := ex.ApplyFilter(r.Context(), req.ContractorIDs)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toFilter(ex, res))
}

func (h *SessionHandler) ResetFilter(w http.ResponseWriter, r *http.Request) {
	ex, ok := h.explorer(w, r)
	if !ok {
		return
	}

	res, err := ex.ResetFilters(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toFilter(ex, res))
}

// Layers returns the loaded areas, blocks and current clusters as GeoJSON.
func (h *SessionHandler) Layers(w http.ResponseWriter, r *http.Request) {
	ex, ok := h.explorer(w, r)
	if !ok {
		return
	}

	clusters, _ := ex.Clusters()
	fc := export.Features(ex.Layers().Areas, clusters)
	b, err := fc.MarshalJSON()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	_, _ = w.Write(b)
}

func (h *SessionHandler) StationsCSV(w http.ResponseWriter, r *http.Request) {
	ex, ok := h.explorer(w, r)
	if !ok {
		return
	}
	writeCSV(w, r, "stations.csv", export.StationRows(ex.VisibleStations()))
}

func (h *SessionHandler) BlocksCSV(w http.ResponseWriter, r *http.Request) {
	ex, ok := h.explorer(w, r)
	if !ok {
		return
	}
	writeCSV(w, r, "blocks.csv", export.BlockRows(ex.Layers().Areas))
}

func (h *SessionHandler) Click(w http.ResponseWriter, r *http.Request) {
	ex, ok := h.explorer(w, r)
	if !ok {
		return
	}
	var req dto.FeatureRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := ex.ClickFeature(r.Context(), toFeature(req)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toState(ex))
}

func (h *SessionHandler) Hover(w http.ResponseWriter, r *http.Request) {
	ex, ok := h.explorer(w, r)
	if !ok {
		return
	}
	var req dto.FeatureRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := ex.Hover(toFeature(req)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toState(ex))
}

func toFeature(req dto.FeatureRequest) services.FeatureClick {
	return services.FeatureClick{Layer: req.Layer, ID: req.ID, Lon: req.Longitude, Lat: req.Latitude}
}

func toFilter(ex *services.Explorer, res services.FilterResult) dto.FilterResponse {
	out := dto.FilterResponse{
		ContractorIDs: ex.Filter(),
		Stations:      res.Stations,
		Started:       res.Started,
		Framed:        res.Framed,
	}
	if out.ContractorIDs == nil {
		out.ContractorIDs = []string{}
	}
	if res.Layers != nil {
		out.Areas = len(res.Layers.Areas)
		out.Blocks = res.Layers.BlockCount()
	}
	if res.Framed {
		out.Camera = toCamera(ex)
	}
	return out
}

func writeCSV(w http.ResponseWriter, r *http.Request, name string, rows []map[string]any) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	if err := export.WriteCSV(w, rows); err != nil {
		obs.L().Warn("csv_export_failed", "req_id", obs.RequestID(r.Context()), "file", name, "err", err)
	}
}
