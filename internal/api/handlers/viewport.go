package handlers

import (
	"net/http"
	"strconv"

	"contract-explorer-service/internal/api/dto"
	"contract-explorer-service/internal/domain"

	"github.com/go-chi/chi/v5"
)

func (h *SessionHandler) Surface(w http.ResponseWriter, r *http.Request) {
	ex, ok := h.explorer(w, r)
	if !ok {
		return
	}
	var req dto.SurfaceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Width <= 0 || req.Height <= 0 {
		writeError(w, r, http.StatusBadRequest, "width and height must be positive")
		return
	}

	ex.Resize(req.Width, req.Height)
	writeJSON(w, r, http.StatusOK, toViewport(ex.Viewport(), ex.UserNavigated()))
}

// Viewport records a camera move made by the user in the browser.
func (h *SessionHandler) Viewport(w http.ResponseWriter, r *http.Request) {
	ex, ok := h.explorer(w, r)
	if !ok {
		return
	}
	var req dto.ViewportRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ex.SetViewport(domain.Viewport{
		Longitude: req.Longitude,
		Latitude:  req.Latitude,
		Zoom:      req.Zoom,
		Bearing:   req.Bearing,
		Pitch:     req.Pitch,
	})
	writeJSON(w, r, http.StatusOK, toViewport(ex.Viewport(), ex.UserNavigated()))
}

func (h *SessionHandler) GetViewport(w http.ResponseWriter, r *http.Request) {
	ex, ok := h.explorer(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, toViewport(ex.Viewport(), ex.UserNavigated()))
}

func (h *SessionHandler) Clusters(w http.ResponseWriter, r *http.Request) {
	ex, ok := h.explorer(w, r)
	if !ok {
		return
	}

	clusters, seq := ex.Clusters()
	res := dto.ListClustersResponse{Seq: seq, Clusters: make([]dto.ClusterResponse, 0, len(clusters))}
	for _, c := range clusters {
		res.Clusters = append(res.Clusters, toCluster(c))
	}
	writeJSON(w, r, http.StatusOK, res)
}

// ExpandCluster flies into a cluster, or selects the station of a single
// marker, and returns the resulting state.
func (h *SessionHandler) ExpandCluster(w http.ResponseWriter, r *http.Request) {
	ex, ok := h.explorer(w, r)
	if !ok {
		return
	}
	id, ok := clusterID(w, r)
	if !ok {
		return
	}

	if err := ex.ClickCluster(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toState(ex))
}

func (h *SessionHandler) ClusterLeaves(w http.ResponseWriter, r *http.Request) {
	ex, ok := h.explorer(w, r)
	if !ok {
		return
	}
	id, ok := clusterID(w, r)
	if !ok {
		return
	}

	leaves, err := ex.ClusterLeaves(id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	res := make([]dto.StationResponse, 0, len(leaves))
	for _, s := range leaves {
		res = append(res, toStation(s))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func clusterID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "clusterId"))
	if err != nil || id < 0 {
		writeError(w, r, http.StatusBadRequest, "cluster id must be a non-negative integer")
		return 0, false
	}
	return id, true
}
