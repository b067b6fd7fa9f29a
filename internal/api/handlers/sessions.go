package handlers

import (
	"net/http"

	"contract-explorer-service/internal/api/dto"
	"contract-explorer-service/internal/services"

	"github.com/go-chi/chi/v5"
)

// SessionHandler serves every per-session endpoint. Each request resolves
// its session from the {id} path parameter.
type SessionHandler struct {
	Registry *services.Registry
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, ex, err := h.Registry.Create(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, dto.CreateSessionResponse{
		ID:       id,
		Stations: len(ex.VisibleStations()),
	})
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.Registry.Delete(chi.URLParam(r, "id")) {
		writeError(w, r, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// explorer resolves the session or writes a 404.
func (h *SessionHandler) explorer(w http.ResponseWriter, r *http.Request) (*services.Explorer, bool) {
	ex, err := h.Registry.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, http.StatusNotFound, "session not found")
		return nil, false
	}
	return ex, true
}
