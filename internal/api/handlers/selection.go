package handlers

import (
	"net/http"
	"strings"

	"contract-explorer-service/internal/api/dto"

	"github.com/go-chi/chi/v5"
)

func (h *SessionHandler) State(w http.ResponseWriter, r *http.Request) {
	ex, ok := h.explorer(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, toState(ex))
}

// Select handles select/{kind} for station, cruise, block and contractor.
func (h *SessionHandler) Select(w http.ResponseWriter, r *http.Request) {
	ex, ok := h.explorer(w, r)
	if !ok {
		return
	}
	var req dto.SelectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	id := strings.TrimSpace(req.ID)

	var err error
	switch chi.URLParam(r, "kind") {
	case "station":
		err = ex.SelectStation(id)
	case "cruise":
		err = ex.SelectCruise(r.Context(), id)
	case "block":
		err = ex.SelectBlock(r.Context(), id)
	case "contractor":
		ex.SelectContractor(id)
	default:
		writeError(w, r, http.StatusNotFound, "unknown selection kind")
		return
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toState(ex))
}

func (h *SessionHandler) ViewSummary(w http.ResponseWriter, r *http.Request) {
	ex, ok := h.explorer(w, r)
	if !ok {
		return
	}
	if err := ex.ViewContractorSummary(r.Context()); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toState(ex))
}

func (h *SessionHandler) SummaryVisibility(w http.ResponseWriter, r *http.Request) {
	ex, ok := h.explorer(w, r)
	if !ok {
		return
	}
	var req dto.SummaryVisibilityRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !ex.SetSummaryVisible(req.Visible) {
		writeError(w, r, http.StatusConflict, "no summary to show")
		return
	}
	writeJSON(w, r, http.StatusOK, toState(ex))
}

func (h *SessionHandler) Close(w http.ResponseWriter, r *http.Request) {
	ex, ok := h.explorer(w, r)
	if !ok {
		return
	}
	ex.ClosePanel()
	writeJSON(w, r, http.StatusOK, toState(ex))
}

func (h *SessionHandler) CloseAll(w http.ResponseWriter, r *http.Request) {
	ex, ok := h.explorer(w, r)
	if !ok {
		return
	}
	ex.CloseAll()
	writeJSON(w, r, http.StatusOK, toState(ex))
}

func (h *SessionHandler) DismissToast(w http.ResponseWriter, r *http.Request) {
	ex, ok := h.explorer(w, r)
	if !ok {
		return
	}
	if !ex.DismissToast(chi.URLParam(r, "toastId")) {
		writeError(w, r, http.StatusNotFound, "toast not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
