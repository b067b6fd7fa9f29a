package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"contract-explorer-service/internal/platform/obs"
	"contract-explorer-service/internal/ports"
	"contract-explorer-service/internal/services"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		obs.L().Warn("encode_failed", "req_id", obs.RequestID(r.Context()), "method", r.Method, "path", r.URL.Path, "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// decodeJSON reads exactly one JSON object with no unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

// writeServiceError maps a service error onto a status code. Unexpected
// errors are logged and reported without detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrUnknownFeature),
		errors.Is(err, services.ErrUnknownCluster):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrUnknownLayer),
		errors.Is(err, services.ErrNoContractor),
		errors.Is(err, services.ErrNothingToFrame):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrSuperseded):
		writeError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, ports.ErrUpstream):
		writeError(w, r, http.StatusBadGateway, "explorer api request failed")
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, r, http.StatusGatewayTimeout, "timed out")
	default:
		obs.L().Error("request_failed", "req_id", obs.RequestID(r.Context()), "method", r.Method, "path", r.URL.Path, "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
