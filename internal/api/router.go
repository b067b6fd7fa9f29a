package api

import (
	"net/http"

	"contract-explorer-service/internal/api/handlers"
	"contract-explorer-service/internal/platform/obs"
	"contract-explorer-service/internal/services"

	"github.com/go-chi/chi/v5"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(registry *services.Registry) http.Handler {
	r := chi.NewRouter()
	r.Use(requestID, loggingMiddleware)

	h := &handlers.SessionHandler{Registry: registry}

	r.Get("/health", handlers.Health)
	r.Handle("/metrics", obs.MetricsHandler())

	r.Post("/sessions", h.Create)
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Delete("/", h.Delete)

		r.Put("/surface", h.Surface)
		r.Get("/viewport", h.GetViewport)
		r.Put("/viewport", h.Viewport)

		r.Get("/clusters", h.Clusters)
		r.Get("/clusters/{clusterId}/leaves", h.ClusterLeaves)
		r.Post("/clusters/{clusterId}/expand", h.ExpandCluster)

		r.Put("/filter", h.Filter)
		r.Post("/filter/reset", h.ResetFilter)
		r.Get("/layers", h.Layers)
		r.Get("/stations.csv", h.StationsCSV)
		r.Get("/blocks.csv", h.BlocksCSV)

		r.Post("/click", h.Click)
		r.Post("/hover", h.Hover)

		r.Get("/state", h.State)
		r.Post("/select/{kind}", h.Select)
		r.Post("/summary", h.ViewSummary)
		r.Put("/summary/visibility", h.SummaryVisibility)
		r.Post("/close", h.Close)
		r.Post("/close-all", h.CloseAll)
		r.Delete("/toasts/{toastId}", h.DismissToast)
	})

	return r
}
