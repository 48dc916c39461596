package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/starford/ansuz/internal/graphservice"
	"github.com/starford/ansuz/internal/sse"
)

// NewRouter creates a chi router with all gateway routes mounted.
// broker, if non-nil, publishes capture events and serves GET /events.
func NewRouter(svc *graphservice.Service, broker *sse.Broker, token, version string) chi.Router {
	h := NewHandler(svc, broker, token, version)

	r := chi.NewRouter()
	r.Use(CORS)
	r.Use(RequestLogger)

	r.Get("/health", h.Health)
	r.Get("/version", h.Version)

	// Read side: CLI-backed graph operations.
	r.Get("/list", h.ListGraphs)
	r.Get("/show", h.ShowGraph)
	r.Get("/search", h.Search)
	r.Post("/query", h.Query)

	// Write side: capture endpoints.
	r.Post("/append", h.Append)
	r.Post("/append-to-journal", h.AppendToJournal)

	// SSE endpoint for launcher UIs watching captures land.
	if broker != nil {
		r.Get("/events", broker.ServeHTTP)
	}

	// Wrong-method requests get the same enveloped 404 as unknown paths.
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.NotFound)

	return r
}
