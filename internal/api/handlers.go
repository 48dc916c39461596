package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/capture"
	"github.com/starford/ansuz/internal/envelope"
	"github.com/starford/ansuz/internal/graphservice"
	"github.com/starford/ansuz/internal/journal"
	"github.com/starford/ansuz/internal/sse"
)

// Handler holds API route handlers.
type Handler struct {
	svc     *graphservice.Service
	broker  *sse.Broker
	token   string
	version string
}

// NewHandler creates a new Handler. token is the configured fallback API
// token used when a request body does not carry one; broker may be nil when
// event streaming is disabled.
func NewHandler(svc *graphservice.Service, broker *sse.Broker, token, version string) *Handler {
	return &Handler{svc: svc, broker: broker, token: token, version: version}
}

// Health handles GET /health.
//
//	@Summary		Liveness probe for the launcher UI
//	@Tags			meta
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Router			/health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "Logseq HTTP Server is running",
	})
}

// Version handles GET /version.
//
//	@Summary		Report the gateway version
//	@Tags			meta
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Router			/version [get]
func (h *Handler) Version(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": h.version})
}

// ListGraphs handles GET /list.
//
//	@Summary		List graphs known to the logseq CLI
//	@Tags			graphs
//	@Produce		json
//	@Success		200	{object}	Envelope
//	@Router			/list [get]
func (h *Handler) ListGraphs(w http.ResponseWriter, r *http.Request) {
	graphs, err := h.svc.ListGraphs(r.Context())
	if err != nil {
		slog.Error("list graphs failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusOK, envelope.FromError(err))
		return
	}
	writeJSON(w, http.StatusOK, envelope.OK(graphs))
}

// ShowGraph handles GET /show.
//
//	@Summary		Show details for one graph
//	@Tags			graphs
//	@Produce		json
//	@Param			graph	query		string	true	"Graph name"
//	@Success		200		{object}	Envelope
//	@Failure		400		{object}	Envelope
//	@Router			/show [get]
func (h *Handler) ShowGraph(w http.ResponseWriter, r *http.Request) {
	graph := r.URL.Query().Get("graph")
	if graph == "" {
		badRequest(w, "Missing required parameter: graph")
		return
	}
	out, err := h.svc.ShowGraph(r.Context(), graph)
	if err != nil {
		slog.Error("show graph failed", slog.String("graph", graph), slog.String("error", err.Error()))
		writeJSON(w, http.StatusOK, envelope.FromError(err))
		return
	}
	writeJSON(w, http.StatusOK, envelope.OK(out))
}

// Search handles GET /search.
//
//	@Summary		Search pages by name or title
//	@Tags			graphs
//	@Produce		json
//	@Param			q		query		string	true	"Search text"
//	@Param			graph	query		string	true	"Graph name"
//	@Success		200		{object}	Envelope
//	@Failure		400		{object}	Envelope
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		badRequest(w, "Missing required parameter: q")
		return
	}
	graph := r.URL.Query().Get("graph")
	if graph == "" {
		badRequest(w, "Missing required field: graph")
		return
	}
	pages, err := h.svc.SearchPages(r.Context(), q, graph)
	if err != nil {
		slog.Error("search failed", slog.String("graph", graph), slog.String("error", err.Error()))
		writeJSON(w, http.StatusOK, envelope.FromError(err))
		return
	}
	writeJSON(w, http.StatusOK, envelope.OK(pages))
}

// Query handles POST /query.
//
//	@Summary		Run a caller-supplied datalog query
//	@Tags			graphs
//	@Accept			json
//	@Produce		json
//	@Param			body	body		QueryRequest	true	"Query to run"
//	@Success		200		{object}	Envelope
//	@Failure		400		{object}	Envelope
//	@Router			/query [post]
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid JSON in request body")
		return
	}
	if req.Graph == "" {
		badRequest(w, "Missing required field: graph")
		return
	}
	if req.Query == "" {
		badRequest(w, "Missing required field: query")
		return
	}
	value, err := h.svc.Query(r.Context(), req.Query, req.Graph)
	if err != nil {
		slog.Error("query failed", slog.String("graph", req.Graph), slog.String("error", err.Error()))
		writeJSON(w, http.StatusOK, envelope.FromError(err))
		return
	}
	writeJSON(w, http.StatusOK, envelope.OK(value))
}

// Append handles POST /append.
//
//	@Summary		Append content to the currently open page
//	@Tags			capture
//	@Accept			json
//	@Produce		json
//	@Param			body	body		AppendRequest	true	"Content to append"
//	@Success		200		{object}	Envelope
//	@Failure		400		{object}	Envelope
//	@Router			/append [post]
func (h *Handler) Append(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeAppend(w, r)
	if !ok {
		return
	}
	content := capture.Format(capture.Payload{
		Content:  req.Content,
		Tags:     req.Tags,
		Priority: req.Priority,
		Template: req.Template,
	})
	if _, err := h.svc.AppendToCurrentPage(r.Context(), content, h.resolveToken(req.Token)); err != nil {
		slog.Error("append failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusOK, envelope.FromError(err))
		return
	}
	if h.broker != nil {
		h.broker.PublishCapture("page", "")
	}
	writeJSON(w, http.StatusOK, envelope.OKEmpty())
}

// AppendToJournal handles POST /append-to-journal.
//
//	@Summary		Append content to today's journal page
//	@Tags			capture
//	@Accept			json
//	@Produce		json
//	@Param			body	body		AppendRequest	true	"Content to append"
//	@Success		200		{object}	Envelope
//	@Failure		400		{object}	Envelope
//	@Router			/append-to-journal [post]
func (h *Handler) AppendToJournal(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeAppend(w, r)
	if !ok {
		return
	}
	content := capture.Format(capture.Payload{
		Content:  req.Content,
		Tags:     req.Tags,
		Priority: req.Priority,
		Template: req.Template,
	})
	if _, err := h.svc.AppendToJournal(r.Context(), content, h.resolveToken(req.Token)); err != nil {
		slog.Error("append to journal failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusOK, envelope.FromError(err))
		return
	}
	if h.broker != nil {
		h.broker.PublishCapture("journal", journal.Today())
	}
	writeJSON(w, http.StatusOK, envelope.OKEmpty())
}

// NotFound answers any unrouted path, keeping the envelope contract even
// for 404s.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, envelope.Err("Unknown endpoint: "+r.URL.Path))
}

func (h *Handler) decodeAppend(w http.ResponseWriter, r *http.Request) (AppendRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req AppendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid JSON in request body")
		return AppendRequest{}, false
	}
	if req.Content == "" {
		badRequest(w, "Missing required field: content")
		return AppendRequest{}, false
	}
	return req, true
}

// badRequest rejects a malformed request. Validation failures are the one
// error kind that surfaces as a non-200 status.
func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, envelope.FromError(apperr.New(apperr.ErrValidation, msg)))
}

// resolveToken prefers the per-request token, falling back to the
// configured one. The missing-token failure itself is the service's call.
func (h *Handler) resolveToken(bodyToken string) string {
	if strings.TrimSpace(bodyToken) != "" {
		return bodyToken
	}
	return h.token
}
