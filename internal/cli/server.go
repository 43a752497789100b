package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mwolf/schemascope/pkg/cache"
	"github.com/mwolf/schemascope/pkg/observability"
	"github.com/mwolf/schemascope/pkg/render"
	"github.com/mwolf/schemascope/pkg/schema"
	"github.com/mwolf/schemascope/pkg/store"
)

// server holds the HTTP API's dependencies.
type server struct {
	cli   *CLI
	store store.Store
	cache cache.Cache
}

func newServer(c *CLI, st store.Store, ca cache.Cache) *server {
	return &server{cli: c, store: st, cache: ca}
}

// routes builds the chi router for the API.
func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Route("/diagrams", func(r chi.Router) {
			r.Post("/", s.handleSaveDiagram)
			r.Get("/", s.handleListDiagrams)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetDiagram)
				r.Delete("/", s.handleDeleteDiagram)
				r.Get("/render", s.handleRenderDiagram)
			})
		})
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return r
}

// requestLogger logs each request with its chi request id and duration.
func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.cli.Logger.Info("request",
			"id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond),
		)
	})
}

// =============================================================================
// Request / Response Types
// =============================================================================

// layoutRequest is the body for POST /api/layout and POST /api/diagrams.
type layoutRequest struct {
	Name    string        `json:"name,omitempty"`
	Graph   schema.Graph  `json:"graph"`
	Focus   string        `json:"focus,omitempty"`
	Options layoutOptions `json:"options"`
}

// layoutOptions mirrors the layout flags for API callers.
type layoutOptions struct {
	MaxLanes    int     `json:"maxLanes,omitempty"`
	AspectRatio float64 `json:"aspectRatio,omitempty"`
	GridColumns int     `json:"gridColumns,omitempty"`
}

func (o layoutOptions) flags(focus string) layoutFlags {
	return layoutFlags{
		focus:       focus,
		maxLanes:    o.MaxLanes,
		aspectRatio: o.AspectRatio,
		columns:     o.GridColumns,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

// =============================================================================
// Store Access
// =============================================================================

// saveRecord persists a record and reports the timed write to registered
// store hooks.
func (s *server) saveRecord(ctx context.Context, rec *store.Record) (*store.Record, error) {
	start := time.Now()
	saved, err := s.store.Save(ctx, rec)
	id := ""
	if saved != nil {
		id = saved.ID
	}
	observability.Store().OnSave(ctx, id, time.Since(start), err)
	return saved, err
}

// loadRecord fetches a record and reports the timed read to registered
// store hooks.
func (s *server) loadRecord(ctx context.Context, id string) (*store.Record, error) {
	start := time.Now()
	rec, err := s.store.Get(ctx, id)
	observability.Store().OnLoad(ctx, id, time.Since(start), err)
	return rec, err
}

// =============================================================================
// Handlers
// =============================================================================

// handleLayout computes a diagram without persisting anything.
func (s *server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	req.Graph.Normalize()

	d, _, err := s.cli.computeDiagram(r.Context(), req.Graph, req.Options.flags(req.Focus), s.cache)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, d)
}

// handleSaveDiagram computes and persists a named diagram.
func (s *server) handleSaveDiagram(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	req.Graph.Normalize()

	lf := req.Options.flags(req.Focus)
	d, _, err := s.cli.computeDiagram(r.Context(), req.Graph, lf, s.cache)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	rec, err := s.saveRecord(r.Context(), &store.Record{
		Name:    req.Name,
		Graph:   &req.Graph,
		Diagram: &d,
		Options: lf.options(),
	})
	if errors.Is(err, store.ErrEmptyName) {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, rec)
}

// handleListDiagrams lists saved diagrams without payloads.
func (s *server) handleListDiagrams(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, recs)
}

// handleGetDiagram fetches one saved diagram.
func (s *server) handleGetDiagram(w http.ResponseWriter, r *http.Request) {
	rec, err := s.loadRecord(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "diagram not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// handleDeleteDiagram removes one saved diagram.
func (s *server) handleDeleteDiagram(w http.ResponseWriter, r *http.Request) {
	err := s.store.Delete(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "diagram not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRenderDiagram renders a saved diagram as SVG or DOT.
// PNG and PDF are CLI-only since they shell out to rsvg-convert.
func (s *server) handleRenderDiagram(w http.ResponseWriter, r *http.Request) {
	rec, err := s.loadRecord(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "diagram not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rec.Diagram == nil || rec.Graph == nil {
		respondError(w, http.StatusUnprocessableEntity, "record has no diagram payload")
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = formatSVG
	}

	d := *rec.Diagram
	dot := render.ToDOT(&d, rec.Graph, render.Options{Detailed: r.URL.Query().Get("detailed") == "true"})

	switch format {
	case formatDOT:
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		_, _ = w.Write([]byte(dot))
	case formatSVG:
		svg, err := render.RenderSVG(dot)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write(svg)
	default:
		respondError(w, http.StatusBadRequest, "unsupported format (svg, dot)")
	}
}
