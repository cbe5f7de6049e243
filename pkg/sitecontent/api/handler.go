// Package api serves the normalized site content and the CMS endpoints
// used while editing the site.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/tendant/artist-site/pkg/sitecontent"
	"github.com/tendant/artist-site/pkg/sitecontent/snapshot"
)

// maxBodySize bounds request bodies of the write endpoints.
const maxBodySize = 8 << 20

// ErrorResponse is the body of every error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler handles HTTP requests for site content
type Handler struct {
	store     *sitecontent.Store
	repo      sitecontent.Repository
	blobs     sitecontent.BlobStore
	generator *snapshot.Generator
	keys      []string
	logger    *slog.Logger
}

// Option configures a Handler
type Option func(*Handler)

// WithRepository enables the section administration endpoints.
func WithRepository(repo sitecontent.Repository) Option {
	return func(h *Handler) {
		h.repo = repo
	}
}

// WithBlobStore enables the load-content and save-content endpoints.
func WithBlobStore(store sitecontent.BlobStore) Option {
	return func(h *Handler) {
		h.blobs = store
	}
}

// WithGenerator enables the regenerate-content endpoint.
func WithGenerator(gen *snapshot.Generator) Option {
	return func(h *Handler) {
		h.generator = gen
	}
}

// WithSnapshotKeys sets the keys save-content writes to. The first key is
// the one load-content reads.
func WithSnapshotKeys(keys ...string) Option {
	return func(h *Handler) {
		if len(keys) > 0 {
			h.keys = append([]string(nil), keys...)
		}
	}
}

// WithLogger sets the handler's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHandler creates a new content handler
func NewHandler(store *sitecontent.Store, opts ...Option) *Handler {
	h := &Handler{
		store:  store,
		keys:   append([]string(nil), snapshot.DefaultKeys...),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes returns the routes for site content
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", h.Health)
	r.With(middleware.NoCache).Get("/content.json", h.GetContent)

	r.Route("/api", func(r chi.Router) {
		r.With(middleware.NoCache).Get("/load-content", h.LoadContent)
		r.Post("/save-content", h.SaveContent)
		r.Post("/regenerate-content", h.RegenerateContent)
		r.Post("/contact", h.CreateInquiry)
		r.Mount("/v1/sections", h.sectionRoutes())
	})

	return r
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: msg})
}

// refresh reloads the live content after a write. A failed refresh leaves
// the defaults in place and is only logged.
func (h *Handler) refresh(r *http.Request) {
	if err := h.store.Refresh(r.Context()); err != nil {
		h.logger.Warn("Failed to refresh content after write", "error", err)
	}
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status   string    `json:"status"`
	LoadedAt time.Time `json:"loaded_at"`
	Defaults bool      `json:"defaults"`
	Error    string    `json:"error,omitempty"`
}

// Health reports whether the last refresh fell back to defaults.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	snap := h.store.Snapshot()
	resp := HealthResponse{
		Status:   "healthy",
		LoadedAt: snap.LoadedAt,
	}
	if snap.Err != nil {
		resp.Status = "degraded"
		resp.Defaults = true
		resp.Error = snap.Err.Error()
	}
	render.JSON(w, r, resp)
}

// GetContent returns the current normalized content.
func (h *Handler) GetContent(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.store.Current())
}

// LoadContent streams the raw snapshot stored under the first snapshot key.
func (h *Handler) LoadContent(w http.ResponseWriter, r *http.Request) {
	if h.blobs == nil || len(h.keys) == 0 {
		h.renderError(w, r, http.StatusNotFound, "Content not found")
		return
	}

	key := h.keys[0]
	rc, err := h.blobs.Download(r.Context(), key)
	if err != nil {
		if errors.Is(err, sitecontent.ErrObjectNotFound) {
			h.renderError(w, r, http.StatusNotFound, "Content not found")
			return
		}
		h.logger.Error("Failed to load content", "key", key, "error", err)
		h.renderError(w, r, http.StatusInternalServerError, "Failed to load content")
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Error("Failed to stream content", "key", key, "error", err)
	}
}

// SaveContent validates a raw record and writes it, indented, to every
// snapshot key.
func (h *Handler) SaveContent(w http.ResponseWriter, r *http.Request) {
	if h.blobs == nil {
		h.renderError(w, r, http.StatusNotImplemented, "Content storage is not configured")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		h.renderError(w, r, http.StatusRequestEntityTooLarge, "Content too large")
		return
	}

	record, err := sitecontent.ParseRecord(body)
	if err != nil {
		h.logger.Warn("Rejected malformed content", "error", err)
		h.renderError(w, r, http.StatusBadRequest, "Invalid content: expected a JSON object")
		return
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		h.logger.Error("Failed to encode content", "error", err)
		h.renderError(w, r, http.StatusInternalServerError, "Failed to save content")
		return
	}

	for _, key := range h.keys {
		err := h.blobs.UploadWithParams(r.Context(), bytes.NewReader(data), sitecontent.UploadParams{
			ObjectKey: key,
			MimeType:  "application/json",
		})
		if err != nil {
			h.logger.Error("Failed to save content", "key", key, "error", err)
			h.renderError(w, r, http.StatusInternalServerError, "Failed to save content")
			return
		}
	}

	h.logger.Info("Content saved", "sections", record.Len(), "keys", h.keys)
	h.refresh(r)
	render.JSON(w, r, map[string]bool{"success": true})
}

// RegenerateResponse is the body of POST /api/regenerate-content
type RegenerateResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message,omitempty"`
	Error   string           `json:"error,omitempty"`
	Result  *snapshot.Result `json:"result,omitempty"`
}

// RegenerateContent rebuilds content.json from the CMS datastore.
func (h *Handler) RegenerateContent(w http.ResponseWriter, r *http.Request) {
	if h.generator == nil {
		h.renderError(w, r, http.StatusNotImplemented, "Content generation is not configured")
		return
	}

	result, err := h.generator.Generate(r.Context())
	if err != nil {
		h.logger.Error("Failed to regenerate content", "error", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, RegenerateResponse{
			Success: false,
			Error:   "Content regeneration failed",
			Result:  result,
		})
		return
	}

	h.refresh(r)
	render.JSON(w, r, RegenerateResponse{
		Success: true,
		Message: "Content regenerated successfully",
		Result:  result,
	})
}
