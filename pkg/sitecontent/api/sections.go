package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/artist-site/pkg/sitecontent"
)

// SectionResponse is the response body for a CMS section
type SectionResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"section_name"`
	Content   json.RawMessage `json:"content"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func toSectionResponse(rec *sitecontent.SectionRecord) SectionResponse {
	return SectionResponse{
		ID:        rec.ID.String(),
		Name:      rec.Name,
		Content:   rec.Content,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

func (h *Handler) sectionRoutes() chi.Router {
	r := chi.NewRouter()

	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if h.repo == nil {
				h.renderError(w, r, http.StatusNotImplemented, "Section administration is not configured")
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/", h.ListSections)
	r.Get("/{name}", h.GetSection)
	r.Put("/{name}", h.PutSection)
	r.Delete("/{name}", h.DeleteSection)

	return r
}

// ListSections lists the CMS sections in creation order
func (h *Handler) ListSections(w http.ResponseWriter, r *http.Request) {
	rows, err := h.repo.ListSections(r.Context())
	if err != nil {
		h.logger.Error("Failed to list sections", "error", err)
		h.renderError(w, r, http.StatusInternalServerError, "Failed to list sections")
		return
	}

	resp := make([]SectionResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, toSectionResponse(row))
	}
	render.JSON(w, r, resp)
}

// GetSection returns one CMS section
func (h *Handler) GetSection(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	rec, err := h.repo.GetSection(r.Context(), name)
	if err != nil {
		h.renderSectionError(w, r, "get", name, err)
		return
	}
	render.JSON(w, r, toSectionResponse(rec))
}

// PutSection creates or replaces a CMS section. The body is the section's
// JSON document.
func (h *Handler) PutSection(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		h.renderError(w, r, http.StatusRequestEntityTooLarge, "Section too large")
		return
	}

	if err := sitecontent.ValidateSection(name, body); err != nil {
		h.renderSectionError(w, r, "validate", name, err)
		return
	}

	rec, err := h.repo.PutSection(r.Context(), name, body)
	if err != nil {
		h.renderSectionError(w, r, "put", name, err)
		return
	}

	h.logger.Info("Section saved", "section", name, "id", rec.ID)
	h.refresh(r)
	render.JSON(w, r, toSectionResponse(rec))
}

// DeleteSection removes a CMS section
func (h *Handler) DeleteSection(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := h.repo.DeleteSection(r.Context(), name); err != nil {
		h.renderSectionError(w, r, "delete", name, err)
		return
	}

	h.logger.Info("Section deleted", "section", name)
	h.refresh(r)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) renderSectionError(w http.ResponseWriter, r *http.Request, op, name string, err error) {
	switch {
	case errors.Is(err, sitecontent.ErrSectionNotFound):
		h.renderError(w, r, http.StatusNotFound, "Section not found")
	case errors.Is(err, sitecontent.ErrInvalidSectionName):
		h.renderError(w, r, http.StatusBadRequest, "Invalid section name")
	case errors.Is(err, sitecontent.ErrMalformedRecord):
		h.renderError(w, r, http.StatusBadRequest, "Section content must be valid JSON")
	default:
		h.logger.Error("Failed to "+op+" section", "section", name, "error", err)
		h.renderError(w, r, http.StatusInternalServerError, "Section operation failed")
	}
}
