package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/render"
	"github.com/tendant/artist-site/pkg/sitecontent/contact"
)

// CreateInquiry validates a booking inquiry and returns the mail draft
// addressed to the contact email configured in the CMS.
func (h *Handler) CreateInquiry(w http.ResponseWriter, r *http.Request) {
	var inq contact.Inquiry
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&inq); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Invalid inquiry")
		return
	}

	recipient := h.store.Current().Contact.Email
	draft, err := contact.Compose(recipient, inq)
	if err != nil {
		h.logger.Warn("Rejected booking inquiry", "error", err)
		h.renderError(w, r, http.StatusUnprocessableEntity, contact.UserMessage(err))
		return
	}

	h.logger.Info("Booking inquiry composed", "draft_id", draft.ID, "event_type", inq.EventType)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, draft)
}
