package handlers

import (
	"context"
	"net/http"

	"github.com/marquinacarlos/portablogio-backend/internal/contact"
)

// ContactSender relays a contact form submission.
type ContactSender interface {
	Send(ctx context.Context, msg contact.Message) (string, error)
}

type ContactHandler struct {
	relay ContactSender
}

func NewContactHandler(relay ContactSender) *ContactHandler {
	return &ContactHandler{relay: relay}
}

type contactResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

func (h *ContactHandler) Send(w http.ResponseWriter, r *http.Request) {
	var msg contact.Message
	if err := decodeJSON(w, r, &msg); err != nil {
		respondErr(w, r, err)
		return
	}

	id, err := h.relay.Send(r.Context(), msg)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, contactResponse{Message: "message sent", ID: id})
}
