package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/tendant/ministry-hub/pkg/ministry"
)

// Subscriber adds an email address to the mailing list
type Subscriber interface {
	Subscribe(ctx context.Context, email string) error
}

// SubscribeRequest is the body of POST /api/subscribe
type SubscribeRequest struct {
	Email string `json:"email"`
}

// SubscribeHandler proxies newsletter sign-ups
type SubscribeHandler struct {
	subscriber Subscriber
}

// NewSubscribeHandler creates a handler. A nil subscriber answers 503.
func NewSubscribeHandler(subscriber Subscriber) *SubscribeHandler {
	return &SubscribeHandler{subscriber: subscriber}
}

// Subscribe forwards the email to the provider
func (h *SubscribeHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeJSONError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if strings.TrimSpace(req.Email) == "" {
		writeError(w, r, "Email is required", ministry.NewValidationError("email is required", "email"))
		return
	}

	if h.subscriber == nil {
		writeJSONError(w, r, http.StatusServiceUnavailable, "Mailing list is not configured",
			errors.New("no mailing list provider"))
		return
	}

	if err := h.subscriber.Subscribe(r.Context(), req.Email); err != nil {
		writeError(w, r, "Failed to subscribe", err)
		return
	}

	render.JSON(w, r, MessageResponse{Message: "Subscribed successfully"})
}
