package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/tendant/ministry-hub/pkg/ministry"
)

// EventHandler handles event requests
type EventHandler struct {
	service ministry.Service
}

// NewEventHandler creates a new event handler
func NewEventHandler(service ministry.Service) *EventHandler {
	return &EventHandler{service: service}
}

// Routes returns the routes for events
func (h *EventHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreateEvent)
	r.Get("/", h.ListEvents)
	r.Get("/{id}", h.GetEvent)
	r.Delete("/{id}", h.DeleteEvent)

	return r
}

// CreateEvent creates an event from a multipart form with an optional image
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		writeError(w, r, "Invalid form", err)
		return
	}

	date, err := parseEventDate(r.FormValue("date"))
	if err != nil {
		writeError(w, r, "Invalid date", err)
		return
	}

	image, file, err := formImage(r)
	if err != nil {
		writeError(w, r, "Invalid image", err)
		return
	}
	if file != nil {
		defer file.Close()
	}

	event, err := h.service.CreateEvent(r.Context(), ministry.CreateEventRequest{
		Title: r.FormValue("title"),
		Date:  date,
		Time:  r.FormValue("time"),
		Image: image,
	})
	if err != nil {
		writeError(w, r, "Failed to create event", err)
		return
	}

	slog.Info("Event created", "event_id", event.ID, "date", event.Date)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toEventResponse(event, h.service.MediaURL))
}

// ListEvents returns upcoming events, soonest first
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.ListUpcomingEvents(r.Context())
	if err != nil {
		writeError(w, r, "Failed to list events", err)
		return
	}
	render.JSON(w, r, toEventResponses(events, h.service.MediaURL))
}

// GetEvent returns one event
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.service.GetEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "Event not found", err)
		return
	}
	render.JSON(w, r, toEventResponse(event, h.service.MediaURL))
}

// DeleteEvent removes an event and its image
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteEvent(r.Context(), id); err != nil {
		writeError(w, r, "Failed to delete event", err)
		return
	}

	slog.Info("Event deleted", "event_id", id)
	w.WriteHeader(http.StatusNoContent)
}
