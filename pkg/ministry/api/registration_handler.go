package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/tendant/ministry-hub/pkg/ministry"
)

// RegistrationHandler handles event sign-ups and check-in
type RegistrationHandler struct {
	service ministry.Service
}

// NewRegistrationHandler creates a new registration handler
func NewRegistrationHandler(service ministry.Service) *RegistrationHandler {
	return &RegistrationHandler{service: service}
}

// Routes returns the routes for registrations
func (h *RegistrationHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Register)
	r.Get("/", h.ListRegistrations)
	r.Patch("/{id}", h.CheckIn)

	return r
}

// Register creates a registration from a JSON body
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req ministry.CreateRegistrationRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeJSONError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	registration, err := h.service.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, "Failed to create registration", err)
		return
	}

	slog.Info("Registration created", "registration_id", registration.ID)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, registration)
}

// ListRegistrations returns every registration
func (h *RegistrationHandler) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	registrations, err := h.service.ListRegistrations(r.Context())
	if err != nil {
		writeError(w, r, "Failed to list registrations", err)
		return
	}
	if registrations == nil {
		registrations = []*ministry.Registration{}
	}
	render.JSON(w, r, registrations)
}

// CheckIn marks a registration as checked in
func (h *RegistrationHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	registration, err := h.service.CheckIn(r.Context(), id)
	if err != nil {
		writeError(w, r, "Failed to check in", err)
		return
	}

	render.JSON(w, r, CheckInResponse{User: registration})
}
