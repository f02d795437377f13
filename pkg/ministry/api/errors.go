package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/tendant/ministry-hub/pkg/ministry"
)

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func writeJSONError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	resp := ErrorResponse{Message: message}
	if err != nil {
		resp.Error = err.Error()
	}
	render.Status(r, status)
	render.JSON(w, r, resp)
}

// writeError maps service errors onto HTTP statuses
func writeError(w http.ResponseWriter, r *http.Request, message string, err error) {
	var validationErr *ministry.ValidationError
	var extErr *ministry.ExternalServiceError
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.As(err, &validationErr):
		writeJSONError(w, r, http.StatusBadRequest, message, err)
	case errors.Is(err, ministry.ErrNotFound):
		writeJSONError(w, r, http.StatusNotFound, message, err)
	case errors.Is(err, ministry.ErrObjectNotFound), errors.Is(err, ministry.ErrInvalidObjectKey):
		writeJSONError(w, r, http.StatusNotFound, message, err)
	case errors.As(err, &maxBytesErr):
		writeJSONError(w, r, http.StatusRequestEntityTooLarge, message, err)
	case errors.As(err, &extErr):
		status := extErr.StatusCode
		if status == 0 {
			status = http.StatusBadGateway
		}
		slog.Error(message, "service", extErr.Service, "status", extErr.StatusCode, "error", err)
		resp := ErrorResponse{Message: message, Error: err.Error()}
		if len(extErr.Body) > 0 {
			resp.Error = string(extErr.Body)
		}
		render.Status(r, status)
		render.JSON(w, r, resp)
	default:
		slog.Error(message, "error", err)
		writeJSONError(w, r, http.StatusInternalServerError, message, err)
	}
}
