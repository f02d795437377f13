// Package api exposes the ministry service over HTTP.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/tendant/chi-demo/app"

	"github.com/tendant/ministry-hub/pkg/ministry"
)

// Options configures the router
type Options struct {
	// UploadsPath is where stored files are served, e.g. "/uploads". Files
	// are not served when it is empty or not a local path.
	UploadsPath    string
	MaxUploadBytes int64
	AllowedOrigins []string
	Logger         *slog.Logger
}

// NewRouter mounts every route of the ministry API
func NewRouter(svc ministry.Service, subscriber Subscriber, opts Options) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware(opts.Logger))
	r.Use(middleware.Recoverer)
	r.Use(CORSMiddleware(opts.AllowedOrigins, nil, nil))

	app.RoutesHealthz(r)
	app.RoutesHealthzReady(r)
	r.Get("/health", healthHandler(svc))

	registrations := NewRegistrationHandler(svc)
	blogs := NewBlogHandler(svc)
	events := NewEventHandler(svc)
	subscribe := NewSubscribeHandler(subscriber)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		r.Use(RequestSizeLimitMiddleware(opts.MaxUploadBytes))

		r.Mount("/register", registrations.Routes())
		r.Post("/subscribe", subscribe.Subscribe)
		r.Mount("/blogs", blogs.Routes())
		r.Mount("/events", events.Routes())
	})

	if path := strings.TrimRight(opts.UploadsPath, "/"); strings.HasPrefix(path, "/") {
		r.Mount(path, NewMediaHandler(svc).Routes())
	}

	return r
}

// healthHandler reports whether the record store answers
func healthHandler(svc ministry.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := svc.Ping(ctx); err != nil {
			slog.Error("Health check failed", "error", err)
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, map[string]string{"status": "unhealthy", "error": err.Error()})
			return
		}
		render.JSON(w, r, map[string]string{"status": "healthy"})
	}
}
