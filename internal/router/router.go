// Package router sets up all HTTP routes and middleware chains for the
// OptiPress server. The whole surface is a JSON API plus the preview
// and download byte streams.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"optipress/internal/handlers"
	"optipress/internal/middleware"
)

// Options carries the tunables the route setup needs.
type Options struct {
	// MaxUploadBytes caps the upload request body.
	MaxUploadBytes int64

	// CaptionRPM limits caption requests per client IP per minute.
	CaptionRPM int
}

// New creates and returns the configured Chi router with all middleware
// and routes wired up. The returned stop function tears down background
// middleware state.
func New(api *handlers.API, opts Options) (chi.Router, func()) {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Health check.
	r.Get("/health", healthHandler)

	captionLimiter := middleware.NewRateLimiter(opts.CaptionRPM, time.Minute)

	r.Route("/api", func(r chi.Router) {
		r.Route("/images", func(r chi.Router) {
			r.With(middleware.MaxBytes(opts.MaxUploadBytes)).Post("/", api.Upload)
			r.Get("/", api.List)
			r.Delete("/", api.Clear)
			r.Get("/archive", api.Archive)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", api.Get)
				r.Delete("/", api.Remove)
				r.Patch("/settings", api.UpdateSettings)
				r.Get("/download", api.Download)
				r.With(captionLimiter.Middleware).Post("/caption", api.Caption)
			})
		})

		r.Get("/previews/{id}", api.Preview)

		r.Get("/defaults", api.GetDefaults)
		r.Put("/defaults", api.UpdateDefaults)
	})

	return r, captionLimiter.Stop
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
