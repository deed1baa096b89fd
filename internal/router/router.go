package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"suggest-backend/internal/handlers"
	"suggest-backend/internal/middleware"
	"suggest-backend/internal/telemetry"
)

func New(
	suggestHandler *handlers.SuggestHandler,
	recorder telemetry.Recorder,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(frontendURL))
	r.Use(middleware.Telemetry(recorder))

	// Health check
	r.Get("/health", handlers.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/suggest-prompts", suggestHandler.SuggestPrompts)
	})

	return r
}
