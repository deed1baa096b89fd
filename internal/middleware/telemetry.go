package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"suggest-backend/internal/telemetry"
)

// Telemetry reports latency and status of every request to recorder. The
// recorder runs after the response is written and outlives request
// cancellation.
func Telemetry(recorder telemetry.Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}

			ev := telemetry.Event{
				RequestID: GetRequestID(r.Context()),
				Method:    r.Method,
				Route:     route,
				Status:    status,
				LatencyMs: time.Since(start).Milliseconds(),
				At:        start.UTC(),
			}
			go recorder.Record(context.WithoutCancel(r.Context()), ev)
		})
	}
}
