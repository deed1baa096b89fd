package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suggest-backend/internal/telemetry"
)

func TestRequestID_GeneratesWhenMissing(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		assert.Equal(t, seen, r.Header.Get(RequestIDHeader))
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	_, err := uuid.Parse(seen)
	require.NoError(t, err, "expected a uuid, got %q", seen)
	assert.Equal(t, seen, rr.Header().Get(RequestIDHeader))
}

func TestRequestID_PropagatesInbound(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rr.Header().Get(RequestIDHeader))
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := CORS("http://localhost:3000, https://app.example.com/")(next)

	tests := []struct {
		name        string
		method      string
		origin      string
		preflight   bool
		wantStatus  int
		wantAllowed bool
	}{
		{"allowed origin", http.MethodPost, "http://localhost:3000", false, http.StatusTeapot, true},
		{"trailing slash in config", http.MethodPost, "https://app.example.com", false, http.StatusTeapot, true},
		{"foreign origin", http.MethodPost, "https://evil.example", false, http.StatusTeapot, false},
		{"no origin", http.MethodPost, "", false, http.StatusTeapot, false},
		{"preflight", http.MethodOptions, "http://localhost:3000", true, http.StatusNoContent, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/api/suggest-prompts", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			if tc.preflight {
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.Equal(t, tc.wantStatus, rr.Code)
			if tc.wantAllowed {
				assert.Equal(t, tc.origin, rr.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

func TestCORS_Wildcard(t *testing.T) {
	h := CORS("*")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodPost, "/api/suggest-prompts", nil)
	req.Header.Set("Origin", "https://anywhere.example")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, "https://anywhere.example", rr.Header().Get("Access-Control-Allow-Origin"))
}

type chanRecorder chan telemetry.Event

func (c chanRecorder) Record(_ context.Context, ev telemetry.Event) { c <- ev }

func TestTelemetry_RecordsRouteAndStatus(t *testing.T) {
	events := make(chanRecorder, 1)

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Telemetry(events))
	r.Post("/api/suggest-prompts", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/suggest-prompts", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	r.ServeHTTP(httptest.NewRecorder(), req)

	select {
	case ev := <-events:
		assert.Equal(t, "req-42", ev.RequestID)
		assert.Equal(t, http.MethodPost, ev.Method)
		assert.Equal(t, "/api/suggest-prompts", ev.Route)
		assert.Equal(t, http.StatusUnprocessableEntity, ev.Status)
		assert.GreaterOrEqual(t, ev.LatencyMs, int64(0))
	case <-time.After(2 * time.Second):
		t.Fatal("telemetry event was not recorded")
	}
}

func TestTelemetry_ImplicitOK(t *testing.T) {
	events := make(chanRecorder, 1)
	h := Telemetry(events)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	select {
	case ev := <-events:
		assert.Equal(t, http.StatusOK, ev.Status)
		assert.Equal(t, "/health", ev.Route)
	case <-time.After(2 * time.Second):
		t.Fatal("telemetry event was not recorded")
	}
}
