package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/cashbox/internal/usecase"
)

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	rr := httptest.NewRecorder()
	Recovery(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/cashboxes", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if !strings.Contains(buf.String(), "panic recovered") || !strings.Contains(buf.String(), "boom") {
		t.Fatalf("expected panic to be logged, got %s", buf.String())
	}
}

func TestRequestID(t *testing.T) {
	var seen string

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(RequestID)
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		seen = usecase.RequestIDFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(chimw.RequestIDHeader, "req-42")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if seen != "req-42" {
		t.Fatalf("expected request id in use case context, got %q", seen)
	}
	if rr.Header().Get(RequestIDHeader) != "req-42" {
		t.Fatalf("expected response header, got %q", rr.Header().Get(RequestIDHeader))
	}
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	mw := NewLoggingMiddleware(zerolog.New(&buf))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/requests/pending", nil)
	req = req.WithContext(usecase.ContextWithRequestID(req.Context(), "req-7"))
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})).ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	for _, want := range []string{`"level":"error"`, `"status":503`, `"request_id":"req-7"`, `"path":"/api/v1/requests/pending"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in log line %s", want, out)
		}
	}
}
