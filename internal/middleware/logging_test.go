package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dukerupert/smartfood/internal/metrics"
)

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	var seenID string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/dishes/{id}", func(w http.ResponseWriter, r *http.Request) {
		seenID = RequestIDFrom(r.Context())
		w.WriteHeader(http.StatusNotFound)
	})
	handler := RequestLogger(logger, metrics.New())(mux)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/dishes/3", nil))

	id := rec.Header().Get(RequestIDHeader)
	if id == "" || id != seenID {
		t.Errorf("request id header %q, handler saw %q", id, seenID)
	}
	out := buf.String()
	for _, want := range []string{"level=WARN", "status=404", "path=/api/dishes/3", "request_id=" + id} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q: %s", want, out)
		}
	}
}

func TestRequestLoggerKeepsClientID(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	handler := RequestLogger(logger, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("request id = %q, want abc-123", got)
	}
}

func preflight(origin string) *http.Request {
	req := httptest.NewRequest("OPTIONS", "/api/dishes", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", "PATCH")
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	return req
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	h := CORS("http://localhost:5173")(next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, preflight("http://localhost:5173"))
	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("allow origin = %q", got)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, preflight("http://evil.example"))
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("foreign origin allowed: %q", got)
	}

	req := httptest.NewRequest("GET", "/api/dishes", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("simple request status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Expose-Headers"); !strings.EqualFold(got, RequestIDHeader) {
		t.Errorf("expose headers = %q, want %s", got, RequestIDHeader)
	}

	rec = httptest.NewRecorder()
	CORS("")(next).ServeHTTP(rec, preflight("http://localhost:5173"))
	if rec.Code != http.StatusOK || rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Errorf("disabled CORS changed the response: %d %v", rec.Code, rec.Header())
	}
}
