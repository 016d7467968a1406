package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/codr1/labplanner/internal/ratelimit"
)

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestWithWriteLimitBlocksWritesOnly(t *testing.T) {
	clock := &fixedClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	limiter := ratelimit.New(&ratelimit.Config{MaxPerWindow: 2, Window: time.Minute, Clock: clock})
	t.Cleanup(limiter.Close)

	handler := ChainMiddleware(okHandler(), WithWriteLimit(limiter), WithRequestID)

	send := func(method string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/api/bookings", nil)
		req.RemoteAddr = "203.0.113.9:4000"
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)
		return recorder
	}

	for i := 0; i < 2; i++ {
		if rec := send(http.MethodPost); rec.Code != http.StatusNoContent {
			t.Fatalf("write %d: expected 204, got %d", i+1, rec.Code)
		}
	}

	clock.Advance(15 * time.Second)
	rec := send(http.MethodDelete)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "45" {
		t.Fatalf("expected Retry-After 45, got %q", got)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body["error"] == "" {
		t.Fatalf("expected error message in body")
	}

	if rec := send(http.MethodGet); rec.Code != http.StatusNoContent {
		t.Fatalf("reads must not be limited, got %d", rec.Code)
	}
}

func TestWithRequestIDSetsHeaderAndContext(t *testing.T) {
	var seen string
	handler := WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	header := rec.Header().Get("X-Request-ID")
	if header == "" || header != seen {
		t.Fatalf("expected matching request id, header=%q context=%q", header, seen)
	}

	const incoming = "0b0f3b8e-5a4c-4a57-9b57-51c1c8b5d2a1"
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", incoming)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if seen != incoming {
		t.Fatalf("expected incoming request id to be kept, got %q", seen)
	}
}

func TestWithRecoveryReturnsJSON500(t *testing.T) {
	handler := ChainMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}), WithRecovery, WithRequestID)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/data", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON content type, got %q", ct)
	}
}

func TestWithLoggingDefaultsStatus(t *testing.T) {
	handler := ChainMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}), WithLogging)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
