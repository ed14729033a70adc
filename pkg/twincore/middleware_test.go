package twincore

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"
)

func newTestMiddleware(cfg *Config) *Middleware {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	return NewMiddleware(cfg, logger)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
}

func TestRequestLogRingEviction(t *testing.T) {
	rl := NewRequestLog(3)
	for i := 0; i < 5; i++ {
		rl.Add(RequestLogEntry{Path: string(rune('a' + i))})
	}

	entries := rl.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Path != "c" || entries[2].Path != "e" {
		t.Errorf("expected oldest entries evicted, got %+v", entries)
	}

	rl.Clear()
	if len(rl.Entries()) != 0 {
		t.Error("expected empty log after clear")
	}
}

func TestRequestLogMiddlewareRecordsStatus(t *testing.T) {
	m := newTestMiddleware(&Config{})
	h := m.RequestLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/getprop/ro.missing", nil))

	entries := m.ReqLog.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Method != "GET" || e.Path != "/getprop/ro.missing" || e.StatusCode != 404 {
		t.Errorf("unexpected entry: %+v", e)
	}
}

func TestCORSPreflight(t *testing.T) {
	m := newTestMiddleware(&Config{})
	h := m.CORS(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("OPTIONS", "/features", nil))

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 for preflight, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected permissive CORS origin header")
	}
}

func TestRandomFailureAlwaysFails(t *testing.T) {
	m := newTestMiddleware(&Config{FailRate: 1.0})
	h := m.RandomFailure(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/features", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 with fail rate 1.0, got %d", rec.Code)
	}
}

func TestRandomFailureDisabled(t *testing.T) {
	m := newTestMiddleware(&Config{FailRate: 0})
	h := m.RandomFailure(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/features", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected pass-through with fail rate 0, got %d", rec.Code)
	}
}

func TestFaultRegistry(t *testing.T) {
	fr := NewFaultRegistry()
	fr.Set("/getprop", FaultConfig{StatusCode: 503})

	f := fr.Check("/getprop")
	if f == nil || f.StatusCode != 503 {
		t.Fatalf("expected registered fault, got %+v", f)
	}
	if f.Rate != 1.0 {
		t.Errorf("expected default rate 1.0, got %v", f.Rate)
	}
	if fr.Check("/features") != nil {
		t.Error("expected no fault for unregistered path")
	}

	if !fr.Remove("/getprop") {
		t.Error("expected Remove to report the fault existed")
	}
	if fr.Remove("/getprop") {
		t.Error("expected Remove to report a missing fault")
	}
}

func TestFaultInjectionMiddleware(t *testing.T) {
	m := newTestMiddleware(&Config{})
	m.Faults.Set("/features", FaultConfig{StatusCode: 429, Body: `{"error":"throttled"}`})
	h := m.FaultInjection(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/features", nil))
	if rec.Code != 429 {
		t.Errorf("expected injected 429, got %d", rec.Code)
	}
	if rec.Body.String() != `{"error":"throttled"}` {
		t.Errorf("expected injected body, got %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/devices", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected pass-through for unfaulted path, got %d", rec.Code)
	}
}

func TestLatencyInjection(t *testing.T) {
	m := newTestMiddleware(&Config{Latency: 20 * time.Millisecond})
	h := m.LatencyInjection(okHandler())

	start := time.Now()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	// Jitter runs 80-120% of the configured latency.
	if elapsed := time.Since(start); elapsed < 15*time.Millisecond {
		t.Errorf("expected at least 15ms of injected latency, got %v", elapsed)
	}
}
