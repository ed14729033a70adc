package twincore

import (
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"sync"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestLogEntry is one observed request, kept for admin inspection. The
// probe log in the state store records what the target app asked; this log
// records every HTTP exchange, including admin traffic.
type RequestLogEntry struct {
	Timestamp  time.Time         `json:"timestamp"`
	Method     string            `json:"method"`
	Path       string            `json:"path"`
	Headers    map[string]string `json:"headers,omitempty"`
	StatusCode int               `json:"status_code"`
	Duration   time.Duration     `json:"duration_ms"`
	RequestID  string            `json:"request_id,omitempty"`
}

// RequestLog keeps the most recent requests in a fixed-size ring.
type RequestLog struct {
	mu   sync.RWMutex
	ring []RequestLogEntry
	next int // write position
	full bool
}

// NewRequestLog creates a log that retains up to size entries.
func NewRequestLog(size int) *RequestLog {
	return &RequestLog{ring: make([]RequestLogEntry, size)}
}

// Add records an entry, displacing the oldest once the ring is full.
func (rl *RequestLog) Add(entry RequestLogEntry) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.ring[rl.next] = entry
	rl.next++
	if rl.next == len(rl.ring) {
		rl.next = 0
		rl.full = true
	}
}

// Entries returns the retained entries, oldest first.
func (rl *RequestLog) Entries() []RequestLogEntry {
	rl.mu.RLock()
	defer rl.mu.RUnlock()
	if !rl.full {
		return append([]RequestLogEntry(nil), rl.ring[:rl.next]...)
	}
	out := make([]RequestLogEntry, 0, len(rl.ring))
	out = append(out, rl.ring[rl.next:]...)
	return append(out, rl.ring[:rl.next]...)
}

// Clear discards all retained entries.
func (rl *RequestLog) Clear() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.next = 0
	rl.full = false
}

// FaultConfig describes an injected fault for one endpoint path.
type FaultConfig struct {
	StatusCode int           `json:"status_code"`
	Body       string        `json:"body,omitempty"`
	Delay      time.Duration `json:"delay_ms,omitempty"`
	Rate       float64       `json:"rate"` // probability 0.0-1.0 that the fault fires
}

// FaultRegistry holds the currently injected faults keyed by path.
type FaultRegistry struct {
	mu     sync.RWMutex
	faults map[string]FaultConfig
}

// NewFaultRegistry creates an empty registry.
func NewFaultRegistry() *FaultRegistry {
	return &FaultRegistry{faults: map[string]FaultConfig{}}
}

// Set registers a fault for the given path. A zero rate means always fire.
func (fr *FaultRegistry) Set(path string, fault FaultConfig) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	if fault.Rate == 0 {
		fault.Rate = 1.0
	}
	fr.faults[path] = fault
}

// Remove deregisters the fault for path, reporting whether one existed.
func (fr *FaultRegistry) Remove(path string) bool {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	_, existed := fr.faults[path]
	delete(fr.faults, path)
	return existed
}

// Check rolls for the fault registered at path, if any.
func (fr *FaultRegistry) Check(path string) *FaultConfig {
	fr.mu.RLock()
	defer fr.mu.RUnlock()
	f, ok := fr.faults[path]
	if !ok {
		return nil
	}
	if f.Rate < 1.0 && rand.Float64() >= f.Rate {
		return nil
	}
	return &f
}

// All returns a copy of the registered faults.
func (fr *FaultRegistry) All() map[string]FaultConfig {
	fr.mu.RLock()
	defer fr.mu.RUnlock()
	out := make(map[string]FaultConfig, len(fr.faults))
	for path, f := range fr.faults {
		out[path] = f
	}
	return out
}

// Reset removes every registered fault.
func (fr *FaultRegistry) Reset() {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	fr.faults = map[string]FaultConfig{}
}

// Middleware bundles the twin's HTTP middleware and the state it exposes to
// the admin surface.
type Middleware struct {
	cfg    *Config
	logger *slog.Logger
	ReqLog *RequestLog
	Faults *FaultRegistry
}

// NewMiddleware creates the middleware set for a twin.
func NewMiddleware(cfg *Config, logger *slog.Logger) *Middleware {
	return &Middleware{
		cfg:    cfg,
		logger: logger,
		ReqLog: NewRequestLog(1000),
		Faults: NewFaultRegistry(),
	}
}

// CORS answers preflights and marks every response permissive. The twin only
// ever runs on a developer's machine.
func (m *Middleware) CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type")
		h.Set("Access-Control-Max-Age", "3600")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusWriter remembers the status code a handler wrote.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

// RequestLog records every request into the ring buffer. Header capture and
// debug logging only happen in verbose mode.
func (m *Middleware) RequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		entry := RequestLogEntry{
			Timestamp:  start,
			Method:     r.Method,
			Path:       r.URL.Path,
			StatusCode: sw.status,
			Duration:   time.Since(start),
			RequestID:  chimw.GetReqID(r.Context()),
		}
		if m.cfg.Verbose {
			entry.Headers = make(map[string]string, len(r.Header))
			for k := range r.Header {
				entry.Headers[k] = r.Header.Get(k)
			}
			m.logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"duration", entry.Duration,
			)
		}
		m.ReqLog.Add(entry)
	})
}

// LatencyInjection sleeps for the configured base latency with 80-120% jitter.
func (m *Middleware) LatencyInjection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.cfg.Latency > 0 {
			jitter := 0.8 + rand.Float64()*0.4
			time.Sleep(time.Duration(float64(m.cfg.Latency) * jitter))
		}
		next.ServeHTTP(w, r)
	})
}

// RandomFailure fails the request with a 500 at the configured rate.
func (m *Middleware) RandomFailure(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.cfg.FailRate > 0 && rand.Float64() < m.cfg.FailRate {
			Error(w, http.StatusInternalServerError, "simulated random failure")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// FaultInjection applies any fault registered for the request path. Mount it
// inside the device-surface route group only, so the admin endpoints that
// manage faults stay reachable.
func (m *Middleware) FaultInjection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fault := m.Faults.Check(r.URL.Path)
		if fault == nil {
			next.ServeHTTP(w, r)
			return
		}

		if fault.Delay > 0 {
			time.Sleep(fault.Delay)
		}
		if fault.StatusCode == 0 {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(fault.StatusCode)
		if fault.Body != "" {
			fmt.Fprint(w, fault.Body)
			return
		}
		fmt.Fprintf(w, `{"error":{"message":"injected fault","type":"api_error","code":%d}}`, fault.StatusCode)
	})
}
