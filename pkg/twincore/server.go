// Package twincore is the base HTTP layer shared by the twin binary and its
// tests: flag parsing, the chi router with the standard middleware chain,
// lifecycle management, and response helpers.
package twincore

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Config is the twin's runtime configuration, populated from CLI flags.
type Config struct {
	Port        int
	Latency     time.Duration
	FailRate    float64
	SeedFile    string
	CatalogFile string
	PrefsFile   string
	Verbose     bool
	Name        string // twin name for logging
}

// ParseFlags parses the common CLI flags. The PORT environment variable
// backs the -port flag when the flag is not given.
func ParseFlags(twinName string) *Config {
	cfg := &Config{Name: twinName}
	flag.IntVar(&cfg.Port, "port", 0, "HTTP listen port (default: auto-assigned)")
	flag.DurationVar(&cfg.Latency, "latency", 0, "Base simulated latency")
	flag.Float64Var(&cfg.FailRate, "fail-rate", 0.0, "Random failure rate 0.0-1.0")
	flag.StringVar(&cfg.SeedFile, "seed-file", "", "Path to JSON fixture for initial state")
	flag.StringVar(&cfg.CatalogFile, "catalog", "", "Path to a YAML device catalogue (default: built-in)")
	flag.StringVar(&cfg.PrefsFile, "prefs-file", "", "Path to the YAML preferences file for persisting the selection")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "Enable request/response logging")
	flag.Parse()

	if cfg.Port == 0 {
		if p := os.Getenv("PORT"); p != "" {
			fmt.Sscanf(p, "%d", &cfg.Port)
		}
	}

	return cfg
}

// Twin is the base HTTP server: a chi router behind the standard middleware
// chain, plus a structured logger.
type Twin struct {
	Config *Config
	Router *chi.Mux
	Logger *slog.Logger
	mw     *Middleware
}

// New builds a Twin from the config. Latency and random-failure middleware
// are always in the chain; each guards on its config value before acting.
func New(cfg *Config) *Twin {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	mw := NewMiddleware(cfg, logger)
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.CORS)
	r.Use(mw.RequestLog)
	r.Use(mw.LatencyInjection)
	r.Use(mw.RandomFailure)

	return &Twin{Config: cfg, Router: r, Logger: logger, mw: mw}
}

// Middleware exposes the middleware set, for fault injection and the admin
// surface.
func (t *Twin) Middleware() *Middleware {
	return t.mw
}

// Serve runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully with a 10-second drain.
func (t *Twin) Serve() error {
	addr := fmt.Sprintf(":%d", t.Config.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      t.Router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		t.Logger.Info("starting twin", "name", t.Config.Name, "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			t.Logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	<-done
	t.Logger.Info("shutting down twin", "name", t.Config.Name)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// ServeHTTP lets a Twin be used directly as an http.Handler in tests.
func (t *Twin) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	t.Router.ServeHTTP(w, r)
}

// JSON writes v as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// Error writes a JSON error envelope.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]any{
		"error": map[string]any{
			"message": message,
			"type":    http.StatusText(status),
			"code":    status,
		},
	})
}

// Text writes a plain-text response. The property endpoints use this so a
// probe reads exactly what getprop would print, including the empty string.
func Text(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprint(w, body)
}
