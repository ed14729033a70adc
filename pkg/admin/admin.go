// Package admin mounts the /admin/* control plane: state snapshot and
// restore, reset, fault injection, request inspection, and health. It is the
// developer-facing surface; the spoofed device surface lives in the twin's
// own API package.
package admin

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pixeltwin-dev/pixeltwin/pkg/twincore"
)

// StateStore is what a twin exposes for admin state management.
type StateStore interface {
	// Snapshot returns the full state as a JSON-serializable value.
	Snapshot() any
	// LoadState replaces the full state from a JSON body.
	LoadState(data []byte) error
	// Reset restores the initial state.
	Reset()
}

// Handler serves the admin endpoints for one twin.
type Handler struct {
	state StateStore
	mw    *twincore.Middleware
}

// NewHandler creates an admin handler over the twin's state and middleware.
func NewHandler(state StateStore, mw *twincore.Middleware) *Handler {
	return &Handler{state: state, mw: mw}
}

// Routes mounts the /admin subtree.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Post("/reset", h.reset)
		r.Get("/state", h.getState)
		r.Post("/state", h.loadState)
		r.Post("/fault/{endpoint}", h.injectFault)
		r.Delete("/fault/{endpoint}", h.removeFault)
		r.Get("/faults", h.listFaults)
		r.Get("/requests", h.listRequests)
		r.Get("/health", h.health)
	})
}

// reset restores the twin's initial state and clears faults and the request
// log, giving scenario setup a clean slate in one call.
func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	h.state.Reset()
	h.mw.Faults.Reset()
	h.mw.ReqLog.Clear()
	twincore.JSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (h *Handler) getState(w http.ResponseWriter, r *http.Request) {
	twincore.JSON(w, http.StatusOK, h.state.Snapshot())
}

func (h *Handler) loadState(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		twincore.Error(w, http.StatusBadRequest, "failed to read body: "+err.Error())
		return
	}
	if err := h.state.LoadState(body); err != nil {
		twincore.Error(w, http.StatusBadRequest, "failed to load state: "+err.Error())
		return
	}
	twincore.JSON(w, http.StatusOK, map[string]string{"status": "loaded"})
}

func (h *Handler) injectFault(w http.ResponseWriter, r *http.Request) {
	endpoint := "/" + chi.URLParam(r, "endpoint")

	var fault twincore.FaultConfig
	if err := json.NewDecoder(r.Body).Decode(&fault); err != nil {
		twincore.Error(w, http.StatusBadRequest, "invalid fault config: "+err.Error())
		return
	}

	h.mw.Faults.Set(endpoint, fault)
	twincore.JSON(w, http.StatusOK, map[string]any{
		"status":   "injected",
		"endpoint": endpoint,
		"fault":    fault,
	})
}

func (h *Handler) removeFault(w http.ResponseWriter, r *http.Request) {
	endpoint := "/" + chi.URLParam(r, "endpoint")
	if !h.mw.Faults.Remove(endpoint) {
		twincore.Error(w, http.StatusNotFound, "no fault registered for "+endpoint)
		return
	}
	twincore.JSON(w, http.StatusOK, map[string]any{"status": "removed", "endpoint": endpoint})
}

func (h *Handler) listFaults(w http.ResponseWriter, r *http.Request) {
	twincore.JSON(w, http.StatusOK, h.mw.Faults.All())
}

func (h *Handler) listRequests(w http.ResponseWriter, r *http.Request) {
	twincore.JSON(w, http.StatusOK, h.mw.ReqLog.Entries())
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	twincore.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
