// Package api exposes the spoofed device identity surface: build properties,
// feature flags, device selection, and attestation tokens.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pixeltwin-dev/pixeltwin/internal/buildprops"
	"github.com/pixeltwin-dev/pixeltwin/internal/catalog"
	"github.com/pixeltwin-dev/pixeltwin/internal/prefs"
	"github.com/pixeltwin-dev/pixeltwin/internal/store"
	"github.com/pixeltwin-dev/pixeltwin/pkg/twincore"
)

// Probe kinds recorded in the probe log.
const (
	probeGetprop = "getprop"
	probeFeature = "feature"
)

// Handler holds the device API state.
type Handler struct {
	catalog   *catalog.Catalog
	store     *store.MemoryStore
	mw        *twincore.Middleware
	integrity *IntegrityManager
	prefsPath string // empty disables persistence
}

// NewHandler creates a device API handler. Generating the attestation
// keypair can fail, so construction returns an error.
func NewHandler(cat *catalog.Catalog, s *store.MemoryStore, mw *twincore.Middleware, prefsPath string) (*Handler, error) {
	integrity, err := NewIntegrityManager()
	if err != nil {
		return nil, err
	}
	return &Handler{
		catalog:   cat,
		store:     s,
		mw:        mw,
		integrity: integrity,
		prefsPath: prefsPath,
	}, nil
}

// Routes mounts the device surface. The spoofed endpoints run behind fault
// injection; JWKS stays outside so verifiers always reach the key set.
func (h *Handler) Routes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.mw.FaultInjection)
		r.Get("/devices", h.ListDevices)
		r.Get("/devices/{name}", h.GetDevice)
		r.Get("/getprop", h.AllProps)
		r.Get("/getprop/{key}", h.GetProp)
		r.Get("/features", h.ListFeatures)
		r.Get("/features/{flag}", h.HasFeature)
		r.Get("/selection", h.GetSelection)
		r.Put("/selection", h.PutSelection)
		r.Post("/integrity/token", h.IntegrityToken)
	})
	r.Get("/.well-known/jwks.json", h.GetJWKS)
}

// currentDevice resolves the selected device. An unknown selection degrades
// to a zero entry: no properties, no version, no features.
func (h *Handler) currentDevice() catalog.DeviceEntry {
	dev, _ := h.catalog.DeviceByName(h.store.Selection().Device)
	return dev
}

// grantedFlags returns the cumulative flags for the selection in group-table
// order, minus any user-disabled flags, deduplicated.
func (h *Handler) grantedFlags() []string {
	sel := h.store.Selection()
	dev, ok := h.catalog.DeviceByName(sel.Device)
	if !ok {
		return []string{}
	}

	disabled := make(map[string]bool, len(sel.DisabledFlags))
	for _, f := range sel.DisabledFlags {
		disabled[f] = true
	}

	flags := []string{}
	seen := make(map[string]bool)
	for _, g := range h.catalog.GroupsThrough(dev.FeatureGroup) {
		for _, f := range g.Flags {
			if seen[f] || disabled[f] {
				continue
			}
			seen[f] = true
			flags = append(flags, f)
		}
	}
	return flags
}

// ListDevices handles GET /devices - the ordered selector contents.
func (h *Handler) ListDevices(w http.ResponseWriter, r *http.Request) {
	twincore.JSON(w, http.StatusOK, map[string]any{
		"devices":  h.catalog.DeviceNames(),
		"selected": h.store.Selection().Device,
	})
}

// GetDevice handles GET /devices/{name} - the fully resolved record.
func (h *Handler) GetDevice(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	dev, ok := h.catalog.DeviceByName(name)
	if !ok {
		twincore.Error(w, http.StatusNotFound, "unknown device: "+name)
		return
	}

	features := []string{}
	for _, g := range h.catalog.GroupsThrough(dev.FeatureGroup) {
		features = append(features, g.Flags...)
	}

	twincore.JSON(w, http.StatusOK, map[string]any{
		"name":          dev.Name,
		"properties":    buildprops.Effective(dev),
		"feature_group": dev.FeatureGroup,
		"version":       dev.Version,
		"features":      features,
	})
}

// AllProps handles GET /getprop - every effective property for the selection.
func (h *Handler) AllProps(w http.ResponseWriter, r *http.Request) {
	twincore.JSON(w, http.StatusOK, buildprops.Effective(h.currentDevice()))
}

// GetProp handles GET /getprop/{key} - a single property as plain text.
// Unknown keys answer 200 with an empty body, like getprop on device.
func (h *Handler) GetProp(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	val := buildprops.Get(h.currentDevice(), key)
	h.store.RecordProbe(probeGetprop, key, val)
	twincore.Text(w, http.StatusOK, val)
}

// ListFeatures handles GET /features - the granted feature-flag list.
func (h *Handler) ListFeatures(w http.ResponseWriter, r *http.Request) {
	twincore.JSON(w, http.StatusOK, map[string]any{
		"features": h.grantedFlags(),
	})
}

// HasFeature handles GET /features/{flag} - the hasSystemFeature answer.
func (h *Handler) HasFeature(w http.ResponseWriter, r *http.Request) {
	flag := chi.URLParam(r, "flag")
	available := false
	for _, f := range h.grantedFlags() {
		if f == flag {
			available = true
			break
		}
	}
	h.store.RecordProbe(probeFeature, flag, boolString(available))
	twincore.JSON(w, http.StatusOK, map[string]any{
		"flag":      flag,
		"available": available,
	})
}

// GetSelection handles GET /selection.
func (h *Handler) GetSelection(w http.ResponseWriter, r *http.Request) {
	sel := h.store.Selection()
	dev, _ := h.catalog.DeviceByName(sel.Device)
	twincore.JSON(w, http.StatusOK, map[string]any{
		"device":         sel.Device,
		"disabled_flags": sel.DisabledFlags,
		"version":        dev.Version,
	})
}

// selectionRequest is the JSON body for PUT /selection.
type selectionRequest struct {
	Device        string   `json:"device"`
	DisabledFlags []string `json:"disabled_flags,omitempty"`
}

// PutSelection handles PUT /selection - switch the impersonated device.
func (h *Handler) PutSelection(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		twincore.Error(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if _, ok := h.catalog.DeviceByName(req.Device); !ok {
		twincore.Error(w, http.StatusBadRequest, "unknown device: "+req.Device)
		return
	}

	sel := store.Selection{Device: req.Device, DisabledFlags: req.DisabledFlags}
	h.store.SetSelection(sel)

	if h.prefsPath != "" {
		p := &prefs.Prefs{Device: sel.Device, DisabledFlags: sel.DisabledFlags}
		if err := prefs.Save(h.prefsPath, p); err != nil {
			twincore.Error(w, http.StatusInternalServerError, "persisting selection: "+err.Error())
			return
		}
	}

	twincore.JSON(w, http.StatusOK, map[string]any{
		"device":         sel.Device,
		"disabled_flags": sel.DisabledFlags,
	})
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
