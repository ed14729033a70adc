package main

import (
	"log"
	"os"

	"github.com/pixeltwin-dev/pixeltwin/internal/api"
	"github.com/pixeltwin-dev/pixeltwin/internal/catalog"
	"github.com/pixeltwin-dev/pixeltwin/internal/prefs"
	"github.com/pixeltwin-dev/pixeltwin/internal/store"
	"github.com/pixeltwin-dev/pixeltwin/pkg/admin"
	"github.com/pixeltwin-dev/pixeltwin/pkg/twincore"
)

func main() {
	cfg := twincore.ParseFlags("pixeltwin")
	if cfg.Port == 0 {
		cfg.Port = 12180
	}

	twin := twincore.New(cfg)

	cat := catalog.Builtin()
	if cfg.CatalogFile != "" {
		loaded, warns, err := catalog.Load(cfg.CatalogFile)
		if err != nil {
			log.Fatalf("failed to load catalogue: %v", err)
		}
		for _, w := range warns {
			twin.Logger.Warn("catalogue inconsistency", "warning", w.Error())
		}
		cat = loaded
	}

	memStore := store.New(cat)

	if cfg.PrefsFile != "" {
		p, err := prefs.Load(cfg.PrefsFile)
		if err != nil {
			twin.Logger.Warn("ignoring unreadable prefs, using defaults", "err", err)
		} else if p != nil {
			if _, ok := cat.DeviceByName(p.Device); ok {
				memStore.SetSelection(store.Selection{Device: p.Device, DisabledFlags: p.DisabledFlags})
			} else {
				twin.Logger.Warn("prefs device not in catalogue, using default", "device", p.Device)
			}
		}
	}

	apiHandler, err := api.NewHandler(cat, memStore, twin.Middleware(), cfg.PrefsFile)
	if err != nil {
		log.Fatalf("failed to create API handler: %v", err)
	}
	apiHandler.Routes(twin.Router)

	adminHandler := admin.NewHandler(memStore, twin.Middleware())
	adminHandler.Routes(twin.Router)

	if cfg.SeedFile != "" {
		data, err := os.ReadFile(cfg.SeedFile)
		if err != nil {
			log.Fatalf("failed to read seed file: %v", err)
		}
		if err := memStore.LoadState(data); err != nil {
			log.Fatalf("failed to load seed data: %v", err)
		}
	}

	twin.Logger.Info("pixeltwin ready",
		"port", cfg.Port,
		"device", memStore.Selection().Device,
		"devices", len(cat.DeviceNames()),
	)

	if err := twin.Serve(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
