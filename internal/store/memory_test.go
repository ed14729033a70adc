package store

import (
	"encoding/json"
	"testing"

	"github.com/pixeltwin-dev/pixeltwin/internal/catalog"
)

func TestNewSeedsDefaultSelection(t *testing.T) {
	s := New(catalog.Builtin())
	if got := s.Selection().Device; got != catalog.Builtin().DefaultDevice() {
		t.Errorf("expected default selection, got %q", got)
	}
}

func TestSetSelectionCopiesFlags(t *testing.T) {
	s := New(catalog.Builtin())
	flags := []string{"a.flag"}
	s.SetSelection(Selection{Device: "Pixel 5", DisabledFlags: flags})

	flags[0] = "tampered"
	if got := s.Selection().DisabledFlags[0]; got != "a.flag" {
		t.Errorf("selection aliases caller slice, got %q", got)
	}

	sel := s.Selection()
	sel.DisabledFlags[0] = "tampered"
	if got := s.Selection().DisabledFlags[0]; got != "a.flag" {
		t.Errorf("Selection returned an aliased slice, got %q", got)
	}
}

func TestRecordProbe(t *testing.T) {
	s := New(catalog.Builtin())
	s.RecordProbe("getprop", "ro.product.model", "Pixel 8 Pro")
	s.RecordProbe("feature", "com.google.android.feature.PIXEL_2023_EXPERIENCE", "true")

	probes := s.Probes.List()
	if len(probes) != 2 {
		t.Fatalf("expected 2 probes, got %d", len(probes))
	}
	if probes[0].Kind != "getprop" || probes[0].Answer != "Pixel 8 Pro" {
		t.Errorf("unexpected first probe: %+v", probes[0])
	}
}

func TestSnapshotAndLoadState(t *testing.T) {
	s := New(catalog.Builtin())
	s.SetSelection(Selection{Device: "Pixel 6 Pro"})
	s.RecordProbe("getprop", "ro.product.brand", "google")

	data, err := json.Marshal(s.Snapshot())
	if err != nil {
		t.Fatalf("marshaling snapshot: %v", err)
	}

	restored := New(catalog.Builtin())
	if err := restored.LoadState(data); err != nil {
		t.Fatalf("LoadState failed: %v", err)
	}
	if restored.Selection().Device != "Pixel 6 Pro" {
		t.Errorf("expected restored selection, got %q", restored.Selection().Device)
	}
	if restored.Probes.Count() != 1 {
		t.Errorf("expected 1 restored probe, got %d", restored.Probes.Count())
	}
}

func TestLoadStateInvalid(t *testing.T) {
	s := New(catalog.Builtin())
	if err := s.LoadState([]byte("not json")); err == nil {
		t.Error("expected error for invalid state body")
	}
}

func TestReset(t *testing.T) {
	s := New(catalog.Builtin())
	s.SetSelection(Selection{Device: "None", DisabledFlags: []string{"a.flag"}})
	s.RecordProbe("getprop", "ro.product.model", "")

	s.Reset()

	sel := s.Selection()
	if sel.Device != catalog.Builtin().DefaultDevice() {
		t.Errorf("expected default selection after reset, got %q", sel.Device)
	}
	if len(sel.DisabledFlags) != 0 {
		t.Errorf("expected no disabled flags after reset, got %v", sel.DisabledFlags)
	}
	if s.Probes.Count() != 0 {
		t.Errorf("expected empty probe log after reset, got %d", s.Probes.Count())
	}
}
