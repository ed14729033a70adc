package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testCatalogYAML = `versions:
  - label: "T 13.0"
    release: "13"
    sdk: 33
  - label: "U 14.0"
    release: "14"
    sdk: 34

feature_groups:
  - label: "Gen One"
    flags:
      - "vendor.feature.GEN_ONE"
  - label: "Gen Two"
    flags:
      - "vendor.feature.GEN_TWO"

devices:
  - name: "None"
    feature_group: "None"
  - name: "Oldphone"
    feature_group: "Gen One"
    version: "T 13.0"
    properties:
      ro.product.model: "Oldphone"
  - name: "Newphone"
    feature_group: "Gen Two"
    version: "U 14.0"
    properties:
      ro.product.model: "Newphone"
`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing catalogue: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cat, warns, err := Load(writeCatalog(t, testCatalogYAML))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(warns) != 0 {
		t.Errorf("expected no warnings, got %v", warns)
	}

	dev, ok := cat.DeviceByName("Newphone")
	if !ok {
		t.Fatal("expected Newphone to be found")
	}
	if dev.Version == nil || dev.Version.SDK != 34 {
		t.Errorf("expected resolved version with sdk 34, got %+v", dev.Version)
	}
	if dev.Properties["ro.product.model"] != "Newphone" {
		t.Errorf("unexpected properties: %v", dev.Properties)
	}

	// No default_device in the file: the last (newest) device wins.
	if cat.DefaultDevice() != "Newphone" {
		t.Errorf("expected default Newphone, got %q", cat.DefaultDevice())
	}
}

func TestLoadPreservesDocumentOrder(t *testing.T) {
	cat, _, err := Load(writeCatalog(t, testCatalogYAML))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Document order is the chronological contract: Gen Two must include
	// Gen One's flags, not the other way around.
	newer := cat.FeaturesForDevice("Newphone")
	if !newer["vendor.feature.GEN_ONE"] || !newer["vendor.feature.GEN_TWO"] {
		t.Errorf("expected cumulative set for Newphone, got %v", newer)
	}
	older := cat.FeaturesForDevice("Oldphone")
	if older["vendor.feature.GEN_TWO"] {
		t.Errorf("Oldphone must not receive later flags, got %v", older)
	}
}

func TestLoadWarnings(t *testing.T) {
	content := strings.Replace(testCatalogYAML, `feature_group: "Gen Two"`, `feature_group: "Gen Too"`, 1)
	content = strings.Replace(content, `version: "U 14.0"`, `version: "V 15.0"`, 1)
	content += "\ndefault_device: \"Ghost\"\n"

	cat, warns, err := Load(writeCatalog(t, content))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Dangling version, dangling group, unknown default: warnings only.
	if len(warns) != 3 {
		t.Errorf("expected 3 warnings, got %d: %v", len(warns), warns)
	}

	// The degraded entries still answer with empty results, not errors.
	dev, ok := cat.DeviceByName("Newphone")
	if !ok {
		t.Fatal("expected Newphone to load despite warnings")
	}
	if dev.Version != nil {
		t.Errorf("expected unresolved version to stay absent, got %+v", dev.Version)
	}
	if features := cat.FeaturesForDevice("Newphone"); len(features) != 0 {
		t.Errorf("expected empty feature set for dangling group, got %v", features)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	if _, _, err := Load(writeCatalog(t, ": not yaml [")); err == nil {
		t.Error("expected error for malformed YAML")
	}

	if _, _, err := Load(writeCatalog(t, "versions: []\n")); err == nil {
		t.Error("expected error for a catalogue with no devices")
	}
}
