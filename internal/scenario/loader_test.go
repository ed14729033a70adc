package scenario

import (
	"os"
	"path/filepath"
	"testing"
)

const validScenario = `{
  "name": "probe-check",
  "steps": [
    {"name": "one", "request": {"method": "GET", "path": "/getprop"}}
  ]
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScenario(t *testing.T) {
	path := writeFile(t, t.TempDir(), "s.json", validScenario)

	s, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("LoadScenario failed: %v", err)
	}
	if s.Name != "probe-check" {
		t.Errorf("expected name probe-check, got %q", s.Name)
	}
	if len(s.Steps) != 1 || s.Steps[0].Request.Path != "/getprop" {
		t.Errorf("unexpected steps: %+v", s.Steps)
	}
}

func TestLoadScenarioMissingName(t *testing.T) {
	path := writeFile(t, t.TempDir(), "s.json",
		`{"steps": [{"name": "one", "request": {"method": "GET", "path": "/"}}]}`)
	if _, err := LoadScenario(path); err == nil {
		t.Error("expected error for missing name")
	}
}

func TestLoadScenarioNoSteps(t *testing.T) {
	path := writeFile(t, t.TempDir(), "s.json", `{"name": "empty"}`)
	if _, err := LoadScenario(path); err == nil {
		t.Error("expected error for empty steps")
	}
}

func TestLoadScenarioWrongExtension(t *testing.T) {
	path := writeFile(t, t.TempDir(), "s.yaml", validScenario)
	if _, err := LoadScenario(path); err == nil {
		t.Error("expected error for non-json extension")
	}
}

func TestLoadScenarioInvalidJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "s.json", "{not json")
	if _, err := LoadScenario(path); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", validScenario)
	writeFile(t, dir, "b.json", `{"name": "second", "steps": [{"name": "x", "request": {"method": "GET", "path": "/"}}]}`)
	writeFile(t, dir, "notes.txt", "ignored")

	scenarios, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}
	if len(scenarios) != 2 {
		t.Errorf("expected 2 scenarios, got %d", len(scenarios))
	}
}

func TestShippedScenariosLoad(t *testing.T) {
	scenarios, err := LoadDir(filepath.Join("..", "..", "scenarios"))
	if err != nil {
		t.Fatalf("loading shipped scenarios: %v", err)
	}
	if len(scenarios) < 2 {
		t.Errorf("expected shipped scenarios, got %d", len(scenarios))
	}
}
