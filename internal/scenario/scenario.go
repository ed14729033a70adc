// Package scenario implements a JSON-based probe-scenario runner with rich
// assertions, variable capture, and JSONPath support. A scenario replays the
// identity queries a target app would make against a running twin and checks
// the spoofed answers.
package scenario

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Scenario is a complete probe scenario loaded from a JSON file.
type Scenario struct {
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Setup       *Setup            `json:"setup,omitempty"`
	Variables   map[string]string `json:"variables,omitempty"`
	Steps       []Step            `json:"steps"`
}

// Setup defines pre-run actions against the twin's admin surface.
type Setup struct {
	Reset    bool   `json:"reset,omitempty"`
	SeedFile string `json:"seed_file,omitempty"`
}

// Step is a single request/assert pair within a scenario.
type Step struct {
	Name    string            `json:"name"`
	Request Request           `json:"request"`
	Capture map[string]string `json:"capture,omitempty"`
	Assert  *Assert           `json:"assert,omitempty"`
}

// Request defines the HTTP request to make during a step. The path is
// relative to the twin's base URL.
type Request struct {
	Method  string            `json:"method"`
	Path    string            `json:"path"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    any               `json:"body,omitempty"`
}

// Assert defines the expected results of a step. BodyEquals is a pointer so
// that asserting an empty body (the getprop miss answer) stays expressible.
type Assert struct {
	Status       int               `json:"status,omitempty"`
	BodyContains string            `json:"body_contains,omitempty"`
	BodyEquals   *string           `json:"body_equals,omitempty"`
	Headers      map[string]string `json:"headers,omitempty"`
	Body         map[string]any    `json:"body,omitempty"`
}

// LoadScenario parses a JSON scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario %s: %w", path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".json" {
		return nil, fmt.Errorf("scenario runner only supports .json scenarios, got %q", ext)
	}

	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
	}

	if s.Name == "" {
		return nil, fmt.Errorf("scenario %s: name is required", path)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s: at least one step is required", path)
	}

	return &s, nil
}

// LoadDir loads all .json scenario files from a directory.
func LoadDir(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading scenario directory %s: %w", dir, err)
	}

	var scenarios []*Scenario
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.ToLower(filepath.Ext(name)) != ".json" {
			continue
		}
		s, err := LoadScenario(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}

	return scenarios, nil
}
