// Package prefs loads and saves the persisted user selection: the chosen
// device name and any individually disabled feature flags, stored at
// ~/.pixeltwin/prefs.yaml by default.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultDir is the directory under the user's home for twin state.
const DefaultDir = ".pixeltwin"

// DefaultFile is the preferences file name within the directory.
const DefaultFile = "prefs.yaml"

// Prefs is the persisted selection.
type Prefs struct {
	Device        string   `yaml:"device"`
	DisabledFlags []string `yaml:"disabled_flags,omitempty"`
}

// DefaultPath returns ~/.pixeltwin/prefs.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determining home directory: %w", err)
	}
	return filepath.Join(home, DefaultDir, DefaultFile), nil
}

// Load reads preferences from the given path. A missing file is not an
// error: it returns (nil, nil) and the caller falls back to catalogue
// defaults.
func Load(path string) (*Prefs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading prefs %s: %w", path, err)
	}

	var p Prefs
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing prefs %s: %w", path, err)
	}
	return &p, nil
}

// Save writes preferences to the given path, creating the directory if needed.
func Save(path string, p *Prefs) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating prefs dir: %w", err)
	}

	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling prefs: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}
