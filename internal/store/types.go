package store

import "time"

// Probe records one identity query made by the target app: a build-property
// read or a feature-existence check, together with the answer the twin gave.
type Probe struct {
	Kind      string    `json:"kind"` // "getprop" or "feature"
	Key       string    `json:"key"`
	Answer    string    `json:"answer"`
	Timestamp time.Time `json:"timestamp"`
}

// Selection is the active spoof choice: which device to impersonate and
// which individual feature flags the user has switched off.
type Selection struct {
	Device        string   `json:"device"`
	DisabledFlags []string `json:"disabled_flags,omitempty"`
}
