// Package catalog holds the static device/feature catalogue the twin
// impersonates: Android version records, feature-flag groups, and spoofable
// device identities, each in real-world release order.
//
// Slice position is the chronological rank. "Everything up to and including
// device X" is a prefix of a table, so insertion order must be preserved by
// anything that constructs or loads a catalogue.
package catalog

import "fmt"

// AndroidVersion is one Android platform release to impersonate.
type AndroidVersion struct {
	Label   string `json:"label" yaml:"label"`
	Release string `json:"release" yaml:"release"`
	SDK     int    `json:"sdk" yaml:"sdk"`
}

// FeatureGroup is the set of feature-flag strings introduced at one device
// generation. Flag order within a group is preserved.
type FeatureGroup struct {
	Label string   `json:"label" yaml:"label"`
	Flags []string `json:"flags" yaml:"flags"`
}

// DeviceEntry is one spoofable device identity. Properties holds raw build
// property overrides (brand, model, fingerprint). FeatureGroup references a
// FeatureGroup by label; it is resolved by lookup, never by containment.
// Version is nil for the sentinel "None" device.
type DeviceEntry struct {
	Name         string            `json:"name"`
	Properties   map[string]string `json:"properties"`
	FeatureGroup string            `json:"feature_group"`
	Version      *AndroidVersion   `json:"version,omitempty"`
}

// Catalog is the immutable set of three tables. All lookups are pure reads,
// so a Catalog is safe for unsynchronized concurrent use.
type Catalog struct {
	versions []AndroidVersion
	groups   []FeatureGroup
	devices  []DeviceEntry

	defaultDevice   string
	defaultFeatures map[string]bool
}

// New constructs a Catalog from the given tables. The slices are copied;
// their order is taken as the chronological-release order. The default
// feature set for defaultDevice is computed once here.
func New(versions []AndroidVersion, groups []FeatureGroup, devices []DeviceEntry, defaultDevice string) *Catalog {
	c := &Catalog{
		versions:      append([]AndroidVersion(nil), versions...),
		groups:        append([]FeatureGroup(nil), groups...),
		devices:       append([]DeviceEntry(nil), devices...),
		defaultDevice: defaultDevice,
	}
	c.defaultFeatures = c.FeaturesForDevice(defaultDevice)
	return c
}

// VersionByLabel returns the version record with the exact (case-sensitive)
// label, or false if no such record exists.
func (c *Catalog) VersionByLabel(label string) (AndroidVersion, bool) {
	for _, v := range c.versions {
		if v.Label == label {
			return v, true
		}
	}
	return AndroidVersion{}, false
}

// DeviceByName returns the device with the exact name, or false on a miss.
// The empty string is a valid query that always misses.
func (c *Catalog) DeviceByName(name string) (DeviceEntry, bool) {
	for _, d := range c.devices {
		if d.Name == name {
			return d, true
		}
	}
	return DeviceEntry{}, false
}

// DeviceNames returns all device names in release order.
func (c *Catalog) DeviceNames() []string {
	names := make([]string, len(c.devices))
	for i, d := range c.devices {
		names[i] = d.Name
	}
	return names
}

// Devices returns a copy of the device table in release order.
func (c *Catalog) Devices() []DeviceEntry {
	return append([]DeviceEntry(nil), c.devices...)
}

// Versions returns a copy of the version table in release order.
func (c *Catalog) Versions() []AndroidVersion {
	return append([]AndroidVersion(nil), c.versions...)
}

// Groups returns a copy of the feature-group table in release order.
func (c *Catalog) Groups() []FeatureGroup {
	return append([]FeatureGroup(nil), c.groups...)
}

// GroupsThrough returns every feature group at or before the position of
// label in the group table, in table order. An unknown label yields an empty
// slice: a device whose group reference does not resolve simply has no
// features.
func (c *Catalog) GroupsThrough(label string) []FeatureGroup {
	for i, g := range c.groups {
		if g.Label == label {
			return append([]FeatureGroup(nil), c.groups[:i+1]...)
		}
	}
	return nil
}

// FeaturesForDevice returns the cumulative feature-flag set for the named
// device: every flag of every group released up to and including the device's
// group. Any miss along the way (unknown device, unresolved group reference)
// yields an empty set.
func (c *Catalog) FeaturesForDevice(name string) map[string]bool {
	set := make(map[string]bool)
	dev, ok := c.DeviceByName(name)
	if !ok {
		return set
	}
	for _, g := range c.GroupsThrough(dev.FeatureGroup) {
		for _, flag := range g.Flags {
			set[flag] = true
		}
	}
	return set
}

// DefaultDevice returns the name seeding the initial selection.
func (c *Catalog) DefaultDevice() string {
	return c.defaultDevice
}

// DefaultFeatures returns a copy of the feature set cumulative up to the
// default device's group, computed once at construction.
func (c *Catalog) DefaultFeatures() map[string]bool {
	out := make(map[string]bool, len(c.defaultFeatures))
	for k, v := range c.defaultFeatures {
		out[k] = v
	}
	return out
}

// Validate reports catalogue-consistency problems: duplicate labels or
// device names, and group references that resolve to nothing. The sentinel
// group label "None" is intentionally absent from the group table and is not
// reported. Runtime lookups never consult Validate; a broken reference still
// degrades to an empty feature set.
func (c *Catalog) Validate() []error {
	var errs []error

	seenVersions := make(map[string]bool, len(c.versions))
	for _, v := range c.versions {
		if seenVersions[v.Label] {
			errs = append(errs, fmt.Errorf("duplicate version label %q", v.Label))
		}
		seenVersions[v.Label] = true
	}

	seenGroups := make(map[string]bool, len(c.groups))
	for _, g := range c.groups {
		if seenGroups[g.Label] {
			errs = append(errs, fmt.Errorf("duplicate feature group label %q", g.Label))
		}
		seenGroups[g.Label] = true
	}

	seenDevices := make(map[string]bool, len(c.devices))
	for _, d := range c.devices {
		if seenDevices[d.Name] {
			errs = append(errs, fmt.Errorf("duplicate device name %q", d.Name))
		}
		seenDevices[d.Name] = true

		if d.FeatureGroup != SentinelGroup && !seenGroupLabel(c.groups, d.FeatureGroup) {
			errs = append(errs, fmt.Errorf("device %q references unknown feature group %q", d.Name, d.FeatureGroup))
		}
	}

	return errs
}

func seenGroupLabel(groups []FeatureGroup, label string) bool {
	for _, g := range groups {
		if g.Label == label {
			return true
		}
	}
	return false
}
