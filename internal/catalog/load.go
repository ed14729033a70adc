package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileCatalog is the YAML document shape for a custom catalogue. YAML
// sequences keep document order, which satisfies the table-position-is-
// chronology contract: list devices and groups oldest first.
type fileCatalog struct {
	Versions      []AndroidVersion `yaml:"versions"`
	FeatureGroups []FeatureGroup   `yaml:"feature_groups"`
	Devices       []fileDevice     `yaml:"devices"`
	DefaultDevice string           `yaml:"default_device"`
}

// fileDevice references its version by label, mirroring how devices
// reference feature groups. An empty or unresolved label means no version.
type fileDevice struct {
	Name         string            `yaml:"name"`
	Properties   map[string]string `yaml:"properties"`
	FeatureGroup string            `yaml:"feature_group"`
	Version      string            `yaml:"version,omitempty"`
}

// Load reads a YAML catalogue file. Consistency problems (duplicate names,
// dangling references) are returned as warnings, never as a failure: loaded
// catalogues keep the same degrade-to-empty lookup behavior as the built-in
// one. Only unreadable or unparseable files fail.
func Load(path string) (*Catalog, []error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading catalogue %s: %w", path, err)
	}

	var fc fileCatalog
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, nil, fmt.Errorf("parsing catalogue %s: %w", path, err)
	}
	if len(fc.Devices) == 0 {
		return nil, nil, fmt.Errorf("catalogue %s: at least one device is required", path)
	}

	var warns []error

	devices := make([]DeviceEntry, 0, len(fc.Devices))
	for _, fd := range fc.Devices {
		dev := DeviceEntry{
			Name:         fd.Name,
			Properties:   fd.Properties,
			FeatureGroup: fd.FeatureGroup,
		}
		if dev.Properties == nil {
			dev.Properties = map[string]string{}
		}
		if fd.Version != "" {
			resolved := false
			for i := range fc.Versions {
				if fc.Versions[i].Label == fd.Version {
					v := fc.Versions[i]
					dev.Version = &v
					resolved = true
					break
				}
			}
			if !resolved {
				warns = append(warns, fmt.Errorf("device %q references unknown version %q", fd.Name, fd.Version))
			}
		}
		devices = append(devices, dev)
	}

	defaultDevice := fc.DefaultDevice
	if defaultDevice == "" {
		defaultDevice = devices[len(devices)-1].Name
	} else if !hasDevice(devices, defaultDevice) {
		warns = append(warns, fmt.Errorf("default device %q not in device table", defaultDevice))
	}

	c := New(fc.Versions, fc.FeatureGroups, devices, defaultDevice)
	warns = append(warns, c.Validate()...)
	return c, warns, nil
}

func hasDevice(devices []DeviceEntry, name string) bool {
	for _, d := range devices {
		if d.Name == name {
			return true
		}
	}
	return false
}
