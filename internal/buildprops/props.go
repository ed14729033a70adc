// Package buildprops derives the effective build-property map reported for a
// spoofed device: the device's raw property overrides plus the version
// triple the target app reads from Build.VERSION.
package buildprops

import (
	"strconv"

	"github.com/pixeltwin-dev/pixeltwin/internal/catalog"
)

// Property keys derived from the device's Android version. SDK and SDK_INT
// carry the same numeric value, mirroring Build.VERSION where SDK is the
// deprecated string form of SDK_INT.
const (
	KeyRelease = "ro.build.version.release"
	KeySDK     = "ro.build.version.sdk"
	KeySDKInt  = "ro.build.version.sdk_int"
)

// Effective returns the full property map for a device: its raw overrides
// plus the version triple when a version is present. The sentinel device has
// no overrides and no version, so it yields an empty map.
func Effective(dev catalog.DeviceEntry) map[string]string {
	props := make(map[string]string, len(dev.Properties)+3)
	for k, v := range dev.Properties {
		props[k] = v
	}
	if dev.Version != nil {
		sdk := strconv.Itoa(dev.Version.SDK)
		props[KeyRelease] = dev.Version.Release
		props[KeySDK] = sdk
		props[KeySDKInt] = sdk
	}
	return props
}

// Get returns a single effective property value, or "" when the key has no
// override. Android getprop prints an empty string for unknown keys; callers
// treat the miss the same way.
func Get(dev catalog.DeviceEntry, key string) string {
	if v, ok := dev.Properties[key]; ok {
		return v
	}
	if dev.Version != nil {
		switch key {
		case KeyRelease:
			return dev.Version.Release
		case KeySDK, KeySDKInt:
			return strconv.Itoa(dev.Version.SDK)
		}
	}
	return ""
}
