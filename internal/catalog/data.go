package catalog

// SentinelDevice is the "spoof nothing" entry: no properties, no version,
// and a group label that deliberately resolves to no feature group.
const SentinelDevice = "None"

// SentinelGroup is the group label carried by the sentinel device.
const SentinelGroup = "None"

// DefaultDevice is the built-in catalogue's initial selection. The newest
// device unlocks the full cumulative feature set.
const DefaultDevice = "Pixel 8 Pro"

var builtinVersions = []AndroidVersion{
	{Label: "O 8.1.0", Release: "8.1.0", SDK: 27},
	{Label: "P 9.0", Release: "9", SDK: 28},
	{Label: "Q 10.0", Release: "10", SDK: 29},
	{Label: "R 11.0", Release: "11", SDK: 30},
	{Label: "S 12.0", Release: "12", SDK: 31},
	{Label: "T 13.0", Release: "13", SDK: 33},
	{Label: "U 14.0", Release: "14", SDK: 34},
}

var builtinGroups = []FeatureGroup{
	{Label: "Nexus", Flags: []string{
		"com.google.android.apps.photos.NEXUS_PRELOAD",
		"com.google.android.apps.photos.nexus_preload",
	}},
	{Label: "Pixel 2016", Flags: []string{
		"com.google.android.feature.PIXEL_EXPERIENCE",
		"com.google.android.apps.photos.PIXEL_PRELOAD",
	}},
	{Label: "Pixel 2017", Flags: []string{
		"com.google.android.feature.PIXEL_2017_EXPERIENCE",
		"com.google.android.apps.photos.PIXEL_2017_PRELOAD",
	}},
	{Label: "Pixel 2018", Flags: []string{
		"com.google.android.feature.PIXEL_2018_EXPERIENCE",
		"com.google.android.apps.photos.PIXEL_2018_PRELOAD",
	}},
	{Label: "Pixel 2019", Flags: []string{
		"com.google.android.feature.PIXEL_2019_EXPERIENCE",
		"com.google.android.apps.photos.PIXEL_2019_PRELOAD",
	}},
	{Label: "Pixel 2020", Flags: []string{
		"com.google.android.feature.PIXEL_2020_EXPERIENCE",
		"com.google.android.apps.photos.PIXEL_2020_PRELOAD",
	}},
	{Label: "Pixel 2021", Flags: []string{
		"com.google.android.feature.PIXEL_2021_EXPERIENCE",
		"com.google.android.apps.photos.PIXEL_2021_PRELOAD",
	}},
	{Label: "Pixel 2022", Flags: []string{
		"com.google.android.feature.PIXEL_2022_EXPERIENCE",
		"com.google.android.apps.photos.PIXEL_2022_PRELOAD",
	}},
	{Label: "Pixel 2023", Flags: []string{
		"com.google.android.feature.PIXEL_2023_EXPERIENCE",
		"com.google.android.apps.photos.PIXEL_2023_PRELOAD",
	}},
}

var builtinDevices = []DeviceEntry{
	{
		Name:         SentinelDevice,
		Properties:   map[string]string{},
		FeatureGroup: SentinelGroup,
	},
	pixel("Pixel XL", "marlin", "Pixel 2016", "O 8.1.0",
		"google/marlin/marlin:10/QP1A.191005.007.A3/5972272:user/release-keys"),
	pixel("Pixel 2 XL", "taimen", "Pixel 2017", "P 9.0",
		"google/taimen/taimen:11/RP1A.201005.004.A1/6934943:user/release-keys"),
	pixel("Pixel 3 XL", "crosshatch", "Pixel 2018", "Q 10.0",
		"google/crosshatch/crosshatch:12/SP1A.210812.016.C2/8618562:user/release-keys"),
	pixel("Pixel 4 XL", "coral", "Pixel 2019", "R 11.0",
		"google/coral/coral:13/TP1A.221005.002/9012097:user/release-keys"),
	pixel("Pixel 5", "redfin", "Pixel 2020", "R 11.0",
		"google/redfin/redfin:13/TQ3A.230901.001/10750268:user/release-keys"),
	pixel("Pixel 6 Pro", "raven", "Pixel 2021", "S 12.0",
		"google/raven/raven:14/UP1A.231005.007/10754064:user/release-keys"),
	pixel("Pixel 7 Pro", "cheetah", "Pixel 2022", "T 13.0",
		"google/cheetah/cheetah:14/UP1A.231005.007/10754064:user/release-keys"),
	pixel("Pixel 8 Pro", "husky", "Pixel 2023", "U 14.0",
		"google/husky/husky:14/UP1A.231005.007/10754064:user/release-keys"),
}

// builtin is constructed once at process start; nothing mutates it afterwards.
var builtin = New(builtinVersions, builtinGroups, builtinDevices, DefaultDevice)

// Builtin returns the built-in catalogue.
func Builtin() *Catalog {
	return builtin
}

// pixel assembles a Google device entry. The version label must exist in the
// built-in version table; a typo here is a programming error, not runtime input.
func pixel(model, device, group, versionLabel, fingerprint string) DeviceEntry {
	return DeviceEntry{
		Name: model,
		Properties: map[string]string{
			"ro.product.brand":        "google",
			"ro.product.manufacturer": "Google",
			"ro.product.model":        model,
			"ro.product.device":       device,
			"ro.build.product":        device,
			"ro.build.fingerprint":    fingerprint,
		},
		FeatureGroup: group,
		Version:      mustVersion(versionLabel),
	}
}

func mustVersion(label string) *AndroidVersion {
	for i := range builtinVersions {
		if builtinVersions[i].Label == label {
			v := builtinVersions[i]
			return &v
		}
	}
	panic("catalog: unknown built-in version label " + label)
}
