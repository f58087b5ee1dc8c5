package metadata

import (
	"fmt"
	"sort"
)

// Tag identifies a metadata entry. The upper 16 bits select the section, the
// lower 16 bits the index within the section.
type Tag uint32

// Section identifies a group of tags.
type Section uint16

// Sections used by the registry.
const (
	SectionControl    Section = 1
	SectionFlashInfo  Section = 5
	SectionLens       Section = 8
	SectionLensInfo   Section = 9
	SectionRequest    Section = 12
	SectionSensor     Section = 14
	SectionSensorInfo Section = 15
	SectionInfo       Section = 21

	// SectionVendor is the first section reserved for vendor tags.
	SectionVendor Section = 0x8000
)

// Start returns the first tag of the section.
func (s Section) Start() Tag {
	return Tag(uint32(s) << 16)
}

// Section returns the section the tag belongs to.
func (t Tag) Section() Section {
	return Section(t >> 16)
}

// IsVendor reports whether the tag lies in the vendor range.
func (t Tag) IsVendor() bool {
	return t.Section() >= SectionVendor
}

// Control section tags.
const (
	ControlAEAvailableModes    = Tag(uint32(SectionControl)<<16 | 19)
	ControlAECompensationStep  = Tag(uint32(SectionControl)<<16 | 22)
	ControlAFAvailableModes    = Tag(uint32(SectionControl)<<16 | 23)
	ControlAvailableEffects    = Tag(uint32(SectionControl)<<16 | 24)
	ControlAvailableSceneModes = Tag(uint32(SectionControl)<<16 | 25)
	ControlAWBAvailableModes   = Tag(uint32(SectionControl)<<16 | 27)
	ControlMaxRegions          = Tag(uint32(SectionControl)<<16 | 28)
	ControlAELockAvailable     = Tag(uint32(SectionControl)<<16 | 36)
	ControlAWBLockAvailable    = Tag(uint32(SectionControl)<<16 | 37)
	ControlAvailableModes      = Tag(uint32(SectionControl)<<16 | 38)
)

// Tags from other sections.
const (
	FlashInfoAvailable            = Tag(uint32(SectionFlashInfo) << 16)
	LensFacing                    = Tag(uint32(SectionLens)<<16 | 5)
	LensInfoAvailableFocalLengths = Tag(uint32(SectionLensInfo)<<16 | 2)
	RequestAvailableCapabilities  = Tag(uint32(SectionRequest)<<16 | 12)
	SensorOrientation             = Tag(uint32(SectionSensor)<<16 | 14)
	SensorInfoExposureTimeRange   = Tag(uint32(SectionSensorInfo)<<16 | 3)
	InfoSupportedHardwareLevel    = Tag(uint32(SectionInfo) << 16)
)

// Control mode values for ControlAvailableModes.
const (
	ControlModeOff          uint8 = 0
	ControlModeAuto         uint8 = 1
	ControlModeUseSceneMode uint8 = 2
	ControlModeOffKeepState uint8 = 3
)

// Lock availability values for ControlAELockAvailable and ControlAWBLockAvailable.
const (
	LockAvailableFalse uint8 = 0
	LockAvailableTrue  uint8 = 1
)

// Scene mode values for ControlAvailableSceneModes.
const (
	SceneModeDisabled uint8 = iota
	SceneModeFacePriority
	SceneModeAction
	SceneModePortrait
	SceneModeLandscape
	SceneModeNight
	SceneModeNightPortrait
	SceneModeTheatre
	SceneModeBeach
	SceneModeSnow
	SceneModeSunset
	SceneModeSteadyPhoto
	SceneModeFireworks
	SceneModeSports
	SceneModeParty
	SceneModeCandlelight
	SceneModeBarcode
	SceneModeHighSpeedVideo
	SceneModeHDR
)

var sceneModeNames = []string{
	"disabled", "face-priority", "action", "portrait", "landscape", "night",
	"night-portrait", "theatre", "beach", "snow", "sunset", "steady-photo",
	"fireworks", "sports", "party", "candlelight", "barcode",
	"high-speed-video", "hdr",
}

var controlModeNames = []string{"off", "auto", "use-scene-mode", "off-keep-state"}

// SceneModeName returns the name of a scene mode value.
func SceneModeName(v uint8) string {
	if int(v) < len(sceneModeNames) {
		return sceneModeNames[v]
	}
	return fmt.Sprintf("scene-mode(%d)", v)
}

// ParseSceneMode parses a scene mode name.
func ParseSceneMode(name string) (uint8, error) {
	for i, n := range sceneModeNames {
		if n == name {
			return uint8(i), nil
		}
	}
	return 0, fmt.Errorf("metadata: unknown scene mode %q", name)
}

// ControlModeName returns the name of a control mode value.
func ControlModeName(v uint8) string {
	if int(v) < len(controlModeNames) {
		return controlModeNames[v]
	}
	return fmt.Sprintf("control-mode(%d)", v)
}

// ParseControlMode parses a control mode name.
func ParseControlMode(name string) (uint8, error) {
	for i, n := range controlModeNames {
		if n == name {
			return uint8(i), nil
		}
	}
	return 0, fmt.Errorf("metadata: unknown control mode %q", name)
}

type tagInfo struct {
	name string
	typ  Type
}

var registry = map[Tag]tagInfo{
	ControlAEAvailableModes:       {"android.control.aeAvailableModes", TypeByte},
	ControlAECompensationStep:     {"android.control.aeCompensationStep", TypeRational},
	ControlAFAvailableModes:       {"android.control.afAvailableModes", TypeByte},
	ControlAvailableEffects:       {"android.control.availableEffects", TypeByte},
	ControlAvailableSceneModes:    {"android.control.availableSceneModes", TypeByte},
	ControlAWBAvailableModes:      {"android.control.awbAvailableModes", TypeByte},
	ControlMaxRegions:             {"android.control.maxRegions", TypeInt32},
	ControlAELockAvailable:        {"android.control.aeLockAvailable", TypeByte},
	ControlAWBLockAvailable:       {"android.control.awbLockAvailable", TypeByte},
	ControlAvailableModes:         {"android.control.availableModes", TypeByte},
	FlashInfoAvailable:            {"android.flash.info.available", TypeByte},
	LensFacing:                    {"android.lens.facing", TypeByte},
	LensInfoAvailableFocalLengths: {"android.lens.info.availableFocalLengths", TypeFloat},
	RequestAvailableCapabilities:  {"android.request.availableCapabilities", TypeByte},
	SensorOrientation:             {"android.sensor.orientation", TypeInt32},
	SensorInfoExposureTimeRange:   {"android.sensor.info.exposureTimeRange", TypeInt64},
	InfoSupportedHardwareLevel:    {"android.info.supportedHardwareLevel", TypeByte},
}

var byName = func() map[string]Tag {
	m := make(map[string]Tag, len(registry))
	for tag, info := range registry {
		m[info.name] = tag
	}
	return m
}()

// TypeOf returns the registered type of a tag.
func TypeOf(tag Tag) (Type, bool) {
	info, ok := registry[tag]
	return info.typ, ok
}

// LookupTag resolves a registered tag by its fully qualified name.
func LookupTag(name string) (Tag, bool) {
	tag, ok := byName[name]
	return tag, ok
}

// KnownTags returns all registered tags in ascending order.
func KnownTags() []Tag {
	tags := make([]Tag, 0, len(registry))
	for tag := range registry {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// String returns the registered name, or the hex value for unknown tags.
func (t Tag) String() string {
	if info, ok := registry[t]; ok {
		return info.name
	}
	return fmt.Sprintf("0x%08x", uint32(t))
}
