package hal

import (
	"fmt"

	"github.com/jonwraymond/camhal/metadata"
)

// Facing is the direction a camera points.
type Facing int

const (
	FacingBack Facing = iota
	FacingFront
	FacingExternal
)

// String returns the facing name.
func (f Facing) String() string {
	switch f {
	case FacingBack:
		return "back"
	case FacingFront:
		return "front"
	case FacingExternal:
		return "external"
	default:
		return "unknown"
	}
}

// ParseFacing parses a facing name.
func ParseFacing(s string) (Facing, error) {
	switch s {
	case "back", "":
		return FacingBack, nil
	case "front":
		return FacingFront, nil
	case "external":
		return FacingExternal, nil
	default:
		return FacingBack, fmt.Errorf("hal: unknown facing %q", s)
	}
}

// Info is the static description of one camera device.
type Info struct {
	Facing        Facing
	Orientation   int
	DeviceVersion Version

	// StaticCharacteristics describes the device's capabilities. Callers must
	// treat it as read-only.
	StaticCharacteristics *metadata.Metadata

	// ResourceCost is the share (0-100) of shared resources the device uses
	// while open.
	ResourceCost int

	// ConflictingDevices lists device ids that cannot be open at the same time.
	ConflictingDevices []string
}

// Common holds the identity fields every hardware module carries.
type Common struct {
	ModuleAPIVersion Version
	HALAPIVersion    Version
	ID               string
	Name             string
	Author           string

	// DSO is the opaque handle of the library the module was loaded from.
	DSO any
}

// DeviceStatus is reported through Callbacks when a device is added or removed.
type DeviceStatus int

const (
	DeviceStatusNotPresent DeviceStatus = iota
	DeviceStatusPresent
	DeviceStatusEnumerating
)

// TorchStatus is reported through Callbacks when torch availability changes.
type TorchStatus int

const (
	TorchStatusNotAvailable TorchStatus = iota
	TorchStatusAvailableOff
	TorchStatusAvailableOn
)

// String returns the torch status name.
func (s TorchStatus) String() string {
	switch s {
	case TorchStatusNotAvailable:
		return "not-available"
	case TorchStatusAvailableOff:
		return "off"
	case TorchStatusAvailableOn:
		return "on"
	default:
		return "unknown"
	}
}

// Callbacks receives asynchronous notifications from a hardware module.
//
// Contract:
//   - Concurrency: may be invoked from any goroutine owned by the module.
type Callbacks interface {
	DeviceStatusChange(id int, status DeviceStatus)
	TorchModeStatusChange(id string, status TorchStatus)
}

// Device is an open camera device.
type Device interface {
	// ID returns the device identifier the device was opened with.
	ID() string

	// Version returns the device API version the device was opened at.
	Version() Version

	// Close releases the device.
	Close() error
}

// VendorTagOps describes the vendor-defined metadata tags of a module.
type VendorTagOps interface {
	TagCount() int
	AllTags() []metadata.Tag
	SectionName(tag metadata.Tag) (string, bool)
	TagName(tag metadata.Tag) (string, bool)
	TagType(tag metadata.Tag) (metadata.Type, bool)
}

// Module is the function table of a camera hardware module.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Errors: failures are reported as Status values; nil means success.
type Module interface {
	// Common returns the module identity fields.
	Common() Common

	// NumberOfCameras returns the number of built-in devices.
	NumberOfCameras() int

	// CameraInfo returns the static info of a device.
	CameraInfo(id int) (Info, error)

	// Open opens a device at its default API version.
	Open(id string) (Device, error)

	// OpenLegacy opens a device at an older device API version.
	OpenLegacy(id string, halVersion Version) (Device, error)

	// SetCallbacks registers the notification sink.
	SetCallbacks(cb Callbacks) error

	// SetTorchMode turns a device's flash unit on or off.
	SetTorchMode(id string, enabled bool) error
}

// VendorTagProvider is implemented by modules that define vendor tags.
type VendorTagProvider interface {
	VendorTagOps() VendorTagOps
}
