package hal

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a hardware interface version, major in the high byte and minor
// in the low byte.
type Version uint32

// MakeVersion builds a Version from its parts.
func MakeVersion(major, minor uint8) Version {
	return Version(uint32(major)<<8 | uint32(minor))
}

// Module API versions.
const (
	ModuleAPIVersion1_0 Version = 1<<8 | 0
	ModuleAPIVersion2_0 Version = 2<<8 | 0
	ModuleAPIVersion2_4 Version = 2<<8 | 4
)

// Device API versions.
const (
	DeviceAPIVersion1_0 Version = 1<<8 | 0
	DeviceAPIVersion2_0 Version = 2<<8 | 0
	DeviceAPIVersion3_0 Version = 3<<8 | 0
	DeviceAPIVersion3_2 Version = 3<<8 | 2
	DeviceAPIVersion3_3 Version = 3<<8 | 3
)

// Major returns the major component.
func (v Version) Major() uint8 { return uint8(v >> 8) }

// Minor returns the minor component.
func (v Version) Minor() uint8 { return uint8(v) }

// String renders the version as "major.minor".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major(), v.Minor())
}

// ParseVersion parses "major.minor".
func ParseVersion(s string) (Version, error) {
	majorStr, minorStr, ok := strings.Cut(strings.TrimSpace(s), ".")
	if !ok {
		return 0, fmt.Errorf("hal: invalid version %q", s)
	}
	major, err := strconv.ParseUint(majorStr, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("hal: invalid major version in %q: %w", s, err)
	}
	minor, err := strconv.ParseUint(minorStr, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("hal: invalid minor version in %q: %w", s, err)
	}
	return MakeVersion(uint8(major), uint8(minor)), nil
}

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := ParseVersion(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
