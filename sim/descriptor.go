package sim

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/jonwraymond/camhal/hal"
	"github.com/jonwraymond/camhal/metadata"
)

// Descriptor describes a simulated hardware module.
type Descriptor struct {
	Module         ModuleInfo  `yaml:"module" toml:"module"`
	MaxOpenCameras int         `yaml:"maxOpenCameras" toml:"max_open_cameras"`
	Cameras        []Camera    `yaml:"cameras" toml:"cameras"`
	VendorTags     []VendorTag `yaml:"vendorTags" toml:"vendor_tags"`

	// Source is the file the descriptor was loaded from, if any.
	Source string `yaml:"-" toml:"-"`
}

// ModuleInfo is the identity of the simulated module.
type ModuleInfo struct {
	ID            string      `yaml:"id" toml:"id"`
	Name          string      `yaml:"name" toml:"name"`
	Author        string      `yaml:"author" toml:"author"`
	APIVersion    hal.Version `yaml:"apiVersion" toml:"api_version"`
	HALAPIVersion hal.Version `yaml:"halApiVersion" toml:"hal_api_version"`
}

// Camera describes one device. Its id is its position in Descriptor.Cameras.
type Camera struct {
	Facing        string      `yaml:"facing" toml:"facing"`
	Orientation   int         `yaml:"orientation" toml:"orientation"`
	DeviceVersion hal.Version `yaml:"deviceVersion" toml:"device_version"`
	ResourceCost  int         `yaml:"resourceCost" toml:"resource_cost"`
	Conflicting   []string    `yaml:"conflicting" toml:"conflicting"`
	HasFlash      bool        `yaml:"hasFlash" toml:"has_flash"`

	// InfoError and OpenError inject a failure, given as an errno name
	// such as "EIO". Empty means no failure.
	InfoError string `yaml:"infoError" toml:"info_error"`
	OpenError string `yaml:"openError" toml:"open_error"`

	Characteristics Characteristics `yaml:"characteristics" toml:"characteristics"`
}

// Characteristics lists the static metadata of a camera.
type Characteristics struct {
	AELockAvailable     *bool    `yaml:"aeLockAvailable" toml:"ae_lock_available"`
	AWBLockAvailable    *bool    `yaml:"awbLockAvailable" toml:"awb_lock_available"`
	AvailableSceneModes []string `yaml:"availableSceneModes" toml:"available_scene_modes"`
	AvailableModes      []string `yaml:"availableModes" toml:"available_modes"`

	// Free-form entries keyed by tag name. Names resolve against the
	// registered tags first, then against the descriptor's vendor tags
	// as "<section>.<name>".
	Bytes  map[string][]int     `yaml:"bytes" toml:"bytes"`
	Int32  map[string][]int32   `yaml:"int32" toml:"int32"`
	Int64  map[string][]int64   `yaml:"int64" toml:"int64"`
	Floats map[string][]float32 `yaml:"floats" toml:"floats"`
}

// VendorTag declares a vendor-defined metadata tag.
type VendorTag struct {
	Section string `yaml:"section" toml:"section"`
	Name    string `yaml:"name" toml:"name"`
	Type    string `yaml:"type" toml:"type"`
}

// LoadDescriptor reads a descriptor file. The format is chosen by extension.
func LoadDescriptor(path string) (Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Descriptor{}, fmt.Errorf("sim: read descriptor: %w", err)
	}

	var d Descriptor
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		d, err = ParseYAML(data)
	case ".toml":
		d, err = ParseTOML(data)
	default:
		return Descriptor{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return Descriptor{}, fmt.Errorf("%s: %w", path, err)
	}
	d.Source = path
	return d, nil
}

// ParseYAML decodes and validates a YAML descriptor. Unknown keys are rejected.
func ParseYAML(data []byte) (Descriptor, error) {
	var d Descriptor
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return Descriptor{}, fmt.Errorf("sim: parse yaml: %w", err)
	}
	return d, d.Validate()
}

// ParseTOML decodes and validates a TOML descriptor. Unknown keys are rejected.
func ParseTOML(data []byte) (Descriptor, error) {
	var d Descriptor
	md, err := toml.Decode(string(data), &d)
	if err != nil {
		return Descriptor{}, fmt.Errorf("sim: parse toml: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Descriptor{}, fmt.Errorf("%w: unknown keys %v", ErrInvalidDescriptor, undecoded)
	}
	return d, d.Validate()
}

// Validate checks the descriptor for values the simulator cannot honor.
func (d Descriptor) Validate() error {
	if d.Module.Name == "" {
		return fmt.Errorf("%w: module name is required", ErrInvalidDescriptor)
	}
	if d.Module.APIVersion == 0 {
		return fmt.Errorf("%w: module apiVersion is required", ErrInvalidDescriptor)
	}
	if d.MaxOpenCameras < 0 {
		return fmt.Errorf("%w: maxOpenCameras must not be negative", ErrInvalidDescriptor)
	}
	if len(d.Cameras) == 0 {
		return fmt.Errorf("%w: at least one camera is required", ErrInvalidDescriptor)
	}

	vendor, err := d.vendorTable()
	if err != nil {
		return err
	}

	for i, c := range d.Cameras {
		if err := c.validate(len(d.Cameras)); err != nil {
			return fmt.Errorf("%w: camera %d: %v", ErrInvalidDescriptor, i, err)
		}
		if _, err := c.characteristics(vendor); err != nil {
			return fmt.Errorf("%w: camera %d: %v", ErrInvalidDescriptor, i, err)
		}
	}
	return nil
}

func (c Camera) validate(count int) error {
	if _, err := hal.ParseFacing(c.Facing); err != nil {
		return err
	}
	if c.DeviceVersion == 0 {
		return fmt.Errorf("deviceVersion is required")
	}
	switch c.Orientation {
	case 0, 90, 180, 270:
	default:
		return fmt.Errorf("orientation %d is not a multiple of 90", c.Orientation)
	}
	if c.ResourceCost < 0 || c.ResourceCost > 100 {
		return fmt.Errorf("resourceCost %d out of range [0, 100]", c.ResourceCost)
	}
	for _, id := range c.Conflicting {
		if n, ok := parseID(id); !ok || n >= count {
			return fmt.Errorf("conflicting device %q does not exist", id)
		}
	}
	for _, name := range []string{c.InfoError, c.OpenError} {
		if _, err := hal.ParseStatus(name); err != nil {
			return err
		}
	}
	return nil
}

// lensFacing maps a facing to its android.lens.facing value.
func lensFacing(f hal.Facing) uint8 {
	switch f {
	case hal.FacingFront:
		return 0
	case hal.FacingBack:
		return 1
	default:
		return 2
	}
}

// characteristics builds the static metadata of the camera.
func (c Camera) characteristics(vendor *VendorTags) (*metadata.Metadata, error) {
	md := metadata.New()
	facing, err := hal.ParseFacing(c.Facing)
	if err != nil {
		return nil, err
	}

	var flash uint8
	if c.HasFlash {
		flash = 1
	}
	if err := md.UpdateBytes(metadata.LensFacing, lensFacing(facing)); err != nil {
		return nil, err
	}
	if err := md.UpdateInt32(metadata.SensorOrientation, int32(c.Orientation)); err != nil {
		return nil, err
	}
	if err := md.UpdateBytes(metadata.FlashInfoAvailable, flash); err != nil {
		return nil, err
	}

	ch := c.Characteristics
	for tag, v := range map[metadata.Tag]*bool{
		metadata.ControlAELockAvailable:  ch.AELockAvailable,
		metadata.ControlAWBLockAvailable: ch.AWBLockAvailable,
	} {
		if v == nil {
			continue
		}
		value := metadata.LockAvailableFalse
		if *v {
			value = metadata.LockAvailableTrue
		}
		if err := md.UpdateBytes(tag, value); err != nil {
			return nil, err
		}
	}

	if ch.AvailableSceneModes != nil {
		modes, err := parseAll(ch.AvailableSceneModes, metadata.ParseSceneMode)
		if err != nil {
			return nil, err
		}
		if err := md.UpdateBytes(metadata.ControlAvailableSceneModes, modes...); err != nil {
			return nil, err
		}
	}
	if ch.AvailableModes != nil {
		modes, err := parseAll(ch.AvailableModes, metadata.ParseControlMode)
		if err != nil {
			return nil, err
		}
		if err := md.UpdateBytes(metadata.ControlAvailableModes, modes...); err != nil {
			return nil, err
		}
	}

	for name, values := range ch.Bytes {
		tag, err := resolveTag(name, vendor, metadata.TypeByte)
		if err != nil {
			return nil, err
		}
		bs := make([]uint8, len(values))
		for i, v := range values {
			if v < 0 || v > 255 {
				return nil, fmt.Errorf("%s: value %d out of byte range", name, v)
			}
			bs[i] = uint8(v)
		}
		if err := md.UpdateBytes(tag, bs...); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}
	if err := updateAll(md, ch.Int32, vendor, metadata.TypeInt32, (*metadata.Metadata).UpdateInt32); err != nil {
		return nil, err
	}
	if err := updateAll(md, ch.Int64, vendor, metadata.TypeInt64, (*metadata.Metadata).UpdateInt64); err != nil {
		return nil, err
	}
	if err := updateAll(md, ch.Floats, vendor, metadata.TypeFloat, (*metadata.Metadata).UpdateFloat); err != nil {
		return nil, err
	}
	return md, nil
}

func updateAll[T any](md *metadata.Metadata, entries map[string][]T, vendor *VendorTags, typ metadata.Type, update func(*metadata.Metadata, metadata.Tag, ...T) error) error {
	for name, values := range entries {
		tag, err := resolveTag(name, vendor, typ)
		if err != nil {
			return err
		}
		if err := update(md, tag, values...); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// resolveTag finds the tag called name. Registered tags are type-checked
// by metadata itself; vendor tags are checked against their declared type.
func resolveTag(name string, vendor *VendorTags, typ metadata.Type) (metadata.Tag, error) {
	if tag, ok := metadata.LookupTag(name); ok {
		return tag, nil
	}
	tag, ok := vendor.lookup(name)
	if !ok {
		return 0, fmt.Errorf("unknown tag %q", name)
	}
	if declared, _ := vendor.TagType(tag); declared != typ {
		return 0, fmt.Errorf("%s: declared %s, got %s: %w", name, declared, typ, metadata.ErrTypeMismatch)
	}
	return tag, nil
}

func parseAll(names []string, parse func(string) (uint8, error)) ([]uint8, error) {
	values := make([]uint8, 0, len(names))
	for _, name := range names {
		v, err := parse(name)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}
