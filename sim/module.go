package sim

import (
	"slices"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/jonwraymond/camhal/hal"
	"github.com/jonwraymond/camhal/resilience"
)

// Module is a simulated hardware module.
//
// Contract:
//   - Concurrency: all methods are safe for concurrent use.
//   - Callbacks: invoked synchronously, never while holding internal locks.
type Module struct {
	common   hal.Common
	cameras  []camera
	vendor   *VendorTags
	slots    *resilience.Bulkhead
	maxOpen  int
	infoHits atomic.Int64
	opens    atomic.Int64

	mu        sync.Mutex
	open      map[int]*Device
	torch     map[int]bool
	callbacks hal.Callbacks
}

type camera struct {
	info    hal.Info
	flash   bool
	infoErr error
	openErr error
}

var (
	_ hal.Module            = (*Module)(nil)
	_ hal.VendorTagProvider = (*Module)(nil)
)

// New builds a module from a validated descriptor.
func New(d Descriptor) (*Module, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	vendor, err := d.vendorTable()
	if err != nil {
		return nil, err
	}

	maxOpen := d.MaxOpenCameras
	if maxOpen == 0 {
		maxOpen = len(d.Cameras)
	}

	m := &Module{
		common: hal.Common{
			ModuleAPIVersion: d.Module.APIVersion,
			HALAPIVersion:    d.Module.HALAPIVersion,
			ID:               d.Module.ID,
			Name:             d.Module.Name,
			Author:           d.Module.Author,
			DSO:              d.Source,
		},
		vendor:  vendor,
		slots:   resilience.NewBulkhead(resilience.BulkheadConfig{MaxConcurrent: maxOpen}),
		maxOpen: maxOpen,
		open:    make(map[int]*Device),
		torch:   make(map[int]bool),
	}

	for _, c := range d.Cameras {
		facing, _ := hal.ParseFacing(c.Facing)
		chars, err := c.characteristics(vendor)
		if err != nil {
			return nil, err
		}
		infoStatus, _ := hal.ParseStatus(c.InfoError)
		openStatus, _ := hal.ParseStatus(c.OpenError)
		m.cameras = append(m.cameras, camera{
			info: hal.Info{
				Facing:                facing,
				Orientation:           c.Orientation,
				DeviceVersion:         c.DeviceVersion,
				StaticCharacteristics: chars,
				ResourceCost:          c.ResourceCost,
				ConflictingDevices:    slices.Clone(c.Conflicting),
			},
			flash:   c.HasFlash,
			infoErr: infoStatus.Err(),
			openErr: openStatus.Err(),
		})
	}
	return m, nil
}

// Load reads a descriptor file and builds a module from it.
func Load(path string) (*Module, error) {
	d, err := LoadDescriptor(path)
	if err != nil {
		return nil, err
	}
	return New(d)
}

func parseID(id string) (int, bool) {
	n, err := strconv.Atoi(id)
	if err != nil || n < 0 || strconv.Itoa(n) != id {
		return 0, false
	}
	return n, true
}

func (m *Module) lookup(id string) (int, *camera, error) {
	n, ok := parseID(id)
	if !ok || n >= len(m.cameras) {
		return 0, nil, hal.StatusInvalid
	}
	return n, &m.cameras[n], nil
}

// Common returns the module identity.
func (m *Module) Common() hal.Common { return m.common }

// NumberOfCameras returns the number of cameras in the descriptor.
func (m *Module) NumberOfCameras() int { return len(m.cameras) }

// CameraInfo returns the info of camera id. Each call hands out a fresh
// copy of the characteristics, the way a module fills a new buffer.
func (m *Module) CameraInfo(id int) (hal.Info, error) {
	m.infoHits.Add(1)
	if id < 0 || id >= len(m.cameras) {
		return hal.Info{}, hal.StatusInvalid
	}
	c := m.cameras[id]
	if c.infoErr != nil {
		return hal.Info{}, c.infoErr
	}
	info := c.info
	info.StaticCharacteristics = c.info.StaticCharacteristics.Clone()
	info.ConflictingDevices = slices.Clone(c.info.ConflictingDevices)
	return info, nil
}

// Open opens camera id at its own device version.
func (m *Module) Open(id string) (hal.Device, error) {
	n, c, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	return m.openDevice(n, c, c.info.DeviceVersion)
}

// OpenLegacy opens camera id at an older device version.
// Versions newer than the camera's own fail with hal.StatusInvalid.
func (m *Module) OpenLegacy(id string, halVersion hal.Version) (hal.Device, error) {
	n, c, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	if halVersion < hal.DeviceAPIVersion1_0 || halVersion > c.info.DeviceVersion {
		return nil, hal.StatusInvalid
	}
	return m.openDevice(n, c, halVersion)
}

func (m *Module) openDevice(n int, c *camera, version hal.Version) (hal.Device, error) {
	m.opens.Add(1)
	if c.openErr != nil {
		return nil, c.openErr
	}

	m.mu.Lock()
	if _, busy := m.open[n]; busy {
		m.mu.Unlock()
		return nil, hal.StatusBusy
	}
	for _, other := range c.info.ConflictingDevices {
		if o, _ := parseID(other); m.open[o] != nil {
			m.mu.Unlock()
			return nil, hal.StatusBusy
		}
	}
	if !m.slots.TryAcquire() {
		m.mu.Unlock()
		return nil, hal.StatusUsers
	}

	dev := &Device{
		module:  m,
		index:   n,
		id:      strconv.Itoa(n),
		version: version,
		session: uuid.NewString(),
	}
	m.open[n] = dev
	// Opening the camera takes over its flash unit.
	delete(m.torch, n)
	cb := m.callbacks
	m.mu.Unlock()

	if c.flash && cb != nil {
		cb.TorchModeStatusChange(dev.id, hal.TorchStatusNotAvailable)
	}
	return dev, nil
}

func (m *Module) release(d *Device) {
	m.mu.Lock()
	delete(m.open, d.index)
	cb := m.callbacks
	m.mu.Unlock()
	m.slots.Release()

	if m.cameras[d.index].flash && cb != nil {
		cb.TorchModeStatusChange(d.id, hal.TorchStatusAvailableOff)
	}
}

// SetCallbacks registers the notification sink. A nil sink disables
// notifications. Each camera with a flash unit immediately reports its
// torch status.
func (m *Module) SetCallbacks(cb hal.Callbacks) error {
	m.mu.Lock()
	m.callbacks = cb
	statuses := make(map[string]hal.TorchStatus)
	for n, c := range m.cameras {
		if !c.flash {
			continue
		}
		statuses[strconv.Itoa(n)] = m.torchStatusLocked(n)
	}
	m.mu.Unlock()

	if cb == nil {
		return nil
	}
	for n := range m.cameras {
		id := strconv.Itoa(n)
		if s, ok := statuses[id]; ok {
			cb.TorchModeStatusChange(id, s)
		}
	}
	return nil
}

func (m *Module) torchStatusLocked(n int) hal.TorchStatus {
	switch {
	case m.open[n] != nil:
		return hal.TorchStatusNotAvailable
	case m.torch[n]:
		return hal.TorchStatusAvailableOn
	default:
		return hal.TorchStatusAvailableOff
	}
}

// SetTorchMode turns the flash unit of camera id on or off.
func (m *Module) SetTorchMode(id string, enabled bool) error {
	n, c, err := m.lookup(id)
	if err != nil {
		return err
	}
	if !c.flash {
		return hal.StatusNoSys
	}

	m.mu.Lock()
	if m.open[n] != nil {
		m.mu.Unlock()
		return hal.StatusBusy
	}
	changed := m.torch[n] != enabled
	m.torch[n] = enabled
	status := m.torchStatusLocked(n)
	cb := m.callbacks
	m.mu.Unlock()

	if changed && cb != nil {
		cb.TorchModeStatusChange(id, status)
	}
	return nil
}

// TorchMode reports whether the torch of camera id is on.
func (m *Module) TorchMode(id string) bool {
	n, ok := parseID(id)
	if !ok {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.torch[n]
}

// VendorTagOps returns the vendor tag table, or nil when the descriptor
// declares no vendor tags.
func (m *Module) VendorTagOps() hal.VendorTagOps {
	if m.vendor == nil {
		return nil
	}
	return m.vendor
}

// Slots returns the bulkhead bounding simultaneously open cameras.
func (m *Module) Slots() *resilience.Bulkhead { return m.slots }

// OpenDevices returns the ids of the open cameras in ascending order.
func (m *Module) OpenDevices() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int, 0, len(m.open))
	for n := range m.open {
		ids = append(ids, n)
	}
	slices.Sort(ids)
	out := make([]string, len(ids))
	for i, n := range ids {
		out[i] = strconv.Itoa(n)
	}
	return out
}

// Stats reports how often the module was queried.
type Stats struct {
	InfoCalls int64
	OpenCalls int64
}

// Stats returns the call counters.
func (m *Module) Stats() Stats {
	return Stats{InfoCalls: m.infoHits.Load(), OpenCalls: m.opens.Load()}
}

// Device is an open simulated camera.
type Device struct {
	module  *Module
	index   int
	id      string
	version hal.Version
	session string
	closed  atomic.Bool
}

var _ hal.Device = (*Device)(nil)

// ID returns the camera id.
func (d *Device) ID() string { return d.id }

// Version returns the device API version the camera was opened at.
func (d *Device) Version() hal.Version { return d.version }

// Session returns the unique id of this open session.
func (d *Device) Session() string { return d.session }

// Close releases the camera. Closing twice returns ErrDeviceClosed.
func (d *Device) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return ErrDeviceClosed
	}
	d.module.release(d)
	return nil
}
