package module

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jonwraymond/camhal/hal"
	"github.com/jonwraymond/camhal/metadata"
)

// fakeModule is a hardware module with fixed per-device info that counts
// CameraInfo calls.
type fakeModule struct {
	common    hal.Common
	infos     map[int]hal.Info
	infoErr   map[int]error
	delay     time.Duration
	infoCalls atomic.Int32

	mu        sync.Mutex
	callbacks hal.Callbacks
	torch     map[string]bool
	openErr   error
}

func newFakeModule(moduleVersion hal.Version) *fakeModule {
	return &fakeModule{
		common: hal.Common{
			ModuleAPIVersion: moduleVersion,
			HALAPIVersion:    hal.MakeVersion(1, 0),
			ID:               "fake",
			Name:             "Fake Camera Module",
			Author:           "camhal",
			DSO:              "libfake.so",
		},
		infos:   map[int]hal.Info{},
		infoErr: map[int]error{},
		torch:   map[string]bool{},
	}
}

func (f *fakeModule) withDevice(id int, deviceVersion hal.Version, chars *metadata.Metadata) *fakeModule {
	f.infos[id] = hal.Info{
		Facing:                hal.FacingBack,
		Orientation:           90,
		DeviceVersion:         deviceVersion,
		StaticCharacteristics: chars,
		ResourceCost:          50,
	}
	return f
}

func (f *fakeModule) Common() hal.Common   { return f.common }
func (f *fakeModule) NumberOfCameras() int { return len(f.infos) }

func (f *fakeModule) CameraInfo(id int) (hal.Info, error) {
	f.infoCalls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if err := f.infoErr[id]; err != nil {
		return hal.Info{}, err
	}
	info, ok := f.infos[id]
	if !ok {
		return hal.Info{}, hal.StatusInvalid
	}
	return info, nil
}

func (f *fakeModule) Open(id string) (hal.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.openErr != nil {
		return nil, f.openErr
	}
	return fakeDevice{id: id, version: hal.DeviceAPIVersion3_2}, nil
}

func (f *fakeModule) OpenLegacy(id string, v hal.Version) (hal.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.openErr != nil {
		return nil, f.openErr
	}
	return fakeDevice{id: id, version: v}, nil
}

func (f *fakeModule) SetCallbacks(cb hal.Callbacks) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callbacks = cb
	return nil
}

func (f *fakeModule) SetTorchMode(id string, enabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.torch[id] = enabled
	return nil
}

type fakeDevice struct {
	id      string
	version hal.Version
}

func (d fakeDevice) ID() string           { return d.id }
func (d fakeDevice) Version() hal.Version { return d.version }
func (d fakeDevice) Close() error         { return nil }

// vendorModule adds a vendor tag table to fakeModule.
type vendorModule struct {
	*fakeModule
	ops hal.VendorTagOps
}

func (v vendorModule) VendorTagOps() hal.VendorTagOps { return v.ops }

// mockModule is a testify mock of hal.Module for call-level assertions.
type mockModule struct {
	mock.Mock
}

func (m *mockModule) Common() hal.Common {
	return m.Called().Get(0).(hal.Common)
}

func (m *mockModule) NumberOfCameras() int {
	return m.Called().Int(0)
}

func (m *mockModule) CameraInfo(id int) (hal.Info, error) {
	args := m.Called(id)
	return args.Get(0).(hal.Info), args.Error(1)
}

func (m *mockModule) Open(id string) (hal.Device, error) {
	args := m.Called(id)
	dev, _ := args.Get(0).(hal.Device)
	return dev, args.Error(1)
}

func (m *mockModule) OpenLegacy(id string, v hal.Version) (hal.Device, error) {
	args := m.Called(id, v)
	dev, _ := args.Get(0).(hal.Device)
	return dev, args.Error(1)
}

func (m *mockModule) SetCallbacks(cb hal.Callbacks) error {
	return m.Called(cb).Error(0)
}

func (m *mockModule) SetTorchMode(id string, enabled bool) error {
	return m.Called(id, enabled).Error(0)
}

func sceneModes(t *testing.T, modes ...uint8) *metadata.Metadata {
	t.Helper()
	md := metadata.New()
	if len(modes) > 0 {
		require.NoError(t, md.UpdateBytes(metadata.ControlAvailableSceneModes, modes...))
	}
	return md
}
