package module

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/camhal/cache"
	"github.com/jonwraymond/camhal/hal"
	"github.com/jonwraymond/camhal/observe"
)

// Operation names recorded on spans, metrics and log lines.
const (
	OpCameraInfo   = "camera_info"
	OpOpen         = "open"
	OpOpenLegacy   = "open_legacy"
	OpSetCallbacks = "set_callbacks"
	OpSetTorchMode = "set_torch_mode"
)

// Adapter wraps a hardware module. It normalizes open errors and caches
// per-device static info for modules at module API 2.0 or later.
//
// Contract:
//   - Concurrency: all methods are safe for concurrent use.
//   - Ownership: the Adapter does not own the module; it never unloads it.
//   - Stability: every CameraInfo result for a cached device shares the same
//     locked *metadata.Metadata for the lifetime of the Adapter.
type Adapter struct {
	module hal.Module
	infos  *cache.MemoryCache[int, hal.Info]
	lookup *cache.Middleware[int, hal.Info]
	obs    *observe.Middleware
}

type options struct {
	tracer   observe.Tracer
	metrics  observe.Metrics
	logger   observe.Logger
	observer observe.Observer
}

// Option configures an Adapter.
type Option func(*options)

// WithTracer sets the tracer used for module calls.
func WithTracer(t observe.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

// WithMetrics sets the metrics recorder used for module calls.
func WithMetrics(m observe.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l observe.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithObserver takes tracer, metrics and logger from obs.
// It overrides WithTracer, WithMetrics and WithLogger.
func WithObserver(obs observe.Observer) Option {
	return func(o *options) { o.observer = obs }
}

// New creates an Adapter for m.
// It returns ErrNilModule if m is nil.
func New(m hal.Module, opts ...Option) (*Adapter, error) {
	if m == nil {
		return nil, ErrNilModule
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	obs := observe.NewMiddleware(o.tracer, o.metrics, o.logger)
	if o.observer != nil {
		var err error
		obs, err = observe.MiddlewareFromObserver(o.observer)
		if err != nil {
			return nil, fmt.Errorf("module: observer: %w", err)
		}
	}

	a := &Adapter{
		module: m,
		infos:  cache.NewMemoryCache[int, hal.Info](m.NumberOfCameras()),
		obs:    obs,
	}
	a.lookup = cache.NewMiddleware[int, hal.Info](a.infos, a.legacy, a.prepareInfo)
	return a, nil
}

// MustNew is like New but panics if m is nil.
func MustNew(m hal.Module, opts ...Option) *Adapter {
	a, err := New(m, opts...)
	if err != nil {
		panic(err)
	}
	return a
}

// legacy reports whether the module predates module API 2.0. Such modules
// are queried on every call and their info is never cached.
func (a *Adapter) legacy(int) bool {
	return a.module.Common().ModuleAPIVersion < hal.ModuleAPIVersion2_0
}

func (a *Adapter) meta(op string) observe.CallMeta {
	return observe.CallMeta{Operation: op, Module: a.module.Common().Name}
}

// CameraInfo returns the static info of device id.
//
// Negative ids fail with ErrInvalidDeviceID without reaching the module.
// Errors from the module are returned unchanged and nothing is cached.
func (a *Adapter) CameraInfo(ctx context.Context, id int) (hal.Info, error) {
	meta := a.meta(OpCameraInfo).Device(id)
	if id < 0 {
		a.obs.Logger().WithCall(meta).Warn(ctx, "rejected camera info request", observe.Field{Key: "error", Value: ErrInvalidDeviceID})
		return hal.Info{}, ErrInvalidDeviceID
	}

	legacy := a.legacy(id)
	info, hit, err := a.lookup.Execute(ctx, id, a.loadInfo)
	if err != nil {
		return hal.Info{}, err
	}
	if !legacy {
		a.obs.Metrics().RecordInfoLookup(ctx, meta, hit)
	}
	return info, nil
}

func (a *Adapter) loadInfo(ctx context.Context, id int) (hal.Info, error) {
	var info hal.Info
	err := a.obs.Call(ctx, a.meta(OpCameraInfo).Device(id), func(context.Context, observe.CallMeta) error {
		var err error
		info, err = a.module.CameraInfo(id)
		return err
	})
	if err != nil {
		return hal.Info{}, err
	}
	return info, nil
}

// prepareInfo runs once per device, on the value about to be cached. The
// module's metadata is cloned so later changes on its side are not seen.
func (a *Adapter) prepareInfo(ctx context.Context, id int, info hal.Info) (hal.Info, error) {
	chars := info.StaticCharacteristics.Clone()
	if err := DeriveCharacteristicsKeys(info.DeviceVersion, chars); err != nil {
		return hal.Info{}, fmt.Errorf("module: derive characteristics for device %d: %w", id, err)
	}
	info.StaticCharacteristics = chars.Lock()
	info.ConflictingDevices = slices.Clone(info.ConflictingDevices)

	a.obs.Logger().WithCall(a.meta(OpCameraInfo).Device(id)).Debug(ctx, "cached camera info",
		observe.Field{Key: "device_version", Value: info.DeviceVersion.String()},
		observe.Field{Key: "entries", Value: chars.Len()},
	)
	return info, nil
}

// Warm populates the info cache for every device the module reports.
// It returns the first error encountered. Legacy modules are not cached, so
// Warm only verifies that their info is readable.
func (a *Adapter) Warm(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for id := range a.module.NumberOfCameras() {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, err := a.CameraInfo(ctx, id)
			if err != nil {
				return fmt.Errorf("module: warm device %d: %w", id, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// CachedDevices returns the ids whose info is cached, in ascending order.
func (a *Adapter) CachedDevices() []int {
	return a.infos.Keys()
}

// CacheStats returns hit and miss counters of the info cache.
func (a *Adapter) CacheStats() cache.Stats {
	return a.infos.Stats()
}

// Open opens device id. Failures are narrowed by FilterOpenError.
func (a *Adapter) Open(ctx context.Context, id string) (hal.Device, error) {
	meta := a.meta(OpOpen)
	meta.DeviceID = id

	var dev hal.Device
	err := a.obs.Call(ctx, meta, func(context.Context, observe.CallMeta) error {
		var err error
		dev, err = a.module.Open(id)
		return err
	})
	if err == nil {
		return dev, nil
	}

	filtered := FilterOpenError(err)
	if !errors.Is(err, filtered) {
		a.obs.Logger().WithCall(meta).Warn(ctx, "normalized open error",
			observe.Field{Key: "error", Value: err},
			observe.Field{Key: "status", Value: filtered},
		)
	}
	return nil, filtered
}

// OpenLegacy opens device id at a specific device API version.
// Errors are returned unchanged.
func (a *Adapter) OpenLegacy(ctx context.Context, id string, halVersion hal.Version) (hal.Device, error) {
	meta := a.meta(OpOpenLegacy)
	meta.DeviceID = id

	var dev hal.Device
	err := a.obs.Call(ctx, meta, func(context.Context, observe.CallMeta) error {
		var err error
		dev, err = a.module.OpenLegacy(id, halVersion)
		return err
	})
	if err != nil {
		return nil, err
	}
	return dev, nil
}

// NumberOfCameras returns the number of fixed devices.
func (a *Adapter) NumberOfCameras() int {
	return a.module.NumberOfCameras()
}

// SetCallbacks registers the module's notification sink.
func (a *Adapter) SetCallbacks(ctx context.Context, cb hal.Callbacks) error {
	return a.obs.Call(ctx, a.meta(OpSetCallbacks), func(context.Context, observe.CallMeta) error {
		return a.module.SetCallbacks(cb)
	})
}

// SetTorchMode turns the flash unit of device id on or off.
func (a *Adapter) SetTorchMode(ctx context.Context, id string, enabled bool) error {
	meta := a.meta(OpSetTorchMode)
	meta.DeviceID = id
	return a.obs.Call(ctx, meta, func(context.Context, observe.CallMeta) error {
		return a.module.SetTorchMode(id, enabled)
	})
}

// IsVendorTagDefined reports whether the module exposes vendor tags.
// A provider returning a nil table counts as undefined.
func (a *Adapter) IsVendorTagDefined() bool {
	_, ok := a.VendorTagOps()
	return ok
}

// VendorTagOps returns the module's vendor tag table.
// ok is false when the module does not define one.
func (a *Adapter) VendorTagOps() (ops hal.VendorTagOps, ok bool) {
	p, ok := a.module.(hal.VendorTagProvider)
	if !ok {
		return nil, false
	}
	ops = p.VendorTagOps()
	return ops, ops != nil
}

// ModuleAPIVersion returns the module API version.
func (a *Adapter) ModuleAPIVersion() hal.Version { return a.module.Common().ModuleAPIVersion }

// HALAPIVersion returns the HAL API version.
func (a *Adapter) HALAPIVersion() hal.Version { return a.module.Common().HALAPIVersion }

// ModuleName returns the module name.
func (a *Adapter) ModuleName() string { return a.module.Common().Name }

// ModuleAuthor returns the module author.
func (a *Adapter) ModuleAuthor() string { return a.module.Common().Author }

// DSO returns the opaque library handle of the module.
func (a *Adapter) DSO() any { return a.module.Common().DSO }
