// Package module adapts a camera hardware module for use by a camera framework.
//
// The Adapter forwards calls to a hal.Module, narrows device-open failures to
// a small set of status codes, and caches per-device static info. For modules
// implementing module API 2.0 or later, the first successful CameraInfo query
// for a device copies its static characteristics, fills in capability keys
// that devices older than device API 3.3 do not advertise, locks the copy and
// caches it for the lifetime of the Adapter. Later queries return the cached
// info, sharing the same metadata container.
//
// Basic usage:
//
//	adapter, err := module.New(vendorModule, module.WithObserver(obs))
//	if err != nil {
//	    return err
//	}
//	info, err := adapter.CameraInfo(ctx, 0)
package module
