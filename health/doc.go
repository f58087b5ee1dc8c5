// Package health reports whether a camera hardware module is usable.
//
// A Checker reports one component as Healthy, Degraded or Unhealthy. The
// package ships two camera checkers:
//
//   - DeviceChecker reads the static info of every device the module
//     reports, concurrently, and fails when devices cannot be read.
//   - CapacityChecker watches how many device slots are in use.
//
// An Aggregator combines checkers and backs the HTTP probes:
//
//	agg := health.NewAggregator()
//	agg.Register("devices", health.NewDeviceChecker(adapter))
//	agg.Register("capacity", health.NewCapacityChecker(slots, health.CapacityCheckerConfig{}))
//
//	mux := http.NewServeMux()
//	health.RegisterHandlers(mux, agg) // /healthz, /readyz, /health
package health
