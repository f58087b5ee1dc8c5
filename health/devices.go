package health

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/camhal/hal"
)

// DeviceSource enumerates devices and reads their static info.
// *module.Adapter implements it.
type DeviceSource interface {
	NumberOfCameras() int
	CameraInfo(ctx context.Context, id int) (hal.Info, error)
}

// DeviceChecker reads the info of every device the module reports.
// All devices readable is healthy, some is degraded, none is unhealthy.
type DeviceChecker struct {
	source      DeviceSource
	maxParallel int
}

// NewDeviceChecker creates a checker over source.
func NewDeviceChecker(source DeviceSource) *DeviceChecker {
	return &DeviceChecker{source: source, maxParallel: 4}
}

// Name returns the name of this checker.
func (c *DeviceChecker) Name() string { return "devices" }

// Check performs the device health check.
func (c *DeviceChecker) Check(ctx context.Context) Result {
	n := c.source.NumberOfCameras()
	if n <= 0 {
		return Unhealthy("no cameras reported", ErrNoDevices)
	}

	var (
		g      errgroup.Group
		mu     sync.Mutex
		failed = make(map[string]any)
	)
	g.SetLimit(c.maxParallel)
	for id := range n {
		g.Go(func() error {
			if _, err := c.source.CameraInfo(ctx, id); err != nil {
				mu.Lock()
				failed[strconv.Itoa(id)] = statusText(err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	details := map[string]any{
		"cameras":  n,
		"readable": n - len(failed),
	}
	if len(failed) > 0 {
		details["failed"] = failed
	}

	switch {
	case len(failed) == 0:
		return Healthy(fmt.Sprintf("%d cameras readable", n)).WithDetails(details)
	case len(failed) < n:
		return Degraded(fmt.Sprintf("%d of %d cameras unreadable", len(failed), n)).WithDetails(details)
	default:
		return Unhealthy("no camera info readable", ErrCheckFailed).WithDetails(details)
	}
}

func statusText(err error) string {
	if s, ok := hal.StatusOf(err); ok {
		return s.String()
	}
	return err.Error()
}
