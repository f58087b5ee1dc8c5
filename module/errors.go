package module

import (
	"errors"
	"fmt"

	"github.com/jonwraymond/camhal/hal"
)

var (
	// ErrNilModule is returned when constructing an Adapter without a module.
	ErrNilModule = errors.New("module: hardware module must not be nil")

	// ErrInvalidDeviceID is returned for negative device ids. It matches
	// hal.StatusInvalid under errors.Is.
	ErrInvalidDeviceID = fmt.Errorf("module: invalid device id: %w", hal.StatusInvalid)
)

// FilterOpenError narrows a device-open result to the codes callers handle:
// nil, hal.StatusBusy, hal.StatusInvalid and hal.StatusUsers pass through
// unchanged; every other error becomes hal.StatusNoDevice.
func FilterOpenError(err error) error {
	s, ok := hal.StatusOf(err)
	if !ok {
		return hal.StatusNoDevice
	}
	switch s {
	case hal.StatusOK, hal.StatusBusy, hal.StatusInvalid, hal.StatusUsers:
		return err
	default:
		return hal.StatusNoDevice
	}
}
