package health

import "errors"

var (
	// ErrCheckFailed indicates a health check failed.
	ErrCheckFailed = errors.New("health: check failed")

	// ErrCheckTimeout indicates a health check did not finish in time.
	ErrCheckTimeout = errors.New("health: check timeout")

	// ErrCheckerNotFound indicates a checker was not registered.
	ErrCheckerNotFound = errors.New("health: checker not found")

	// ErrNoDevices indicates the module reports no cameras.
	ErrNoDevices = errors.New("health: module reports no cameras")
)
