package resilience

import "errors"

// ErrBulkheadFull is returned when every slot of a bulkhead is taken.
var ErrBulkheadFull = errors.New("resilience: bulkhead at capacity")
