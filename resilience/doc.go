// Package resilience bounds and retries camera device operations.
//
// # Bulkhead
//
// A Bulkhead caps how many devices can be held open at once. Slots are
// claimed when a device opens and returned when it closes, so they may
// outlive the call that claimed them:
//
//	slots := resilience.NewBulkhead(resilience.BulkheadConfig{MaxConcurrent: 2})
//	if !slots.TryAcquire() {
//	    return nil, hal.StatusUsers
//	}
//	defer slots.Release() // on Close
//
// # Retry
//
// Retry re-runs an operation that failed with a transient status. By
// default only hal.StatusBusy and hal.StatusUsers are retried, which is
// what a caller waiting for another client to release a device wants:
//
//	retry := resilience.NewRetry(resilience.RetryConfig{MaxAttempts: 5})
//	err := retry.Execute(ctx, func(ctx context.Context) error {
//	    dev, err = adapter.Open(ctx, "0")
//	    return err
//	})
package resilience
