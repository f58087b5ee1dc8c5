// Package metadata provides the capability metadata container exchanged with
// camera hardware modules.
//
// A Metadata value is an ordered set of entries keyed by Tag. Each entry holds
// a typed value array (bytes, int32, float, int64, double or rational). Tags
// known to the registry are type-checked on update; vendor tags are accepted
// with any type.
//
// # Locking
//
// Lock freezes a container. A locked container rejects updates with ErrLocked
// and may be shared freely between goroutines:
//
//	md := metadata.New()
//	_ = md.UpdateBytes(metadata.ControlAELockAvailable, metadata.LockAvailableTrue)
//	shared := md.Lock()
//
// # Encoding
//
// Marshal and Unmarshal use a deterministic CBOR encoding with integer keys.
package metadata
