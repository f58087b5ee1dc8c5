// Package cache provides an append-only, load-on-miss cache for static
// device data.
//
// Entries are loaded at most once per key, stored boxed so they never move,
// and never evicted. Load failures are not cached; the next lookup retries.
package cache
