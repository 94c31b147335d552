// Package state shares the latest fetched claims between the background
// poller and the dashboard.
//
// # Overview
//
// The poller is the only writer; the UI reads on its own schedule:
//
//	poller                         UI
//	FetchClaims()                  store.Snapshot()
//	store.Update(items, err) ───→  pipeline + render
//
// A sync.RWMutex guards the snapshot. The lock is held only while swapping
// or copying the header, never during network I/O or rendering.
//
// # Update Semantics
//
//	store.Update(items, nil)   // replace collection, Version++, clear error
//	store.Update(same, nil)    // equal content: keep slice and Version
//	store.Update(nil, err)     // keep collection, record error, failures++
//
// The UI therefore always has the most recent successful data while still
// learning about polling failures. Two or more consecutive failures mark the
// snapshot offline.
//
// # Sharing
//
// Update clones its input. The installed slice is treated as immutable and
// Snapshot returns it as-is, so two snapshots taken between updates share
// one backing array. The formatter and query pipeline memoize on slice
// identity and rely on this to skip recomputation on every UI tick.
//
// The zero Store is ready to use.
package state
