// Package app is claimdeck's composition root.
//
// Build connects the claims HTTP client to a TTL cache and a shared
// state.Store. Start performs the first fetch and launches the poller, and
// Run hands everything to the terminal UI until the user quits.
//
//	claims.Client ──> claims.CachedSource ──> poller ──> state.Store
//	                          │                              │
//	                          └──── detail, refresh ──── ui.Model
//
// The poller waits the configured interval between successful fetches and
// backs off exponentially (2s doubling, capped at 30s) after failures. A
// failed fetch keeps the last good claims in the store; only the error and
// failure count change, and the header shows the connection state.
//
// Nothing here writes to the terminal. Logs go to the file configured by
// the caller.
package app
