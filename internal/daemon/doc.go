// Package daemon wires the catalog store, the background refresher, and the
// HTTP server (Stremio addon routes, playlist export, and the management API)
// into a single-instance background process guarded by a lock file.
package daemon
