// Package main hosts the Antenna CLI entrypoint and command graph.
//
// The Cobra-based command tree covers daemon management, catalog inspection,
// playlist export, and one-off upstream operations such as signature fetching
// and link resolution. It centralizes configuration resolution so subcommands
// can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
