// Package config loads, normalizes, and validates antenna configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// MEDIAFLOW_DEFAULT_URL. The Config type centralizes every knob the daemon
// and CLI need, from the HTTP bind address to the upstream catalog endpoints.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
