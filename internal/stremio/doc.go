// Package stremio defines the addon manifest and meta types served to
// Stremio clients, including the MediaFlow proxy stream URL construction.
package stremio
