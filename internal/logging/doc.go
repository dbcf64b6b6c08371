// Package logging builds the slog loggers used across antenna.
//
// It provides console and JSON handlers, a small set of attribute helpers so
// call sites stay terse, and component loggers derived via WithComponent.
package logging
