// Package notifications delivers catalog refresh events via ntfy.
//
// The default implementation publishes to the topic configured in config.toml
// and gracefully degrades to a no-op when notifications are disabled. All
// refresher code depends only on the simple Service interface.
package notifications
