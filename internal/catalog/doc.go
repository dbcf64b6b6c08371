// Package catalog rebuilds the channel catalog from the Vavoo listing on a
// configurable interval, applying the include/remove lists, category keyword
// map, and icon overrides before storing the curated result.
package catalog
