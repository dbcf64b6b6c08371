package testsupport

import (
	"path/filepath"
	"testing"

	"antenna/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Server.Bind = "127.0.0.1:0"
	cfg.Server.ExternalDomain = "addon.test"
	cfg.MediaFlow.URL = "mfp.test"
	cfg.MediaFlow.Password = "test-password"

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithMediaFlow overrides the MediaFlow proxy settings on the test config.
func WithMediaFlow(url, password string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.MediaFlow.URL = url
		cfg.MediaFlow.Password = password
	}
}

// WithRefreshInterval overrides the catalog refresh interval in seconds.
func WithRefreshInterval(seconds int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Catalog.RefreshInterval = seconds
	}
}
