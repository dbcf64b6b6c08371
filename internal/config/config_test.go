package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"antenna/internal/config"
)

func TestLoadDefaultsAndEnvOverrides(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("PORT", "8099")
	t.Setenv("DOMAIN", "addon.example.org")
	t.Setenv("MEDIAFLOW_DEFAULT_URL", "mfp.example.org")
	t.Setenv("MEDIAFLOW_DEFAULT_PSW", "secret")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if cfg.Server.Bind != "0.0.0.0:8099" {
		t.Fatalf("expected PORT override in bind, got %q", cfg.Server.Bind)
	}
	if cfg.Server.ExternalDomain != "addon.example.org" {
		t.Fatalf("expected DOMAIN override, got %q", cfg.Server.ExternalDomain)
	}
	if cfg.MediaFlow.URL != "mfp.example.org" || cfg.MediaFlow.Password != "secret" {
		t.Fatalf("expected mediaflow env fallbacks, got %+v", cfg.MediaFlow)
	}
	wantData := filepath.Join(tempHome, ".local", "share", "antenna", "data")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Vavoo.Group != "Italy" {
		t.Fatalf("unexpected default group: %q", cfg.Vavoo.Group)
	}
	if cfg.Catalog.RefreshInterval != 3600 {
		t.Fatalf("unexpected default refresh interval: %d", cfg.Catalog.RefreshInterval)
	}
	if cfg.Catalog.EPGURL != "http://epg-guide.com/it.gz" {
		t.Fatalf("unexpected default EPG URL: %q", cfg.Catalog.EPGURL)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	if _, err := os.Stat(cfg.Paths.DataDir); err != nil {
		t.Fatalf("expected data dir to exist: %v", err)
	}
	if got := cfg.DatabasePath(); filepath.Dir(got) != cfg.Paths.DataDir {
		t.Fatalf("database path %q not under data dir", got)
	}
}

func TestLoadParsesTOMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := strings.Join([]string{
		`[server]`,
		`bind = "127.0.0.1:9000"`,
		`external_domain = "tv.example.net"`,
		``,
		`[vavoo]`,
		`group = "Germany"`,
		``,
		`[catalog]`,
		`refresh_interval = 600`,
	}, "\n")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %q to be used, got %q exists=%v", path, resolved, exists)
	}
	if cfg.Server.Bind != "127.0.0.1:9000" {
		t.Fatalf("unexpected bind: %q", cfg.Server.Bind)
	}
	if cfg.Vavoo.Group != "Germany" {
		t.Fatalf("unexpected group: %q", cfg.Vavoo.Group)
	}
	if cfg.Catalog.RefreshInterval != 600 {
		t.Fatalf("unexpected refresh interval: %d", cfg.Catalog.RefreshInterval)
	}
	// Untouched sections keep their defaults.
	if cfg.Vavoo.CatalogURL != config.Default().Vavoo.CatalogURL {
		t.Fatalf("unexpected catalog url: %q", cfg.Vavoo.CatalogURL)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{
			name:   "bad bind",
			mutate: func(c *config.Config) { c.Server.Bind = "not-an-address" },
			want:   "server.bind",
		},
		{
			name:   "relative catalog url",
			mutate: func(c *config.Config) { c.Vavoo.CatalogURL = "/catalog.json" },
			want:   "vavoo.catalog_url",
		},
		{
			name:   "refresh interval too small",
			mutate: func(c *config.Config) { c.Catalog.RefreshInterval = 5 },
			want:   "refresh_interval",
		},
		{
			name:   "unknown log format",
			mutate: func(c *config.Config) { c.Logging.Format = "xml" },
			want:   "logging.format",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Logging.Format = "console"
			cfg.Logging.Level = "info"
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestCreateSampleWritesParseableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Server.Bind == "" {
		t.Fatal("expected bind populated from sample")
	}
}
