package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeServer()
	c.normalizeMediaFlow()
	c.normalizeVavoo()
	if err := c.normalizeCatalog(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeServer() {
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultBind
	}
	if port, ok := os.LookupEnv("PORT"); ok && strings.TrimSpace(port) != "" {
		c.Server.Bind = "0.0.0.0:" + strings.TrimSpace(port)
	}
	c.Server.ExternalDomain = strings.TrimSpace(c.Server.ExternalDomain)
	if domain, ok := os.LookupEnv("DOMAIN"); ok && strings.TrimSpace(domain) != "" {
		c.Server.ExternalDomain = strings.TrimSpace(domain)
	}
	if c.Server.ExternalDomain == "" {
		c.Server.ExternalDomain = defaultExternalDomain
	}
	c.Server.APIToken = strings.TrimSpace(c.Server.APIToken)
}

func (c *Config) normalizeMediaFlow() {
	c.MediaFlow.URL = strings.TrimSpace(c.MediaFlow.URL)
	if c.MediaFlow.URL == "" {
		if value, ok := os.LookupEnv("MEDIAFLOW_DEFAULT_URL"); ok {
			c.MediaFlow.URL = strings.TrimSpace(value)
		}
	}
	c.MediaFlow.Password = strings.TrimSpace(c.MediaFlow.Password)
	if c.MediaFlow.Password == "" {
		if value, ok := os.LookupEnv("MEDIAFLOW_DEFAULT_PSW"); ok {
			c.MediaFlow.Password = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizeVavoo() {
	c.Vavoo.PingURL = strings.TrimSpace(c.Vavoo.PingURL)
	if c.Vavoo.PingURL == "" {
		c.Vavoo.PingURL = defaultPingURL
	}
	c.Vavoo.CatalogURL = strings.TrimSpace(c.Vavoo.CatalogURL)
	if c.Vavoo.CatalogURL == "" {
		c.Vavoo.CatalogURL = defaultCatalogURL
	}
	c.Vavoo.ResolveURL = strings.TrimSpace(c.Vavoo.ResolveURL)
	if c.Vavoo.ResolveURL == "" {
		c.Vavoo.ResolveURL = defaultResolveURL
	}
	c.Vavoo.Group = strings.TrimSpace(c.Vavoo.Group)
	if c.Vavoo.Group == "" {
		c.Vavoo.Group = defaultGroup
	}
	c.Vavoo.ClientVersion = strings.TrimSpace(c.Vavoo.ClientVersion)
	if c.Vavoo.ClientVersion == "" {
		c.Vavoo.ClientVersion = defaultClientVersion
	}
	if c.Vavoo.TimeoutSeconds <= 0 {
		c.Vavoo.TimeoutSeconds = defaultVavooTimeout
	}
	if c.Vavoo.RetryAttempts <= 0 {
		c.Vavoo.RetryAttempts = defaultVavooRetries
	}
}

func (c *Config) normalizeCatalog() error {
	if c.Catalog.RefreshInterval <= 0 {
		c.Catalog.RefreshInterval = defaultRefreshInterval
	}
	c.Catalog.EPGURL = strings.TrimSpace(c.Catalog.EPGURL)
	if c.Catalog.EPGURL == "" {
		c.Catalog.EPGURL = defaultEPGURL
	}

	var err error
	for _, field := range []struct {
		name  string
		value *string
	}{
		{"catalog.filters_file", &c.Catalog.FiltersFile},
		{"catalog.removals_file", &c.Catalog.RemovalsFile},
		{"catalog.categories_file", &c.Catalog.CategoriesFile},
		{"catalog.icons_file", &c.Catalog.IconsFile},
	} {
		*field.value = strings.TrimSpace(*field.value)
		if *field.value == "" {
			continue
		}
		if *field.value, err = expandPath(*field.value); err != nil {
			return fmt.Errorf("%s: %w", field.name, err)
		}
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNtfyTimeout
	}
}
