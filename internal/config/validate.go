package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateVavoo(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateServer() error {
	if _, _, err := net.SplitHostPort(c.Server.Bind); err != nil {
		return fmt.Errorf("server.bind %q is not a host:port address: %w", c.Server.Bind, err)
	}
	if strings.ContainsAny(c.Server.ExternalDomain, " /") {
		return fmt.Errorf("server.external_domain %q must be a bare host[:port]", c.Server.ExternalDomain)
	}
	return nil
}

func (c *Config) validateVavoo() error {
	for _, endpoint := range []struct {
		name  string
		value string
	}{
		{"vavoo.ping_url", c.Vavoo.PingURL},
		{"vavoo.catalog_url", c.Vavoo.CatalogURL},
		{"vavoo.resolve_url", c.Vavoo.ResolveURL},
	} {
		parsed, err := url.Parse(endpoint.value)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("%s %q is not an absolute URL", endpoint.name, endpoint.value)
		}
	}
	if c.Vavoo.Group == "" {
		return errors.New("vavoo.group must be set")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if c.Catalog.RefreshInterval < 60 {
		return errors.New("catalog.refresh_interval must be at least 60 seconds")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
