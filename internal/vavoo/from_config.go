package vavoo

import "antenna/internal/config"

// FromConfig builds a client from the daemon configuration.
func FromConfig(cfg *config.Config, opts ...Option) *Client {
	return NewClient(Config{
		PingURL:        cfg.Vavoo.PingURL,
		CatalogURL:     cfg.Vavoo.CatalogURL,
		ResolveURL:     cfg.Vavoo.ResolveURL,
		Group:          cfg.Vavoo.Group,
		ClientVersion:  cfg.Vavoo.ClientVersion,
		TimeoutSeconds: cfg.Vavoo.TimeoutSeconds,
		RetryAttempts:  cfg.Vavoo.RetryAttempts,
	}, opts...)
}
