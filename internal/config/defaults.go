package config

const (
	defaultBind            = "0.0.0.0:3000"
	defaultExternalDomain  = "localhost:3000"
	defaultDataDir         = "~/.local/share/antenna/data"
	defaultLogDir          = "~/.local/share/antenna/logs"
	defaultPingURL         = "https://www.vavoo.tv/api/app/ping"
	defaultCatalogURL      = "https://vavoo.to/vto-cluster/mediahubmx-catalog.json"
	defaultResolveURL      = "https://vavoo.to/vto-cluster/mediahubmx-resolve.json"
	defaultGroup           = "Italy"
	defaultClientVersion   = "3.0.2"
	defaultVavooTimeout    = 30
	defaultVavooRetries    = 3
	defaultRefreshInterval = 3600
	defaultEPGURL          = "http://epg-guide.com/it.gz"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultNtfyTimeout     = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Server: Server{
			Bind:           defaultBind,
			ExternalDomain: defaultExternalDomain,
		},
		Vavoo: Vavoo{
			PingURL:        defaultPingURL,
			CatalogURL:     defaultCatalogURL,
			ResolveURL:     defaultResolveURL,
			Group:          defaultGroup,
			ClientVersion:  defaultClientVersion,
			TimeoutSeconds: defaultVavooTimeout,
			RetryAttempts:  defaultVavooRetries,
		},
		Catalog: Catalog{
			RefreshInterval: defaultRefreshInterval,
			EPGURL:          defaultEPGURL,
		},
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyTimeout,
		},
	}
}
