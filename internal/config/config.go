package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Server contains the HTTP bind address and public identity of the addon.
type Server struct {
	Bind string `toml:"bind"`
	// ExternalDomain is the hostname clients use to reach the addon. It is
	// embedded in the stremio:// install link rendered on the landing page.
	ExternalDomain string `toml:"external_domain"`
	APIToken       string `toml:"api_token"`
}

// MediaFlow contains the default proxy endpoint used to build stream URLs.
type MediaFlow struct {
	URL      string `toml:"url"`
	Password string `toml:"password"`
}

// Vavoo contains configuration for the upstream catalog provider.
type Vavoo struct {
	PingURL        string `toml:"ping_url"`
	CatalogURL     string `toml:"catalog_url"`
	ResolveURL     string `toml:"resolve_url"`
	Group          string `toml:"group"`
	ClientVersion  string `toml:"client_version"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	RetryAttempts  int    `toml:"retry_attempts"`
}

// Catalog contains refresh timing and channel curation settings.
type Catalog struct {
	RefreshInterval int    `toml:"refresh_interval"`
	EPGURL          string `toml:"epg_url"`
	FiltersFile     string `toml:"filters_file"`
	RemovalsFile    string `toml:"removals_file"`
	CategoriesFile  string `toml:"categories_file"`
	IconsFile       string `toml:"icons_file"`
}

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Config encapsulates all configuration values for antenna.
//
// Configuration sections by subsystem:
//   - Server: HTTP bind address, external domain, API token
//   - MediaFlow: default proxy URL and password for stream links
//   - Vavoo: upstream catalog/resolve endpoints and client identity
//   - Catalog: refresh interval, EPG URL, curation file overrides
//   - Paths: data and log directories
//   - Logging: log format and level
//   - Notifications: ntfy push notification settings
type Config struct {
	Server        Server        `toml:"server"`
	MediaFlow     MediaFlow     `toml:"mediaflow"`
	Vavoo         Vavoo         `toml:"vavoo"`
	Catalog       Catalog       `toml:"catalog"`
	Paths         Paths         `toml:"paths"`
	Logging       Logging       `toml:"logging"`
	Notifications Notifications `toml:"notifications"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/antenna/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("antenna.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the location of the channel database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "channels.db")
}

// LockFilePath returns the location of the daemon lock file.
func (c *Config) LockFilePath() string {
	return filepath.Join(c.Paths.DataDir, "antennad.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
