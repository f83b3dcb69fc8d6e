package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// defaultMusicDirs are tried under the home directory when no library is configured.
var defaultMusicDirs = []string{"Music", "music", "My Music"}

type Config struct {
	Libraries   []string `koanf:"libraries"`     // directories scanned for music
	ScanOnStart bool     `koanf:"scan_on_start"` // queue the library at startup when no argument is given
	LogLevel    string   `koanf:"log_level"`     // "debug", "info", "warn", "error"

	// Seconds allowed for downloading a remote source
	FetchTimeout int `koanf:"fetch_timeout"`

	// Desktop integration (Linux)
	MPRIS         bool `koanf:"mpris"`
	Notifications bool `koanf:"notifications"`

	// Last.fm scrobbling (enables scrobbling when configured)
	Lastfm LastfmConfig `koanf:"lastfm"`
}

// LastfmConfig holds Last.fm scrobbling configuration.
type LastfmConfig struct {
	APIKey    string `koanf:"api_key"`
	APISecret string `koanf:"api_secret"`
}

// Default returns the configuration used when no file sets a key.
func Default() *Config {
	return &Config{
		Libraries:     defaultLibraries(),
		ScanOnStart:   true,
		LogLevel:      "info",
		FetchTimeout:  30,
		MPRIS:         true,
		Notifications: true,
	}
}

// Load reads the config files in order of priority (last wins). explicit,
// when not empty, is loaded last and must exist.
func Load(explicit string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("load config %s: %w", path, err)
			}
		}
	}

	if explicit != "" {
		if err := k.Load(file.Provider(explicit), toml.Parser()); err != nil {
			return nil, fmt.Errorf("load config %s: %w", explicit, err)
		}
	}

	// Keys absent from every file keep their default.
	cfg := Default()
	cfg.Libraries = nil
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	if !k.Exists("libraries") {
		cfg.Libraries = defaultLibraries()
	}

	// Expand ~ in libraries
	for i, dir := range cfg.Libraries {
		cfg.Libraries[i] = expandPath(dir)
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = Default().FetchTimeout
	}

	return cfg, nil
}

// Save writes c to path as TOML, creating parent directories.
func (c *Config) Save(path string) error {
	k := koanf.New(".")
	for key, value := range c.values() {
		if err := k.Set(key, value); err != nil {
			return err
		}
	}
	data, err := k.Marshal(toml.Parser())
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func (c *Config) values() map[string]any {
	libraries := c.Libraries
	if libraries == nil {
		libraries = []string{}
	}
	return map[string]any{
		"libraries":         libraries,
		"scan_on_start":     c.ScanOnStart,
		"log_level":         c.LogLevel,
		"fetch_timeout":     c.FetchTimeout,
		"mpris":             c.MPRIS,
		"notifications":     c.Notifications,
		"lastfm.api_key":    c.Lastfm.APIKey,
		"lastfm.api_secret": c.Lastfm.APISecret,
	}
}

// UserConfigPath returns ~/.config/moosack/config.toml.
func UserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "moosack", "config.toml"), nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/moosack/config.toml
	if p, err := UserConfigPath(); err == nil {
		paths = append(paths, p)
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

// defaultLibraries returns the first of ~/Music, ~/music, ~/My Music that exists.
func defaultLibraries() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	for _, name := range defaultMusicDirs {
		dir := filepath.Join(home, name)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return []string{dir}
		}
	}
	return nil
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// FetchTimeoutDuration returns the fetch timeout as a duration.
func (c *Config) FetchTimeoutDuration() time.Duration {
	return time.Duration(c.FetchTimeout) * time.Second
}

// HasLastfmConfig returns true if Last.fm scrobbling is configured.
func (c *Config) HasLastfmConfig() bool {
	return c.Lastfm.APIKey != "" && c.Lastfm.APISecret != ""
}
