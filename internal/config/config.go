package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds claimdeck's runtime settings.
type Config struct {
	APIURL        string `toml:"api_url" yaml:"api_url"`
	PollSeconds   int    `toml:"poll_seconds" yaml:"poll_seconds"`
	CacheSeconds  int    `toml:"cache_seconds" yaml:"cache_seconds"`
	SearchDelayMS int    `toml:"search_delay_ms" yaml:"search_delay_ms"`
	LogLevel      string `toml:"log_level" yaml:"log_level"`
	LogFile       string `toml:"log_file" yaml:"log_file"`

	// Path is the file the settings were read from, empty when defaults.
	Path string `toml:"-" yaml:"-"`
}

const (
	DefaultConfigPath    = "~/.config/claimdeck/config.toml"
	DefaultAPIURL        = "http://localhost:8001"
	DefaultPollSeconds   = 60
	DefaultCacheSeconds  = 30
	DefaultSearchDelayMS = 300
	DefaultLogLevel      = "info"
	defaultLogFile       = "~/.local/state/claimdeck/claimdeck.log"
)

// Default returns the built-in settings.
func Default() Config {
	return Config{
		APIURL:        DefaultAPIURL,
		PollSeconds:   DefaultPollSeconds,
		CacheSeconds:  DefaultCacheSeconds,
		SearchDelayMS: DefaultSearchDelayMS,
		LogLevel:      DefaultLogLevel,
		LogFile:       mustExpand(defaultLogFile),
	}
}

// Load reads the TOML config at path (DefaultConfigPath when empty). A
// missing file yields the defaults.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw Config
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.merge(raw)
	cfg.Path = resolved
	return cfg, cfg.Validate()
}

// merge copies the non-zero fields of other onto c.
func (c *Config) merge(other Config) {
	if v := strings.TrimSpace(other.APIURL); v != "" {
		c.APIURL = v
	}
	if other.PollSeconds != 0 {
		c.PollSeconds = other.PollSeconds
	}
	if other.CacheSeconds != 0 {
		c.CacheSeconds = other.CacheSeconds
	}
	if other.SearchDelayMS != 0 {
		c.SearchDelayMS = other.SearchDelayMS
	}
	if v := strings.TrimSpace(other.LogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(other.LogFile); v != "" {
		c.LogFile = mustExpand(v)
	}
}

// Validate rejects settings that cannot work.
func (c Config) Validate() error {
	if c.PollSeconds < 0 {
		return fmt.Errorf("poll_seconds must not be negative, got %d", c.PollSeconds)
	}
	if c.CacheSeconds < 0 {
		return fmt.Errorf("cache_seconds must not be negative, got %d", c.CacheSeconds)
	}
	if c.SearchDelayMS < 0 {
		return fmt.Errorf("search_delay_ms must not be negative, got %d", c.SearchDelayMS)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error; got %q", c.LogLevel)
	}
	return nil
}

// PollInterval is the background refresh cadence.
func (c Config) PollInterval() time.Duration {
	if c.PollSeconds <= 0 {
		return DefaultPollSeconds * time.Second
	}
	return time.Duration(c.PollSeconds) * time.Second
}

// CacheTTL is how long a fetched collection stays fresh.
func (c Config) CacheTTL() time.Duration {
	if c.CacheSeconds <= 0 {
		return DefaultCacheSeconds * time.Second
	}
	return time.Duration(c.CacheSeconds) * time.Second
}

// SearchDelay is the search debounce delay.
func (c Config) SearchDelay() time.Duration {
	if c.SearchDelayMS <= 0 {
		return DefaultSearchDelayMS * time.Millisecond
	}
	return time.Duration(c.SearchDelayMS) * time.Millisecond
}

// ExpandPath resolves a leading ~ and makes path absolute.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(DefaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
