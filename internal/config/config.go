// Package config loads and saves the persistent tool configuration and
// carries the per-run flags. One immutable Config value is passed into every
// component at construction time.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config is the merged file configuration plus the per-run CLI flags.
// Fields tagged "-" are never persisted.
type Config struct {
	TMDBAPIKey        string `json:"tmdb_api_key"`
	TMDBLanguage      string `json:"tmdb_language"`
	PosterSize        string `json:"poster_size"`
	FanartSize        string `json:"fanart_size"`
	StillSize         string `json:"still_size"`
	MaxAPIRetries     int    `json:"max_api_retries"`
	RetryDelaySeconds int    `json:"retry_delay_seconds"`
	EnableLogging     bool   `json:"enable_logging"`
	LogRetentionDays  int    `json:"log_retention_days"`

	// Run flags, supplied by the CLI.
	DryRun     bool `json:"-"`
	Force      bool `json:"-"`
	NoPrompt   bool `json:"-"`
	SkipImages bool `json:"-"`

	// Fallbacks used when a filename yields no numbering and prompting is
	// disabled.
	DefaultSeason  int `json:"-"`
	DefaultEpisode int `json:"-"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		TMDBLanguage:      "en-US",
		PosterSize:        "w500",
		FanartSize:        "w1280",
		StillSize:         "w300",
		MaxAPIRetries:     3,
		RetryDelaySeconds: 5,
		EnableLogging:     true,
		LogRetentionDays:  30,
		DefaultSeason:     1,
		DefaultEpisode:    1,
	}
}

// RetryDelay returns the configured backoff as a duration.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelaySeconds) * time.Second
}

// Path returns the config file location.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".showtidy", "config.json"), nil
}

// Load reads the configuration from disk, falling back to defaults for a
// missing file and for individually missing fields.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return loadFrom(path)
}

func loadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	defaults := Default()
	if cfg.TMDBLanguage == "" {
		cfg.TMDBLanguage = defaults.TMDBLanguage
	}
	if cfg.PosterSize == "" {
		cfg.PosterSize = defaults.PosterSize
	}
	if cfg.FanartSize == "" {
		cfg.FanartSize = defaults.FanartSize
	}
	if cfg.StillSize == "" {
		cfg.StillSize = defaults.StillSize
	}
	if cfg.MaxAPIRetries <= 0 {
		cfg.MaxAPIRetries = defaults.MaxAPIRetries
	}
	if cfg.RetryDelaySeconds <= 0 {
		cfg.RetryDelaySeconds = defaults.RetryDelaySeconds
	}
	if cfg.LogRetentionDays <= 0 {
		cfg.LogRetentionDays = defaults.LogRetentionDays
	}
	cfg.DefaultSeason = defaults.DefaultSeason
	cfg.DefaultEpisode = defaults.DefaultEpisode
	return cfg, nil
}

// Save writes the persistent fields back to disk.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.saveTo(path)
}

func (c *Config) saveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
