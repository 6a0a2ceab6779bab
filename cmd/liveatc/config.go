package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/fwojciec/liveatc"
	liveatchttp "github.com/fwojciec/liveatc/http"
	"github.com/fwojciec/liveatc/scrape"
	"github.com/pelletier/go-toml/v2"
)

// Config mirrors the optional TOML config file.
type Config struct {
	Store   StoreConfig   `toml:"store"`
	Scrape  ScrapeConfig  `toml:"scrape"`
	Server  ServerConfig  `toml:"server"`
	Logging LoggingConfig `toml:"logging"`
}

type StoreConfig struct {
	// Path is the SQLite file. Ignored when DatabaseURL is set.
	Path        string `toml:"path"`
	DatabaseURL string `toml:"database_url"`
}

type ScrapeConfig struct {
	BaseURL           string  `toml:"base_url"`
	UserAgent         string  `toml:"user_agent"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	Concurrency       int     `toml:"concurrency"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
	Retries           int     `toml:"retries"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Scrape: ScrapeConfig{
			BaseURL:           liveatc.DefaultBaseURL,
			UserAgent:         liveatchttp.DefaultUserAgent,
			TimeoutSeconds:    10,
			Concurrency:       scrape.DefaultConcurrency,
			RequestsPerSecond: 1,
			Burst:             1,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig reads the TOML file at path on top of the defaults and
// validates the result.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := toml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate checks constraints that the rest of the program relies on.
func (c Config) Validate() error {
	u, err := url.Parse(c.Scrape.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("scrape.base_url must be an absolute URL, got %q", c.Scrape.BaseURL)
	}
	if c.Scrape.TimeoutSeconds < 1 {
		return errors.New("scrape.timeout_seconds must be >= 1")
	}
	if c.Scrape.Concurrency < 1 {
		return errors.New("scrape.concurrency must be >= 1")
	}
	if c.Scrape.RequestsPerSecond < 0 {
		return errors.New("scrape.requests_per_second must be >= 0")
	}
	if c.Scrape.Burst < 1 {
		return errors.New("scrape.burst must be >= 1")
	}
	if c.Scrape.Retries < 0 || c.Scrape.Retries > len(scrape.DefaultRetryDelays()) {
		return fmt.Errorf("scrape.retries must be between 0 and %d", len(scrape.DefaultRetryDelays()))
	}
	if c.Scrape.UserAgent == "" {
		return errors.New("scrape.user_agent must not be empty")
	}
	if c.Server.Addr == "" {
		return errors.New("server.addr must not be empty")
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// LogLevel parses the configured level.
func (c Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return 0, fmt.Errorf("logging.level: %w", err)
	}
	return level, nil
}

// Timeout returns the per-request fetch timeout.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.Scrape.TimeoutSeconds) * time.Second
}

// RetryDelays returns the first Retries entries of the default backoff.
func (c Config) RetryDelays() []time.Duration {
	return scrape.DefaultRetryDelays()[:c.Scrape.Retries]
}
