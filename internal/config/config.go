// Package config provides configuration loading for the IPv6 stats server.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied by Config.Validate when a field is unset.
const (
	DefaultCacheTTL       = 30 * 24 * time.Hour
	DefaultErrorCacheTTL  = time.Hour
	DefaultFetchTimeout   = 15 * time.Second
	DefaultSourceTimeout  = 10 * time.Second
	DefaultMaxConcurrency = 3
	DefaultUserAgent      = "IPv6-Dashboard/1.0 (https://ipv6-stats.app)"
)

// ConfigLoader defines the interface for loading configuration
type ConfigLoader interface {
	LoadConfig(path string) (*Config, error)
}

// Config represents the root configuration structure
type Config struct {
	Collector CollectorConfig `yaml:"collector"`
	Cache     CacheConfig     `yaml:"cache"`
	Preload   PreloadConfig   `yaml:"preload"`
}

// CollectorConfig defines HTTP fetch behavior for upstream sources
type CollectorConfig struct {
	// UserAgent sent with every upstream request
	UserAgent string `yaml:"userAgent"`
	// FetchTimeout bounds a single HTTP request
	FetchTimeout time.Duration `yaml:"fetchTimeout"`
}

// CacheConfig defines record retention
type CacheConfig struct {
	// TTL is the retention window for successfully fetched records
	TTL time.Duration `yaml:"ttl"`
	// ErrorTTL is the retention window for fallback records, kept short
	// so a transient upstream failure does not mask live data for the
	// full TTL
	ErrorTTL time.Duration `yaml:"errorTTL"`
}

// PreloadConfig defines the startup fan-out behavior
type PreloadConfig struct {
	// Enabled toggles the preload fan-out at serve startup
	Enabled bool `yaml:"enabled"`
	// MaxConcurrency bounds parallel source fetches
	MaxConcurrency int `yaml:"maxConcurrency"`
	// SourceTimeout bounds each individual source load
	SourceTimeout time.Duration `yaml:"sourceTimeout"`
}

// Default returns a Config populated with default values.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Collector.UserAgent == "" {
		c.Collector.UserAgent = DefaultUserAgent
	}
	if c.Collector.FetchTimeout <= 0 {
		c.Collector.FetchTimeout = DefaultFetchTimeout
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = DefaultCacheTTL
	}
	if c.Cache.ErrorTTL <= 0 {
		c.Cache.ErrorTTL = DefaultErrorCacheTTL
	}
	if c.Preload.MaxConcurrency <= 0 {
		c.Preload.MaxConcurrency = DefaultMaxConcurrency
	}
	if c.Preload.SourceTimeout <= 0 {
		c.Preload.SourceTimeout = DefaultSourceTimeout
	}
}

// Validate fills in defaults and rejects inconsistent settings
func (c *Config) Validate() error {
	c.applyDefaults()

	if c.Cache.ErrorTTL > c.Cache.TTL {
		return fmt.Errorf("cache.errorTTL (%s) must not exceed cache.ttl (%s)",
			c.Cache.ErrorTTL, c.Cache.TTL)
	}
	if c.Preload.MaxConcurrency > 16 {
		return fmt.Errorf("preload.maxConcurrency %d is too high (max 16)", c.Preload.MaxConcurrency)
	}
	return nil
}

// configLoader implements the ConfigLoader interface
type configLoader struct{}

// NewConfigLoader creates a new ConfigLoader instance
func NewConfigLoader() ConfigLoader {
	return &configLoader{}
}

// LoadConfig loads and parses configuration from a YAML file
func (*configLoader) LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	return &config, nil
}
