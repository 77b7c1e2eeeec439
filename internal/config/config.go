// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all kantodex configuration.
type Config struct {
	API     API     `yaml:"api"`
	Catalog Catalog `yaml:"catalog"`
	UI      UI      `yaml:"ui"`
}

// API holds upstream endpoint settings.
type API struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// Catalog holds dataset settings.
type Catalog struct {
	// Limit is the number of catalog entries to fetch. The first
	// generation spans entries 1-151.
	Limit int `yaml:"limit"`
}

// UI holds presentation settings.
type UI struct {
	PageSize int `yaml:"page_size"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		API: API{
			BaseURL: "https://pokeapi.co/api/v2",
			Timeout: 30 * time.Second,
		},
		Catalog: Catalog{
			Limit: 151,
		},
		UI: UI{
			PageSize: 20,
		},
	}
}

// Load reads a single YAML config file at path and returns a Config.
// For merging multiple config sources, use LoadLayered instead.
// If the file does not exist, defaults are returned without error.
// If the file contains invalid YAML or unknown fields, an error is returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return &cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &cfg, nil
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("config: api.base_url cannot be empty")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("config: api.timeout must be positive, got %v", c.API.Timeout)
	}
	if c.Catalog.Limit <= 0 {
		return fmt.Errorf("config: catalog.limit must be positive, got %d", c.Catalog.Limit)
	}
	if c.UI.PageSize <= 0 {
		return fmt.Errorf("config: ui.page_size must be positive, got %d", c.UI.PageSize)
	}
	return nil
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: KANTODEX_BASE_URL, KANTODEX_TIMEOUT, KANTODEX_LIMIT.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("KANTODEX_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("KANTODEX_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: invalid KANTODEX_TIMEOUT %q: %w", v, err)
		}
		c.API.Timeout = d
	}
	if v := os.Getenv("KANTODEX_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid KANTODEX_LIMIT %q: %w", v, err)
		}
		c.Catalog.Limit = n
	}
	return nil
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	API     *rawAPI     `yaml:"api"`
	Catalog *rawCatalog `yaml:"catalog"`
	UI      *rawUI      `yaml:"ui"`
}

type rawAPI struct {
	BaseURL *string        `yaml:"base_url"`
	Timeout *time.Duration `yaml:"timeout"`
}

type rawCatalog struct {
	Limit *int `yaml:"limit"`
}

type rawUI struct {
	PageSize *int `yaml:"page_size"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if layer.API != nil {
		if layer.API.BaseURL != nil {
			c.API.BaseURL = *layer.API.BaseURL
		}
		if layer.API.Timeout != nil {
			c.API.Timeout = *layer.API.Timeout
		}
	}
	if layer.Catalog != nil {
		if layer.Catalog.Limit != nil {
			c.Catalog.Limit = *layer.Catalog.Limit
		}
	}
	if layer.UI != nil {
		if layer.UI.PageSize != nil {
			c.UI.PageSize = *layer.UI.PageSize
		}
	}
}
