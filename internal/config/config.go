package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	StartYear   int        `yaml:"start_year,omitempty"`         // Rows at or before this year are dropped (fallback: 1825)
	Granularity string     `yaml:"granularity,omitempty"`        // Bucket width: year, month, day, hour, minute, second
	LogY        bool       `yaml:"log_y,omitempty"`              // Log-scale Y axis on the stacked chart
	PlotWidth   float64    `yaml:"plot_width_inches,omitempty"`  // Chart width in inches (fallback: 18)
	PlotHeight  float64    `yaml:"plot_height_inches,omitempty"` // Chart height in inches (fallback: 8)
	MQTT        MQTTConfig `yaml:"mqtt,omitempty"`
}

// MQTTConfig holds broker settings for publishing binned series
type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"` // e.g., "localhost:1883"
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`
	TopicPrefix string `yaml:"topic_prefix,omitempty"` // e.g., "energy"
}

// Load reads the config file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty config if file doesn't exist
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return &cfg, nil
}

// Save writes the config to file
func Save(configPath string, cfg *Config) error {
	// Ensure directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// DefaultConfigPath returns the default config file path (local directory)
func DefaultConfigPath() string {
	return "config.yaml"
}

// GetStartYear returns the year cutoff with a default of 1825, at or below
// which rows are dropped
func (c *Config) GetStartYear() int {
	if c.StartYear <= 0 {
		return 1825
	}
	return c.StartYear
}

// GetGranularity returns the configured bucket granularity, defaulting to year
func (c *Config) GetGranularity() string {
	if c.Granularity == "" {
		return "year"
	}
	return c.Granularity
}

// GetPlotWidth returns the chart width in inches with a default of 18
func (c *Config) GetPlotWidth() float64 {
	if c.PlotWidth <= 0 {
		return 18
	}
	return c.PlotWidth
}

// GetPlotHeight returns the chart height in inches with a default of 8
func (c *Config) GetPlotHeight() float64 {
	if c.PlotHeight <= 0 {
		return 8
	}
	return c.PlotHeight
}

// GetTopicPrefix returns the MQTT topic prefix with a default of "energy"
func (c *MQTTConfig) GetTopicPrefix() string {
	if c.TopicPrefix == "" {
		return "energy"
	}
	return c.TopicPrefix
}
