// Package config loads the tool configuration from .archscope/config.json.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ConfigDir is the directory holding tool state next to the analyzed dump
const ConfigDir = ".archscope"

// Config represents the complete archscope configuration
type Config struct {
	Version int `json:"version" mapstructure:"version"`

	// Workers bounds the extraction worker pool; 0 means NumCPU
	Workers int `json:"workers" mapstructure:"workers"`

	// RulesPath is the default rule set file used when --rules is not given
	RulesPath string `json:"rulesPath" mapstructure:"rulesPath"`

	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
	History HistoryConfig `json:"history" mapstructure:"history"`
	Output  OutputConfig  `json:"output" mapstructure:"output"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// HistoryConfig contains run-history persistence configuration
type HistoryConfig struct {
	Enabled bool `json:"enabled" mapstructure:"enabled"`
	MaxRuns int  `json:"maxRuns" mapstructure:"maxRuns"`
}

// OutputConfig contains output defaults
type OutputConfig struct {
	Format string `json:"format" mapstructure:"format"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Workers: 0,
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
		History: HistoryConfig{
			Enabled: true,
			MaxRuns: 100,
		},
		Output: OutputConfig{
			Format: "json",
		},
	}
}

// LoadConfig loads configuration from <root>/.archscope/config.json,
// returning defaults when no file exists.
func LoadConfig(root string) (*Config, error) {
	v := viper.New()
	v.SetDefault("version", 1)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(root, ConfigDir))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the configuration to <root>/.archscope/config.json
func (c *Config) Save(root string) error {
	dir := filepath.Join(root, ConfigDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0o644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != 1 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if c.Workers < 0 {
		return &ConfigError{Field: "workers", Message: "must not be negative"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
