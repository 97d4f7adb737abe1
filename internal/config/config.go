package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Global settings
	Format  string `mapstructure:"format"`
	Quiet   bool   `mapstructure:"quiet"`
	Verbose bool   `mapstructure:"verbose"`

	Collect CollectConfig `mapstructure:"collect"`
	Log     LogConfig     `mapstructure:"log"`
}

// CollectConfig holds defaults for the collection pipeline
type CollectConfig struct {
	Output             string `mapstructure:"output"`
	HoursBack          int    `mapstructure:"hours_back"`
	MaxEvents          int    `mapstructure:"max_events"`
	IncludeSystem      bool   `mapstructure:"include_system"`
	IncludeApplication bool   `mapstructure:"include_application"`
	IncludeSecurity    bool   `mapstructure:"include_security"`
	TimeoutSeconds     int    `mapstructure:"timeout_seconds"`
	SampleCap          int    `mapstructure:"sample_cap"`
}

// LogConfig holds diagnostic logger settings
type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// Default returns a Config with default values. The Security log is off by
// default: querying it needs elevation and the common path should not.
func Default() *Config {
	return &Config{
		Format:  "text",
		Quiet:   false,
		Verbose: false,
		Collect: CollectConfig{
			Output:             "animus_logs.json",
			HoursBack:          48,
			MaxEvents:          500,
			IncludeSystem:      true,
			IncludeApplication: true,
			IncludeSecurity:    false,
			TimeoutSeconds:     60,
			SampleCap:          3,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from files and environment.
// Config file search order (highest precedence first):
// 1. ./.animus.yaml or ./.animus.yml
// 2. ~/.animus.yaml or ~/.animus.yml
// 3. $XDG_CONFIG_HOME/animus/config.yaml (or ~/.config/animus/config.yaml)
// 4. /etc/animus/config.yaml
func Load() (*Config, error) {
	cfg := Default()

	configFile := findConfigFile()
	if configFile != "" {
		v := viper.New()
		v.SetConfigFile(configFile)

		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}

		if err := v.Unmarshal(cfg); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadFromFile loads configuration from a specific file
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ConfigFile returns the path to the config file that would be loaded
func ConfigFile() string {
	return findConfigFile()
}

// findConfigFile searches for a config file in standard locations
func findConfigFile() string {
	names := []string{".animus.yaml", ".animus.yml", "animus.yaml", "animus.yml"}

	home, homeErr := os.UserHomeDir()
	configDir, configDirErr := os.UserConfigDir()

	var searchPaths []string
	if cwd, err := os.Getwd(); err == nil {
		searchPaths = append(searchPaths, cwd)
	}
	if homeErr == nil {
		searchPaths = append(searchPaths, home)
	}
	if configDirErr == nil {
		searchPaths = append(searchPaths, filepath.Join(configDir, "animus"))
	}
	searchPaths = append(searchPaths, "/etc/animus")

	for _, dir := range searchPaths {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
		path := filepath.Join(dir, "config.yaml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ANIMUS_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("ANIMUS_QUIET"); v == "true" || v == "1" {
		cfg.Quiet = true
	}
	if v := os.Getenv("ANIMUS_VERBOSE"); v == "true" || v == "1" {
		cfg.Verbose = true
	}
	if v := os.Getenv("ANIMUS_OUTPUT"); v != "" {
		cfg.Collect.Output = v
	}
	if v := os.Getenv("ANIMUS_HOURS_BACK"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Collect.HoursBack = n
		}
	}
	if v := os.Getenv("ANIMUS_MAX_EVENTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Collect.MaxEvents = n
		}
	}
	if v := os.Getenv("ANIMUS_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}
