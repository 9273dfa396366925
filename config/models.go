package config

import "time"

// BackendConfig describes the local inference server the relay forwards to.
type BackendConfig struct {
	URL          string        `mapstructure:"url"`
	GeneratePath string        `mapstructure:"generate_path"`
	Model        string        `mapstructure:"model"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// CORSConfig controls the cross-origin policy of the HTTP surface.
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// ConcurrencyConfig bounds how many backend calls may run at once.
// A MaxInFlight of zero admits every request.
type ConcurrencyConfig struct {
	MaxInFlight int           `mapstructure:"max_in_flight"`
	WaitTimeout time.Duration `mapstructure:"wait_timeout"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// Config holds the application configuration.
type Config struct {
	ListenAddress  string            `mapstructure:"listen_address"`
	Backend        BackendConfig     `mapstructure:"backend"`
	SystemPreamble string            `mapstructure:"system_preamble"`
	CORS           CORSConfig        `mapstructure:"cors"`
	Concurrency    ConcurrencyConfig `mapstructure:"concurrency"`
	Log            LogConfig         `mapstructure:"log"`
	Presets        []string          `mapstructure:"presets"`
}
