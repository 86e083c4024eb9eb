// Package config handles configuration loading for AirDesk.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Engine   EngineConfig   `mapstructure:"engine"   yaml:"engine"`
	Forecast ForecastConfig `mapstructure:"forecast" yaml:"forecast"`
	Risk     RiskConfig     `mapstructure:"risk"     yaml:"risk"`
	Data     DataConfig     `mapstructure:"data"     yaml:"data"`
	API      APIConfig      `mapstructure:"api"      yaml:"api"`
	Logging  LoggingConfig  `mapstructure:"logging"  yaml:"logging"`
}

// EngineConfig holds core analysis settings.
type EngineConfig struct {
	TrendThreshold float64 `mapstructure:"trend_threshold" yaml:"trend_threshold"` // slope magnitude for stable vs moving
}

// ForecastConfig holds forecasting settings.
type ForecastConfig struct {
	Seed           int64   `mapstructure:"seed"            yaml:"seed"` // 0 = seed from the clock
	NoiseAmplitude float64 `mapstructure:"noise_amplitude" yaml:"noise_amplitude"`
	BaseConfidence int     `mapstructure:"base_confidence" yaml:"base_confidence"`
}

// RiskConfig holds risk detection settings.
type RiskConfig struct {
	HotspotThreshold int `mapstructure:"hotspot_threshold" yaml:"hotspot_threshold"`
	PeakWindows      int `mapstructure:"peak_windows"      yaml:"peak_windows"`
}

// DataConfig holds synthetic data source settings.
type DataConfig struct {
	Seed         int64 `mapstructure:"seed"          yaml:"seed"` // 0 = seed from the clock
	HistoryHours int   `mapstructure:"history_hours" yaml:"history_hours"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.airdesk/config.yaml (home directory)
//  3. /etc/airdesk/config.yaml (system)
//
// Environment variables override config file values.
// Format: AIRDESK_<SECTION>_<KEY>, e.g., AIRDESK_API_PORT
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".airdesk"))
	v.AddConfigPath("/etc/airdesk")

	v.SetEnvPrefix("AIRDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found — that's fine, use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("AIRDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Engine defaults
	v.SetDefault("engine.trend_threshold", 2.0)

	// Forecast defaults
	v.SetDefault("forecast.seed", 0)
	v.SetDefault("forecast.noise_amplitude", 0.08)
	v.SetDefault("forecast.base_confidence", 60)

	// Risk defaults
	v.SetDefault("risk.hotspot_threshold", 200)
	v.SetDefault("risk.peak_windows", 3)

	// Data defaults
	v.SetDefault("data.seed", 0)
	v.SetDefault("data.history_hours", 48)

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// homeDir returns the user's home directory, or "." if unavailable.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
