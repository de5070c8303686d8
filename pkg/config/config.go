// Package config loads the dashboard configuration from a YAML file with
// GSV_* environment-variable overrides and sensible defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level dashboard configuration.
type Config struct {
	Server   ServerConfig             `yaml:"server"`
	Logging  LoggingConfig            `yaml:"logging"`
	Metrics  MetricsConfig            `yaml:"metrics"`
	Species  map[string]SpeciesConfig `yaml:"species"`
	Analysis AnalysisDefaults         `yaml:"analysis"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           int           `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"readTimeout"`
	WriteTimeout   time.Duration `yaml:"writeTimeout"`
	MaxUploadBytes int64         `yaml:"maxUploadBytes"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus scrape endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// SpeciesConfig points at preloaded annotation files for one species, so
// users can skip uploading GO/KEGG tables.
type SpeciesConfig struct {
	GO   string `yaml:"go"`
	KEGG string `yaml:"kegg"`
}

// AnalysisDefaults seed the dashboard forms.
type AnalysisDefaults struct {
	TopN int `yaml:"topN"`
}

// Load reads a YAML config file (if provided) and applies environment
// overrides, returning defaults for anything missing.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   30 * time.Second,
			MaxUploadBytes: 32 << 20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		Analysis: AnalysisDefaults{
			TopN: 30,
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GSV_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("GSV_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("GSV_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("GSV_METRICS_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics.Enabled = enabled
		}
	}
}
