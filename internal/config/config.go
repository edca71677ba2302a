// Package config loads the service configuration from defaults, an
// optional YAML file, and RM4-prefixed environment variables, with the
// environment taking precedence over the file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Data      DataConfig      `yaml:"data" envconfig:"DATA"`
	Analytics AnalyticsConfig `yaml:"analytics" envconfig:"ANALYTICS"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" default:"60s"`
}

// SecurityConfig contains CORS and rate limiting configuration.
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output string `yaml:"output" envconfig:"OUTPUT" default:"stdout"`
}

// DataConfig locates the record exports the service can preload and the
// directory exports are written to.
type DataConfig struct {
	RecordsFile string `yaml:"records_file" envconfig:"RECORDS_FILE"`
	ExportDir   string `yaml:"export_dir" envconfig:"EXPORT_DIR" default:"exports"`
}

// AnalyticsConfig carries the tunable analysis thresholds. Field
// allow-lists and key candidates stay in code; only the numeric knobs
// are configurable.
type AnalyticsConfig struct {
	DurationRangeLow       float64 `yaml:"duration_range_low" envconfig:"DURATION_RANGE_LOW" default:"7"`
	DurationRangeHigh      float64 `yaml:"duration_range_high" envconfig:"DURATION_RANGE_HIGH" default:"9"`
	HighAdherenceThreshold float64 `yaml:"high_adherence_threshold" envconfig:"HIGH_ADHERENCE_THRESHOLD" default:"80"`
	LowAdherenceThreshold  float64 `yaml:"low_adherence_threshold" envconfig:"LOW_ADHERENCE_THRESHOLD" default:"50"`
	PatternMinRecords      int     `yaml:"pattern_min_records" envconfig:"PATTERN_MIN_RECORDS" default:"5"`
	TrendFieldCap          int     `yaml:"trend_field_cap" envconfig:"TREND_FIELD_CAP" default:"5"`
	TrendSampleCap         int     `yaml:"trend_sample_cap" envconfig:"TREND_SAMPLE_CAP" default:"10"`
}

// Load loads configuration from environment variables and an optional
// config file.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("RM4", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	configFile := getConfigFilePath()
	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence;
// env fields left at their zero value fall back to the file).
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Server.Port == 0 {
		envConfig.Server.Port = fileConfig.Server.Port
	}
	if envConfig.Server.ReadTimeout == 0 {
		envConfig.Server.ReadTimeout = fileConfig.Server.ReadTimeout
	}
	if envConfig.Server.WriteTimeout == 0 {
		envConfig.Server.WriteTimeout = fileConfig.Server.WriteTimeout
	}
	if envConfig.Server.IdleTimeout == 0 {
		envConfig.Server.IdleTimeout = fileConfig.Server.IdleTimeout
	}
	if envConfig.Server.RequestTimeout == 0 {
		envConfig.Server.RequestTimeout = fileConfig.Server.RequestTimeout
	}
	if len(fileConfig.Security.AllowedOrigins) > 0 {
		envConfig.Security.AllowedOrigins = fileConfig.Security.AllowedOrigins
	}
	if envConfig.Data.RecordsFile == "" {
		envConfig.Data.RecordsFile = fileConfig.Data.RecordsFile
	}
	if envConfig.Data.ExportDir == "" {
		envConfig.Data.ExportDir = fileConfig.Data.ExportDir
	}
	if fileConfig.Analytics != (AnalyticsConfig{}) {
		envConfig.Analytics = fileConfig.Analytics
	}

	return envConfig
}

// validate checks the configuration for values the server cannot start
// with. Analysis thresholds are not validated here; zero values fall
// back to the engine defaults.
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}

	if c.Analytics.DurationRangeLow > c.Analytics.DurationRangeHigh {
		return fmt.Errorf("sleep duration range is inverted: [%v, %v]",
			c.Analytics.DurationRangeLow, c.Analytics.DurationRangeHigh)
	}

	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		c.Logging.Format = "json"
	}

	return nil
}

// getConfigFilePath returns the path to the config file, checking the
// common locations in order.
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  60 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Data: DataConfig{
			ExportDir: "exports",
		},
		Analytics: AnalyticsConfig{
			DurationRangeLow:       7,
			DurationRangeHigh:      9,
			HighAdherenceThreshold: 80,
			LowAdherenceThreshold:  50,
			PatternMinRecords:      5,
			TrendFieldCap:          5,
			TrendSampleCap:         10,
		},
	}
}
