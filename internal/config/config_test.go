package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 7.0, cfg.Analytics.DurationRangeLow)
	assert.Equal(t, 9.0, cfg.Analytics.DurationRangeHigh)
	assert.Equal(t, 80.0, cfg.Analytics.HighAdherenceThreshold)

	require.NoError(t, cfg.validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "invalid server port",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "invalid server port",
		},
		{
			name:    "zero read timeout",
			mutate:  func(c *Config) { c.Server.ReadTimeout = 0 },
			wantErr: "read timeout must be positive",
		},
		{
			name:    "no allowed origins",
			mutate:  func(c *Config) { c.Security.AllowedOrigins = nil },
			wantErr: "at least one allowed origin",
		},
		{
			name: "inverted sleep range",
			mutate: func(c *Config) {
				c.Analytics.DurationRangeLow = 9
				c.Analytics.DurationRangeHigh = 7
			},
			wantErr: "duration range is inverted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateNormalizesLogFormat(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "xml"
	require.NoError(t, cfg.validate())
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestMergeConfigs(t *testing.T) {
	fileCfg := Config{}
	fileCfg.Server.Port = 9090
	fileCfg.Server.ReadTimeout = 5 * time.Second
	fileCfg.Data.RecordsFile = "data/export.csv"

	envCfg := Config{}
	envCfg.Server.Port = 3000 // env wins when set

	merged := mergeConfigs(fileCfg, envCfg)
	assert.Equal(t, 3000, merged.Server.Port)
	assert.Equal(t, 5*time.Second, merged.Server.ReadTimeout)
	assert.Equal(t, "data/export.csv", merged.Data.RecordsFile)
}
