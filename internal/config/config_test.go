package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bstardust/photo-geometa/internal/sidecar"
	"github.com/bstardust/photo-geometa/pkg/common"
)

func TestNewDefaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 4, cfg.GPS.LatLongDigits)
	assert.Equal(t, 500, cfg.GPS.MaxDenominator)
	assert.True(t, cfg.Sidecar.Enabled)
	assert.Equal(t, sidecar.Both, cfg.SidecarStyle())
	assert.Equal(t, time.UTC, cfg.Location())
	assert.NoError(t, cfg.Validate())
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, New(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geometa.yaml")
	content := `log_level: debug
gps:
  lat_long_digits: 6
sidecar:
  style: replaced
inspect:
  concurrency: 8
  timeout: 30s
report:
  bucket: geo-reports
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 6, cfg.GPS.LatLongDigits)
	assert.Equal(t, 4, cfg.GPS.AltitudeDigits)
	assert.Equal(t, sidecar.Replaced, cfg.SidecarStyle())
	assert.Equal(t, 8, cfg.Inspect.Concurrency)
	assert.Equal(t, 30*time.Second, cfg.Inspect.Timeout)
	assert.Equal(t, "geo-reports", cfg.Report.Bucket)
	assert.Equal(t, "us-east-1", cfg.Report.Region)
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("GEOMETA_GPS_ALTITUDE_DIGITS", "2")
	t.Setenv("GEOMETA_SIDECAR_ENABLED", "false")
	t.Setenv("GEOMETA_REPORT_ENDPOINT", "localhost:9000")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.GPS.AltitudeDigits)
	assert.False(t, cfg.Sidecar.Enabled)
	assert.Equal(t, "localhost:9000", cfg.Report.Endpoint)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	var cfgErr *common.ConfigError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"negative digits", func(c *Config) { c.GPS.LatLongDigits = -1 }},
		{"altitude digits", func(c *Config) { c.GPS.AltitudeDigits = 12 }},
		{"denominator", func(c *Config) { c.GPS.MaxDenominator = 1 }},
		{"sidecar style", func(c *Config) { c.Sidecar.Style = "sideways" }},
		{"timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }},
		{"concurrency", func(c *Config) { c.Inspect.Concurrency = 0 }},
		{"upload without endpoint", func(c *Config) {
			c.Report.Upload = true
			c.Report.Bucket = "geo-reports"
			c.Report.AccessKey = "a"
			c.Report.SecretKey = "b"
		}},
		{"upload with bad bucket", func(c *Config) {
			c.Report.Upload = true
			c.Report.Endpoint = "localhost:9000"
			c.Report.Bucket = "Bad_Bucket"
			c.Report.AccessKey = "a"
			c.Report.SecretKey = "b"
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.modify(cfg)

			err := cfg.Validate()
			var cfgErr *common.ConfigError
			assert.True(t, errors.As(err, &cfgErr), "got %v", err)
		})
	}

	cfg := New()
	cfg.Report.Upload = true
	cfg.Report.Endpoint = "localhost:9000"
	cfg.Report.Bucket = "geo-reports"
	cfg.Report.AccessKey = "a"
	cfg.Report.SecretKey = "b"
	assert.NoError(t, cfg.Validate())
}
