package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/bstardust/photo-geometa/internal/rational"
	"github.com/bstardust/photo-geometa/internal/sidecar"
	"github.com/bstardust/photo-geometa/internal/utils"
	"github.com/bstardust/photo-geometa/pkg/common"
)

// EnvPrefix prefixes every environment override, e.g. GEOMETA_GPS_LAT_LONG_DIGITS.
const EnvPrefix = "GEOMETA"

// Config represents the application configuration
type Config struct {
	LogLevel string        `mapstructure:"log_level"`
	Timezone string        `mapstructure:"timezone"`
	GPS      GPSConfig     `mapstructure:"gps"`
	Sidecar  SidecarConfig `mapstructure:"sidecar"`
	Inspect  InspectConfig `mapstructure:"inspect"`
	Report   ReportConfig  `mapstructure:"report"`
}

// GPSConfig controls rational precision when encoding positions
type GPSConfig struct {
	LatLongDigits  int `mapstructure:"lat_long_digits"`
	AltitudeDigits int `mapstructure:"altitude_digits"`
	MaxDenominator int `mapstructure:"max_denominator"`
}

// SidecarConfig controls XMP sidecar lookup
type SidecarConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Style   string `mapstructure:"style"`
}

// InspectConfig represents inspection options
type InspectConfig struct {
	Concurrency int           `mapstructure:"concurrency"`
	JSON        bool          `mapstructure:"json"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// ReportConfig represents the S3 connection used to publish reports
type ReportConfig struct {
	Upload       bool   `mapstructure:"upload"`
	SkipExisting bool   `mapstructure:"skip_existing"`
	Endpoint     string `mapstructure:"endpoint"`
	Region       string `mapstructure:"region"`
	Bucket       string `mapstructure:"bucket"`
	AccessKey    string `mapstructure:"access_key"`
	SecretKey    string `mapstructure:"secret_key"`
	UseSSL       bool   `mapstructure:"use_ssl"`
	Prefix       string `mapstructure:"prefix"`
}

// New creates a new configuration with default values
func New() *Config {
	return &Config{
		LogLevel: "info",
		Timezone: "UTC",
		GPS: GPSConfig{
			LatLongDigits:  4,
			AltitudeDigits: 4,
			MaxDenominator: rational.DefaultMaxDenominator,
		},
		Sidecar: SidecarConfig{
			Enabled: true,
			Style:   "both",
		},
		Inspect: InspectConfig{
			Concurrency: 4,
			Timeout:     10 * time.Minute,
		},
		Report: ReportConfig{
			SkipExisting: true,
			Region:       "us-east-1",
			UseSSL:       true,
			Prefix:       "geometa",
		},
	}
}

// Load reads configuration from an optional file and GEOMETA_* environment
// variables on top of the defaults from New. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := New()

	v := viper.New()
	setDefaults(v, cfg)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, common.NewConfigError(fmt.Sprintf("failed to read %s: %v", path, err))
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, common.NewConfigError(fmt.Sprintf("failed to decode configuration: %v", err))
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can resolve it during
// Unmarshal.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("timezone", cfg.Timezone)

	v.SetDefault("gps.lat_long_digits", cfg.GPS.LatLongDigits)
	v.SetDefault("gps.altitude_digits", cfg.GPS.AltitudeDigits)
	v.SetDefault("gps.max_denominator", cfg.GPS.MaxDenominator)

	v.SetDefault("sidecar.enabled", cfg.Sidecar.Enabled)
	v.SetDefault("sidecar.style", cfg.Sidecar.Style)

	v.SetDefault("inspect.concurrency", cfg.Inspect.Concurrency)
	v.SetDefault("inspect.json", cfg.Inspect.JSON)
	v.SetDefault("inspect.timeout", cfg.Inspect.Timeout)

	v.SetDefault("report.upload", cfg.Report.Upload)
	v.SetDefault("report.skip_existing", cfg.Report.SkipExisting)
	v.SetDefault("report.endpoint", cfg.Report.Endpoint)
	v.SetDefault("report.region", cfg.Report.Region)
	v.SetDefault("report.bucket", cfg.Report.Bucket)
	v.SetDefault("report.access_key", cfg.Report.AccessKey)
	v.SetDefault("report.secret_key", cfg.Report.SecretKey)
	v.SetDefault("report.use_ssl", cfg.Report.UseSSL)
	v.SetDefault("report.prefix", cfg.Report.Prefix)
}

// Validate checks ranges and, when reports are uploaded, the S3 settings.
func (c *Config) Validate() error {
	var errs []error

	if c.GPS.LatLongDigits < 0 || c.GPS.LatLongDigits > 9 {
		errs = append(errs, fmt.Errorf("gps.lat_long_digits must be within 0..9, got %d", c.GPS.LatLongDigits))
	}
	if c.GPS.AltitudeDigits < 0 || c.GPS.AltitudeDigits > 9 {
		errs = append(errs, fmt.Errorf("gps.altitude_digits must be within 0..9, got %d", c.GPS.AltitudeDigits))
	}
	if c.GPS.MaxDenominator < 2 {
		errs = append(errs, fmt.Errorf("gps.max_denominator must be at least 2, got %d", c.GPS.MaxDenominator))
	}
	if _, err := sidecar.ParseStyle(c.Sidecar.Style); err != nil {
		errs = append(errs, err)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("invalid timezone %q", c.Timezone))
	}
	if c.Inspect.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("inspect.concurrency must be positive, got %d", c.Inspect.Concurrency))
	}

	if c.Report.Upload {
		if c.Report.Endpoint == "" {
			errs = append(errs, errors.New("report.endpoint is required for uploads"))
		}
		if err := utils.ValidateS3BucketName(c.Report.Bucket); err != nil {
			errs = append(errs, fmt.Errorf("report.bucket: %w", err))
		}
		if c.Report.AccessKey == "" || c.Report.SecretKey == "" {
			errs = append(errs, errors.New("report.access_key and report.secret_key are required for uploads"))
		}
	}

	if len(errs) > 0 {
		return common.NewConfigError(errors.Join(errs...).Error())
	}
	return nil
}

// Location returns the configured timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SidecarStyle returns the parsed sidecar style, falling back to Both.
func (c *Config) SidecarStyle() sidecar.PathStyle {
	style, err := sidecar.ParseStyle(c.Sidecar.Style)
	if err != nil {
		return sidecar.Both
	}
	return style
}
