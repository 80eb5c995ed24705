package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/snkhalik/delivery-distance-checker/internal/filter"
)

type Config struct {
	Server ServerConfig
	Auth   AuthConfig
	Paths  PathsConfig
	Jobs   JobsConfig

	// ThresholdMeters is the default discrepancy threshold; each upload
	// can override it in the form.
	ThresholdMeters float64 `mapstructure:"threshold_meters"`
}

type ServerConfig struct {
	Addr    string
	GinMode string `mapstructure:"gin_mode"`
}

type AuthConfig struct {
	User          string
	Password      string
	SessionSecret string `mapstructure:"session_secret"`
}

type PathsConfig struct {
	Uploads  string
	Output   string
	Database string
}

type JobsConfig struct {
	RetentionMinutes int `mapstructure:"retention_minutes"`
}

// Retention returns how long finished jobs and their stored rows are kept.
func (j JobsConfig) Retention() time.Duration {
	return time.Duration(j.RetentionMinutes) * time.Minute
}

// Load reads config.yaml from the working directory, layered under DDC_*
// environment overrides and built-in defaults. A missing file is fine; a
// malformed one is not.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("DDC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", ":9595")
	v.SetDefault("server.gin_mode", "release")
	v.SetDefault("threshold_meters", filter.DefaultThresholdMeters)
	v.SetDefault("auth.user", "user")
	v.SetDefault("auth.password", "")
	v.SetDefault("auth.session_secret", "")
	v.SetDefault("paths.uploads", "uploads")
	v.SetDefault("paths.output", "output")
	v.SetDefault("paths.database", "results.db")
	v.SetDefault("jobs.retention_minutes", 60)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.ThresholdMeters <= 0 {
		return nil, fmt.Errorf("threshold_meters must be positive, got %v", cfg.ThresholdMeters)
	}
	if cfg.Jobs.RetentionMinutes <= 0 {
		return nil, fmt.Errorf("jobs.retention_minutes must be positive, got %d", cfg.Jobs.RetentionMinutes)
	}

	return &cfg, nil
}
