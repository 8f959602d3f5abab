// Package config provides Viper-based configuration management for go-study-tracker
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/penwyp/go-study-tracker/internal/core/calendar"
	"github.com/penwyp/go-study-tracker/internal/core/constants"
	"github.com/penwyp/go-study-tracker/internal/core/model"
	"github.com/penwyp/go-study-tracker/internal/util"
)

const (
	EnvPrefix      = "STUDY"
	DefaultDataDir = "~/.go-study-tracker/data"
	DefaultLogFile = "~/.go-study-tracker/logs/app.log"
	configDir      = "$HOME/.config/go-study-tracker"
)

// Config is the complete go-study-tracker configuration
type Config struct {
	DataDir     string      `mapstructure:"data_dir"`
	Timezone    string      `mapstructure:"timezone"`
	WeekStart   string      `mapstructure:"week_start"`
	Granularity string      `mapstructure:"granularity"`
	Subject     string      `mapstructure:"subject"`
	FPS         int         `mapstructure:"fps"`
	Log         LogConfig   `mapstructure:"log"`
	Cache       CacheConfig `mapstructure:"cache"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// CacheConfig contains sample cache settings
type CacheConfig struct {
	TTL         time.Duration `mapstructure:"ttl"`
	MaxSubjects int           `mapstructure:"max_subjects"`
}

// Load reads configuration from file and environment variables. An empty
// cfgFile searches ./config.yaml and ~/.config/go-study-tracker/config.yaml;
// a missing file is not an error.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	// STUDY_DATA_DIR, STUDY_LOG_LEVEL, ...
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.DataDir = ExpandPath(cfg.DataDir)
	cfg.Log.File = ExpandPath(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Default returns the built-in configuration without reading any file.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	cfg.DataDir = ExpandPath(cfg.DataDir)
	cfg.Log.File = ExpandPath(cfg.Log.File)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", DefaultDataDir)
	v.SetDefault("timezone", "Local")
	v.SetDefault("week_start", "monday")
	v.SetDefault("granularity", model.TokenDay)
	v.SetDefault("subject", constants.DefaultSubject)
	v.SetDefault("fps", constants.DefaultFPS)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", DefaultLogFile)

	v.SetDefault("cache.ttl", constants.DefaultCacheTTL)
	v.SetDefault("cache.max_subjects", 1000)
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	if _, err := util.LoadLocation(c.Timezone); err != nil {
		return err
	}
	if _, err := calendar.ParseWeekday(c.WeekStart); err != nil {
		return fmt.Errorf("invalid week_start: %w", err)
	}
	if _, err := model.ParseGranularity(c.Granularity); err != nil {
		return err
	}
	if c.FPS < constants.MinFPS || c.FPS > constants.MaxFPS {
		return fmt.Errorf("invalid fps: %d (must be between %d and %d)", c.FPS, constants.MinFPS, constants.MaxFPS)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Log.Level)
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Log.Format)] {
		return fmt.Errorf("invalid log format: %s (must be text or json)", c.Log.Format)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("invalid cache ttl: %s", c.Cache.TTL)
	}
	return nil
}

// WeekStartDay returns the parsed week start; call after Validate.
func (c *Config) WeekStartDay() time.Weekday {
	d, err := calendar.ParseWeekday(c.WeekStart)
	if err != nil {
		return time.Monday
	}
	return d
}

// DefaultGranularity returns the parsed default zoom level.
func (c *Config) DefaultGranularity() model.Granularity {
	g, err := model.ParseGranularity(c.Granularity)
	if err != nil {
		return model.GranularityDay
	}
	return g
}

// ExpandPath resolves a leading ~/ and makes the path absolute.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}
