// Package config loads and validates collector configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	DB      DBConfig      `mapstructure:"db"`
	Browser BrowserConfig `mapstructure:"browser"`
	Pacing  PacingConfig  `mapstructure:"pacing"`
	Collect CollectConfig `mapstructure:"collect"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port            int `mapstructure:"port"`
	ShutdownSeconds int `mapstructure:"shutdown_seconds"`
}

// DBConfig controls access to the relational database.
type DBConfig struct {
	DSN      string `mapstructure:"dsn"`
	MaxConns int    `mapstructure:"max_conns"`
}

// BrowserConfig configures the shared headless session.
type BrowserConfig struct {
	UserAgent     string `mapstructure:"user_agent"`
	ViewportW     int    `mapstructure:"viewport_width"`
	ViewportH     int    `mapstructure:"viewport_height"`
	NavTimeoutSec int    `mapstructure:"nav_timeout_seconds"`
}

// PacingConfig scales the randomized pauses between page loads. PaceUnitMs is
// the base unit every pause range multiplies; production keeps it at 1000.
type PacingConfig struct {
	PaceUnitMs int `mapstructure:"pace_unit_ms"`
}

// CollectConfig governs collection run behavior.
type CollectConfig struct {
	BaseURL       string `mapstructure:"base_url"`
	MaxPlayers    int    `mapstructure:"max_players"`
	ForceStats    bool   `mapstructure:"force_stats"`
	EverySchedule string `mapstructure:"every"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CSRADAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Keys without a default are invisible to Unmarshal when set only via
	// the environment; bind them explicitly.
	for _, key := range []string{"db.dsn", "browser.user_agent", "collect.force_stats", "collect.every"} {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_seconds", 10)
	v.SetDefault("db.max_conns", 4)
	v.SetDefault("browser.viewport_width", 1366)
	v.SetDefault("browser.viewport_height", 768)
	v.SetDefault("browser.nav_timeout_seconds", 45)
	v.SetDefault("pacing.pace_unit_ms", 1000)
	v.SetDefault("collect.base_url", "https://www.hltv.org")
	v.SetDefault("collect.max_players", 0)
	v.SetDefault("logging.development", true)
	v.SetDefault("logging.level", "info")
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.DB.MaxConns <= 0 {
		return fmt.Errorf("db.max_conns must be > 0")
	}
	if c.Browser.NavTimeoutSec <= 0 {
		return fmt.Errorf("browser.nav_timeout_seconds must be > 0")
	}
	if c.Pacing.PaceUnitMs < 0 {
		return fmt.Errorf("pacing.pace_unit_ms must be >= 0")
	}
	if c.Collect.BaseURL == "" {
		return fmt.Errorf("collect.base_url must be set")
	}
	if c.Collect.MaxPlayers < 0 {
		return fmt.Errorf("collect.max_players must be >= 0")
	}
	return nil
}

// NavTimeout converts the configured navigation budget into a duration.
func (c Config) NavTimeout() time.Duration {
	return time.Duration(c.Browser.NavTimeoutSec) * time.Second
}

// PaceUnit converts the configured pace unit into a duration.
func (c Config) PaceUnit() time.Duration {
	return time.Duration(c.Pacing.PaceUnitMs) * time.Millisecond
}

// ShutdownGrace is how long the HTTP server drains on shutdown.
func (c Config) ShutdownGrace() time.Duration {
	return time.Duration(c.Server.ShutdownSeconds) * time.Second
}
