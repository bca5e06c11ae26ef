// Package config loads and validates verifier configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Scraper Scraper `mapstructure:"scraper"`
	Cache   Cache   `mapstructure:"cache"`
	AI      AI      `mapstructure:"ai"`
	Metrics Metrics `mapstructure:"metrics"`
	Logging Logging `mapstructure:"logging"`
}

// Scraper governs the fetch pipeline.
type Scraper struct {
	UserAgent             string  `mapstructure:"user_agent"`
	StealthUserAgent      string  `mapstructure:"stealth_user_agent"`
	TimeoutSeconds        int     `mapstructure:"timeout_seconds"`
	RobotsTimeoutSeconds  int     `mapstructure:"robots_timeout_seconds"`
	PerHostRequestsPerSec float64 `mapstructure:"per_host_rps"`
	PerHostBurst          int     `mapstructure:"per_host_burst"`
}

// Cache selects and tunes the cache backend shared by the robots and
// page result caches.
type Cache struct {
	Backend        string        `mapstructure:"backend"` // memcached, memory, none
	Servers        []string      `mapstructure:"servers"`
	PageTTL        time.Duration `mapstructure:"page_ttl"`
	RobotsTTL      time.Duration `mapstructure:"robots_ttl"`
	TimeoutSeconds int           `mapstructure:"timeout_seconds"`
}

// AI configures the external-model adapter. An empty APIKey disables the
// external model entirely; verification then runs on the heuristic engine.
type AI struct {
	APIKey         string `mapstructure:"api_key"`
	Model          string `mapstructure:"model"`
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// Metrics controls the optional Prometheus listener.
type Metrics struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// Logging toggles zap development features.
type Logging struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TRUTHLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

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
	v.SetDefault("scraper.user_agent", "TruthLensAI-Bot/1.0 (+http://truthlens.ai/bot)")
	v.SetDefault("scraper.stealth_user_agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	v.SetDefault("scraper.timeout_seconds", 15)
	v.SetDefault("scraper.robots_timeout_seconds", 5)
	v.SetDefault("scraper.per_host_rps", 2)
	v.SetDefault("scraper.per_host_burst", 2)
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.page_ttl", time.Hour)
	v.SetDefault("cache.robots_ttl", 24*time.Hour)
	v.SetDefault("cache.timeout_seconds", 2)
	v.SetDefault("ai.model", "gpt-4o-mini")
	v.SetDefault("ai.timeout_seconds", 30)
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Scraper.TimeoutSeconds <= 0 {
		return fmt.Errorf("scraper.timeout_seconds must be > 0")
	}
	if c.Scraper.RobotsTimeoutSeconds <= 0 {
		return fmt.Errorf("scraper.robots_timeout_seconds must be > 0")
	}
	switch c.Cache.Backend {
	case "memcached":
		if len(c.Cache.Servers) == 0 {
			return fmt.Errorf("cache.servers must be set when cache.backend is memcached")
		}
	case "memory", "none":
	default:
		return fmt.Errorf("unknown cache backend: %s", c.Cache.Backend)
	}
	if c.Cache.PageTTL <= 0 || c.Cache.RobotsTTL <= 0 {
		return fmt.Errorf("cache TTLs must be > 0")
	}
	if c.Metrics.Enabled && c.Metrics.Port <= 0 {
		return fmt.Errorf("metrics.port must be > 0 when metrics is enabled")
	}
	return nil
}

// FetchTimeout converts the scraper timeout config into a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.Scraper.TimeoutSeconds) * time.Second
}

// RobotsTimeout converts the robots fetch timeout config into a duration.
func (c Config) RobotsTimeout() time.Duration {
	return time.Duration(c.Scraper.RobotsTimeoutSeconds) * time.Second
}

// CacheTimeout converts the cache backend operation timeout config into a
// duration.
func (c Config) CacheTimeout() time.Duration {
	return time.Duration(c.Cache.TimeoutSeconds) * time.Second
}
