package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Monitor   MonitorConfig   `mapstructure:"monitor"`
	History   HistoryConfig   `mapstructure:"history"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Capture   CaptureConfig   `mapstructure:"capture"`
	Display   DisplayConfig   `mapstructure:"display"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// MonitorConfig holds the monitoring session timing
type MonitorConfig struct {
	TickInterval time.Duration `mapstructure:"tick_interval"`
	RunFor       time.Duration `mapstructure:"run_for"` // 0 = until interrupted
}

// HistoryConfig holds the history buffer size
type HistoryConfig struct {
	Capacity int `mapstructure:"capacity"`
}

// GeneratorConfig holds the synthetic detector settings
type GeneratorConfig struct {
	Seed uint64 `mapstructure:"seed"` // 0 = seed from the clock
}

// CaptureConfig holds the frame source settings
type CaptureConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

// DisplayConfig holds terminal rendering options
type DisplayConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Color   bool `mapstructure:"color"`
}

// TelegramConfig holds Telegram announcement configuration
type TelegramConfig struct {
	BotToken       string        `mapstructure:"bot_token"`
	ChatID         string        `mapstructure:"chat_id"`
	Enabled        bool          `mapstructure:"enabled"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelayBase time.Duration `mapstructure:"retry_delay_base"`
}

// MetricsConfig holds Prometheus exposition configuration
type MetricsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	ListenAddr string `mapstructure:"listen_addr"`
	Path       string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// minTickInterval keeps a misconfigured interval from spinning the CPU.
const minTickInterval = 10 * time.Millisecond

// envKeyReplacer maps monitor.tick_interval to EMOTIONSENSE_MONITOR_TICK_INTERVAL.
var envKeyReplacer = strings.NewReplacer(".", "_")

// Load reads configuration from file and environment variables.
// An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Enable environment variable override
	v.SetEnvPrefix("EMOTIONSENSE")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("monitor.tick_interval", "1s")
	v.SetDefault("monitor.run_for", "0s")

	v.SetDefault("history.capacity", 50)

	v.SetDefault("generator.seed", 0)

	v.SetDefault("capture.width", 640)
	v.SetDefault("capture.height", 480)

	v.SetDefault("display.enabled", true)
	v.SetDefault("display.color", true)

	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", "")
	v.SetDefault("telegram.max_retries", 3)
	v.SetDefault("telegram.retry_delay_base", "1s")

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.listen_addr", "127.0.0.1:9464")
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.Monitor.TickInterval < minTickInterval {
		return fmt.Errorf("monitor.tick_interval must be at least %v", minTickInterval)
	}
	if c.Monitor.RunFor < 0 {
		return fmt.Errorf("monitor.run_for must not be negative")
	}

	if c.History.Capacity < 1 {
		return fmt.Errorf("history.capacity must be at least 1")
	}

	if c.Capture.Width < 1 || c.Capture.Height < 1 {
		return fmt.Errorf("capture.width and capture.height must be positive")
	}

	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
		if c.Telegram.MaxRetries < 1 {
			return fmt.Errorf("telegram.max_retries must be at least 1")
		}
	}

	if c.Metrics.Enabled {
		if c.Metrics.ListenAddr == "" {
			return fmt.Errorf("metrics.listen_addr is required when metrics are enabled")
		}
		if len(c.Metrics.Path) == 0 || c.Metrics.Path[0] != '/' {
			return fmt.Errorf("metrics.path must start with /")
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}
