package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadAndValidate(t *testing.T) {
	// Create temp config file
	content := `
monitor:
  tick_interval: 500ms
  run_for: 2m

history:
  capacity: 25

generator:
  seed: 1234

capture:
  width: 320
  height: 240

display:
  enabled: false
  color: false

telegram:
  bot_token: "test_token"
  chat_id: "12345"
  enabled: true
  max_retries: 2
  retry_delay_base: 250ms

metrics:
  enabled: true
  listen_addr: "127.0.0.1:9000"
  path: "/metrics"

logging:
  level: "debug"
  format: "json"
`
	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	// Test Load
	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Verify values
	if cfg.Monitor.TickInterval != 500*time.Millisecond {
		t.Errorf("Unexpected tick interval: %v", cfg.Monitor.TickInterval)
	}
	if cfg.Monitor.RunFor != 2*time.Minute {
		t.Errorf("Unexpected run_for: %v", cfg.Monitor.RunFor)
	}
	if cfg.History.Capacity != 25 {
		t.Errorf("Unexpected history capacity: %d", cfg.History.Capacity)
	}
	if cfg.Generator.Seed != 1234 {
		t.Errorf("Unexpected seed: %d", cfg.Generator.Seed)
	}
	if cfg.Display.Enabled {
		t.Error("Expected display to be disabled")
	}
	if cfg.Telegram.RetryDelayBase != 250*time.Millisecond {
		t.Errorf("Unexpected retry delay: %v", cfg.Telegram.RetryDelayBase)
	}
	if cfg.Metrics.ListenAddr != "127.0.0.1:9000" {
		t.Errorf("Unexpected metrics address: %s", cfg.Metrics.ListenAddr)
	}

	// Test Validate
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Monitor.TickInterval != time.Second {
		t.Errorf("Expected default tick interval 1s, got %v", cfg.Monitor.TickInterval)
	}
	if cfg.History.Capacity != 50 {
		t.Errorf("Expected default capacity 50, got %d", cfg.History.Capacity)
	}
	if cfg.Capture.Width != 640 || cfg.Capture.Height != 480 {
		t.Errorf("Unexpected default capture size %dx%d", cfg.Capture.Width, cfg.Capture.Height)
	}
	if !cfg.Display.Enabled || cfg.Telegram.Enabled || cfg.Metrics.Enabled {
		t.Error("Unexpected default toggles")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Defaults should validate: %v", err)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("EMOTIONSENSE_HISTORY_CAPACITY", "10")
	t.Setenv("EMOTIONSENSE_MONITOR_TICK_INTERVAL", "2s")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.History.Capacity != 10 {
		t.Errorf("Expected capacity 10 from env, got %d", cfg.History.Capacity)
	}
	if cfg.Monitor.TickInterval != 2*time.Second {
		t.Errorf("Expected tick interval 2s from env, got %v", cfg.Monitor.TickInterval)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/emotionsense.yaml"); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func validConfig() *Config {
	return &Config{
		Monitor: MonitorConfig{TickInterval: time.Second},
		History: HistoryConfig{Capacity: 50},
		Capture: CaptureConfig{Width: 640, Height: 480},
		Display: DisplayConfig{Enabled: true, Color: true},
		Metrics: MetricsConfig{ListenAddr: "127.0.0.1:9464", Path: "/metrics"},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "tick interval too short",
			mutate:  func(c *Config) { c.Monitor.TickInterval = time.Millisecond },
			wantErr: true,
		},
		{
			name:    "negative run_for",
			mutate:  func(c *Config) { c.Monitor.RunFor = -time.Second },
			wantErr: true,
		},
		{
			name:    "zero capacity",
			mutate:  func(c *Config) { c.History.Capacity = 0 },
			wantErr: true,
		},
		{
			name:    "zero capture width",
			mutate:  func(c *Config) { c.Capture.Width = 0 },
			wantErr: true,
		},
		{
			name: "missing telegram token when enabled",
			mutate: func(c *Config) {
				c.Telegram = TelegramConfig{Enabled: true, ChatID: "1", MaxRetries: 3}
			},
			wantErr: true,
		},
		{
			name: "missing telegram chat when enabled",
			mutate: func(c *Config) {
				c.Telegram = TelegramConfig{Enabled: true, BotToken: "t", MaxRetries: 3}
			},
			wantErr: true,
		},
		{
			name: "telegram disabled ignores missing token",
			mutate: func(c *Config) {
				c.Telegram = TelegramConfig{Enabled: false}
			},
			wantErr: false,
		},
		{
			name: "metrics path without slash",
			mutate: func(c *Config) {
				c.Metrics = MetricsConfig{Enabled: true, ListenAddr: ":9464", Path: "metrics"}
			},
			wantErr: true,
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Logging.Level = "trace" },
			wantErr: true,
		},
		{
			name:    "invalid log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
