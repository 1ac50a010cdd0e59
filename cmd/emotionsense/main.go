package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rewired-gh/emotionsense/internal/capture"
	"github.com/rewired-gh/emotionsense/internal/config"
	"github.com/rewired-gh/emotionsense/internal/display"
	"github.com/rewired-gh/emotionsense/internal/emotion"
	"github.com/rewired-gh/emotionsense/internal/logger"
	"github.com/rewired-gh/emotionsense/internal/metrics"
	"github.com/rewired-gh/emotionsense/internal/monitor"
	"github.com/rewired-gh/emotionsense/internal/telegram"
)

var configPath = flag.String("config", "configs/config.yaml", "Path to configuration file")

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Setup logging with level support
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("Configuration loaded from %s", *configPath)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, cleaning up...")
		cancel()
	}()

	// Initialize detector
	var src emotion.Source
	if cfg.Generator.Seed != 0 {
		src = emotion.NewSource(cfg.Generator.Seed)
		logger.Debug("Generator seeded with %d", cfg.Generator.Seed)
	} else {
		src = emotion.NewTimeSource()
	}
	detector := emotion.NewGenerator(src)

	opts := monitor.Options{
		Interval:        cfg.Monitor.TickInterval,
		HistoryCapacity: cfg.History.Capacity,
	}

	// Initialize metrics
	if cfg.Metrics.Enabled {
		collector := metrics.New()
		opts.Recorder = collector
		go func() {
			if err := collector.Serve(ctx, cfg.Metrics.ListenAddr, cfg.Metrics.Path); err != nil {
				logger.Error("Metrics server stopped: %v", err)
			}
		}()
	} else {
		logger.Debug("Metrics disabled")
	}

	// Initialize Telegram client
	if cfg.Telegram.Enabled {
		telegramClient, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.MaxRetries, cfg.Telegram.RetryDelayBase)
		if err != nil {
			logger.Fatal("Failed to initialize Telegram client: %v", err)
		}
		opts.Notifier = telegramClient
		logger.Info("Telegram client initialized successfully")
	} else {
		logger.Debug("Telegram announcements disabled")
	}

	// Initialize display
	var renderer *display.Renderer
	if cfg.Display.Enabled {
		renderer = display.New(os.Stdout, cfg.Display.Color)
		opts.OnTick = func(snap monitor.Snapshot) {
			renderSnapshot(renderer, snap)
		}
	}

	session := monitor.New(detector, capture.NewSynthetic(cfg.Capture.Width, cfg.Capture.Height), opts)

	renderSnapshot(renderer, session.Snapshot())

	if err := session.Start(ctx); err != nil {
		logger.Fatal("Failed to start monitoring: %v", err)
	}
	renderSnapshot(renderer, session.Snapshot())

	// Run until interrupted or the configured duration elapses
	var deadline <-chan time.Time
	if cfg.Monitor.RunFor > 0 {
		timer := time.NewTimer(cfg.Monitor.RunFor)
		defer timer.Stop()
		deadline = timer.C
		logger.Info("Monitoring for %v", cfg.Monitor.RunFor)
	}

	select {
	case <-ctx.Done():
	case <-deadline:
		logger.Info("Configured run time elapsed")
	}

	// Announcements on stop should not be cut off by the cancelled run context
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	if err := session.Stop(stopCtx); err != nil {
		logger.Error("Failed to stop monitoring: %v", err)
	}
	renderSnapshot(renderer, session.Snapshot())

	logger.Info("Service stopped")
}

// renderSnapshot draws snap when the display is enabled. Render failures are
// logged and never stop monitoring.
func renderSnapshot(renderer *display.Renderer, snap monitor.Snapshot) {
	if renderer == nil {
		return
	}
	if err := renderer.Render(snap); err != nil {
		logger.Warn("Failed to render snapshot: %v", err)
	}
}
