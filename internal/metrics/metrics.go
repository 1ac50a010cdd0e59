// Package metrics provides Prometheus metrics for emotionsense.
//
// Only operational counters are exported. Emotion categories and
// confidences never leave the process.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rewired-gh/emotionsense/internal/logger"
)

const namespace = "emotionsense"

// Collector holds the session collectors on a private registry.
type Collector struct {
	registry *prometheus.Registry

	SessionsTotal  prometheus.Counter
	TicksTotal     prometheus.Counter
	CaptureErrors  prometheus.Counter
	HistoryLength  prometheus.Gauge
	RecordingState prometheus.Gauge
}

// New creates a Collector and registers its metrics.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		SessionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_started_total",
			Help:      "Total number of monitoring sessions started",
		}),
		TicksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Total number of detection ticks recorded",
		}),
		CaptureErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "capture_errors_total",
			Help:      "Total number of frames the capture source failed to deliver",
		}),
		HistoryLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "history_length",
			Help:      "Number of readings currently held in the history buffer",
		}),
		RecordingState: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "recording",
			Help:      "Session recording state (1 = recording, 0 = idle)",
		}),
	}
	c.registry.MustRegister(
		c.SessionsTotal,
		c.TicksTotal,
		c.CaptureErrors,
		c.HistoryLength,
		c.RecordingState,
	)
	return c
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// SessionStarted records a session start.
func (c *Collector) SessionStarted() {
	c.SessionsTotal.Inc()
	c.RecordingState.Set(1)
	c.HistoryLength.Set(0)
}

// SessionHalted records a session whose ticking ended without Stop. The
// history is kept until Stop.
func (c *Collector) SessionHalted() {
	c.RecordingState.Set(0)
}

// SessionStopped records a session stop. The history is discarded on stop.
func (c *Collector) SessionStopped() {
	c.RecordingState.Set(0)
	c.HistoryLength.Set(0)
}

// Tick records one detection tick.
func (c *Collector) Tick(historyLen int) {
	c.TicksTotal.Inc()
	c.HistoryLength.Set(float64(historyLen))
}

// CaptureFailed records a failed frame capture.
func (c *Collector) CaptureFailed() {
	c.CaptureErrors.Inc()
}

// Handler returns an HTTP handler serving the registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Serve exposes the metrics on addr at path until ctx is done.
func (c *Collector) Serve(ctx context.Context, addr, path string) error {
	mux := http.NewServeMux()
	mux.Handle(path, c.Handler())

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Failed to shut down metrics server: %v", err)
		}
	}()

	logger.Info("Serving metrics on http://%s%s", ln.Addr(), path)
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server failed: %w", err)
	}
	return nil
}
