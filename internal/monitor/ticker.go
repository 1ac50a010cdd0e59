package monitor

import (
	"sync"
	"time"
)

// Ticker delivers tick times on C until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory creates a Ticker with the given period.
type TickerFactory func(period time.Duration) Ticker

// NewRealTicker wraps time.NewTicker.
func NewRealTicker(period time.Duration) Ticker {
	return &realTicker{t: time.NewTicker(period)}
}

type realTicker struct {
	t *time.Ticker
}

func (r *realTicker) C() <-chan time.Time { return r.t.C }
func (r *realTicker) Stop()               { r.t.Stop() }

// ManualTicker is a Ticker advanced by hand, for deterministic driving of a
// session in tests and replays.
type ManualTicker struct {
	ch      chan time.Time
	mu      sync.Mutex
	stopped bool
	period  time.Duration
}

// NewManualTicker creates an unbuffered ManualTicker.
func NewManualTicker() *ManualTicker {
	return &ManualTicker{ch: make(chan time.Time)}
}

// Factory returns a TickerFactory that always hands out m.
func (m *ManualTicker) Factory() TickerFactory {
	return func(period time.Duration) Ticker {
		m.mu.Lock()
		m.period = period
		m.stopped = false
		m.mu.Unlock()
		return m
	}
}

func (m *ManualTicker) C() <-chan time.Time { return m.ch }

func (m *ManualTicker) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
}

// Stopped reports whether Stop has been called since the last Factory use.
func (m *ManualTicker) Stopped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}

// Period returns the period the ticker was created with.
func (m *ManualTicker) Period() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.period
}

// Advance delivers one tick and blocks until the receiver takes it.
func (m *ManualTicker) Advance(at time.Time) {
	m.ch <- at
}
