// Package monitor runs an emotion monitoring session.
//
// A Session moves Idle -> Recording on Start and back to Idle on Stop. While
// recording, every tick from the injected Ticker pulls a frame from the
// capture source, asks the detector for a distribution, and records the
// dominant reading in a fresh history buffer. Stop halts ticking before it
// returns and discards the buffer. If the context passed to Start ends first,
// the session parks in Halted with its history intact until Stop.
package monitor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rewired-gh/emotionsense/internal/capture"
	"github.com/rewired-gh/emotionsense/internal/emotion"
	"github.com/rewired-gh/emotionsense/internal/history"
	"github.com/rewired-gh/emotionsense/internal/logger"
)

// DefaultInterval is the tick period when none is configured.
const DefaultInterval = time.Second

var (
	// ErrAlreadyRecording is returned by Start unless the session is Idle.
	ErrAlreadyRecording = errors.New("monitor: session already recording")
	// ErrNotRecording is returned by Stop on an idle session.
	ErrNotRecording = errors.New("monitor: session not recording")
)

// State is the session lifecycle state.
type State int

const (
	Idle State = iota
	Recording
	// Halted means ticking ended with the Start context. Stop is still
	// required to discard the history and return to Idle.
	Halted
	stopping
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Recording:
		return "recording"
	case Halted:
		return "halted"
	case stopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// Detector turns a frame into an emotion distribution.
type Detector interface {
	Generate(frame *capture.Frame) emotion.Distribution
}

// Notifier is told about session lifecycle changes.
type Notifier interface {
	SessionStarted(ctx context.Context, sessionID string) error
	SessionStopped(ctx context.Context, sessionID string, tracked int) error
}

// Recorder receives operational counters.
type Recorder interface {
	SessionStarted()
	SessionHalted()
	SessionStopped()
	Tick(historyLen int)
	CaptureFailed()
}

// Options configures a Session. Zero values select defaults.
type Options struct {
	Interval        time.Duration
	HistoryCapacity int
	NewTicker       TickerFactory
	Notifier        Notifier
	Recorder        Recorder
	// OnTick, when set, is called after every recorded tick with the
	// session's state at that point. It runs on the ticking goroutine.
	OnTick func(Snapshot)
}

// Snapshot is a read-only view of a session for display.
type Snapshot struct {
	SessionID    string
	State        State
	StartedAt    time.Time
	Ticks        int
	Distribution emotion.Distribution
	Dominant     *emotion.Reading
	Summary      history.Summary
	Tally        []history.Count
	HistoryLen   int
}

// Active reports whether the snapshot was taken while recording.
func (s Snapshot) Active() bool {
	return s.State == Recording
}

// Session owns the monitoring state for one camera.
type Session struct {
	detector Detector
	source   capture.Source
	opts     Options

	mu        sync.Mutex
	state     State
	id        string
	startedAt time.Time
	ticks     int
	history   *history.Buffer
	latest    emotion.Distribution
	stop      chan struct{}
	done      chan struct{}
}

// New creates an idle Session.
func New(detector Detector, source capture.Source, opts Options) *Session {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.HistoryCapacity < 1 {
		opts.HistoryCapacity = history.DefaultCapacity
	}
	if opts.NewTicker == nil {
		opts.NewTicker = NewRealTicker
	}
	return &Session{
		detector: detector,
		source:   source,
		opts:     opts,
		state:    Idle,
	}
}

// Start begins recording. Ticks stop when Stop is called or ctx is done.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != Idle {
		s.mu.Unlock()
		return ErrAlreadyRecording
	}

	s.id = uuid.New().String()
	s.startedAt = time.Now()
	s.ticks = 0
	s.latest = nil
	s.history = history.New(s.opts.HistoryCapacity)
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.state = Recording

	id := s.id
	if s.opts.Recorder != nil {
		s.opts.Recorder.SessionStarted()
	}
	ticker := s.opts.NewTicker(s.opts.Interval)
	go s.run(ctx, ticker, s.stop, s.done)
	s.mu.Unlock()

	logger.Info("Emotion detection started (session: %s, interval: %v, history: %d)", id, s.opts.Interval, s.opts.HistoryCapacity)
	if s.opts.Notifier != nil {
		if err := s.opts.Notifier.SessionStarted(ctx, id); err != nil {
			logger.Warn("Failed to announce session start: %v", err)
		}
	}
	return nil
}

// Stop halts ticking, waits for any in-flight tick to finish, and resets the
// history. No tick is recorded after Stop returns. A Halted session is
// stopped the same way.
func (s *Session) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.state != Recording && s.state != Halted {
		s.mu.Unlock()
		return ErrNotRecording
	}
	s.state = stopping
	stop, done := s.stop, s.done
	s.mu.Unlock()

	close(stop)
	<-done

	s.mu.Lock()
	id := s.id
	tracked := s.history.Len()
	s.history.Reset()
	s.latest = nil
	s.state = Idle
	s.mu.Unlock()

	logger.Info("Emotion detection stopped (session: %s, tracked: %d)", id, tracked)
	if s.opts.Recorder != nil {
		s.opts.Recorder.SessionStopped()
	}
	if s.opts.Notifier != nil {
		if err := s.opts.Notifier.SessionStopped(ctx, id, tracked); err != nil {
			logger.Warn("Failed to announce session stop: %v", err)
		}
	}
	return nil
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot returns the current view of the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		SessionID: s.id,
		State:     s.state,
		StartedAt: s.startedAt,
		Ticks:     s.ticks,
		Summary:   history.Summary{},
	}
	if s.state == Idle {
		return snap
	}
	snap.Distribution = append(emotion.Distribution(nil), s.latest...)
	if r, ok := s.latest.Dominant(); ok {
		snap.Dominant = &r
	}
	snap.Summary = s.history.Summarize()
	snap.Tally = s.history.Tally()
	snap.HistoryLen = s.history.Len()
	return snap
}

func (s *Session) run(ctx context.Context, ticker Ticker, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			s.halt(ctx.Err())
			return
		case at := <-ticker.C():
			s.tick(ctx, at)
		}
	}
}

func (s *Session) halt(cause error) {
	s.mu.Lock()
	if s.state != Recording {
		// Stop got there first.
		s.mu.Unlock()
		return
	}
	s.state = Halted
	id := s.id
	s.mu.Unlock()

	logger.Info("Emotion detection halted (session: %s): %v", id, cause)
	if s.opts.Recorder != nil {
		s.opts.Recorder.SessionHalted()
	}
}

func (s *Session) tick(ctx context.Context, at time.Time) {
	frame, err := s.source.Next(ctx, at)
	if err != nil {
		// The detector does not need pixels; keep ticking without a frame.
		logger.Warn("Failed to capture frame: %v", err)
		if s.opts.Recorder != nil {
			s.opts.Recorder.CaptureFailed()
		}
		frame = nil
	}

	dist := s.detector.Generate(frame)
	dominant, ok := dist.Dominant()
	if !ok {
		logger.Warn("Detector returned an empty distribution")
		return
	}

	s.mu.Lock()
	if s.state != Recording {
		s.mu.Unlock()
		return
	}
	s.ticks++
	s.latest = dist
	s.history.Record(history.NewEntry(at, dominant))
	historyLen := s.history.Len()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	logger.Debug("Tick %d: dominant %s (%d%%), history %d", snap.Ticks, dominant.Category, dominant.Confidence, historyLen)
	if s.opts.Recorder != nil {
		s.opts.Recorder.Tick(historyLen)
	}
	if s.opts.OnTick != nil {
		s.opts.OnTick(snap)
	}
}
