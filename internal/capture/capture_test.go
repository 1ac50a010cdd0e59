package capture

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSyntheticNext(t *testing.T) {
	s := NewSynthetic(320, 240)
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	for want := uint64(1); want <= 3; want++ {
		frame, err := s.Next(context.Background(), at)
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		if frame.Sequence != want {
			t.Errorf("Expected sequence %d, got %d", want, frame.Sequence)
		}
		if frame.Width != 320 || frame.Height != 240 {
			t.Errorf("Unexpected dimensions %dx%d", frame.Width, frame.Height)
		}
		if !frame.CapturedAt.Equal(at) {
			t.Errorf("Expected capture time %v, got %v", at, frame.CapturedAt)
		}
	}
}

func TestSyntheticDefaults(t *testing.T) {
	frame, err := NewSynthetic(0, 0).Next(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if frame.Width != DefaultWidth || frame.Height != DefaultHeight {
		t.Errorf("Expected %dx%d, got %dx%d", DefaultWidth, DefaultHeight, frame.Width, frame.Height)
	}
}

func TestSyntheticCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewSynthetic(0, 0).Next(ctx, time.Now()); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestDenied(t *testing.T) {
	if _, err := (Denied{}).Next(context.Background(), time.Now()); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("Expected ErrPermissionDenied, got %v", err)
	}
}
