// Package capture describes the frame source the detector reads from.
//
// Frames carry metadata only. Pixel data is never captured or processed.
package capture

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// Default dimensions requested from a camera.
const (
	DefaultWidth  = 640
	DefaultHeight = 480
)

// ErrPermissionDenied is returned by sources that cannot access the camera.
var ErrPermissionDenied = errors.New("could not access camera: permission denied")

// Frame is the metadata for one captured frame.
type Frame struct {
	Sequence   uint64
	Width      int
	Height     int
	CapturedAt time.Time
}

// Source supplies frames on demand.
type Source interface {
	Next(ctx context.Context, at time.Time) (*Frame, error)
}

// Synthetic is a Source that fabricates frame metadata at a fixed size.
type Synthetic struct {
	width  int
	height int
	seq    atomic.Uint64
}

// NewSynthetic creates a Synthetic source. Non-positive dimensions fall back
// to DefaultWidth x DefaultHeight.
func NewSynthetic(width, height int) *Synthetic {
	if width <= 0 || height <= 0 {
		width, height = DefaultWidth, DefaultHeight
	}
	return &Synthetic{width: width, height: height}
}

// Next returns the next frame stamped with at.
func (s *Synthetic) Next(ctx context.Context, at time.Time) (*Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Frame{
		Sequence:   s.seq.Add(1),
		Width:      s.width,
		Height:     s.height,
		CapturedAt: at,
	}, nil
}

// Denied is a Source that always fails with ErrPermissionDenied.
type Denied struct{}

// Next always returns ErrPermissionDenied.
func (Denied) Next(context.Context, time.Time) (*Frame, error) {
	return nil, ErrPermissionDenied
}
