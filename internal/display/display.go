// Package display renders monitoring snapshots as terminal panels.
package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/fatih/color"

	"github.com/rewired-gh/emotionsense/internal/emotion"
	"github.com/rewired-gh/emotionsense/internal/history"
	"github.com/rewired-gh/emotionsense/internal/monitor"
)

const (
	barWidth   = 20
	labelWidth = 10

	clearScreen = "\x1b[H\x1b[2J"
)

// Renderer writes snapshots to a terminal.
type Renderer struct {
	w       io.Writer
	color   bool
	palette map[emotion.Category]func(a ...interface{}) string
}

// New creates a Renderer. With color enabled, bars use each emotion's chart
// color and the screen is cleared before every frame. Color output still
// follows color.NoColor, so NO_COLOR and non-terminal stdout render plain.
func New(w io.Writer, enableColor bool) *Renderer {
	palette := make(map[emotion.Category]func(a ...interface{}) string)
	for _, c := range emotion.Categories() {
		palette[c] = painter(c, enableColor)
	}
	return &Renderer{w: w, color: enableColor, palette: palette}
}

func painter(c emotion.Category, enable bool) func(a ...interface{}) string {
	red, green, blue := c.RGB()
	p := color.RGB(int(red), int(green), int(blue))
	if !enable {
		p.DisableColor()
	}
	return p.SprintFunc()
}

func (r *Renderer) colorActive() bool {
	return r.color && !color.NoColor
}

// Render writes one frame for snap.
func (r *Renderer) Render(snap monitor.Snapshot) error {
	var b strings.Builder
	if r.colorActive() {
		b.WriteString(clearScreen)
	}

	r.header(&b, snap)
	b.WriteString("\n")
	r.detector(&b, snap)
	b.WriteString("\n")
	r.history(&b, snap)

	_, err := io.WriteString(r.w, b.String())
	return err
}

func (r *Renderer) header(b *strings.Builder, snap monitor.Snapshot) {
	b.WriteString("EmotionSense")
	switch snap.State {
	case monitor.Recording:
		fmt.Fprintf(b, "  ● %s  session %s", snap.State, shortID(snap.SessionID))
	case monitor.Halted:
		fmt.Fprintf(b, "  ■ %s  session %s", snap.State, shortID(snap.SessionID))
	default:
		b.WriteString("  ○ idle\n")
		return
	}
	if !snap.StartedAt.IsZero() {
		fmt.Fprintf(b, "  started %s", humanize.Time(snap.StartedAt))
	}
	b.WriteString("\n")
}

func (r *Renderer) detector(b *strings.Builder, snap monitor.Snapshot) {
	b.WriteString("Emotion Analysis\n")
	if snap.Active() {
		b.WriteString("  Real-time emotion detection from facial expressions\n")
	} else if snap.State == monitor.Halted {
		b.WriteString("  Detection halted. Stop the session to reset.\n")
	} else {
		b.WriteString("  Start the camera to begin emotion detection\n")
	}

	if d := snap.Dominant; d != nil {
		fmt.Fprintf(b, "  Dominant Emotion %*d%%\n", barWidth+labelWidth-3, d.Confidence)
		fmt.Fprintf(b, "    %s  %s\n", d.Category.Emoji(), r.paint(d.Category, capitalize(d.Category.String())))
	} else if snap.Active() {
		b.WriteString("  Analyzing...\n")
	} else {
		b.WriteString("  No emotion detected\n")
	}

	b.WriteString("  All Emotions\n")
	if len(snap.Distribution) == 0 {
		if snap.Active() {
			b.WriteString("    Loading emotion data...\n")
		} else {
			b.WriteString("    Turn on the camera to detect emotions\n")
		}
		return
	}
	for _, reading := range snap.Distribution {
		filled := reading.Confidence * barWidth / 100
		fmt.Fprintf(b, "    %s %-*s %s %3d%%\n",
			reading.Category.Emoji(), labelWidth, reading.Category, r.bar(reading.Category, filled), reading.Confidence)
	}
}

func (r *Renderer) history(b *strings.Builder, snap monitor.Snapshot) {
	b.WriteString("Emotion History\n")
	b.WriteString("  Tracking detected emotions over time\n")

	if snap.HistoryLen == 0 {
		if snap.Active() {
			b.WriteString("    Waiting for emotion data...\n")
		} else {
			b.WriteString("    No emotion history available. Start the camera to begin tracking.\n")
		}
		return
	}

	peak := 0
	for _, c := range snap.Tally {
		peak = max(peak, c.Count)
	}
	for _, c := range snap.Tally {
		fmt.Fprintf(b, "    %-*s %s %d\n", labelWidth, capitalize(c.Category.String()), r.bar(c.Category, scaled(c, peak)), c.Count)
	}
	fmt.Fprintf(b, "  Tracking %s\n", english.Plural(snap.HistoryLen, "recent emotion", "recent emotions"))
}

// scaled maps a count onto the bar width relative to the tallest bar.
func scaled(c history.Count, peak int) int {
	if peak == 0 || c.Count == 0 {
		return 0
	}
	return max(1, c.Count*barWidth/peak)
}

func (r *Renderer) bar(c emotion.Category, filled int) string {
	filled = min(max(filled, 0), barWidth)
	return r.paint(c, strings.Repeat("█", filled)) + strings.Repeat("░", barWidth-filled)
}

func (r *Renderer) paint(c emotion.Category, s string) string {
	if s == "" {
		return s
	}
	p, ok := r.palette[c]
	if !ok {
		p = painter(c, r.color)
	}
	return p(s)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
