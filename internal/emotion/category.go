// Package emotion defines the emotion vocabulary and the synthetic
// distribution generator that stands in for a facial-expression model.
//
// A Distribution is a set of Readings over the fixed Category enumeration.
// Confidences are whole percentages that always sum to 100, and the slice is
// kept sorted so the first element is the dominant reading.
package emotion

import (
	"errors"
	"fmt"
)

// Category is one label from the fixed emotion enumeration.
type Category string

const (
	Happy     Category = "happy"
	Sad       Category = "sad"
	Angry     Category = "angry"
	Neutral   Category = "neutral"
	Surprised Category = "surprised"
	Fear      Category = "fear"
	Disgust   Category = "disgust"
)

// categories is the enumeration order. Tie-breaking and the generator's
// traversal both depend on it.
var categories = [...]Category{Happy, Sad, Angry, Neutral, Surprised, Fear, Disgust}

var categoryIndex = func() map[Category]int {
	m := make(map[Category]int, len(categories))
	for i, c := range categories {
		m[c] = i
	}
	return m
}()

var emojis = map[Category]string{
	Happy:     "😊",
	Sad:       "😢",
	Angry:     "😠",
	Neutral:   "😐",
	Surprised: "😮",
	Fear:      "😨",
	Disgust:   "🤢",
}

type rgb struct{ r, g, b uint8 }

var colors = map[Category]rgb{
	Happy:     {0xFF, 0xC1, 0x07},
	Sad:       {0x64, 0xB5, 0xF6},
	Angry:     {0xEF, 0x53, 0x50},
	Neutral:   {0xB0, 0xBE, 0xC5},
	Surprised: {0xAB, 0x47, 0xBC},
	Fear:      {0x7E, 0x57, 0xC2},
	Disgust:   {0x66, 0xBB, 0x6A},
}

var unknownColor = rgb{0xCC, 0xCC, 0xCC}

// Categories returns the enumeration in order. The result is a fresh copy.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories[:])
	return out
}

// ParseCategory maps a label to its Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown emotion category: %q", s)
	}
	return c, nil
}

// Valid reports whether c belongs to the enumeration.
func (c Category) Valid() bool {
	_, ok := categoryIndex[c]
	return ok
}

// Index returns the enumeration position of c, or -1 for unknown labels.
func (c Category) Index() int {
	if i, ok := categoryIndex[c]; ok {
		return i
	}
	return -1
}

// Emoji returns the display glyph for c.
func (c Category) Emoji() string {
	if e, ok := emojis[c]; ok {
		return e
	}
	return "❓"
}

// Color returns the chart color for c as a #RRGGBB string.
func (c Category) Color() string {
	r, g, b := c.RGB()
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

// RGB returns the chart color components for c.
func (c Category) RGB() (r, g, b uint8) {
	col, ok := colors[c]
	if !ok {
		col = unknownColor
	}
	return col.r, col.g, col.b
}

func (c Category) String() string {
	return string(c)
}

// Reading is a single (category, confidence) pair.
type Reading struct {
	Category   Category `json:"emotion"`
	Confidence int      `json:"confidence"`
}

// Validate checks that the reading is well formed.
func (r Reading) Validate() error {
	if !r.Category.Valid() {
		return fmt.Errorf("unknown emotion category: %q", r.Category)
	}
	if r.Confidence < 0 || r.Confidence > 100 {
		return errors.New("confidence must be between 0 and 100")
	}
	return nil
}

// Distribution is one tick's full set of readings, sorted descending by
// confidence.
type Distribution []Reading

// Dominant returns the first reading. ok is false for an empty distribution.
func (d Distribution) Dominant() (r Reading, ok bool) {
	if len(d) == 0 {
		return Reading{}, false
	}
	return d[0], true
}

// Total returns the sum of all confidences.
func (d Distribution) Total() int {
	total := 0
	for _, r := range d {
		total += r.Confidence
	}
	return total
}

// Validate checks the distribution invariants: known categories appearing
// at most once, confidences summing to 100, and descending order with ties
// in enumeration order.
func (d Distribution) Validate() error {
	if len(d) == 0 {
		return errors.New("distribution must not be empty")
	}
	seen := make(map[Category]bool, len(d))
	for i, r := range d {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("reading %d: %w", i, err)
		}
		if seen[r.Category] {
			return fmt.Errorf("category %s appears more than once", r.Category)
		}
		seen[r.Category] = true
		if i > 0 && !ranksBefore(d[i-1], r) {
			return fmt.Errorf("reading %d (%s) is out of order", i, r.Category)
		}
	}
	if total := d.Total(); total != 100 {
		return fmt.Errorf("confidences sum to %d, want 100", total)
	}
	return nil
}

// ranksBefore orders readings by confidence descending, then enumeration
// order.
func ranksBefore(a, b Reading) bool {
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	return a.Category.Index() < b.Category.Index()
}
