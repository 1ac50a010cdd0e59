// Package history keeps a capped, insertion-ordered record of dominant
// emotion readings and derives frequency counts from it.
//
// The buffer is safe for concurrent use. Summaries are computed from the
// retained entries on every call and are never cached.
package history

import (
	"sync"
	"time"

	"github.com/rewired-gh/emotionsense/internal/emotion"
)

// DefaultCapacity is the number of entries retained when no capacity is
// configured.
const DefaultCapacity = 50

// Entry is one recorded dominant reading.
type Entry struct {
	Timestamp  time.Time        `json:"timestamp"`
	Category   emotion.Category `json:"emotion"`
	Confidence int              `json:"confidence"`
}

// NewEntry builds an Entry from a reading observed at t.
func NewEntry(t time.Time, r emotion.Reading) Entry {
	return Entry{Timestamp: t, Category: r.Category, Confidence: r.Confidence}
}

// Summary maps each category present in the buffer to its occurrence count.
// Categories that were not recorded are absent rather than zero.
type Summary map[emotion.Category]int

// Total returns the number of entries the summary was built from.
func (s Summary) Total() int {
	total := 0
	for _, n := range s {
		total += n
	}
	return total
}

// Count is a single category's tally, used where order matters.
type Count struct {
	Category emotion.Category `json:"name"`
	Count    int              `json:"count"`
}

// Buffer is a capped history of entries. When an insert overflows the cap
// the oldest entries are dropped.
type Buffer struct {
	mu       sync.RWMutex
	entries  []Entry
	capacity int
}

// New creates an empty Buffer. A capacity below 1 uses DefaultCapacity.
func New(capacity int) *Buffer {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Buffer{
		entries:  make([]Entry, 0, capacity),
		capacity: capacity,
	}
}

// Capacity returns the maximum number of retained entries.
func (b *Buffer) Capacity() int {
	return b.capacity
}

// Record appends e, evicting the oldest entries beyond the cap.
func (b *Buffer) Record(e Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries = append(b.entries, e)
	if len(b.entries) > b.capacity {
		// Keep only the most recent entries, reusing the backing array
		start := len(b.entries) - b.capacity
		n := copy(b.entries, b.entries[start:])
		clear(b.entries[n:])
		b.entries = b.entries[:n]
	}
}

// Reset clears the buffer. Calling it on an empty buffer is a no-op.
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	clear(b.entries)
	b.entries = b.entries[:0]
}

// Len returns the number of retained entries.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

// Entries returns a copy of the retained entries, oldest first.
func (b *Buffer) Entries() []Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Summarize counts entries per category.
func (b *Buffer) Summarize() Summary {
	b.mu.RLock()
	defer b.mu.RUnlock()

	summary := make(Summary)
	for _, e := range b.entries {
		summary[e.Category]++
	}
	return summary
}

// Tally returns the per-category counts ordered by each category's first
// appearance in the buffer.
func (b *Buffer) Tally() []Count {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var counts []Count
	pos := make(map[emotion.Category]int)
	for _, e := range b.entries {
		i, ok := pos[e.Category]
		if !ok {
			i = len(counts)
			pos[e.Category] = i
			counts = append(counts, Count{Category: e.Category})
		}
		counts[i].Count++
	}
	return counts
}
