package emotion

import (
	"math/rand/v2"
	"sort"
	"time"

	"github.com/rewired-gh/emotionsense/internal/capture"
)

const (
	// MinDominantConfidence and MaxDominantConfidence bound the share given
	// to the randomly chosen dominant category (inclusive).
	MinDominantConfidence = 30
	MaxDominantConfidence = 70

	// maxMinorConfidence is the largest draw for a non-dominant category
	// before clamping to what is left.
	maxMinorConfidence = 19
)

// Source is the entropy the generator consumes. *rand.Rand satisfies it.
type Source interface {
	// IntN returns a uniform integer in [0, n).
	IntN(n int) int
}

// NewSource returns a seeded PCG source. Equal seeds yield equal sequences.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewTimeSource returns a source seeded from the wall clock.
func NewTimeSource() *rand.Rand {
	return NewSource(uint64(time.Now().UnixNano()))
}

// Generator produces synthetic emotion distributions. It does not look at
// frames; it exists so the rest of the pipeline can be exercised without a
// model. Not safe for concurrent use.
type Generator struct {
	src Source
}

// NewGenerator creates a Generator drawing from src.
func NewGenerator(src Source) *Generator {
	return &Generator{src: src}
}

// Generate returns one distribution. The frame is accepted so a real detector
// can be dropped in behind the same signature; it does not influence the
// result and may be nil.
func (g *Generator) Generate(frame *capture.Frame) Distribution {
	dominantIdx := g.src.IntN(len(categories))
	dominant := MinDominantConfidence + g.src.IntN(MaxDominantConfidence-MinDominantConfidence+1)

	readings := make(Distribution, 0, len(categories))
	readings = append(readings, Reading{Category: categories[dominantIdx], Confidence: dominant})
	remaining := 100 - dominant

	// The last non-dominant category absorbs whatever is left so the total
	// is always exactly 100.
	lastIdx := len(categories) - 1
	if dominantIdx == lastIdx {
		lastIdx--
	}

	for i, c := range categories {
		if i == dominantIdx {
			continue
		}
		if i == lastIdx {
			readings = append(readings, Reading{Category: c, Confidence: remaining})
			break
		}
		conf := min(remaining, g.src.IntN(maxMinorConfidence+1))
		if conf == 0 {
			continue
		}
		readings = append(readings, Reading{Category: c, Confidence: conf})
		remaining -= conf
	}

	sort.SliceStable(readings, func(i, j int) bool {
		return ranksBefore(readings[i], readings[j])
	})
	return readings
}
