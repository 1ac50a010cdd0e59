package emotion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewired-gh/emotionsense/internal/capture"
)

// scriptedSource replays fixed draws and fails the test on a draw outside
// the requested range or past the end of the script.
type scriptedSource struct {
	t     *testing.T
	draws []int
	pos   int
}

func (s *scriptedSource) IntN(n int) int {
	s.t.Helper()
	require.Less(s.t, s.pos, len(s.draws), "script exhausted")
	v := s.draws[s.pos]
	s.pos++
	require.True(s.t, v >= 0 && v < n, "draw %d out of range [0,%d)", v, n)
	return v
}

func TestGenerateScripted(t *testing.T) {
	tests := []struct {
		name  string
		draws []int
		want  Distribution
	}{
		{
			name: "minor draws and residual",
			// happy dominant at 30+20, angry draws 0 and is omitted
			draws: []int{0, 20, 10, 0, 19, 5, 3},
			want: Distribution{
				{Happy, 50}, {Neutral, 19}, {Disgust, 13}, {Sad, 10}, {Surprised, 5}, {Fear, 3},
			},
		},
		{
			name: "clamped to remaining with zero residual",
			draws: []int{3, 20, 19, 19, 12, 5, 7},
			want: Distribution{
				{Neutral, 50}, {Happy, 19}, {Sad, 19}, {Angry, 12}, {Disgust, 0},
			},
		},
		{
			name: "disgust dominant hands residual to fear",
			draws: []int{6, 0, 0, 0, 0, 0, 0},
			want: Distribution{
				{Fear, 70}, {Disgust, 30},
			},
		},
		{
			name: "tie with dominant breaks by enumeration order",
			draws: []int{6, 20, 0, 0, 0, 0, 0},
			want: Distribution{
				{Fear, 50}, {Disgust, 50},
			},
		},
		{
			name: "dominant first on tie when earlier in enumeration",
			draws: []int{2, 20, 0, 0, 0, 0, 0},
			want: Distribution{
				{Angry, 50}, {Disgust, 50},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &scriptedSource{t: t, draws: tt.draws}
			got := NewGenerator(src).Generate(nil)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, len(tt.draws), src.pos, "all scripted draws consumed")
			require.NoError(t, got.Validate())
		})
	}
}

func TestGenerateInvariants(t *testing.T) {
	g := NewGenerator(NewSource(42))
	frame := &capture.Frame{Width: capture.DefaultWidth, Height: capture.DefaultHeight}

	for i := 0; i < 5000; i++ {
		d := g.Generate(frame)
		require.NoError(t, d.Validate(), "iteration %d: %v", i, d)

		dominant, ok := d.Dominant()
		require.True(t, ok)
		assert.GreaterOrEqual(t, dominant.Confidence, MinDominantConfidence)
		assert.LessOrEqual(t, dominant.Confidence, MaxDominantConfidence)

		for _, r := range d {
			assert.LessOrEqual(t, r.Confidence, dominant.Confidence)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := NewGenerator(NewSource(7))
	b := NewGenerator(NewSource(7))

	for i := 0; i < 100; i++ {
		require.Equal(t, a.Generate(nil), b.Generate(nil), "iteration %d", i)
	}
}

func TestGenerateIgnoresFrame(t *testing.T) {
	a := NewGenerator(NewSource(99))
	b := NewGenerator(NewSource(99))
	frame := &capture.Frame{Sequence: 12, Width: 1, Height: 1}

	for i := 0; i < 50; i++ {
		require.Equal(t, a.Generate(nil), b.Generate(frame))
	}
}
