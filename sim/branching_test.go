package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBranches_Normalizes(t *testing.T) {
	b := NewBranches([]int{0, 1, 2}, []float64{1, 1, 2})
	require.Len(t, b.Cumulative, 3)
	assert.InDelta(t, 0.25, b.Cumulative[0], 1e-12)
	assert.InDelta(t, 0.5, b.Cumulative[1], 1e-12)
	assert.InDelta(t, 1.0, b.Cumulative[2], 1e-12)
}

func TestBranches_PickFrequencies(t *testing.T) {
	// GIVEN a 10/90 split
	b := NewBranches([]int{4, 9}, []float64{0.1, 0.9})
	rng := NewRNG(NewSimulationKey(1))

	// WHEN drawing many times
	counts := map[int]int{}
	for i := 0; i < 10000; i++ {
		counts[b.Pick(rng)]++
	}

	// THEN only the targets appear, in proportion
	assert.Len(t, counts, 2)
	assert.InDelta(t, 1000, counts[4], 150)
}

func TestBranches_PickSkipsZeroWeight(t *testing.T) {
	b := NewBranches([]int{0, 1, 2}, []float64{0, 1, 0})
	rng := NewRNG(NewSimulationKey(2))
	for i := 0; i < 500; i++ {
		assert.Equal(t, 1, b.Pick(rng))
	}
}

func TestConversion_Convert(t *testing.T) {
	tests := []struct {
		name      string
		conv      Conversion
		src       int
		wantMoved func(int) bool
	}{
		{
			name:      "certain conversion",
			conv:      Conversion{Prob: 1, Branches: NewBranches([]int{1, 2}, []float64{1, 1})},
			src:       100,
			wantMoved: func(n int) bool { return n == 100 },
		},
		{
			name:      "fully protected bin",
			conv:      Conversion{Prob: 1, Protect: 1, Protected: func(int) bool { return true }, Branches: NewBranches([]int{1}, []float64{1})},
			src:       100,
			wantMoved: func(n int) bool { return n == 0 },
		},
		{
			name:      "zero probability",
			conv:      Conversion{Prob: 0, Branches: NewBranches([]int{1}, []float64{1})},
			src:       100,
			wantMoved: func(n int) bool { return n == 0 },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := NewRNG(NewSimulationKey(3))
			src := []int{tt.src}
			dst := make([]int, 3)

			moved := tt.conv.Convert(rng, src, 0, dst)

			assert.True(t, tt.wantMoved(moved), "moved %d", moved)
			assert.Equal(t, tt.src, src[0]+dst[0]+dst[1]+dst[2])
			assert.Equal(t, moved, dst[0]+dst[1]+dst[2])
		})
	}
}

func TestConversion_OffsetAndRelease(t *testing.T) {
	// GIVEN transcripts carrying 3 units of ligand that always convert
	c := Conversion{Prob: 1, Branches: NewBranches([]int{0, 1}, []float64{0, 1}), Offset: 5}
	rng := NewRNG(NewSimulationKey(4))
	src := []int{12}
	dst := make([]int, 8)
	released := 0

	// WHEN converting with release
	n := c.ConvertReleasing(rng, src, 0, dst, 3, &released)

	// THEN targets are shifted by the offset and the ligand is released
	assert.Equal(t, 12, n)
	assert.Equal(t, 12, dst[6])
	assert.Equal(t, 36, released)
}
