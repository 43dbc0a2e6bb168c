package process

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/virosim/virosim/sim"
)

func TestRevBinding_NoRevLeavesTranscripts(t *testing.T) {
	p := sim.DefaultParams()
	s := sim.NewState(p)
	s.MRNAs.FullNuc[0] = 25
	s.MRNAs.SingleNuc[sim.SingleIndex(0, 3)] = 9
	want := s.Clone()

	rb := NewRevBinding(s, p, sim.NewRNG(sim.NewSimulationKey(1)))
	require.NoError(t, rb.Advance(0))

	assert.Equal(t, want.MRNAs.FullNuc, s.MRNAs.FullNuc)
	assert.Equal(t, want.MRNAs.SingleNuc, s.MRNAs.SingleNuc)
	assert.Zero(t, s.Proteins.Nuc[sim.Rev])
}

func TestRevBinding_RevLoadsOntoTranscripts(t *testing.T) {
	// GIVEN plenty of free nuclear Rev and Rev-free transcripts
	p := sim.DefaultParams()
	p.RevBindingConstants = []float64{50, 50, 50, 50, 50, 50, 50, 50}
	s := sim.NewState(p)
	s.MRNAs.FullNuc[0] = 40
	s.MRNAs.SingleNuc[sim.SingleIndex(0, 0)] = 40
	s.Proteins.Nuc[sim.Rev] = 2000
	totalRev := sim.CountTotalRev(s)

	// WHEN binding runs for a few minutes
	rb := NewRevBinding(s, p, sim.NewRNG(sim.NewSimulationKey(9)))
	for step := 0; step < 5; step++ {
		require.NoError(t, rb.Advance(step))
	}

	// THEN Rev has moved onto transcripts and the total is unchanged
	assert.Less(t, s.Proteins.Nuc[sim.Rev], 2000)
	assert.Less(t, s.MRNAs.FullNuc[0], 40)
	assert.Equal(t, totalRev, sim.CountTotalRev(s))
	assert.Equal(t, 40, sumInts(s.MRNAs.FullNuc))
}

func TestRevBinding_OnRateScalesWithVolume(t *testing.T) {
	p := sim.DefaultParams()
	rb := NewRevBinding(sim.NewState(p), p, sim.NewRNG(1))
	want := p.RevBindingConstants[0] * 1e8 / (p.VolumeNuc * 6.022e23)
	assert.InDelta(t, want, rb.kOn[0], want*1e-12)
	assert.Len(t, rb.kOn, p.MaxRevPerTranscript)
}

func sumInts(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}
