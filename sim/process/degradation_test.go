package process

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/virosim/virosim/sim"
)

func TestDegradation_CertainDecayReleasesRev(t *testing.T) {
	// GIVEN transcripts carrying Rev in both compartments and stable proteins
	p := sim.DefaultParams()
	p.ProbMRNADeg = 1
	p.ProbProteinDegNuc, p.ProbProteinDegCyt, p.ProbProteinDegMem = 0, 0, 0
	s := sim.NewState(p)
	m := s.MRNAs
	m.FullNuc[2] = 3                       // 6 Rev
	m.FullCyt[4] = 2                       // 8 Rev
	m.SingleNuc[sim.SingleIndex(3, 5)] = 1 // 3 Rev
	m.SingleCyt[sim.SingleIndex(1, 0)] = 5 // 5 Rev
	m.MultiNuc[4] = 10
	m.MultiCyt[4] = 10

	// WHEN every transcript decays
	dg := NewDegradation(s, p, sim.NewRNG(sim.NewSimulationKey(1)))
	require.NoError(t, dg.Advance(0))

	// THEN the Rev is released where the transcript was
	assert.Equal(t, 9, s.Proteins.Nuc[sim.Rev])
	assert.Equal(t, 13, s.Proteins.Cyt[sim.Rev])
	assert.Zero(t, sumInts(m.FullNuc)+sumInts(m.FullCyt)+sumInts(m.SingleNuc)+sumInts(m.SingleCyt))
	assert.Zero(t, sumInts(m.MultiNuc)+sumInts(m.MultiCyt))
}

func TestDegradation_ProteinsDecayPerCompartment(t *testing.T) {
	p := sim.DefaultParams()
	p.ProbMRNADeg = 0
	p.ProbProteinDegNuc, p.ProbProteinDegCyt, p.ProbProteinDegMem = 1, 0, 1
	s := sim.NewState(p)
	s.Proteins.Nuc[sim.Tat] = 40
	s.Proteins.Cyt[sim.Gag] = 40
	s.Proteins.Mem[sim.GagDimers] = 40

	dg := NewDegradation(s, p, sim.NewRNG(1))
	require.NoError(t, dg.Advance(0))

	assert.Zero(t, s.Proteins.Nuc[sim.Tat])
	assert.Equal(t, 40, s.Proteins.Cyt[sim.Gag])
	assert.Zero(t, s.Proteins.Mem[sim.GagDimers])
}
