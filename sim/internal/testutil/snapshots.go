// Package testutil provides shared test infrastructure for the virosim
// engine: reproducible starting states at different stages of infection and
// conservation assertion helpers used across sim/process and sim/record tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/virosim/virosim/sim"
)

// SnapshotNames lists the starting states in infection order.
var SnapshotNames = []string{"early", "rev_accumulating", "late_translation", "packaging"}

// Snapshot returns a populated state for one of SnapshotNames:
//
//   - early: a few nuclear full-length transcripts, some Tat, no Rev.
//   - rev_accumulating: spliced transcripts in both compartments with Rev bound.
//   - late_translation: large protein pools, Tat engaged with pTEFb.
//   - packaging: G2 arrest, Gag-bound genomes, Env pipeline and progeny.
func Snapshot(t testing.TB, name string, p *sim.Params) *sim.State {
	t.Helper()
	s := sim.NewState(p)
	switch name {
	case "early":
		s.MRNAs.FullNuc[0] = 12
		s.Proteins.Nuc[sim.Tat] = 5
		s.DNAs.PromoterActive = true
	case "rev_accumulating":
		fillRevAccumulating(s)
	case "late_translation":
		fillRevAccumulating(s)
		fillLateTranslation(s)
	case "packaging":
		fillRevAccumulating(s)
		fillLateTranslation(s)
		fillPackaging(t, s)
	default:
		t.Fatalf("unknown snapshot %q", name)
	}
	require.NoError(t, s.CheckNonNegative())
	return s
}

func fillRevAccumulating(s *sim.State) {
	m := s.MRNAs
	for rev := 0; rev <= m.MaxRev; rev++ {
		m.FullNuc[rev] = 20 - 2*rev
		m.FullCyt[rev] = rev
		for f := 0; f < sim.SingleSpliceForms; f++ {
			m.SingleNuc[sim.SingleIndex(rev, f)] = 3 + f - rev/3
			m.SingleCyt[sim.SingleIndex(rev, f)] = rev / 2
		}
	}
	for i := range m.MultiNuc {
		m.MultiNuc[i] = 4 + i%5
		m.MultiCyt[i] = 10 + i
	}
	s.Proteins.Nuc[sim.Rev] = 150
	s.Proteins.Cyt[sim.Rev] = 40
	s.Proteins.Nuc[sim.Tat] = 30
	s.Proteins.Cyt[sim.Tat] = 12
}

func fillLateTranslation(s *sim.State) {
	p := s.Proteins
	p.Cyt[sim.Vif] = 400
	p.Cyt[sim.Vpr] = 150
	p.Cyt[sim.Nef] = 900
	p.Cyt[sim.Env] = 350
	p.Cyt[sim.Gag] = 8000
	p.Cyt[sim.GagProPol] = 400
	p.Mem[sim.Gag] = 1200
	p.Mem[sim.GagDimers] = 300
	p.Cyt[sim.GagDimers] = 500
	h := s.HostFactors
	h.TatPTEFbDeacetyl = 40
	h.TatPTEFbAcetyl = 25
	h.PTEFbNuc = h.PTEFbNucInit - 65
	s.ReactionRates.TatDerivedTranscriptionRate = 2.5
}

func fillPackaging(t testing.TB, s *sim.State) {
	t.Helper()
	s.CellCycle.Arrested = true
	s.ReactionRates.TranslationSuppressed = true
	s.Proteins.Cyt[sim.Vpr] = 600

	m := s.MRNAs
	for idx := 1; idx < sim.NumStemLoopStates; idx++ {
		m.GagBound[idx] = 2 + idx%3
	}
	m.GagBound[sim.StemLoopIndex(sim.SL1, sim.SL2, sim.SL3)] = 14
	m.GagBound[sim.StemLoopIndex(sim.SL1, sim.SL2, sim.SL3, sim.SL4)] = 9

	p := s.Proteins
	for st := range p.EnvStages {
		p.EnvStages[st] = 30 + 5*st
	}
	for c := 0; c < sim.EnvTrimerClasses; c++ {
		p.EnvTrimers[c] = 10 + c
		p.EnvCleaved[c] = 6 + c
		p.EnvMembrane[c] = 20 - 3*c
	}

	for i := 0; i < 6; i++ {
		agent, err := s.Progeny.Create(6+i%2, i)
		require.NoError(t, err)
		s.Progeny.AddProtein(agent, sim.Gag, 100*i)
	}
}
