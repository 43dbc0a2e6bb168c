package process

import "github.com/virosim/virosim/sim"

// Degradation decays transcripts and free proteins. Rev bound to a decayed
// transcript is released into the compartment the transcript was in.
type Degradation struct {
	proteins *sim.Proteins
	mrnas    *sim.MRNAs
	rng      *sim.RNG

	mrnaRate float64
	nucRate  float64
	cytRate  float64
	memRate  float64
}

// NewDegradation creates the degradation process.
func NewDegradation(state *sim.State, p *sim.Params, rng *sim.RNG) *Degradation {
	return &Degradation{
		proteins: state.Proteins,
		mrnas:    state.MRNAs,
		rng:      rng,
		mrnaRate: p.ProbMRNADeg,
		nucRate:  p.ProbProteinDegNuc,
		cytRate:  p.ProbProteinDegCyt,
		memRate:  p.ProbProteinDegMem,
	}
}

func (dg *Degradation) Name() string { return "Degradation" }

// decay degrades every bin of pool at rate and returns the Rev released,
// where bin i carries i/stride Rev.
func (dg *Degradation) decay(pool []int, rate float64, stride int) int {
	released := 0
	for i := range pool {
		n := sim.Decay(dg.rng, pool, i, rate)
		if stride > 0 {
			released += n * (i / stride)
		}
	}
	return released
}

func (dg *Degradation) Advance(int) error {
	m, p := dg.mrnas, dg.proteins

	p.Nuc[sim.Rev] += dg.decay(m.FullNuc, dg.mrnaRate, 1)
	p.Cyt[sim.Rev] += dg.decay(m.FullCyt, dg.mrnaRate, 1)
	p.Nuc[sim.Rev] += dg.decay(m.SingleNuc, dg.mrnaRate, sim.SingleSpliceForms)
	p.Cyt[sim.Rev] += dg.decay(m.SingleCyt, dg.mrnaRate, sim.SingleSpliceForms)
	dg.decay(m.MultiNuc, dg.mrnaRate, 0)
	dg.decay(m.MultiCyt, dg.mrnaRate, 0)

	dg.decay(p.Nuc, dg.nucRate, 0)
	dg.decay(p.Cyt, dg.cytRate, 0)
	dg.decay(p.Mem, dg.memRate, 0)
	return nil
}
