package process

import "github.com/virosim/virosim/sim"

// ProteinLocalization shuttles Rev and Tat between cytoplasm and nucleus.
// Import is applied before export for each protein.
type ProteinLocalization struct {
	proteins *sim.Proteins
	rng      *sim.RNG

	revIn, revOut float64
	tatIn, tatOut float64
}

// NewProteinLocalization creates the shuttling process.
func NewProteinLocalization(state *sim.State, p *sim.Params, rng *sim.RNG) *ProteinLocalization {
	return &ProteinLocalization{
		proteins: state.Proteins,
		rng:      rng,
		revIn:    p.ProbRevShuttlingIn,
		revOut:   p.ProbRevShuttlingOut,
		tatIn:    p.ProbTatShuttlingIn,
		tatOut:   p.ProbTatShuttlingOut,
	}
}

func (pl *ProteinLocalization) Name() string { return "ProteinLocalization" }

// shuttle moves min(Poisson(src·rate), src) molecules of protein.
func (pl *ProteinLocalization) shuttle(src, dst []int, protein sim.Protein, rate float64) {
	n := pl.rng.PoissonCapped(float64(src[protein])*rate, src[protein])
	sim.MoveBetween(src, int(protein), dst, int(protein), n)
}

func (pl *ProteinLocalization) Advance(int) error {
	nuc, cyt := pl.proteins.Nuc, pl.proteins.Cyt
	pl.shuttle(cyt, nuc, sim.Rev, pl.revIn)
	pl.shuttle(nuc, cyt, sim.Rev, pl.revOut)
	pl.shuttle(cyt, nuc, sim.Tat, pl.tatIn)
	pl.shuttle(nuc, cyt, sim.Tat, pl.tatOut)
	return nil
}
