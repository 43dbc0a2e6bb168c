package process

import "github.com/virosim/virosim/sim"

// First splice acceptor choice (A1, A2, A3, A4a/b/c, A5) and the single-
// spliced form each one produces.
var (
	firstSpliceForms   = []int{0, 1, 2, 3, 6}
	firstSpliceWeights = []float64{0.01, 0.02, 0.1, 0.13, 0.74}

	// secondSplice maps a single-spliced form to the multi-spliced form
	// produced by the D4-A7 splice.
	secondSplice = map[int]int{0: 0, 1: 6, 2: 12, 3: 13, 6: 16}
	// secondSpliceOrder fixes the iteration order over secondSplice.
	secondSpliceOrder = []int{0, 1, 2, 3, 6}

	// Third splice of D1-A1 (vif) and D1-A2 (vpr) multi-spliced transcripts
	// at D2/D3 onto A3, A4, A5.
	thirdSpliceWeights = []float64{0.1, 0.13, 0.74}
	vifThirdTargets    = []int{1, 2, 5}
	vprThirdTargets    = []int{7, 8, 11}
)

// AlternativeSplicing splices nuclear transcripts: full-length into
// single-spliced, single-spliced into multi-spliced, and a third splice of
// the vif and vpr multi-spliced forms. Transcripts carrying Rev splice
// more slowly by SPLICE_DELAY_FACTOR.
type AlternativeSplicing struct {
	proteins *sim.Proteins
	mrnas    *sim.MRNAs
	rng      *sim.RNG

	maxRev        int
	fullToSingle  sim.Conversion
	singleToMulti float64
	delay         float64
	vifThird      sim.Conversion
	vprThird      sim.Conversion
}

// NewAlternativeSplicing creates the splicing process.
func NewAlternativeSplicing(state *sim.State, p *sim.Params, rng *sim.RNG) *AlternativeSplicing {
	return &AlternativeSplicing{
		proteins: state.Proteins,
		mrnas:    state.MRNAs,
		rng:      rng,
		maxRev:   p.MaxRevPerTranscript,
		fullToSingle: sim.Conversion{
			Prob:      p.ProbSpliceFullToSingle,
			Protect:   p.SpliceDelayFactor,
			Protected: func(rev int) bool { return rev >= 1 },
			Branches:  sim.NewBranches(firstSpliceForms, firstSpliceWeights),
		},
		singleToMulti: p.ProbSpliceSingleToMulti,
		delay:         p.SpliceDelayFactor,
		vifThird: sim.Conversion{
			Prob:     p.ProbVifThirdSplice,
			Branches: sim.NewBranches(vifThirdTargets, thirdSpliceWeights),
		},
		vprThird: sim.Conversion{
			Prob:     p.ProbVprThirdSplice,
			Branches: sim.NewBranches(vprThirdTargets, thirdSpliceWeights),
		},
	}
}

func (as *AlternativeSplicing) Name() string { return "AlternativeSplicing" }

func (as *AlternativeSplicing) Advance(int) error {
	m := as.mrnas

	// Full-length → single-spliced keeps its bound Rev.
	for rev := 0; rev <= as.maxRev; rev++ {
		c := as.fullToSingle
		c.Offset = sim.SingleIndex(rev, 0)
		c.Convert(as.rng, m.FullNuc, rev, m.SingleNuc)
	}

	// Single-spliced → multi-spliced releases bound Rev into the nucleus.
	released := 0
	for _, form := range secondSpliceOrder {
		c := sim.Conversion{
			Prob:      as.singleToMulti,
			Protect:   as.delay,
			Protected: func(bin int) bool { return bin >= sim.SingleSpliceForms },
			Branches:  sim.Branches{Targets: []int{secondSplice[form]}, Cumulative: []float64{1}},
		}
		for rev := 0; rev <= as.maxRev; rev++ {
			c.ConvertReleasing(as.rng, m.SingleNuc, sim.SingleIndex(rev, form), m.MultiNuc, rev, &released)
		}
	}
	as.proteins.Nuc[sim.Rev] += released

	as.vifThird.Convert(as.rng, m.MultiNuc, 0, m.MultiNuc)
	as.vprThird.Convert(as.rng, m.MultiNuc, 6, m.MultiNuc)
	return nil
}
