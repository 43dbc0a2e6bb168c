package process

import "github.com/virosim/virosim/sim"

// Env maturation constants (1/min unless noted).
const (
	oligosaccharyltransferase = 1000
	glucosidaseI              = 1000
	glucosidaseII             = 1000

	rateERLocalization         = 1.0
	rateGolgiLocalization      = 1.0
	rateGlucosidaseI           = 87000.0
	rateGlucosidaseII          = 87000.0
	rateGolgiGlycosylation     = 1.0
	rateEnvFolding             = 0.00333
	rateOligosaccharyltransfer = 1.2
	probGolgiGlycosylationErr  = 0.5
	rateTrimerization          = 0.0083
	rateMembraneLocalization   = 180000.0
	rateCleavage               = 0.00333
	// rateVirionIncorporation is fit to about 12 trimers per virion.
	rateVirionIncorporation = 84.0
)

// EnvProcessing matures cytoplasmic Env through the ER and Golgi, assembles
// it into trimers classed by how many monomers were glycosylated without
// error, cleaves them, moves them to the membrane and incorporates them into
// random progeny.
type EnvProcessing struct {
	proteins *sim.Proteins
	progeny  *sim.ProgenyContainer
	rng      *sim.RNG
}

// NewEnvProcessing creates the Env pipeline. Its kinetics are fixed and take
// no parameters.
func NewEnvProcessing(state *sim.State, _ *sim.Params, rng *sim.RNG) *EnvProcessing {
	return &EnvProcessing{proteins: state.Proteins, progeny: state.Progeny, rng: rng}
}

func (ep *EnvProcessing) Name() string { return "EnvProcessing" }

// saturate moves everything from stage from to stage to when the enzyme
// capacity covers it, otherwise a sampled share.
func (ep *EnvProcessing) saturate(from, to sim.EnvStage, capacity float64) {
	stages := ep.proteins.EnvStages
	if capacity >= float64(stages[from]) {
		sim.Move(stages, int(from), int(to), stages[from])
		return
	}
	sim.Transfer(ep.rng, stages, int(from), int(to), capacity)
}

func (ep *EnvProcessing) Advance(int) error {
	p := ep.proteins
	stages := p.EnvStages

	sim.TransferBetween(ep.rng, p.Cyt, int(sim.Env), stages, int(sim.EnvER), rateERLocalization)
	sim.Transfer(ep.rng, stages, int(sim.EnvER), int(sim.EnvERG1), oligosaccharyltransferase*rateOligosaccharyltransfer)
	ep.saturate(sim.EnvERG1, sim.EnvERG2, glucosidaseI*rateGlucosidaseI)
	ep.saturate(sim.EnvERG2, sim.EnvERG3, glucosidaseII*rateGlucosidaseII)
	sim.Transfer(ep.rng, stages, int(sim.EnvERG3), int(sim.EnvERG3Folded), rateEnvFolding)
	ep.saturate(sim.EnvERG3Folded, sim.EnvERG4Folded, glucosidaseII*rateGlucosidaseII)
	sim.Transfer(ep.rng, stages, int(sim.EnvERG4Folded), int(sim.EnvGolgi), rateGolgiLocalization)

	glycosylated := sim.Transfer(ep.rng, stages, int(sim.EnvGolgi), int(sim.EnvGolgiG5), rateGolgiGlycosylation)
	sim.Move(stages, int(sim.EnvGolgiG5), int(sim.EnvGolgiG5Error), ep.rng.Binomial(glycosylated, probGolgiGlycosylationErr))

	ep.trimerize()

	for class := range p.EnvTrimers {
		sim.TransferBetween(ep.rng, p.EnvTrimers, class, p.EnvCleaved, class, rateCleavage)
	}
	for class, n := range p.EnvCleaved {
		moved := n
		if rateMembraneLocalization < float64(n) {
			moved = ep.rng.PoissonCapped(rateMembraneLocalization, n)
		}
		sim.MoveBetween(p.EnvCleaved, class, p.EnvMembrane, class, moved)
	}

	ep.incorporate()

	totals := ep.progeny.EnvTrimerTotals()
	sum := 0
	for _, n := range totals {
		sum += n
	}
	p.Virion[sim.Env] = 3 * sum
	return nil
}

// trimerize assembles Golgi-processed monomers three at a time. A trimer's
// class is the number of its monomers drawn from the error-free pool.
func (ep *EnvProcessing) trimerize() {
	stages := ep.proteins.EnvStages
	good, bad := int(sim.EnvGolgiG5), int(sim.EnvGolgiG5Error)
	n := ep.rng.Binomial((stages[good]+stages[bad])/3, rateTrimerization)
	for ; n > 0; n-- {
		class := 0
		for range 3 {
			total := stages[good] + stages[bad]
			if ep.rng.Float64()*float64(total) < float64(stages[good]) {
				stages[good]--
				class++
			} else {
				stages[bad]--
			}
		}
		ep.proteins.EnvTrimers[class]++
	}
}

// incorporate attaches membrane trimers to uniformly chosen progeny, picking
// each trimer's class in proportion to the membrane pool.
func (ep *EnvProcessing) incorporate() {
	membrane := ep.proteins.EnvMembrane
	total := 0
	for _, n := range membrane {
		total += n
	}
	agents := ep.progeny.Agents()
	if total == 0 || len(agents) == 0 {
		return
	}
	for n := ep.rng.PoissonCapped(rateVirionIncorporation, total); n > 0; n-- {
		class := pickWeighted(ep.rng, membrane, total)
		membrane[class]--
		total--
		ep.progeny.UpdateEnvTrimer(agents[ep.rng.IntN(len(agents))], class, 1)
	}
}

// pickWeighted draws an index of counts with probability counts[i]/total.
// total must equal the sum of counts and be positive.
func pickWeighted(rng *sim.RNG, counts []int, total int) int {
	r := rng.IntN(total)
	for i, n := range counts {
		if r < n {
			return i
		}
		r -= n
	}
	return len(counts) - 1
}
