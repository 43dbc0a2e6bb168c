package sim

// growthParams are the constants of virion assembly.
type growthParams struct {
	average           [NumProteins]float64
	expGrowthConst    float64
	dimerFoldChange   float64
	lateralFoldChange float64
	stickThreshold    float64
	translocationProb float64
	nucleateDissRate  float64
}

func newGrowthParams(p *Params) growthParams {
	g := growthParams{
		expGrowthConst:    p.VironExponentialGrowthConst,
		dimerFoldChange:   p.GagDimerDiffusionFoldChange,
		lateralFoldChange: p.GagLateralDiffusionFoldChange,
		stickThreshold:    p.ThreshNucleateToStickToMem,
		translocationProb: p.ProbRNANucleateTranslocation,
		nucleateDissRate:  p.NucleateDissRate,
	}
	g.average[Gag] = p.AveGagPerVirion
	g.average[Vif] = p.AveVifPerVirion
	g.average[GagProPol] = p.AveGagProPolPerVirion
	g.average[Vpr] = p.AveVprPerVirion
	g.average[Nef] = p.AveNefPerVirion
	return g
}

// secondaryProteins bind to a growing virion in proportion to Gag.
var secondaryProteins = []Protein{Vif, GagProPol, Vpr, Nef}

// Grow advances every agent by one timestep, drawing Gag and the secondary
// virion proteins from the cytoplasmic (cyt) and membrane (mem) pools.
// Agents are visited in a freshly shuffled order.
func (c *ProgenyContainer) Grow(rng *RNG, cyt, mem []int, step int) {
	c.Shuffle(rng)
	g := &c.growth
	for _, p := range c.agents {
		if p.state == NucleateCyt && rng.Float64() < g.translocationProb {
			c.setState(p, NucleateMem, step)
		}
		if p.state != NucleateMem && p.state != GrowingVirion {
			continue
		}

		if !p.growthConstSet {
			denom := g.expGrowthConst * float64(cyt[Gag]+2*cyt[GagDimers])
			if denom > 0 {
				p.growthConst = g.average[Gag] / denom
			}
			p.growthConstSet = true
		}
		if p.finalGag == 0 {
			p.finalGag = rng.Poisson(g.average[Gag])
		}

		size := float64(p.counts[Gag]) * p.growthConst
		rMonCyt := float64(cyt[Gag]) * size
		rDimCyt := float64(cyt[GagDimers]) * size * g.dimerFoldChange
		rMonMem := float64(mem[Gag]) * size * g.lateralFoldChange
		rDimMem := float64(mem[GagDimers]) * size * g.dimerFoldChange * g.lateralFoldChange

		c.takeGag(rng, p, cyt, Gag, rMonCyt, 1)
		c.takeGag(rng, p, cyt, GagDimers, rDimCyt, 2)
		c.takeGag(rng, p, mem, Gag, rMonMem, 1)
		c.takeGag(rng, p, mem, GagDimers, rDimMem, 2)

		total := rMonCyt + 2*rDimCyt + rMonMem + 2*rDimMem
		for _, protein := range secondaryProteins {
			rate := g.average[protein] / g.average[Gag] * total
			n := rng.PoissonCapped(rate, cyt[protein])
			cyt[protein] -= n
			c.AddProtein(p, protein, n)
		}

		if float64(p.counts[Gag]) > g.stickThreshold && p.state != GrowingVirion {
			c.setState(p, GrowingVirion, step)
		}
		if p.counts[Gag] >= p.finalGag {
			c.setState(p, VirionPrebudding, step)
		}
		if p.state == NucleateMem && rng.Float64() < g.nucleateDissRate {
			c.setState(p, NucleateCyt, step)
		}
	}
}

// takeGag moves Gag units of species from pool into p. Each unit carries
// size Gag molecules (1 for monomers, 2 for dimers) and the draw never
// overshoots the agent's target size.
func (c *ProgenyContainer) takeGag(rng *RNG, p *Progeny, pool []int, species Protein, rate float64, size int) {
	need := (p.finalGag - p.counts[Gag]) / size
	n := rng.PoissonCapped(rate, min(pool[species], need))
	if n <= 0 {
		return
	}
	pool[species] -= n
	c.AddProtein(p, Gag, size*n)
}
