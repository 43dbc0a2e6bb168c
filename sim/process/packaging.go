package process

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/virosim/virosim/sim"
)

// packagingSignal is the occupancy state with SL1, SL2 and SL3 bound. Two
// such transcripts dimerize and nucleate a viral progeny.
var (
	packagingSignal        = sim.StemLoopIndex(sim.SL1, sim.SL2, sim.SL3)
	packagingSignalWithSL4 = sim.StemLoopIndex(sim.SL1, sim.SL2, sim.SL3, sim.SL4)
)

// nucleateGag is the Gag carried by a freshly dimerized genome pair with
// SL1-SL3 bound on both transcripts.
const nucleateGag = 6

// Packaging assembles virions in the cytoplasm.
//
// Once cytoplasmic Vpr crosses VPR_G2ARREST_THRESH the cell arrests in G2
// (permanently) and cap-dependent translation is suppressed. While arrested
// and Vif is present, Gag nucleocapsid binds the four stem loops of
// cytoplasmic genomic RNA. Independently of arrest, Gag monomers dimerize and
// diffuse to the membrane, SL1-SL3 bound genomes pair up into new progeny,
// and existing progeny grow.
type Packaging struct {
	proteins *sim.Proteins
	mrnas    *sim.MRNAs
	rates    *sim.ReactionRates
	cycle    *sim.CellCycle
	progeny  *sim.ProgenyContainer
	rng      *sim.RNG

	vprThresh      float64
	siteAffinity   [sim.NumStemLoops]float64 // binding constant / (N_A · V_cyt)
	ncDissRate     float64
	volumeCyt      float64
	gagDiameter    float64
	gagVelocity    float64
	gagDiffusion   float64
	dimerDiffusion float64
	genomeDimers   float64
}

// NewPackaging creates the packaging process.
func NewPackaging(state *sim.State, p *sim.Params, rng *sim.RNG) *Packaging {
	pk := &Packaging{
		proteins:       state.Proteins,
		mrnas:          state.MRNAs,
		rates:          state.ReactionRates,
		cycle:          state.CellCycle,
		progeny:        state.Progeny,
		rng:            rng,
		vprThresh:      p.VprG2ArrestThresh,
		ncDissRate:     p.GagNCDissRate,
		volumeCyt:      p.VolumeCytoplasm,
		gagDiameter:    p.GagDiameter,
		gagVelocity:    p.GagVelocity,
		gagDiffusion:   p.GagDiffusionProb,
		dimerDiffusion: p.GagDimerDiffusionProb,
		genomeDimers:   p.ProbGagBoundRNADimers,
	}
	molar := p.AvogadroNum * p.VolumeCytoplasm
	for s, k := range []float64{p.BindingConstantSL1, p.BindingConstantSL2, p.BindingConstantSL3, p.BindingConstantSL4} {
		pk.siteAffinity[s] = k / molar
	}
	return pk
}

func (pk *Packaging) Name() string { return "Packaging" }

func (pk *Packaging) Advance(t int) error {
	cyt := pk.proteins.Cyt

	if !pk.cycle.Arrested && float64(cyt[sim.Vpr]) > pk.vprThresh {
		pk.cycle.Arrested = true
		logrus.Infof("[step %05d] G2 arrest: cytoplasmic Vpr %d", t, cyt[sim.Vpr])
	}
	if pk.cycle.Arrested {
		pk.rates.TranslationSuppressed = true
		if cyt[sim.Vif] > 0 {
			pk.bindStemLoops()
			pk.bindFreeTranscripts()
			pk.releaseUnbound()
		}
	}

	pk.dimerizeGag()
	sim.TransferBetween(pk.rng, cyt, int(sim.Gag), pk.proteins.Mem, int(sim.Gag), pk.gagDiffusion)
	sim.TransferBetween(pk.rng, cyt, int(sim.GagDimers), pk.proteins.Mem, int(sim.GagDimers), pk.dimerDiffusion)

	m := pk.mrnas
	if m.GagBound[packagingSignal]+m.GagBound[packagingSignalWithSL4] > 2 {
		if err := pk.nucleate(t); err != nil {
			return fmt.Errorf("packaging at step %d: %w", t, err)
		}
	}

	pk.progeny.Grow(pk.rng, cyt, pk.proteins.Mem, t)

	for _, protein := range sim.VirionProteins {
		pk.proteins.Virion[protein] = pk.progeny.Total(protein)
	}
	return nil
}

// bindingRate is the per-minute probability that a free site s is bound by
// one of the current cytoplasmic Gag monomers.
func (pk *Packaging) bindingRate(s sim.StemLoop) float64 {
	return pk.siteAffinity[s] * float64(pk.proteins.Cyt[sim.Gag])
}

// bindStemLoops updates every occupancy state in index order. Free sites bind
// Gag (limited by the cytoplasmic pool), bound sites release it.
func (pk *Packaging) bindStemLoops() {
	bins := pk.mrnas.GagBound
	cyt := pk.proteins.Cyt
	for idx := range bins {
		for s := sim.SL1; s <= sim.SL4; s++ {
			if bins[idx] == 0 {
				break
			}
			to := sim.StemLoops.Toggle(idx, s)
			if sim.StemLoops.IsBound(idx, s) {
				n := sim.SampleEventCount(pk.rng, bins[idx], pk.ncDissRate)
				sim.MoveBetween(bins, idx, bins, to, n)
				cyt[sim.Gag] += n
				continue
			}
			n := min(sim.SampleEventCount(pk.rng, bins[idx], pk.bindingRate(s)), cyt[sim.Gag])
			sim.MoveBetween(bins, idx, bins, to, n)
			cyt[sim.Gag] -= n
		}
	}
}

// bindFreeTranscripts moves cytoplasmic genomic RNA into the single-site
// occupancy states. Rev still bound to those transcripts is released.
func (pk *Packaging) bindFreeTranscripts() {
	m := pk.mrnas
	cyt := pk.proteins.Cyt
	for rev := range m.FullCyt {
		for s := sim.SL1; s <= sim.SL4; s++ {
			n := min(sim.SampleEventCount(pk.rng, m.FullCyt[rev], pk.bindingRate(s)), cyt[sim.Gag])
			sim.MoveBetween(m.FullCyt, rev, m.GagBound, sim.StemLoopIndex(s), n)
			cyt[sim.Gag] -= n
			cyt[sim.Rev] += n * rev
		}
	}
}

// releaseUnbound returns transcripts with no Gag bound to the free pool.
func (pk *Packaging) releaseUnbound() {
	m := pk.mrnas
	m.FullCyt[0] += m.GagBound[0]
	m.GagBound[0] = 0
}

// dimerizeGag pairs cytoplasmic Gag monomers at a collision rate that grows
// with the square of their concentration.
func (pk *Packaging) dimerizeGag() {
	cyt := pk.proteins.Cyt
	gag := float64(cyt[sim.Gag])
	conc := gag / (pk.volumeCyt * 0.001) // molecules/m^3
	collision := 0.5 * math.Pi * pk.gagDiameter * pk.gagDiameter * math.Sqrt2 * pk.gagVelocity * conc * conc
	dimers := pk.rng.PoissonCapped(gag*collision, cyt[sim.Gag]/2)
	cyt[sim.Gag] -= 2 * dimers
	cyt[sim.GagDimers] += dimers
}

// nucleate pairs SL1-SL3 bound genomes and creates one progeny per pair,
// carrying the Gag bound to both transcripts.
func (pk *Packaging) nucleate(t int) error {
	m := pk.mrnas
	pairs := pk.rng.Binomial((m.GagBound[packagingSignal]+m.GagBound[packagingSignalWithSL4])/2, pk.genomeDimers)
	for ; pairs > 0; pairs-- {
		withSL4 := 0
		for range 2 {
			total := m.GagBound[packagingSignal] + m.GagBound[packagingSignalWithSL4]
			if pk.rng.Float64()*float64(total) < float64(m.GagBound[packagingSignalWithSL4]) {
				m.GagBound[packagingSignalWithSL4]--
				withSL4++
			} else {
				m.GagBound[packagingSignal]--
			}
		}
		if _, err := pk.progeny.Create(nucleateGag+withSL4, t); err != nil {
			m.GagBound[packagingSignalWithSL4] += withSL4
			m.GagBound[packagingSignal] += 2 - withSL4
			return err
		}
		m.DimersCyt[withSL4]++
	}
	return nil
}
