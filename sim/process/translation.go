package process

import "github.com/virosim/virosim/sim"

// singleSpliceProduct is the protein translated from each single-spliced form.
var singleSpliceProduct = [sim.SingleSpliceForms]sim.Protein{sim.Vif, sim.Vpr, sim.Tat, sim.Env, sim.Env, sim.Env, sim.Env}

// multiSpliceProduct is the protein translated from each multi-spliced form.
var multiSpliceProduct = [sim.MultiSpliceForms]sim.Protein{
	sim.Vif, sim.Tat, sim.Rev, sim.Rev, sim.Rev, sim.Nef,
	sim.Vpr, sim.Tat, sim.Rev, sim.Rev, sim.Rev, sim.Nef,
	sim.Tat, sim.Rev, sim.Rev, sim.Rev, sim.Nef,
}

// Translation makes cytoplasmic proteins from cytoplasmic transcripts.
// Every transcript yields a Poisson number of proteins per minute. Under G2
// arrest cap-dependent translation drops to the suppressed frequency while
// full-length transcripts switch to IRES-driven translation. A fraction of
// full-length translation frameshifts into GagProPol.
type Translation struct {
	proteins *sim.Proteins
	mrnas    *sim.MRNAs
	rates    *sim.ReactionRates
	rng      *sim.RNG

	freq           float64
	freqSuppressed float64
	freqIRES       float64
	frameshift     float64
}

// NewTranslation creates the translation process.
func NewTranslation(state *sim.State, p *sim.Params, rng *sim.RNG) *Translation {
	return &Translation{
		proteins:       state.Proteins,
		mrnas:          state.MRNAs,
		rates:          state.ReactionRates,
		rng:            rng,
		freq:           p.FreqTranslation,
		freqSuppressed: p.FreqTranslationSuppressed,
		freqIRES:       p.FreqTranslationIRES,
		frameshift:     p.FreqGagProPolTranslation,
	}
}

func (tl *Translation) Name() string { return "Translation" }

func (tl *Translation) translate(transcripts int, freq float64) int {
	return tl.rng.Poisson(float64(transcripts) * freq)
}

func (tl *Translation) Advance(int) error {
	cyt := tl.proteins.Cyt
	m := tl.mrnas

	freq, fullFreq := tl.freq, tl.freq
	if tl.rates.TranslationSuppressed {
		freq, fullFreq = tl.freqSuppressed, tl.freqIRES
	}

	for form := 0; form < sim.SingleSpliceForms; form++ {
		for rev := 0; rev <= m.MaxRev; rev++ {
			cyt[singleSpliceProduct[form]] += tl.translate(m.SingleCyt[sim.SingleIndex(rev, form)], freq)
		}
	}
	for form, n := range m.MultiCyt {
		cyt[multiSpliceProduct[form]] += tl.translate(n, freq)
	}
	for _, n := range m.FullCyt {
		made := tl.translate(n, fullFreq)
		shifted := tl.rng.Binomial(made, tl.frameshift)
		cyt[sim.Gag] += made - shifted
		cyt[sim.GagProPol] += shifted
	}
	return nil
}
