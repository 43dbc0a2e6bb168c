package process

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/virosim/virosim/sim"
)

// TatFeedback integrates the Tat/pTEFb transactivation loop for one minute.
//
// Free nuclear Tat binds free pTEFb into a deacetylated complex, which is
// acetylated; the acetylated complex drives transcription and releases both
// Tat and pTEFb. The number of transcription events over the minute becomes
// the Tat-derived transcription rate read by Transcription.
type TatFeedback struct {
	proteins *sim.Proteins
	host     *sim.HostFactors
	rates    *sim.ReactionRates
	rng      *sim.RNG

	pTEFbInit    float64
	doublingRate float64
	bind         float64
	acetyl       float64
	act          float64
}

// NewTatFeedback creates the Tat feedback process. The unbinding and
// deacetylation rates are accepted but do not enter the kinetics.
func NewTatFeedback(state *sim.State, p *sim.Params, rng *sim.RNG) *TatFeedback {
	return &TatFeedback{
		proteins:     state.Proteins,
		host:         state.HostFactors,
		rates:        state.ReactionRates,
		rng:          rng,
		pTEFbInit:    float64(p.PTEFbNucInit),
		doublingRate: p.PTEFbDoublingRate,
		bind:         p.RateTatPTEFbBind,
		acetyl:       p.RateTatPTEFbAcetyl,
		act:          p.RateTatActTranscription,
	}
}

func (tf *TatFeedback) Name() string { return "TatFeedback" }

// derivative of [Tat, pTEFb, deacetylated, acetylated, transcription events].
func (tf *TatFeedback) derivative(_ float64, y, dy []float64) {
	binding := tf.bind * y[0] * y[1]
	release := tf.act * y[3]
	acetylation := tf.acetyl * y[2]
	dy[0] = release - binding
	dy[1] = release - binding
	dy[2] = binding - acetylation
	dy[3] = acetylation - release
	dy[4] = release
}

// replenishment returns the pTEFb added by host growth during step t.
func (tf *TatFeedback) replenishment(t int) int {
	next := math.Round(tf.pTEFbInit * math.Exp(tf.doublingRate*float64(t+1)))
	cur := math.Round(tf.pTEFbInit * math.Exp(tf.doublingRate*float64(t)))
	return int(next - cur)
}

func (tf *TatFeedback) Advance(t int) error {
	h := tf.host
	h.PTEFbNuc += tf.replenishment(t)

	prev := sim.Complexes{
		Tat:      tf.proteins.Nuc[sim.Tat],
		PTEFb:    h.PTEFbNuc,
		Deacetyl: h.TatPTEFbDeacetyl,
		Acetyl:   h.TatPTEFbAcetyl,
	}
	y0 := []float64{float64(prev.Tat), float64(prev.PTEFb), float64(prev.Deacetyl), float64(prev.Acetyl), 0}
	maxRate := tf.bind*float64(prev.Tat+prev.PTEFb+prev.Deacetyl+prev.Acetyl) + tf.acetyl + tf.act
	soln := sim.IntegrateMinute(tf.derivative, y0, maxRate)

	out, clamped := sim.ReconcileComplexes(tf.rng, soln, prev)
	if clamped {
		logrus.Errorf("[step %05d] pTEFb mass balance: nuclear pTEFb went below zero, clamped", t)
	}
	tf.proteins.Nuc[sim.Tat] = out.Tat
	h.PTEFbNuc = out.PTEFb
	h.TatPTEFbDeacetyl = out.Deacetyl
	h.TatPTEFbAcetyl = out.Acetyl
	tf.rates.TatDerivedTranscriptionRate = math.Max(0, soln[4])
	return nil
}
