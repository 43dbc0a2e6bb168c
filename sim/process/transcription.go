package process

import (
	"github.com/sirupsen/logrus"

	"github.com/virosim/virosim/sim"
)

// Transcription synthesizes full-length transcripts from the provirus.
//
// The promoter toggles on and off (telegraph model) until the Tat-derived
// rate first exceeds THRESH_TAT_FEEDBACK, after which it stays on. While on,
// transcripts are made at max(Tat-derived rate, basal rate), capped at
// THRESH_TAT_FEEDBACK·MAX_TAT_ENHANCEMENT per minute.
type Transcription struct {
	mrnas *sim.MRNAs
	dnas  *sim.DNAs
	rates *sim.ReactionRates
	rng   *sim.RNG

	onRate    float64
	offRate   float64
	basalRate float64
	threshold float64
	ceiling   float64

	alwaysOn bool
}

// NewTranscription creates the transcription process. With
// INTEGRATION_SITE_EFFECTS set, the promoter kinetics come from a random clone.
func NewTranscription(state *sim.State, p *sim.Params, rng *sim.RNG) *Transcription {
	tr := &Transcription{
		mrnas:     state.MRNAs,
		dnas:      state.DNAs,
		rates:     state.ReactionRates,
		rng:       rng,
		onRate:    p.PromoterOnRate,
		offRate:   p.PromoterOffRate,
		basalRate: p.BasalTranscriptionRate,
		threshold: p.ThreshTatFeedback,
		ceiling:   p.ThreshTatFeedback * p.MaxTatEnhancement,
	}
	if p.IntegrationSiteEffects {
		c := PickClone(rng)
		tr.onRate, tr.offRate, tr.basalRate = c.OnRate, c.OffRate, c.BasalRate
		logrus.Infof("Integration site clone %d: on %.6f off %.3f basal %.6f", c.Index, c.OnRate, c.OffRate, c.BasalRate)
	}
	return tr
}

func (tr *Transcription) Name() string { return "Transcription" }

// AlwaysOn reports whether Tat feedback has latched the promoter on.
func (tr *Transcription) AlwaysOn() bool { return tr.alwaysOn }

func (tr *Transcription) Advance(t int) error {
	tatRate := tr.rates.TatDerivedTranscriptionRate
	if tatRate > tr.threshold && !tr.alwaysOn {
		tr.alwaysOn = true
		tr.dnas.PromoterActive = true
		logrus.Debugf("[step %05d] Promoter latched on by Tat feedback (rate %.3f)", t, tatRate)
	}
	if !tr.alwaysOn {
		if tr.dnas.PromoterActive {
			if tr.rng.Float64() < tr.offRate {
				tr.dnas.PromoterActive = false
			}
		} else if tr.rng.Float64() < tr.onRate {
			tr.dnas.PromoterActive = true
		}
	}

	rate := max(tatRate, tr.basalRate)
	rate = min(rate, tr.ceiling)

	if !tr.dnas.PromoterActive && !tr.alwaysOn {
		return nil
	}
	made := 0
	if rate < 1 {
		if tr.rng.Float64() < rate {
			made = 1
		}
	} else {
		made = tr.rng.Poisson(rate)
	}
	tr.mrnas.FullNuc[0] += made
	tr.mrnas.Synthesized += made
	return nil
}
