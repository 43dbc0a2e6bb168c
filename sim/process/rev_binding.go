package process

import "github.com/virosim/virosim/sim"

// RevBinding binds and releases nuclear Rev on full-length and
// single-spliced transcripts. Each transcript family (full-length and the
// seven single-spliced forms) sees a share of free Rev proportional to its
// bindable transcripts, runs a one-minute binding ODE over its occupancy
// bins, and is reconciled back to integers.
type RevBinding struct {
	proteins *sim.Proteins
	mrnas    *sim.MRNAs
	rng      *sim.RNG

	maxRev int
	kOn    []float64 // 1/(molecule Rev * sec)
	kOff   []float64 // 1/sec
}

// NewRevBinding creates the Rev binding process.
func NewRevBinding(state *sim.State, p *sim.Params, rng *sim.RNG) *RevBinding {
	scale := 1e8 / (p.VolumeNuc * 6.022e23)
	kOn := make([]float64, len(p.RevBindingConstants))
	for i, k := range p.RevBindingConstants {
		kOn[i] = k * scale
	}
	return &RevBinding{
		proteins: state.Proteins,
		mrnas:    state.MRNAs,
		rng:      rng,
		maxRev:   p.MaxRevPerTranscript,
		kOn:      kOn,
		kOff:     append([]float64(nil), p.RevDissociationConstants...),
	}
}

func (rb *RevBinding) Name() string { return "RevBinding" }

// derivative of the occupancy bins y[0..maxRev] and free Rev y[maxRev+1].
func (rb *RevBinding) derivative(_ float64, y, dy []float64) {
	n := rb.maxRev
	free := y[n+1]
	for i := range dy {
		dy[i] = 0
	}
	for i := 0; i < n; i++ {
		flux := y[i]*rb.kOn[i]*free - y[i+1]*rb.kOff[i]
		dy[i] -= flux
		dy[i+1] += flux
		dy[n+1] -= flux
	}
}

func (rb *RevBinding) maxRate(bins []int, free int) float64 {
	carriers := 0
	for _, b := range bins {
		carriers += b
	}
	rate := 0.0
	for i := range rb.kOn {
		if r := rb.kOn[i]*float64(free+carriers) + rb.kOff[i]; r > rate {
			rate = r
		}
	}
	return rate
}

// bind runs the binding kinetics for one family and returns its new bins
// and the free Rev it hands back.
func (rb *RevBinding) bind(bins []int, free int) ([]int, int) {
	y0 := make([]float64, len(bins)+1)
	for i, b := range bins {
		y0[i] = float64(b)
	}
	y0[len(bins)] = float64(free)
	soln := sim.IntegrateMinute(rb.derivative, y0, rb.maxRate(bins, free))
	return sim.ReconcileBinding(rb.rng, soln, bins, free)
}

func (rb *RevBinding) Advance(int) error {
	m := rb.mrnas
	revNuc := rb.proteins.Nuc[sim.Rev]

	// Transcripts already at full occupancy cannot bind more Rev and do not
	// count toward a family's share.
	bindableFull := 0
	for i := 0; i < rb.maxRev; i++ {
		bindableFull += m.FullNuc[i]
	}
	bindableSingle := make([]int, sim.SingleSpliceForms)
	for f := 0; f < sim.SingleSpliceForms; f++ {
		for i := 0; i < rb.maxRev; i++ {
			bindableSingle[f] += m.SingleNuc[sim.SingleIndex(i, f)]
		}
	}
	bindableTotal := bindableFull
	for _, n := range bindableSingle {
		bindableTotal += n
	}
	share := func(n int) int {
		if n == 0 {
			return 0
		}
		return int(float64(n) / float64(bindableTotal) * float64(revNuc))
	}

	allotted, returned := 0, 0

	rev := share(bindableFull)
	allotted += rev
	bins, free := rb.bind(m.FullNuc, rev)
	copy(m.FullNuc, bins)
	returned += free

	family := make([]int, rb.maxRev+1)
	for f := 0; f < sim.SingleSpliceForms; f++ {
		for i := range family {
			family[i] = m.SingleNuc[sim.SingleIndex(i, f)]
		}
		rev := share(bindableSingle[f])
		allotted += rev
		bins, free := rb.bind(family, rev)
		for i, b := range bins {
			m.SingleNuc[sim.SingleIndex(i, f)] = b
		}
		returned += free
	}

	rb.proteins.Nuc[sim.Rev] = revNuc - allotted + returned
	return nil
}
