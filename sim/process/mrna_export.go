package process

import "github.com/virosim/virosim/sim"

// MRNAExport moves transcripts from the nucleus to the cytoplasm.
// Multi-spliced transcripts export without Rev; full-length and
// single-spliced transcripts need NUM_OF_REV_REQ_FOR_EXPORT Rev bound.
type MRNAExport struct {
	mrnas *sim.MRNAs
	rng   *sim.RNG

	maxRev    int
	revReq    int
	indepRate float64
	depRate   float64
}

// NewMRNAExport creates the export process.
func NewMRNAExport(state *sim.State, p *sim.Params, rng *sim.RNG) *MRNAExport {
	return &MRNAExport{
		mrnas:     state.MRNAs,
		rng:       rng,
		maxRev:    p.MaxRevPerTranscript,
		revReq:    p.NumOfRevReqForExport,
		indepRate: p.ProbRevIndepExport,
		depRate:   p.ProbRevDepExport,
	}
}

func (ex *MRNAExport) Name() string { return "MRNAExport" }

func (ex *MRNAExport) Advance(int) error {
	m := ex.mrnas
	for i := range m.MultiNuc {
		sim.TransferBetween(ex.rng, m.MultiNuc, i, m.MultiCyt, i, ex.indepRate)
	}
	for rev := ex.revReq; rev <= ex.maxRev; rev++ {
		sim.TransferBetween(ex.rng, m.FullNuc, rev, m.FullCyt, rev, ex.depRate)
	}
	for i := sim.SingleIndex(ex.revReq, 0); i < len(m.SingleNuc); i++ {
		sim.TransferBetween(ex.rng, m.SingleNuc, i, m.SingleCyt, i, ex.depRate)
	}
	return nil
}
