package sim

// HostFactors holds host-cell factors used by the virus. Only the nuclear
// pTEFb pool and its complexes with Tat are modelled.
type HostFactors struct {
	PTEFbNuc         int
	PTEFbNucInit     int
	TatPTEFbDeacetyl int
	TatPTEFbAcetyl   int
}

// NewHostFactors starts the free nuclear pTEFb pool at init molecules.
func NewHostFactors(init int) *HostFactors {
	return &HostFactors{PTEFbNuc: init, PTEFbNucInit: init}
}

func (h *HostFactors) Name() string { return SubstateHostFactors }

func (h *HostFactors) Record(r Recorder, t int) {
	r.Track(t, "pTEFb_nuc", h.PTEFbNuc)
	r.Track(t, "Tat_pTEFb_deacetyl", h.TatPTEFbDeacetyl)
	r.Track(t, "Tat_pTEFb_acetyl", h.TatPTEFbAcetyl)
}

func (h *HostFactors) RecordAtEnd(Recorder) {}

func (h *HostFactors) buckets() map[string][]int {
	return map[string][]int{
		"pTEFb_nuc":          {h.PTEFbNuc},
		"Tat_pTEFb_deacetyl": {h.TatPTEFbDeacetyl},
		"Tat_pTEFb_acetyl":   {h.TatPTEFbAcetyl},
	}
}

// ReactionRates carries rates computed by one process for use by another.
type ReactionRates struct {
	// TatDerivedTranscriptionRate is the expected number of transcripts per
	// minute driven by acetylated Tat/pTEFb.
	TatDerivedTranscriptionRate float64
	// TranslationSuppressed is set once the cell enters G2 arrest; cap-
	// dependent translation is then suppressed.
	TranslationSuppressed bool
}

func (r *ReactionRates) Name() string { return SubstateReactionRates }

func (r *ReactionRates) Record(rec Recorder, t int) {
	rec.Track(t, "Tat_derived_transcription_rate", r.TatDerivedTranscriptionRate)
	rec.Track(t, "translation_suppressed", boolCount(r.TranslationSuppressed))
}

func (r *ReactionRates) RecordAtEnd(Recorder) {}

// DNAs holds the state of the integrated provirus.
type DNAs struct {
	PromoterActive bool
}

func (d *DNAs) Name() string { return SubstateDNAs }

func (d *DNAs) Record(r Recorder, t int) {
	r.Track(t, "promoter_activity", boolCount(d.PromoterActive))
}

func (d *DNAs) RecordAtEnd(Recorder) {}

// CellCycle holds the host cell-cycle state.
type CellCycle struct {
	// Arrested latches once Vpr drives the cell into G2 arrest.
	Arrested bool
}

func (c *CellCycle) Name() string { return SubstateCellCycle }

func (c *CellCycle) Record(r Recorder, t int) {
	r.Track(t, "cell_cycle_arrest", boolCount(c.Arrested))
}

func (c *CellCycle) RecordAtEnd(Recorder) {}

func boolCount(b bool) int {
	if b {
		return 1
	}
	return 0
}
