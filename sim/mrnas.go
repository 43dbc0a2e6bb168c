package sim

// Transcript family sizes.
const (
	// SingleSpliceForms is the number of single-spliced transcript forms
	// (D1 to A1, A2, A3, A4a, A4b, A4c, A5).
	SingleSpliceForms = 7
	// MultiSpliceForms is the number of multi-spliced transcript forms.
	MultiSpliceForms = 17
)

// MRNAs holds viral transcript counts. Full-length and single-spliced
// transcripts are binned by the number of Rev proteins bound; the bin of a
// single-spliced transcript of form f with r Rev bound is SingleIndex(r, f).
type MRNAs struct {
	MaxRev int

	FullNuc   []int
	FullCyt   []int
	SingleNuc []int
	SingleCyt []int
	MultiNuc  []int
	MultiCyt  []int

	// GagBound counts cytoplasmic full-length transcripts by stem-loop
	// occupancy, indexed as in StemLoops. Entry 0 is always folded back
	// into FullCyt[0].
	GagBound []int

	// DimersCyt counts genome dimers formed in the cytoplasm by the number
	// of SL4 sites bound (0, 1, 2). It is cumulative; the dimers themselves
	// become progeny nucleates.
	DimersCyt []int

	Synthesized int
}

// NewMRNAs returns a zeroed transcript substate for up to maxRev bound Rev.
func NewMRNAs(maxRev int) *MRNAs {
	levels := maxRev + 1
	return &MRNAs{
		MaxRev:    maxRev,
		FullNuc:   make([]int, levels),
		FullCyt:   make([]int, levels),
		SingleNuc: make([]int, SingleSpliceForms*levels),
		SingleCyt: make([]int, SingleSpliceForms*levels),
		MultiNuc:  make([]int, MultiSpliceForms),
		MultiCyt:  make([]int, MultiSpliceForms),
		GagBound:  make([]int, NumStemLoopStates),
		DimersCyt: make([]int, 3),
	}
}

// SingleIndex returns the bin of single-spliced form with rev Rev bound.
func SingleIndex(rev, form int) int {
	return SingleSpliceForms*rev + form
}

func (m *MRNAs) Name() string { return SubstateMRNAs }

func (m *MRNAs) Record(r Recorder, t int) {
	r.Track(t, "full_len_transcripts_nuc", m.FullNuc)
	r.Track(t, "single_splice_transcript_nuc", m.SingleNuc)
	r.Track(t, "multi_splice_transcript_nuc", m.MultiNuc)
	r.Track(t, "full_len_transcripts_cyt", m.FullCyt)
	r.Track(t, "single_splice_transcript_cyt", m.SingleCyt)
	r.Track(t, "multi_splice_transcript_cyt", m.MultiCyt)
	r.Track(t, "transcripts_synthesized", m.Synthesized)
	r.Track(t, "full_len_transcripts_Gag_bound", m.GagBound)
	r.Track(t, "full_length_transcript_dimers_cyt", m.DimersCyt)
}

func (m *MRNAs) RecordAtEnd(Recorder) {}

func (m *MRNAs) buckets() map[string][]int {
	return map[string][]int{
		"full_len_transcripts_nuc": m.FullNuc, "full_len_transcripts_cyt": m.FullCyt,
		"single_splice_transcript_nuc": m.SingleNuc, "single_splice_transcript_cyt": m.SingleCyt,
		"multi_splice_transcript_nuc": m.MultiNuc, "multi_splice_transcript_cyt": m.MultiCyt,
		"full_len_transcripts_Gag_bound": m.GagBound, "full_length_transcript_dimers_cyt": m.DimersCyt,
		"transcripts_synthesized": {m.Synthesized},
	}
}

func (m *MRNAs) clone() *MRNAs {
	c := *m
	c.FullNuc = cloneInts(m.FullNuc)
	c.FullCyt = cloneInts(m.FullCyt)
	c.SingleNuc = cloneInts(m.SingleNuc)
	c.SingleCyt = cloneInts(m.SingleCyt)
	c.MultiNuc = cloneInts(m.MultiNuc)
	c.MultiCyt = cloneInts(m.MultiCyt)
	c.GagBound = cloneInts(m.GagBound)
	c.DimersCyt = cloneInts(m.DimersCyt)
	return &c
}

// === Stem-loop occupancy ===

// StemLoop names one of the four Gag nucleocapsid binding sites on the
// genomic RNA packaging signal.
type StemLoop int

const (
	SL1 StemLoop = iota
	SL2
	SL3
	SL4

	NumStemLoops = int(SL4) + 1
	// NumStemLoopStates is the number of occupancy combinations.
	NumStemLoopStates = 1 << NumStemLoops
)

// bit returns the occupancy bit of the site. SL1 is the most significant.
func (s StemLoop) bit() int { return 1 << (NumStemLoops - 1 - int(s)) }

// StemLoopIndex returns the occupancy index of a transcript with the given
// sites bound: SL1·8 + SL2·4 + SL3·2 + SL4.
func StemLoopIndex(bound ...StemLoop) int {
	idx := 0
	for _, s := range bound {
		idx |= s.bit()
	}
	return idx
}

// StemLoopTable is the precomputed view of the 16 occupancy states.
type StemLoopTable struct {
	// Bound[s] lists the occupancy indices with site s bound; Unbound[s]
	// lists those with s free, in increasing order.
	Bound   [NumStemLoops][]int
	Unbound [NumStemLoops][]int
	// Multiplicity is the number of Gag bound in each occupancy state.
	Multiplicity [NumStemLoopStates]int
}

// StemLoops is the shared occupancy table.
var StemLoops = NewStemLoopTable()

// NewStemLoopTable builds the occupancy table.
func NewStemLoopTable() *StemLoopTable {
	t := &StemLoopTable{}
	for idx := 0; idx < NumStemLoopStates; idx++ {
		for s := 0; s < NumStemLoops; s++ {
			site := StemLoop(s)
			if t.IsBound(idx, site) {
				t.Bound[s] = append(t.Bound[s], idx)
				t.Multiplicity[idx]++
			} else {
				t.Unbound[s] = append(t.Unbound[s], idx)
			}
		}
	}
	return t
}

// IsBound reports whether site s is bound in occupancy state idx.
func (t *StemLoopTable) IsBound(idx int, s StemLoop) bool {
	return idx&s.bit() != 0
}

// Toggle returns the occupancy index with site s flipped.
func (t *StemLoopTable) Toggle(idx int, s StemLoop) int {
	return idx ^ s.bit()
}
