package sim

import (
	"errors"
	"fmt"
	"sort"
)

// Substate names.
const (
	SubstateProteins      = "proteins"
	SubstateMRNAs         = "mRNAs"
	SubstateHostFactors   = "host_factors"
	SubstateReactionRates = "reaction_rates"
	SubstateDNAs          = "DNAs"
	SubstateCellCycle     = "cell_cycle"
	SubstateViralProgeny  = "viral_progeny"
)

// ErrNegativeCount is returned by CheckNonNegative when a bucket went negative.
var ErrNegativeCount = errors.New("negative population count")

// Recorder receives sampled state. Implementations must copy slice values;
// substates keep mutating them after Track returns.
type Recorder interface {
	// Track records value under name at timestep t. value is an int,
	// a float64 or a []int.
	Track(t int, name string, value any)
	// Histogram records an end-of-run distribution.
	Histogram(name string, values []int)
}

// Substate is a named group of populations.
type Substate interface {
	Name() string
	Record(r Recorder, t int)
	RecordAtEnd(r Recorder)
}

// State is the shared population state of one simulated cell. Processes
// hold a pointer to it and mutate it in place.
type State struct {
	Proteins      *Proteins
	MRNAs         *MRNAs
	HostFactors   *HostFactors
	ReactionRates *ReactionRates
	DNAs          *DNAs
	CellCycle     *CellCycle
	Progeny       *ProgenyContainer
}

// NewState returns a zeroed state sized by params.
func NewState(p *Params) *State {
	return &State{
		Proteins:      NewProteins(),
		MRNAs:         NewMRNAs(p.MaxRevPerTranscript),
		HostFactors:   NewHostFactors(p.PTEFbNucInit),
		ReactionRates: &ReactionRates{},
		DNAs:          &DNAs{},
		CellCycle:     &CellCycle{},
		Progeny:       NewProgenyContainer(p),
	}
}

// Substates returns the substates in recording order.
func (s *State) Substates() []Substate {
	return []Substate{s.Proteins, s.MRNAs, s.HostFactors, s.ReactionRates, s.DNAs, s.CellCycle, s.Progeny}
}

// Get looks a substate up by name.
func (s *State) Get(name string) (Substate, bool) {
	for _, sub := range s.Substates() {
		if sub.Name() == name {
			return sub, true
		}
	}
	return nil, false
}

// Clone returns a deep copy of the state. Lifecycle observers are not copied.
func (s *State) Clone() *State {
	rr := *s.ReactionRates
	dnas := *s.DNAs
	cc := *s.CellCycle
	hf := *s.HostFactors
	return &State{
		Proteins:      s.Proteins.clone(),
		MRNAs:         s.MRNAs.clone(),
		HostFactors:   &hf,
		ReactionRates: &rr,
		DNAs:          &dnas,
		CellCycle:     &cc,
		Progeny:       s.Progeny.clone(),
	}
}

// CheckNonNegative returns ErrNegativeCount naming the first negative bucket.
func (s *State) CheckNonNegative() error {
	for _, group := range []map[string][]int{
		s.Proteins.buckets(), s.MRNAs.buckets(), s.HostFactors.buckets(), s.Progeny.buckets(),
	} {
		names := make([]string, 0, len(group))
		for name := range group {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			for i, v := range group[name] {
				if v < 0 {
					return fmt.Errorf("%s[%d] = %d: %w", name, i, v, ErrNegativeCount)
				}
			}
		}
	}
	if s.ReactionRates.TatDerivedTranscriptionRate < 0 {
		return fmt.Errorf("Tat_derived_transcription_rate = %f: %w", s.ReactionRates.TatDerivedTranscriptionRate, ErrNegativeCount)
	}
	return nil
}
