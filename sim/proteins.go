package sim

import "fmt"

// Protein indexes the per-compartment protein vectors.
type Protein int

const (
	Vif Protein = iota
	Vpr
	Tat
	Env
	Rev
	Nef
	Gag
	GagProPol
	GagDimers

	NumProteins = int(GagDimers) + 1
)

var proteinNames = [NumProteins]string{"Vif", "Vpr", "Tat", "Env", "Rev", "Nef", "Gag", "GagProPol", "Gag_dimers"}

func (p Protein) String() string {
	if p < 0 || int(p) >= NumProteins {
		return fmt.Sprintf("Protein(%d)", int(p))
	}
	return proteinNames[p]
}

// ParseProtein maps a protein name ("Gag", "Vif", ...) to its Protein.
func ParseProtein(name string) (Protein, error) {
	for i, n := range proteinNames {
		if n == name {
			return Protein(i), nil
		}
	}
	return 0, fmt.Errorf("unknown protein %q", name)
}

// VirionProteins are the species tracked per viral progeny agent, in
// reporting order. Env is tracked separately as trimers.
var VirionProteins = []Protein{Gag, Vif, GagProPol, Vpr, Nef}

// EnvStage indexes the Env maturation pipeline counters.
type EnvStage int

const (
	EnvER EnvStage = iota
	EnvERG1
	EnvERG2
	EnvERG3
	EnvERG3Folded
	EnvERG4Folded
	EnvGolgi
	EnvGolgiG5
	EnvGolgiG5Error

	NumEnvStages = int(EnvGolgiG5Error) + 1
)

// EnvTrimerClasses is the number of trimer classes, indexed by how many of
// the three monomers were processed successfully.
const EnvTrimerClasses = 4

var envStageKeys = [NumEnvStages]string{
	"env_ER", "env_ER_G1", "env_ER_G2", "env_ER_G3", "env_ER_G3_folded", "env_ER_G4_folded",
	"env_Golgi", "env_Golgi_G5", "env_Golgi_G5_error",
}

// Key returns the recording key of the stage.
func (s EnvStage) Key() string { return envStageKeys[s] }

// Proteins holds protein counts per compartment plus the Env pipeline.
// Cytoplasmic Env monomers live in Cyt[Env].
type Proteins struct {
	Nuc    []int
	Cyt    []int
	Mem    []int
	Virion []int

	EnvStages   []int
	EnvTrimers  []int
	EnvCleaved  []int
	EnvMembrane []int
}

// NewProteins returns a zeroed proteins substate.
func NewProteins() *Proteins {
	return &Proteins{
		Nuc:         make([]int, NumProteins),
		Cyt:         make([]int, NumProteins),
		Mem:         make([]int, NumProteins),
		Virion:      make([]int, NumProteins),
		EnvStages:   make([]int, NumEnvStages),
		EnvTrimers:  make([]int, EnvTrimerClasses),
		EnvCleaved:  make([]int, EnvTrimerClasses),
		EnvMembrane: make([]int, EnvTrimerClasses),
	}
}

func (p *Proteins) Name() string { return SubstateProteins }

func (p *Proteins) Record(r Recorder, t int) {
	r.Track(t, "proteins_nuc", p.Nuc)
	r.Track(t, "proteins_cyt", p.Cyt)
	r.Track(t, "proteins_mem", p.Mem)
	r.Track(t, "proteins_virion", p.Virion)
	r.Track(t, "env_cyt", p.Cyt[Env])
	for s := 0; s < NumEnvStages; s++ {
		r.Track(t, EnvStage(s).Key(), p.EnvStages[s])
	}
	r.Track(t, "env_trimers", p.EnvTrimers)
	r.Track(t, "env_trimers_cleaved", p.EnvCleaved)
	r.Track(t, "env_trimers_membrane", p.EnvMembrane)
}

func (p *Proteins) RecordAtEnd(Recorder) {}

func (p *Proteins) buckets() map[string][]int {
	return map[string][]int{
		"proteins_nuc": p.Nuc, "proteins_cyt": p.Cyt, "proteins_mem": p.Mem, "proteins_virion": p.Virion,
		"env_stages": p.EnvStages, "env_trimers": p.EnvTrimers,
		"env_trimers_cleaved": p.EnvCleaved, "env_trimers_membrane": p.EnvMembrane,
	}
}

func (p *Proteins) clone() *Proteins {
	return &Proteins{
		Nuc:         cloneInts(p.Nuc),
		Cyt:         cloneInts(p.Cyt),
		Mem:         cloneInts(p.Mem),
		Virion:      cloneInts(p.Virion),
		EnvStages:   cloneInts(p.EnvStages),
		EnvTrimers:  cloneInts(p.EnvTrimers),
		EnvCleaved:  cloneInts(p.EnvCleaved),
		EnvMembrane: cloneInts(p.EnvMembrane),
	}
}

func cloneInts(s []int) []int { return append([]int(nil), s...) }
