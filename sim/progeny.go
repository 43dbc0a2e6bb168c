package sim

import (
	"errors"
	"fmt"
)

// ErrCapacityExceeded is returned when creating a progeny agent would exceed
// MAX_NUM_OF_PROGENY.
var ErrCapacityExceeded = errors.New("viral progeny capacity exceeded")

// ProgenyState is the lifecycle state of a viral progeny agent.
//
// NUCLEATE_CYT → NUCLEATE_MEM → GROWING_VIRION → VIRION_PREBUDDING, with the
// single backward edge NUCLEATE_MEM → NUCLEATE_CYT. BuddedVirion is counted
// but never entered.
type ProgenyState int

const (
	NucleateCyt ProgenyState = iota + 1
	NucleateMem
	GrowingVirion
	VirionPrebudding
	BuddedVirion

	NumProgenyStates = int(BuddedVirion)
)

var progenyStateNames = [...]string{"", "NUCLEATE_CYT", "NUCLEATE_MEM", "GROWING_VIRION", "VIRION_PREBUDDING", "BUDDED_VIRION"}

func (s ProgenyState) String() string {
	if s < NucleateCyt || s > BuddedVirion {
		return fmt.Sprintf("ProgenyState(%d)", int(s))
	}
	return progenyStateNames[s]
}

// Progeny is one assembling viral particle.
type Progeny struct {
	id    int
	state ProgenyState

	counts     [NumProteins]int
	envTrimers [EnvTrimerClasses]int

	growthConst    float64
	growthConstSet bool
	finalGag       int

	createdStep int
	growingStep int
	prebudStep  int
}

// ID returns the creation index of the agent.
func (p *Progeny) ID() int { return p.id }

// State returns the lifecycle state.
func (p *Progeny) State() ProgenyState { return p.state }

// Count returns how many molecules of protein the agent carries.
func (p *Progeny) Count(protein Protein) int { return p.counts[protein] }

// EnvTrimers returns the agent's Env trimers by success class.
func (p *Progeny) EnvTrimers() [EnvTrimerClasses]int { return p.envTrimers }

// FinalGag returns the agent's target Gag count, 0 until growth starts.
func (p *Progeny) FinalGag() int { return p.finalGag }

// TransitionObserver is notified of every lifecycle change. from is 0 when
// the agent is created.
type TransitionObserver func(id, step int, from, to ProgenyState)

// ProgenyContainer owns every viral progeny agent and keeps aggregate
// counters in sync with each agent mutation.
type ProgenyContainer struct {
	capacity int
	nextID   int

	// agents is the working order, shuffled every growth step.
	agents     []*Progeny
	byCreation []*Progeny

	totals      [NumProteins]int
	envTotals   [EnvTrimerClasses]int
	stateCounts [NumProgenyStates + 1]int

	prebuddingCreation []int
	prebuddingElapsed  []int

	growth   growthParams
	observer TransitionObserver
}

// NewProgenyContainer returns an empty container configured from params.
func NewProgenyContainer(p *Params) *ProgenyContainer {
	return &ProgenyContainer{
		capacity: p.MaxNumOfProgeny,
		growth:   newGrowthParams(p),
	}
}

// SetObserver installs a lifecycle observer (nil disables it).
func (c *ProgenyContainer) SetObserver(o TransitionObserver) { c.observer = o }

// Capacity returns the maximum number of agents.
func (c *ProgenyContainer) Capacity() int { return c.capacity }

// Len returns the number of agents created.
func (c *ProgenyContainer) Len() int { return len(c.byCreation) }

// Agents returns the agents in creation order. The slice must not be modified.
func (c *ProgenyContainer) Agents() []*Progeny { return c.byCreation }

// Create adds a new NUCLEATE_CYT agent carrying gag Gag molecules.
func (c *ProgenyContainer) Create(gag, step int) (*Progeny, error) {
	if len(c.byCreation) >= c.capacity {
		return nil, fmt.Errorf("creating progeny %d at step %d: %w (MAX_NUM_OF_PROGENY=%d)",
			c.nextID, step, ErrCapacityExceeded, c.capacity)
	}
	p := &Progeny{id: c.nextID, createdStep: step, growingStep: step, prebudStep: step}
	c.nextID++
	c.agents = append(c.agents, p)
	c.byCreation = append(c.byCreation, p)
	c.setState(p, NucleateCyt, step)
	c.AddProtein(p, Gag, gag)
	return p, nil
}

// AddProtein adds n molecules of protein to p and the container total.
func (c *ProgenyContainer) AddProtein(p *Progeny, protein Protein, n int) {
	p.counts[protein] += n
	c.totals[protein] += n
}

// UpdateEnvTrimer adds n trimers of the given success class to p.
func (c *ProgenyContainer) UpdateEnvTrimer(p *Progeny, class, n int) {
	p.envTrimers[class] += n
	c.envTotals[class] += n
}

func (c *ProgenyContainer) setState(p *Progeny, to ProgenyState, step int) {
	from := p.state
	if from != 0 {
		c.stateCounts[from]--
	}
	p.state = to
	c.stateCounts[to]++

	switch to {
	case GrowingVirion:
		p.growingStep = step
	case VirionPrebudding:
		p.prebudStep = step
		c.prebuddingCreation = append(c.prebuddingCreation, p.growingStep)
		c.prebuddingElapsed = append(c.prebuddingElapsed, p.prebudStep-p.growingStep)
	}
	if c.observer != nil {
		c.observer(p.id, step, from, to)
	}
}

// Shuffle randomizes the working order of the agents.
func (c *ProgenyContainer) Shuffle(rng *RNG) {
	rng.Shuffle(len(c.agents), func(i, j int) { c.agents[i], c.agents[j] = c.agents[j], c.agents[i] })
}

// At returns the i-th agent of the working order.
func (c *ProgenyContainer) At(i int) *Progeny { return c.agents[i] }

// === Aggregate queries ===

// Total returns the number of molecules of protein held by all agents.
func (c *ProgenyContainer) Total(protein Protein) int { return c.totals[protein] }

// EnvTrimerTotals returns the Env trimers held by all agents, by class.
func (c *ProgenyContainer) EnvTrimerTotals() [EnvTrimerClasses]int { return c.envTotals }

// StateCounts returns the number of agents per state, NUCLEATE_CYT first.
func (c *ProgenyContainer) StateCounts() []int {
	return append([]int(nil), c.stateCounts[NucleateCyt:]...)
}

// StateVector returns each agent's state in creation order.
func (c *ProgenyContainer) StateVector() []int {
	out := make([]int, len(c.byCreation))
	for i, p := range c.byCreation {
		out[i] = int(p.state)
	}
	return out
}

// ProteinVector returns each agent's count of protein in creation order.
func (c *ProgenyContainer) ProteinVector(protein Protein) []int {
	out := make([]int, len(c.byCreation))
	for i, p := range c.byCreation {
		out[i] = p.counts[protein]
	}
	return out
}

// EnvTrimerVector returns, per agent in creation order, the number of Env
// trimers whose success class is in classes.
func (c *ProgenyContainer) EnvTrimerVector(classes ...int) []int {
	out := make([]int, len(c.byCreation))
	for i, p := range c.byCreation {
		for _, k := range classes {
			out[i] += p.envTrimers[k]
		}
	}
	return out
}

// PrebuddingTimes returns, per agent that reached VIRION_PREBUDDING, the step
// it started growing and how many steps growth took.
func (c *ProgenyContainer) PrebuddingTimes() (created, elapsed []int) {
	return append([]int(nil), c.prebuddingCreation...), append([]int(nil), c.prebuddingElapsed...)
}

// average returns the expected per-virion count of protein.
func (c *ProgenyContainer) average(protein Protein) float64 {
	return c.growth.average[protein]
}

// CountWithFilter counts VIRION_PREBUDDING agents that carry at least
// percent% of the per-virion average of protein.
func (c *ProgenyContainer) CountWithFilter(protein Protein, percent float64) int {
	threshold := percent / 100 * c.average(protein)
	n := 0
	for _, p := range c.byCreation {
		if p.state == VirionPrebudding && float64(p.counts[protein]) >= threshold {
			n++
		}
	}
	return n
}

// CountViable counts VIRION_PREBUDDING agents carrying at least p1% of the
// average Gag, Vif, GagProPol and Vpr, at least p2% of the average Nef, and
// at least one fully processed Env trimer.
func (c *ProgenyContainer) CountViable(p1, p2 float64) int {
	n := 0
	for _, p := range c.byCreation {
		if p.state != VirionPrebudding || p.envTrimers[EnvTrimerClasses-1] < 1 {
			continue
		}
		ok := true
		for _, protein := range []Protein{Gag, Vif, GagProPol, Vpr} {
			if float64(p.counts[protein]) < p1/100*c.average(protein) {
				ok = false
				break
			}
		}
		if ok && float64(p.counts[Nef]) >= p2/100*c.average(Nef) {
			n++
		}
	}
	return n
}

// === Recording ===

func (c *ProgenyContainer) Name() string { return SubstateViralProgeny }

func (c *ProgenyContainer) Record(r Recorder, t int) {
	r.Track(t, "progeny_count", c.Len())
	r.Track(t, "progeny_state_count", c.StateCounts())
	r.Track(t, "state_of_diff_progeny", c.StateVector())
	for _, protein := range VirionProteins {
		r.Track(t, "total_num_of_virion_"+protein.String(), c.Total(protein))
		r.Track(t, "num_of_"+protein.String()+"_of_diff_progeny", c.ProteinVector(protein))
	}
	env := c.EnvTrimerTotals()
	r.Track(t, "total_num_of_virion_Env_trimer", env[:])
	r.Track(t, "num_of_Env_t_of_diff_progeny", c.EnvTrimerVector(0, 1, 2, 3))
	r.Track(t, "num_virion_Gag_40_ge", c.CountWithFilter(Gag, 40))
	r.Track(t, "num_viable_virions", c.CountViable(10, 1.5))
}

func (c *ProgenyContainer) RecordAtEnd(r Recorder) {
	for _, protein := range VirionProteins {
		r.Histogram("num_of_"+protein.String()+"_of_diff_progeny", c.ProteinVector(protein))
	}
	r.Histogram("num_of_Env_t_of_diff_progeny", c.EnvTrimerVector(0, 1, 2, 3))
	r.Histogram("num_of_successful_Env_t_of_diff_progeny", c.EnvTrimerVector(3))
	r.Histogram("num_of_unsuccessful_Env_t_of_diff_progeny", c.EnvTrimerVector(0, 1, 2))
	created, elapsed := c.PrebuddingTimes()
	r.Histogram("prebudding_creation_time", created)
	r.Histogram("prebudding_elapsed_time", elapsed)
}

func (c *ProgenyContainer) buckets() map[string][]int {
	env := c.envTotals
	out := map[string][]int{
		"progeny_totals":     c.totals[:],
		"progeny_env_totals": env[:],
		"progeny_states":     c.StateCounts(),
	}
	for _, p := range c.byCreation {
		out[fmt.Sprintf("progeny_%d", p.id)] = append(p.counts[:], p.envTrimers[:]...)
	}
	return out
}

func (c *ProgenyContainer) clone() *ProgenyContainer {
	cp := *c
	cp.observer = nil
	index := make(map[*Progeny]*Progeny, len(c.byCreation))
	cp.byCreation = make([]*Progeny, len(c.byCreation))
	for i, p := range c.byCreation {
		q := *p
		cp.byCreation[i] = &q
		index[p] = &q
	}
	cp.agents = make([]*Progeny, len(c.agents))
	for i, p := range c.agents {
		cp.agents[i] = index[p]
	}
	cp.prebuddingCreation = cloneInts(c.prebuddingCreation)
	cp.prebuddingElapsed = cloneInts(c.prebuddingElapsed)
	return &cp
}
