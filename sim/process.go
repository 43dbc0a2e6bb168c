package sim

// Process is one biochemical rule. It holds only its constant parameters
// and a pointer to the shared State, and mutates that state once per timestep.
type Process interface {
	Name() string
	// Advance applies the rule for timestep t.
	Advance(t int) error
}

// NewPipelineFunc builds the ordered process pipeline. Set by sim/process's
// init(); production code imports sim/process directly, tests in package sim
// use process_import_test.go for the blank import.
var NewPipelineFunc func(state *State, params *Params, rng *RNG) ([]Process, error)
