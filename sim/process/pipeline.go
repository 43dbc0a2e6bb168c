// Package process implements the biochemical rules applied to the shared
// cell state once per simulated minute.
package process

import (
	"fmt"

	"github.com/virosim/virosim/sim"
)

// NewPipeline builds the ten processes in their fixed execution order. All
// processes share the state and the random stream of one simulation.
func NewPipeline(state *sim.State, p *sim.Params, rng *sim.RNG) ([]sim.Process, error) {
	if state == nil || p == nil || rng == nil {
		return nil, fmt.Errorf("pipeline needs state, params and rng")
	}
	return []sim.Process{
		NewTatFeedback(state, p, rng),
		NewTranscription(state, p, rng),
		NewAlternativeSplicing(state, p, rng),
		NewRevBinding(state, p, rng),
		NewMRNAExport(state, p, rng),
		NewTranslation(state, p, rng),
		NewProteinLocalization(state, p, rng),
		NewDegradation(state, p, rng),
		NewPackaging(state, p, rng),
		NewEnvProcessing(state, p, rng),
	}, nil
}

// Names lists the process names in pipeline order.
func Names(pipeline []sim.Process) []string {
	names := make([]string, len(pipeline))
	for i, proc := range pipeline {
		names[i] = proc.Name()
	}
	return names
}
