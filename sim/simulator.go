// sim/simulator.go
package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/virosim/virosim/sim/trace"
)

// Phase is the lifecycle phase of a Simulator.
type Phase int

const (
	PhaseInit Phase = iota
	PhaseRunning
	PhaseFinalized
)

func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "INIT"
	case PhaseRunning:
		return "RUNNING"
	case PhaseFinalized:
		return "FINALIZED"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Config holds the run-level settings of a simulation.
type Config struct {
	Timesteps    int           // minutes to simulate
	SamplingRate int           // record every SamplingRate steps
	Key          SimulationKey // random stream seed
	Strict       bool          // check non-negativity after every step
	Trace        trace.TraceConfig
}

// Finalizer is implemented by recorders that derive quantities from the
// complete history once the run ends.
type Finalizer interface {
	Finalize()
}

// StepHook is called after every completed timestep.
type StepHook func(step int, state *State) error

// Simulator drives one simulated cell: it owns the shared State, the process
// pipeline and the random stream, and feeds sampled state to a Recorder.
type Simulator struct {
	Config   Config
	Params   *Params
	State    *State
	RNG      *RNG
	Pipeline []Process
	Recorder Recorder
	Trace    *trace.SimulationTrace
	Metrics  *Metrics
	OnStep   StepHook

	Step  int
	phase Phase
}

// NewSimulator validates params, builds the state and the pipeline, and
// returns a simulator in PhaseInit.
func NewSimulator(cfg Config, params *Params, rec Recorder) (*Simulator, error) {
	if cfg.Timesteps < 0 {
		return nil, fmt.Errorf("timesteps must be non-negative, got %d", cfg.Timesteps)
	}
	if cfg.SamplingRate < 1 {
		return nil, fmt.Errorf("sampling rate must be at least 1, got %d", cfg.SamplingRate)
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}
	if NewPipelineFunc == nil {
		panic("NewPipelineFunc not registered: import sim/process")
	}
	s := &Simulator{
		Config:   cfg,
		Params:   params,
		State:    NewState(params),
		RNG:      NewRNG(cfg.Key),
		Recorder: rec,
		Metrics:  NewMetrics(),
	}
	pipeline, err := NewPipelineFunc(s.State, params, s.RNG)
	if err != nil {
		return nil, fmt.Errorf("building pipeline: %w", err)
	}
	s.Pipeline = pipeline

	if cfg.Trace.Enabled() {
		s.Trace = trace.NewSimulationTrace(cfg.Trace)
		s.State.Progeny.SetObserver(func(id, step int, from, to ProgenyState) {
			r := trace.TransitionRecord{ProgenyID: id, Step: step, To: to.String()}
			if from != 0 {
				r.From = from.String()
			}
			s.Trace.RecordTransition(r)
		})
	}
	return s, nil
}

// Phase returns the current lifecycle phase.
func (s *Simulator) Phase() Phase { return s.phase }

// Snapshot returns a deep copy of the current state.
func (s *Simulator) Snapshot() *State { return s.State.Clone() }

// Run simulates every timestep, recording at sampled steps, then finalizes
// the recorder. A process error halts the run at the failing step.
func (s *Simulator) Run() error {
	if s.phase != PhaseInit {
		return fmt.Errorf("simulator already %s", s.phase)
	}
	s.phase = PhaseRunning
	logrus.Infof("[step %05d] Simulation started: %d timesteps, sampling every %d, key %d",
		0, s.Config.Timesteps, s.Config.SamplingRate, s.Config.Key)

	for t := 0; t < s.Config.Timesteps; t++ {
		s.Step = t
		if err := s.advance(t); err != nil {
			return err
		}
		if t%s.Config.SamplingRate == 0 {
			s.record(t)
		}
		if t == s.Config.Timesteps-1 {
			s.recordAtEnd()
		}
		if s.OnStep != nil {
			if err := s.OnStep(t, s.State); err != nil {
				return fmt.Errorf("step hook at step %d: %w", t, err)
			}
		}
	}

	s.phase = PhaseFinalized
	if f, ok := s.Recorder.(Finalizer); ok {
		f.Finalize()
	}
	s.Metrics.Collect(s.State, s.Config.Timesteps)
	logrus.Infof("[step %05d] Simulation ended: %d progeny", s.Config.Timesteps, s.State.Progeny.Len())
	return nil
}

func (s *Simulator) advance(t int) error {
	logrus.Debugf("[step %05d] Advancing %d processes", t, len(s.Pipeline))
	for _, p := range s.Pipeline {
		if err := p.Advance(t); err != nil {
			return fmt.Errorf("step %d, process %s: %w", t, p.Name(), err)
		}
	}
	if s.Config.Strict {
		if err := s.State.CheckNonNegative(); err != nil {
			return fmt.Errorf("step %d: %w", t, err)
		}
	}
	return nil
}

func (s *Simulator) record(t int) {
	if s.Recorder == nil {
		return
	}
	for _, sub := range s.State.Substates() {
		sub.Record(s.Recorder, t)
	}
}

func (s *Simulator) recordAtEnd() {
	if s.Recorder == nil {
		return
	}
	for _, sub := range s.State.Substates() {
		sub.RecordAtEnd(s.Recorder)
	}
}
