package sim

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/virosim/virosim/sim/trace"
)

// fakeRecorder keeps the last value of every tracked key.
type fakeRecorder struct {
	samples    map[string]int // key -> number of samples
	last       map[string]any
	histograms map[string][]int
	finalized  bool
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{samples: map[string]int{}, last: map[string]any{}, histograms: map[string][]int{}}
}

func (r *fakeRecorder) Track(_ int, name string, value any) {
	if v, ok := value.([]int); ok {
		value = append([]int(nil), v...)
	}
	r.samples[name]++
	r.last[name] = value
}

func (r *fakeRecorder) Histogram(name string, values []int) {
	r.histograms[name] = append([]int(nil), values...)
}

func (r *fakeRecorder) Finalize() { r.finalized = true }

// stubProcess runs fn once per step.
type stubProcess struct {
	name string
	fn   func(t int) error
}

func (p stubProcess) Name() string        { return p.name }
func (p stubProcess) Advance(t int) error { return p.fn(t) }

func testConfig(steps int) Config {
	return Config{Timesteps: steps, SamplingRate: 1, Key: NewSimulationKey(42)}
}

func TestNewSimulator_RejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		params func(*Params)
	}{
		{"negative timesteps", Config{Timesteps: -1, SamplingRate: 1}, nil},
		{"zero sampling", Config{Timesteps: 10}, nil},
		{"invalid params", Config{Timesteps: 10, SamplingRate: 1}, func(p *Params) { p.MaxRevPerTranscript = 0 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultParams()
			if tc.params != nil {
				tc.params(p)
			}
			s, err := NewSimulator(tc.cfg, p, nil)
			assert.Error(t, err)
			assert.Nil(t, s)
		})
	}
}

func TestSimulator_RunSamplesAndFinalizes(t *testing.T) {
	// GIVEN a 20-step run sampled every 5 steps
	rec := newFakeRecorder()
	cfg := testConfig(20)
	cfg.SamplingRate = 5
	s, err := NewSimulator(cfg, DefaultParams(), rec)
	require.NoError(t, err)
	assert.Equal(t, PhaseInit, s.Phase())
	assert.Len(t, s.Pipeline, 10)

	// WHEN it runs
	require.NoError(t, s.Run())

	// THEN steps 0, 5, 10, 15 are recorded and end-of-run data is emitted
	assert.Equal(t, PhaseFinalized, s.Phase())
	assert.Equal(t, 4, rec.samples["transcripts_synthesized"])
	assert.Equal(t, 4, rec.samples["progeny_count"])
	assert.Contains(t, rec.histograms, "prebudding_elapsed_time")
	assert.True(t, rec.finalized)
	assert.Equal(t, 20, s.Metrics.Timesteps)
	assert.NoError(t, s.State.CheckNonNegative())

	// THEN a second Run is refused
	assert.Error(t, s.Run())
}

func TestSimulator_SameKeySameTrajectory(t *testing.T) {
	run := func(key int64) *Metrics {
		cfg := testConfig(60)
		cfg.Key = NewSimulationKey(key)
		s, err := NewSimulator(cfg, DefaultParams(), nil)
		require.NoError(t, err)
		require.NoError(t, s.Run())
		return s.Metrics
	}

	a, b := run(7), run(7)
	assert.Equal(t, a, b)
}

func TestSimulator_ConservesPTEFb(t *testing.T) {
	// GIVEN no pTEFb growth, total pTEFb is fixed by the initial pool
	p := DefaultParams()
	p.PTEFbDoublingRate = 0
	s, err := NewSimulator(testConfig(40), p, nil)
	require.NoError(t, err)
	s.OnStep = func(step int, state *State) error {
		if got := CountTotalPTEFb(state); got != p.PTEFbNucInit {
			return fmt.Errorf("pTEFb total %d at step %d", got, step)
		}
		return nil
	}

	assert.NoError(t, s.Run())
}

func TestSimulator_ProcessErrorHaltsRun(t *testing.T) {
	// GIVEN a pipeline whose only process runs out of progeny capacity at step 3
	s, err := NewSimulator(testConfig(10), DefaultParams(), newFakeRecorder())
	require.NoError(t, err)
	s.Pipeline = []Process{stubProcess{name: "Packaging", fn: func(t int) error {
		if t == 3 {
			return fmt.Errorf("packaging at step %d: %w", t, ErrCapacityExceeded)
		}
		return nil
	}}}

	// WHEN it runs
	err = s.Run()

	// THEN the error names the step and process and wraps the cause
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCapacityExceeded))
	assert.Contains(t, err.Error(), "process Packaging")
	assert.Equal(t, 3, s.Step)
	assert.Equal(t, PhaseRunning, s.Phase())
}

func TestSimulator_StrictModeCatchesNegativeCounts(t *testing.T) {
	tests := []struct {
		strict  bool
		wantErr bool
	}{
		{strict: false, wantErr: false},
		{strict: true, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("strict=%v", tc.strict), func(t *testing.T) {
			cfg := testConfig(5)
			cfg.Strict = tc.strict
			s, err := NewSimulator(cfg, DefaultParams(), nil)
			require.NoError(t, err)
			s.Pipeline = []Process{stubProcess{name: "Leak", fn: func(int) error {
				s.State.Proteins.Cyt[Nef]--
				return nil
			}}}

			err = s.Run()
			if tc.wantErr {
				assert.True(t, errors.Is(err, ErrNegativeCount))
				assert.Equal(t, 0, s.Step)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSimulator_TraceRecordsLifecycle(t *testing.T) {
	// GIVEN tracing enabled
	cfg := testConfig(3)
	cfg.Trace = trace.TraceConfig{Level: trace.TraceLevelLifecycle}
	s, err := NewSimulator(cfg, DefaultParams(), nil)
	require.NoError(t, err)
	require.NotNil(t, s.Trace)

	// WHEN progeny are created directly
	_, err = s.State.Progeny.Create(6, 1)
	require.NoError(t, err)

	// THEN the creation is traced with an empty From
	require.Len(t, s.Trace.Transitions, 1)
	assert.Equal(t, "CREATED->NUCLEATE_CYT", s.Trace.Transitions[0].Edge())
}

func TestSimulator_SnapshotIsIndependent(t *testing.T) {
	s, err := NewSimulator(testConfig(5), DefaultParams(), nil)
	require.NoError(t, err)
	snap := s.Snapshot()
	snap.Proteins.Cyt[Gag] = 1000
	assert.Equal(t, 0, s.State.Proteins.Cyt[Gag])
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "INIT", PhaseInit.String())
	assert.Equal(t, "RUNNING", PhaseRunning.String())
	assert.Equal(t, "FINALIZED", PhaseFinalized.String())
	assert.Equal(t, "Phase(7)", Phase(7).String())
}

func TestMetrics_CollectAndPrint(t *testing.T) {
	// GIVEN a state with one prebudding virion
	p := DefaultParams()
	s := NewState(p)
	s.MRNAs.Synthesized = 12
	s.Proteins.Nuc[Tat] = 4
	agent, err := s.Progeny.Create(int(p.AveGagPerVirion), 0)
	require.NoError(t, err)
	s.Progeny.setState(agent, VirionPrebudding, 9)

	// WHEN collected and printed
	m := NewMetrics()
	m.Collect(s, 30)
	var buf bytes.Buffer
	m.Print(&buf)

	// THEN the section lists the totals
	assert.Equal(t, 12, m.TranscriptsSynthesized)
	assert.Equal(t, 4, m.TotalTat)
	assert.Equal(t, 1, m.GagFilled)
	assert.Equal(t, 0, m.Viable)
	out := buf.String()
	assert.Contains(t, out, "=== Simulation Metrics ===")
	assert.Contains(t, out, "Transcripts Made     : 12")
	assert.Contains(t, out, "VIRION_PREBUDDING")
}

func TestMetrics_PrintWithoutProgenyOmitsVirions(t *testing.T) {
	m := NewMetrics()
	m.Collect(NewState(DefaultParams()), 1)
	var buf bytes.Buffer
	m.Print(&buf)
	assert.NotContains(t, buf.String(), "Viable Virions")
}
