package sweep

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/virosim/virosim/sim"
	"github.com/virosim/virosim/sim/record"
)

func smallDefinition() *Definition {
	return &Definition{
		Param:        "PROB_mRNA_DEG",
		Init:         0.0001,
		Increment:    10,
		Kind:         Exponential,
		Increments:   1,
		Runs:         2,
		Timesteps:    6,
		SamplingRate: 2,
		Keys:         []string{"transcripts_synthesized", "total_proteins"},
	}
}

func TestRunner_RunsEveryPointAndSeed(t *testing.T) {
	// GIVEN a two-point, two-run sweep
	var calls []int64
	r := &Runner{Base: sim.DefaultParams(), BaseSeed: 100, OnRun: func(point, run int, seed int64, value float64, m *record.Memory) error {
		calls = append(calls, seed)
		return nil
	}}

	// WHEN it runs
	res, err := r.Run(smallDefinition())

	// THEN each point repeats seeds 100 and 101 with its own value
	require.NoError(t, err)
	require.Len(t, res.Points, 2)
	assert.InDelta(t, 0.0001, res.Points[0].Value, 1e-12)
	assert.InDelta(t, 0.001, res.Points[1].Value, 1e-12)
	for _, p := range res.Points {
		assert.Equal(t, []int64{100, 101}, p.Seeds)
		require.Len(t, p.Runs, 2)
		s, ok := p.Runs[0].Series("transcripts_synthesized")
		require.True(t, ok)
		assert.Equal(t, []int{0, 2, 4}, s.Steps)
		_, ok = p.Runs[0].Series("total_proteins")
		assert.True(t, ok, "derived keys are generated")
	}
	assert.Equal(t, []int64{100, 101, 100, 101}, calls)

	// THEN the base parameters are untouched
	assert.Equal(t, sim.DefaultParams().ProbMRNADeg, r.Base.ProbMRNADeg)
}

func TestRunner_UnknownParam(t *testing.T) {
	d := smallDefinition()
	d.Param = "NOT_A_PARAM"
	r := &Runner{Base: sim.DefaultParams()}

	_, err := r.Run(d)

	assert.ErrorIs(t, err, sim.ErrUnknownParam)
}

func TestResult_WriteOutputs(t *testing.T) {
	// GIVEN a completed sweep with a filter every run passes
	d := smallDefinition()
	d.Increments = 0
	d.Filters = []string{"transcripts_synthesized >= 0"}
	d.Plot = PlotRange
	res, err := (&Runner{Base: sim.DefaultParams(), BaseSeed: 1}).Run(d)
	require.NoError(t, err)

	// WHEN outputs are written
	dir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, res.WriteOutputs(dir, true))

	// THEN the definition, CSVs and charts exist
	for _, name := range []string{
		"sweep.yaml",
		"transcripts_synthesized_PROB_mRNA_DEG_0.0001_raw.csv",
		"transcripts_synthesized_PROB_mRNA_DEG_0.0001_summary.csv",
		"transcripts_synthesized_PROB_mRNA_DEG_0.0001.png",
		"total_proteins_PROB_mRNA_DEG_0.0001.png",
	} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestResult_WriteOutputsSkipsEmptySubsets(t *testing.T) {
	d := smallDefinition()
	d.Increments = 0
	d.Runs = 1
	d.Filters = []string{"transcripts_synthesized < 0"}
	res, err := (&Runner{Base: sim.DefaultParams()}).Run(d)
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, res.WriteOutputs(dir, false))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1) // sweep.yaml only
}
