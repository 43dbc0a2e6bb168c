package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/virosim/virosim/sim"
	"github.com/virosim/virosim/sim/record"
	"github.com/virosim/virosim/sim/trace"
)

// runShort simulates a few minutes into a fresh Memory.
func runShort(t *testing.T, steps int, level trace.TraceLevel) (*sim.Simulator, *record.Memory) {
	t.Helper()
	mem := record.NewMemory()
	cfg := sim.Config{
		Timesteps:    steps,
		SamplingRate: 1,
		Key:          sim.NewSimulationKey(7),
		Trace:        trace.TraceConfig{Level: level},
	}
	s, err := sim.NewSimulator(cfg, sim.DefaultParams(), mem)
	require.NoError(t, err)
	require.NoError(t, s.Run())
	return s, mem
}

func TestWriteRunOutputs_SelectedKeys(t *testing.T) {
	// GIVEN a short recorded run
	_, mem := runShort(t, 6, trace.TraceLevelNone)
	dir := filepath.Join(t.TempDir(), "out")

	// WHEN two keys are written
	err := writeRunOutputs(dir, mem, []string{"progeny_count", " proteins_cyt"})

	// THEN each key has a CSV and a chart
	require.NoError(t, err)
	for _, name := range []string{"progeny_count.csv", "progeny_count.png", "proteins_cyt.csv", "proteins_cyt.png"} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Positive(t, info.Size(), name)
	}
	// AND unselected keys are not written
	_, err = os.Stat(filepath.Join(dir, "proteins_nuc.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestWriteRunOutputs_SingleSampleSkipsChart(t *testing.T) {
	_, mem := runShort(t, 1, trace.TraceLevelNone)
	dir := t.TempDir()

	require.NoError(t, writeRunOutputs(dir, mem, []string{"progeny_count"}))

	_, err := os.Stat(filepath.Join(dir, "progeny_count.csv"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "progeny_count.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestSelectKeys(t *testing.T) {
	_, mem := runShort(t, 2, trace.TraceLevelNone)

	all, err := selectKeys(mem, nil)
	require.NoError(t, err)
	assert.Equal(t, mem.SortedKeys(), all)

	_, err = selectKeys(mem, []string{"no_such_key"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no_such_key")
}

func TestSnapshotPayload_CopiesState(t *testing.T) {
	// GIVEN a state with nuclear Rev
	state := sim.NewState(sim.DefaultParams())
	state.Proteins.Nuc[sim.Rev] = 5

	// WHEN a payload is taken and the state then changes
	payload := snapshotPayload(state, 0)
	state.Proteins.Nuc[sim.Rev] = 9

	// THEN the payload keeps the value at capture time
	nuc, ok := payload["proteins_nuc"].([]int)
	require.True(t, ok)
	assert.Equal(t, 5, nuc[sim.Rev])
	assert.Contains(t, payload, "progeny_count")
	assert.Contains(t, payload, "full_len_transcripts_nuc")
}

func TestPersistRun_RoundTrip(t *testing.T) {
	// GIVEN a recorded run and a database
	_, mem := runShort(t, 4, trace.TraceLevelNone)
	db, err := record.OpenSQLite(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	p := sim.DefaultParams()
	require.NoError(t, p.Set("PROB_mRNA_DEG", 0.003))

	// WHEN persisted
	run, err := persistRun(db, 7, "test", mem, p)
	require.NoError(t, err)

	// THEN series and params read back unchanged
	got, err := db.LoadSeries(run, "progeny_count")
	require.NoError(t, err)
	want, _ := mem.Series("progeny_count")
	assert.Equal(t, want.Steps, got.Steps)
	params, err := db.LoadParams(run)
	require.NoError(t, err)
	assert.Equal(t, 0.003, params["PROB_mRNA_DEG"])
}

func TestPrintTraceSummary(t *testing.T) {
	t.Run("disabled prints nothing", func(t *testing.T) {
		s, _ := runShort(t, 3, trace.TraceLevelNone)
		var buf bytes.Buffer
		printTraceSummary(&buf, s)
		assert.Empty(t, buf.String())
	})
	t.Run("lifecycle prints header", func(t *testing.T) {
		s, _ := runShort(t, 3, trace.TraceLevelLifecycle)
		var buf bytes.Buffer
		printTraceSummary(&buf, s)
		assert.Contains(t, buf.String(), "=== Lifecycle Trace ===")
		assert.Contains(t, buf.String(), "Transitions")
	})
}

func TestWriteRunOutputs_AllKeysWithEmptyProgenyVectors(t *testing.T) {
	// GIVEN a run too short to create progeny, so per-progeny keys are empty
	_, mem := runShort(t, 3, trace.TraceLevelNone)
	dir := t.TempDir()

	// WHEN every key is written
	err := writeRunOutputs(dir, mem, nil)

	// THEN empty and wide keys get a CSV but no chart
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "state_of_diff_progeny.csv"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "state_of_diff_progeny.png"))
	assert.True(t, os.IsNotExist(err))
}
