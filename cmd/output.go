package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/virosim/virosim/sim"
	"github.com/virosim/virosim/sim/record"
	"github.com/virosim/virosim/sim/trace"
)

// stateCapture is a Recorder that keeps the latest value of every key.
// It backs the JSON state snapshots stored in the database.
type stateCapture map[string]any

func (c stateCapture) Track(_ int, name string, value any) {
	if v, ok := value.([]int); ok {
		value = append([]int(nil), v...)
	}
	c[name] = value
}

func (c stateCapture) Histogram(name string, values []int) {
	c[name] = append([]int(nil), values...)
}

// snapshotPayload returns every substate's current values keyed by name.
func snapshotPayload(state *sim.State, step int) map[string]any {
	c := stateCapture{}
	for _, sub := range state.Substates() {
		sub.Record(c, step)
	}
	return c
}

// selectKeys resolves the --keys flag against what was recorded. An empty
// selection means every recorded key.
func selectKeys(m *record.Memory, keys []string) ([]string, error) {
	if len(keys) == 0 {
		return m.SortedKeys(), nil
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if _, ok := m.Series(k); !ok {
			return nil, fmt.Errorf("no recorded key %q", k)
		}
		out = append(out, k)
	}
	return out, nil
}

// maxChartLines bounds the components drawn in one chart. Per-progeny keys
// grow past it and are left to the CSV.
const maxChartLines = 32

// writeRunOutputs writes one CSV per key, one chart per key when the run has
// at least two samples, and one PNG per end-of-run histogram.
func writeRunOutputs(dir string, m *record.Memory, keys []string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	selected, err := selectKeys(m, keys)
	if err != nil {
		return err
	}
	for _, key := range selected {
		if err := writeOutputFile(filepath.Join(dir, key+".csv"), func(w io.Writer) error {
			return record.WriteCSV(w, m, key)
		}); err != nil {
			return err
		}
		s, _ := m.Series(key)
		if s.Len() < 2 || s.Width() == 0 {
			continue
		}
		if s.Width() > maxChartLines {
			logrus.Debugf("Key %s has %d components, chart skipped", key, s.Width())
			continue
		}
		lines, err := record.LinesFor(m, key)
		if err != nil {
			return err
		}
		if err := writeOutputFile(filepath.Join(dir, key+".png"), func(w io.Writer) error {
			return record.RenderChart(w, key, "count", lines)
		}); err != nil {
			return err
		}
	}
	for _, name := range m.HistogramKeys() {
		values, _ := m.HistogramValues(name)
		if len(values) == 0 {
			logrus.Debugf("Histogram %s is empty, skipped", name)
			continue
		}
		if err := writeOutputFile(filepath.Join(dir, name+"_hist.png"), func(w io.Writer) error {
			return record.RenderHistogram(w, name, "minutes", values, record.DefaultHistogramBins)
		}); err != nil {
			return err
		}
	}
	logrus.Infof("Wrote outputs for %d keys to %s", len(selected), dir)
	return nil
}

func writeOutputFile(path string, fn func(io.Writer) error) (retErr error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if err := f.Close(); err != nil && retErr == nil {
			retErr = err
		}
	}()
	if err := fn(f); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}

// persistRun stores the recorded series and the parameter set under a new
// run id and returns it.
func persistRun(db *record.SQLiteSink, seed int64, label string, m *record.Memory, p *sim.Params) (int64, error) {
	run, err := db.NewRun(seed, label)
	if err != nil {
		return 0, err
	}
	if err := db.SaveRun(run, m); err != nil {
		return 0, err
	}
	if err := db.SaveParams(run, p.Snapshot()); err != nil {
		return 0, err
	}
	return run, nil
}

// printTraceSummary writes the lifecycle trace summary.
func printTraceSummary(w io.Writer, st *sim.Simulator) {
	if st.Trace == nil {
		return
	}
	s := trace.Summarize(st.Trace)
	fmt.Fprintln(w, "=== Lifecycle Trace ===")
	fmt.Fprintf(w, "Transitions          : %d\n", s.TotalTransitions)
	fmt.Fprintf(w, "Created              : %d\n", s.Created)
	fmt.Fprintf(w, "Dissociations        : %d\n", s.Dissociations)
	fmt.Fprintf(w, "Reached Prebudding   : %d\n", s.Completed)
	if s.Completed > 0 {
		fmt.Fprintf(w, "Growth Steps         : mean %.2f, max %d\n", s.MeanGrowthSteps, s.MaxGrowthSteps)
	}
}
