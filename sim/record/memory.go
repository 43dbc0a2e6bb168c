// Package record stores sampled simulation state and exports it: derived
// quantities, SQLite persistence, Prometheus textfiles, charts and CSV.
package record

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
)

// Series is the sampled history of one key. Rows[i] holds the value at
// Steps[i]; scalar keys have single-element rows. Per-progeny keys grow
// as agents are created, so their rows may differ in width.
type Series struct {
	Steps []int
	Rows  [][]float64
}

// Len returns the number of samples.
func (s *Series) Len() int { return len(s.Steps) }

// Width returns the widest row.
func (s *Series) Width() int {
	w := 0
	for _, r := range s.Rows {
		w = max(w, len(r))
	}
	return w
}

// Column returns component idx over time, 0 where a row is too short.
func (s *Series) Column(idx int) []float64 {
	out := make([]float64, len(s.Rows))
	for i, r := range s.Rows {
		if idx < len(r) {
			out[i] = r[idx]
		}
	}
	return out
}

// Sum returns the row sums over time.
func (s *Series) Sum() []float64 {
	out := make([]float64, len(s.Rows))
	for i, r := range s.Rows {
		for _, v := range r {
			out[i] += v
		}
	}
	return out
}

// XValues returns the sampled steps as floats.
func (s *Series) XValues() []float64 {
	out := make([]float64, len(s.Steps))
	for i, t := range s.Steps {
		out[i] = float64(t)
	}
	return out
}

// Memory keeps every tracked key in memory. It implements sim.Recorder and
// sim.Finalizer.
type Memory struct {
	order      []string
	series     map[string]*Series
	histOrder  []string
	histograms map[string][]int
}

// NewMemory returns an empty recorder.
func NewMemory() *Memory {
	return &Memory{
		series:     make(map[string]*Series),
		histograms: make(map[string][]int),
	}
}

// Track appends value to the series of name. value must be an int, a
// float64, a bool or a []int; the slice is copied.
func (m *Memory) Track(t int, name string, value any) {
	var row []float64
	switch v := value.(type) {
	case int:
		row = []float64{float64(v)}
	case float64:
		row = []float64{v}
	case bool:
		row = []float64{0}
		if v {
			row[0] = 1
		}
	case []int:
		row = make([]float64, len(v))
		for i, x := range v {
			row[i] = float64(x)
		}
	case []float64:
		row = append([]float64(nil), v...)
	default:
		logrus.Warnf("record: ignoring %s of unsupported type %T", name, value)
		return
	}
	m.put(name, t, row)
}

func (m *Memory) put(name string, t int, row []float64) {
	s, ok := m.series[name]
	if !ok {
		s = &Series{}
		m.series[name] = s
		m.order = append(m.order, name)
	}
	s.Steps = append(s.Steps, t)
	s.Rows = append(s.Rows, row)
}

// Histogram stores an end-of-run distribution, replacing any earlier one.
func (m *Memory) Histogram(name string, values []int) {
	if _, ok := m.histograms[name]; !ok {
		m.histOrder = append(m.histOrder, name)
	}
	m.histograms[name] = append([]int(nil), values...)
}

// Finalize computes the derived keys over the recorded history.
func (m *Memory) Finalize() {
	n := GenerateDerived(m)
	logrus.Debugf("record: generated %d derived keys", n)
}

// Keys returns the tracked keys in first-recorded order.
func (m *Memory) Keys() []string { return append([]string(nil), m.order...) }

// Series returns the history of name.
func (m *Memory) Series(name string) (*Series, bool) {
	s, ok := m.series[name]
	return s, ok
}

// MustSeries returns the history of name or an error naming the missing key.
func (m *Memory) MustSeries(name string) (*Series, error) {
	s, ok := m.series[name]
	if !ok {
		return nil, fmt.Errorf("no recorded key %q", name)
	}
	return s, nil
}

// Final returns the last sampled row of name.
func (m *Memory) Final(name string) ([]float64, bool) {
	s, ok := m.series[name]
	if !ok || s.Len() == 0 {
		return nil, false
	}
	return s.Rows[s.Len()-1], true
}

// HistogramKeys returns the histogram names in first-recorded order.
func (m *Memory) HistogramKeys() []string { return append([]string(nil), m.histOrder...) }

// HistogramValues returns the distribution stored under name.
func (m *Memory) HistogramValues(name string) ([]int, bool) {
	v, ok := m.histograms[name]
	return v, ok
}

// SortedKeys returns the tracked keys in lexical order.
func (m *Memory) SortedKeys() []string {
	keys := m.Keys()
	sort.Strings(keys)
	return keys
}
