package sweep

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/virosim/virosim/sim/record"
)

// Summary holds per-timestep statistics of one key across runs. Each
// statistic is indexed [component][sample].
type Summary struct {
	Key   string
	Steps []int
	Runs  int

	Mean [][]float64
	Std  [][]float64
	Min  [][]float64
	Max  [][]float64
}

// Width returns the number of components.
func (s *Summary) Width() int { return len(s.Mean) }

// Summarize computes mean, population standard deviation, min and max of
// key over runs. Every run must have recorded key at the same steps; rows
// narrower than the widest run count as zero.
func Summarize(runs []*record.Memory, key string) (*Summary, error) {
	if len(runs) == 0 {
		return nil, fmt.Errorf("summarizing %s: no runs", key)
	}
	series := make([]*record.Series, len(runs))
	width := 0
	for i, run := range runs {
		s, err := run.MustSeries(key)
		if err != nil {
			return nil, fmt.Errorf("summarizing run %d: %w", i, err)
		}
		if i > 0 && s.Len() != series[0].Len() {
			return nil, fmt.Errorf("summarizing %s: run %d has %d samples, run 0 has %d", key, i, s.Len(), series[0].Len())
		}
		series[i] = s
		width = max(width, s.Width())
	}

	n := series[0].Len()
	out := &Summary{
		Key:   key,
		Steps: append([]int(nil), series[0].Steps...),
		Runs:  len(runs),
		Mean:  make([][]float64, width),
		Std:   make([][]float64, width),
		Min:   make([][]float64, width),
		Max:   make([][]float64, width),
	}
	sample := make([]float64, len(runs))
	for c := 0; c < width; c++ {
		out.Mean[c] = make([]float64, n)
		out.Std[c] = make([]float64, n)
		out.Min[c] = make([]float64, n)
		out.Max[c] = make([]float64, n)
		cols := make([][]float64, len(runs))
		for r, s := range series {
			cols[r] = s.Column(c)
		}
		for t := 0; t < n; t++ {
			for r := range cols {
				sample[r] = cols[r][t]
			}
			out.Mean[c][t], out.Std[c][t] = stat.PopMeanStdDev(sample, nil)
			out.Min[c][t] = floats.Min(sample)
			out.Max[c][t] = floats.Max(sample)
		}
	}
	return out, nil
}
