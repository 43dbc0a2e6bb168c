package sweep

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/virosim/virosim/sim"
	_ "github.com/virosim/virosim/sim/process"
	"github.com/virosim/virosim/sim/record"
)

// Point is every run made at one parameter value.
type Point struct {
	Value float64
	Seeds []int64
	Runs  []*record.Memory
}

// Result is a completed sweep.
type Result struct {
	Definition *Definition
	Points     []Point
}

// RunHook is called after every completed simulation.
type RunHook func(point, run int, seed int64, value float64, m *record.Memory) error

// Runner executes a sweep over a base parameter set.
type Runner struct {
	Base     *sim.Params
	BaseSeed int64
	Strict   bool
	OnRun    RunHook
}

// Run executes every simulation of d sequentially. Run i of every point uses
// seed BaseSeed+i, so points share their random streams run by run.
func (r *Runner) Run(d *Definition) (*Result, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if _, err := r.Base.Get(d.Param); err != nil {
		return nil, fmt.Errorf("sweep param: %w", err)
	}
	res := &Result{Definition: d}
	for pi, value := range d.Values() {
		params := r.Base.Clone()
		if err := params.Set(d.Param, value); err != nil {
			return nil, err
		}
		logrus.Infof("Sweep point %d/%d: %s = %g (%d runs)", pi+1, d.Increments+1, d.Param, value, d.Runs)

		point := Point{Value: value}
		for i := 0; i < d.Runs; i++ {
			seed := r.BaseSeed + int64(i)
			m, err := r.runOne(d, params, seed)
			if err != nil {
				return nil, fmt.Errorf("%s = %g, run %d (seed %d): %w", d.Param, value, i, seed, err)
			}
			point.Seeds = append(point.Seeds, seed)
			point.Runs = append(point.Runs, m)
			if r.OnRun != nil {
				if err := r.OnRun(pi, i, seed, value, m); err != nil {
					return nil, err
				}
			}
		}
		res.Points = append(res.Points, point)
	}
	return res, nil
}

func (r *Runner) runOne(d *Definition, params *sim.Params, seed int64) (*record.Memory, error) {
	m := record.NewMemory()
	cfg := sim.Config{
		Timesteps:    d.Timesteps,
		SamplingRate: d.SamplingRate,
		Key:          sim.NewSimulationKey(seed),
		Strict:       r.Strict,
	}
	s, err := sim.NewSimulator(cfg, params, m)
	if err != nil {
		return nil, err
	}
	if err := s.Run(); err != nil {
		return nil, err
	}
	return m, nil
}

// Filtered returns the runs of p matching every filter of the definition.
func (res *Result) Filtered(p Point) ([]*record.Memory, error) {
	filters := make([]Filter, 0, len(res.Definition.Filters))
	for _, expr := range res.Definition.Filters {
		f, err := ParseFilter(expr)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	idx := Subset(p.Runs, filters)
	out := make([]*record.Memory, len(idx))
	for i, j := range idx {
		out[i] = p.Runs[j]
	}
	return out, nil
}
