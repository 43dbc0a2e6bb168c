// Package sweep runs batches of simulations across values of one parameter
// and aggregates the recorded keys per timestep.
package sweep

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Kind selects how parameter values are spaced.
type Kind string

const (
	// Linear values are Init + i·Increment.
	Linear Kind = "linear"
	// Exponential values are Init · Increment^i.
	Exponential Kind = "exponential"
)

// PlotType selects what a sweep chart draws around the mean.
type PlotType string

const (
	PlotMean  PlotType = ""
	PlotStd   PlotType = "std"
	PlotRange PlotType = "range"
	PlotAll   PlotType = "all"
)

// Definition describes one parameter sweep. Increments runs from 0 to
// Increments inclusive, so a sweep visits Increments+1 values.
type Definition struct {
	Param        string   `yaml:"param"`
	Init         float64  `yaml:"init"`
	Increment    float64  `yaml:"increment"`
	Kind         Kind     `yaml:"kind"`
	Increments   int      `yaml:"increments"`
	Runs         int      `yaml:"runs"`
	Timesteps    int      `yaml:"timesteps"`
	SamplingRate int      `yaml:"sampling_rate"`
	Keys         []string `yaml:"keys"`
	Filters      []string `yaml:"filters"`
	Plot         PlotType `yaml:"plot"`
	GroupByRow   bool     `yaml:"group_by_row"`
}

// LoadDefinition reads a YAML sweep definition. Unknown keys are an error.
func LoadDefinition(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sweep definition: %w", err)
	}
	d := &Definition{Kind: Linear, Runs: 1, SamplingRate: 1}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(d); err != nil {
		return nil, fmt.Errorf("parsing sweep definition: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Validate checks the definition for internal consistency.
func (d *Definition) Validate() error {
	if d.Param == "" {
		return fmt.Errorf("sweep param must be set")
	}
	if d.Kind != Linear && d.Kind != Exponential {
		return fmt.Errorf("unknown sweep kind %q (want linear or exponential)", d.Kind)
	}
	if d.Increments < 0 {
		return fmt.Errorf("sweep increments must be non-negative, got %d", d.Increments)
	}
	if d.Runs < 1 {
		return fmt.Errorf("sweep runs must be at least 1, got %d", d.Runs)
	}
	if d.Timesteps < 1 {
		return fmt.Errorf("sweep timesteps must be at least 1, got %d", d.Timesteps)
	}
	if d.SamplingRate < 1 {
		return fmt.Errorf("sweep sampling_rate must be at least 1, got %d", d.SamplingRate)
	}
	switch d.Plot {
	case PlotMean, PlotStd, PlotRange, PlotAll:
	default:
		return fmt.Errorf("unknown plot type %q (want std, range or all)", d.Plot)
	}
	for _, f := range d.Filters {
		if _, err := ParseFilter(f); err != nil {
			return err
		}
	}
	return nil
}

// Values returns the parameter value of every increment.
func (d *Definition) Values() []float64 {
	out := make([]float64, d.Increments+1)
	for i := range out {
		if d.Kind == Exponential {
			out[i] = d.Init * math.Pow(d.Increment, float64(i))
		} else {
			out[i] = d.Init + d.Increment*float64(i)
		}
	}
	return out
}
