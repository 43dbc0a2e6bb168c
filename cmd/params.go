package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/virosim/virosim/sim"
)

// paramSource collects the flags that shape a parameter set.
type paramSource struct {
	paramsPath  string   // YAML file over the defaults
	presetsPath string   // presets.yaml
	preset      string   // preset name, applied after the file
	overrides   []string // NAME=VALUE pairs, applied last
}

// parseOverrides turns NAME=VALUE strings into a map. Later duplicates win.
func parseOverrides(pairs []string) (map[string]float64, error) {
	out := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid override %q (want NAME=VALUE)", pair)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid override %q: %w", pair, err)
		}
		out[name] = v
	}
	return out, nil
}

// build resolves defaults, file, preset and overrides into validated params.
func (src paramSource) build() (*sim.Params, error) {
	p := sim.DefaultParams()
	if src.paramsPath != "" {
		loaded, err := sim.LoadParams(src.paramsPath)
		if err != nil {
			return nil, err
		}
		p = loaded
		logrus.Infof("Loaded parameters from %s", src.paramsPath)
	}
	if src.preset != "" {
		cfg, err := loadPresets(src.presetsPath)
		if err != nil {
			return nil, err
		}
		if err := cfg.apply(src.preset, p); err != nil {
			return nil, err
		}
		logrus.Infof("Applied preset %q", src.preset)
	}
	overrides, err := parseOverrides(src.overrides)
	if err != nil {
		return nil, err
	}
	if err := applyOverrides(p, overrides); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// printParams writes every scalar parameter as NAME = value, sorted by name.
func printParams(w io.Writer, p *sim.Params) {
	for _, name := range p.Names() {
		v, _ := p.Get(name)
		fmt.Fprintf(w, "%-40s = %g\n", name, v)
	}
}
