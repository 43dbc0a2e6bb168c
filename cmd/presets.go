package cmd

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/virosim/virosim/sim"
)

// Preset is a named set of parameter overrides in presets.yaml.
type Preset struct {
	Description string             `yaml:"description"`
	Overrides   map[string]float64 `yaml:"overrides"`
}

// PresetsConfig represents the full presets.yaml structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type PresetsConfig struct {
	Version string            `yaml:"version"`
	Presets map[string]Preset `yaml:"presets"`
}

// loadPresets parses presets.yaml with strict field checking.
func loadPresets(path string) (*PresetsConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read presets file: %w", err)
	}
	var cfg PresetsConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse presets YAML: %w", err)
	}
	return &cfg, nil
}

// presetNames returns the preset names in sorted order.
func (c *PresetsConfig) presetNames() []string {
	names := make([]string, 0, len(c.Presets))
	for name := range c.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// apply sets every override of the named preset on p.
func (c *PresetsConfig) apply(name string, p *sim.Params) error {
	preset, ok := c.Presets[name]
	if !ok {
		return fmt.Errorf("unknown preset %q (available: %v)", name, c.presetNames())
	}
	return applyOverrides(p, preset.Overrides)
}

// applyOverrides sets each NAME=value pair in name order.
func applyOverrides(p *sim.Params, overrides map[string]float64) error {
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := p.Set(name, overrides[name]); err != nil {
			return err
		}
	}
	return nil
}
