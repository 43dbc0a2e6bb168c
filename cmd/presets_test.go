package cmd

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/virosim/virosim/sim"
)

func TestLoadPresets_RejectsUnknownFields(t *testing.T) {
	// GIVEN a presets file with a typo in a preset field
	path := writeTempYAML(t, "presets.yaml", `
version: "1"
presets:
  a:
    descripton: typo
`)

	// WHEN loaded
	_, err := loadPresets(path)

	// THEN strict parsing rejects it
	require.Error(t, err)
	assert.Contains(t, err.Error(), "descripton")
}

func TestPresetsConfig_Apply_UnknownPresetListsAvailable(t *testing.T) {
	cfg := &PresetsConfig{Presets: map[string]Preset{"b": {}, "a": {}}}

	err := cfg.apply("missing", sim.DefaultParams())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "[a b]")
}

func TestPresetsConfig_Apply_UnknownParamFails(t *testing.T) {
	cfg := &PresetsConfig{Presets: map[string]Preset{
		"bad": {Overrides: map[string]float64{"NOT_A_PARAM": 1}},
	}}

	err := cfg.apply("bad", sim.DefaultParams())

	assert.ErrorIs(t, err, sim.ErrUnknownParam)
}

// TestShippedPresets_AllApplyAndValidate loads the repository presets.yaml
// and checks that every preset yields a valid parameter set.
func TestShippedPresets_AllApplyAndValidate(t *testing.T) {
	path := "../presets.yaml"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skip("presets.yaml not found, skipping")
	}
	cfg, err := loadPresets(path)
	require.NoError(t, err)
	require.NotEmpty(t, cfg.Presets)
	assert.Contains(t, cfg.presetNames(), "baseline")

	for _, name := range cfg.presetNames() {
		t.Run(name, func(t *testing.T) {
			p := sim.DefaultParams()
			require.NoError(t, cfg.apply(name, p))
			assert.NoError(t, p.Validate())
		})
	}
}

func TestPresetsConfig_Apply_IntegrationSite(t *testing.T) {
	path := "../presets.yaml"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skip("presets.yaml not found, skipping")
	}
	cfg, err := loadPresets(path)
	require.NoError(t, err)

	p := sim.DefaultParams()
	require.NoError(t, cfg.apply("integration_site", p))

	assert.True(t, p.IntegrationSiteEffects)
}
