package sim

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultParams_Valid(t *testing.T) {
	assert.NoError(t, DefaultParams().Validate())
}

func TestLoadParams_OverridesDefaults(t *testing.T) {
	// GIVEN a file overriding two parameters
	path := writeTempYAML(t, `
PROB_mRNA_DEG: 0.01
MAX_NUM_OF_PROGENY: 12
INTEGRATION_SITE_EFFECTS: true
REV_BINDING_CONSTANTS: [1, 1, 1, 1, 1, 1, 1, 1]
`)

	// WHEN loading
	p, err := LoadParams(path)

	// THEN overrides apply and everything else keeps its default
	require.NoError(t, err)
	assert.Equal(t, 0.01, p.ProbMRNADeg)
	assert.Equal(t, 12, p.MaxNumOfProgeny)
	assert.True(t, p.IntegrationSiteEffects)
	assert.Equal(t, []float64{1, 1, 1, 1, 1, 1, 1, 1}, p.RevBindingConstants)
	assert.Equal(t, DefaultParams().FreqTranslation, p.FreqTranslation)
}

func TestLoadParams_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "NOT_A_PARAMETER: 3\n"},
		{"wrong type", "MAX_NUM_OF_PROGENY: lots\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadParams(writeTempYAML(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "parsing params")
		})
	}

	_, err := LoadParams(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading params")
}

func TestLoadParams_EmptyFileGivesDefaults(t *testing.T) {
	p, err := LoadParams(writeTempYAML(t, "  \n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultParams(), p)
}

func TestParams_SetGet(t *testing.T) {
	p := DefaultParams()

	require.NoError(t, p.Set("PROB_REV_DEP_EXPORT", 0.2))
	require.NoError(t, p.Set("MAX_NUM_OF_PROGENY", 42.9))
	require.NoError(t, p.Set("INTEGRATION_SITE_EFFECTS", 1))

	assert.Equal(t, 0.2, p.ProbRevDepExport)
	assert.Equal(t, 42, p.MaxNumOfProgeny)
	assert.True(t, p.IntegrationSiteEffects)

	v, err := p.Get("MAX_NUM_OF_PROGENY")
	require.NoError(t, err)
	assert.Equal(t, 42.0, v)

	err = p.Set("NO_SUCH_PARAM", 1)
	assert.True(t, errors.Is(err, ErrUnknownParam))
	_, err = p.Get("NO_SUCH_PARAM")
	assert.True(t, errors.Is(err, ErrUnknownParam))
}

func TestParams_SnapshotMatchesNames(t *testing.T) {
	p := DefaultParams()
	names := p.Names()
	snap := p.Snapshot()
	assert.Len(t, snap, len(names))
	assert.IsIncreasing(t, names)
	assert.Equal(t, 500.0, snap["pTEFb_NUC_INIT"])
}

func TestParams_CloneIsDeep(t *testing.T) {
	p := DefaultParams()
	c := p.Clone()
	c.RevBindingConstants[0] = 99
	assert.NotEqual(t, 99.0, p.RevBindingConstants[0])
}

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Params)
		wantErr string
	}{
		{"negative rate", func(p *Params) { p.BasalTranscriptionRate = -1 }, "BASAL_TRANSCRIPTION_RATE must be non-negative"},
		{"probability above one", func(p *Params) { p.ProbMRNADeg = 1.5 }, "PROB_mRNA_DEG must be a probability"},
		{"no Rev sites", func(p *Params) { p.MaxRevPerTranscript = 0 }, "MAX_REV_PER_TRANSCRIPT must be at least 1"},
		{"export threshold too high", func(p *Params) { p.NumOfRevReqForExport = 9 }, "NUM_OF_REV_REQ_FOR_EXPORT"},
		{"Rev table length", func(p *Params) { p.RevBindingConstants = []float64{1} }, "REV_BINDING_CONSTANTS must have 8 entries"},
		{"zero capacity", func(p *Params) { p.MaxNumOfProgeny = 0 }, "MAX_NUM_OF_PROGENY must be positive"},
		{"zero volume", func(p *Params) { p.VolumeCytoplasm = 0 }, "must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(p)
			err := p.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
