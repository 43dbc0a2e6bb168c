package process

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/virosim/virosim/sim"
)

func TestEnvProcessing_CytoplasmicEnvEntersER(t *testing.T) {
	p := sim.DefaultParams()
	s := sim.NewState(p)
	s.Proteins.Cyt[sim.Env] = 300

	ep := NewEnvProcessing(s, p, sim.NewRNG(sim.NewSimulationKey(1)))
	require.NoError(t, ep.Advance(0))

	// Localization and the fast glycosylation steps finish within a minute;
	// folding is the first slow step.
	assert.Zero(t, s.Proteins.Cyt[sim.Env])
	stages := s.Proteins.EnvStages
	assert.Zero(t, stages[sim.EnvER]+stages[sim.EnvERG1]+stages[sim.EnvERG2])
	assert.Equal(t, 300, sim.CountTotalEnv(s))
	assert.Greater(t, stages[sim.EnvERG3], 250)
}

func TestEnvProcessing_ErrorFreeMonomersMakeClassThreeTrimers(t *testing.T) {
	// GIVEN only correctly glycosylated Golgi Env
	p := sim.DefaultParams()
	s := sim.NewState(p)
	s.Proteins.EnvStages[sim.EnvGolgiG5] = 30000

	// WHEN trimers assemble
	ep := NewEnvProcessing(s, p, sim.NewRNG(sim.NewSimulationKey(2)))
	require.NoError(t, ep.Advance(0))

	// THEN every trimer has three successful monomers
	pr := s.Proteins
	for class := 0; class < 3; class++ {
		assert.Zero(t, pr.EnvTrimers[class]+pr.EnvCleaved[class]+pr.EnvMembrane[class], "class %d", class)
	}
	assert.Positive(t, pr.EnvTrimers[3]+pr.EnvCleaved[3]+pr.EnvMembrane[3])
	assert.Equal(t, 30000, sim.CountTotalEnv(s))
}

func TestEnvProcessing_IncorporationIntoProgeny(t *testing.T) {
	// GIVEN membrane trimers and three progeny
	p := sim.DefaultParams()
	s := sim.NewState(p)
	s.Proteins.EnvMembrane[1] = 20
	s.Proteins.EnvMembrane[3] = 30
	for i := 0; i < 3; i++ {
		_, err := s.Progeny.Create(6, 0)
		require.NoError(t, err)
	}

	// WHEN Env processing runs
	ep := NewEnvProcessing(s, p, sim.NewRNG(sim.NewSimulationKey(3)))
	require.NoError(t, ep.Advance(0))

	// THEN trimers moved onto progeny by class and virion Env counts monomers
	totals := s.Progeny.EnvTrimerTotals()
	assert.Zero(t, totals[0]+totals[2])
	assert.Equal(t, 20, totals[1]+s.Proteins.EnvMembrane[1])
	assert.Equal(t, 30, totals[3]+s.Proteins.EnvMembrane[3])
	assert.Equal(t, 3*(totals[1]+totals[3]), s.Proteins.Virion[sim.Env])
	assert.Positive(t, totals[1]+totals[3])
}

func TestEnvProcessing_NoProgenyKeepsTrimers(t *testing.T) {
	p := sim.DefaultParams()
	s := sim.NewState(p)
	s.Proteins.EnvMembrane[2] = 7
	ep := NewEnvProcessing(s, p, sim.NewRNG(1))
	require.NoError(t, ep.Advance(0))
	assert.Equal(t, 7, s.Proteins.EnvMembrane[2])
	assert.Zero(t, s.Proteins.Virion[sim.Env])
}

func TestPickWeighted_SkipsEmptyClasses(t *testing.T) {
	rng := sim.NewRNG(sim.NewSimulationKey(4))
	counts := []int{0, 3, 0, 1}
	for i := 0; i < 500; i++ {
		k := pickWeighted(rng, counts, 4)
		assert.Contains(t, []int{1, 3}, k)
	}
}
