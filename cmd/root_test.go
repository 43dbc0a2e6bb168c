package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_RegistersSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"run", "sweep", "params"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestRunCmd_FlagDefaults(t *testing.T) {
	tests := []struct {
		flag string
		want string
	}{
		{"seed", "42"},
		{"timesteps", "360"},
		{"sampling-rate", "1"},
		{"log", "error"},
		{"trace", "none"},
		{"presets-file", "presets.yaml"},
		{"strict", "false"},
		{"snapshot-every", "0"},
	}
	for _, tc := range tests {
		t.Run(tc.flag, func(t *testing.T) {
			f := runCmd.Flags().Lookup(tc.flag)
			require.NotNil(t, f, "flag %s not registered", tc.flag)
			assert.Equal(t, tc.want, f.DefValue)
		})
	}
}

func TestSweepCmd_SharesParamFlags(t *testing.T) {
	for _, flag := range []string{"params", "preset", "presets-file", "set", "def", "out-dir", "db"} {
		assert.NotNil(t, sweepCmd.Flags().Lookup(flag), flag)
	}
}
