package cmd

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/virosim/virosim/sim/record"
	"github.com/virosim/virosim/sim/sweep"
)

var (
	sweepDefPath   string // Sweep definition YAML
	sweepOutDir    string // Output directory
	sweepCharts    bool   // Render charts
	sweepStrict    bool   // Strict mode for every run
	sweepSeed      int64  // Seed of run 0 at every point
	sweepDBPath    string // SQLite database for every run
	sweepTimesteps int    // Overrides the definition when positive
)

// sweepCmd runs a parameter sweep described by a YAML definition.
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Sweep one parameter over repeated simulations",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()
		if err := executeSweep(cmd.OutOrStdout()); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

// executeSweep runs the sweep named by the package flags and writes its
// outputs. The database, when open, is closed before returning.
func executeSweep(w io.Writer) (retErr error) {
	if sweepDefPath == "" {
		return fmt.Errorf("sweep definition not provided (--def)")
	}
	def, err := sweep.LoadDefinition(sweepDefPath)
	if err != nil {
		return err
	}
	if sweepTimesteps > 0 {
		def.Timesteps = sweepTimesteps
	}
	base, err := currentParamSource().build()
	if err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}

	runner := &sweep.Runner{Base: base, BaseSeed: sweepSeed, Strict: sweepStrict}
	if sweepDBPath != "" {
		db, err := record.OpenSQLite(sweepDBPath)
		if err != nil {
			return err
		}
		defer func() {
			if err := db.Close(); err != nil && retErr == nil {
				retErr = fmt.Errorf("closing database: %w", err)
			}
		}()
		runner.OnRun = func(point, run int, seed int64, value float64, m *record.Memory) error {
			p := base.Clone()
			if err := p.Set(def.Param, value); err != nil {
				return err
			}
			label := fmt.Sprintf("%s=%g#%d", def.Param, value, run)
			id, err := persistRun(db, seed, label, m, p)
			if err != nil {
				return err
			}
			logrus.Debugf("Stored sweep run %s as %d", label, id)
			return nil
		}
	}

	res, err := runner.Run(def)
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}
	if err := res.WriteOutputs(sweepOutDir, sweepCharts); err != nil {
		return fmt.Errorf("writing sweep outputs: %w", err)
	}
	fmt.Fprintf(w, "Swept %s over %d values x %d runs; outputs in %s\n",
		def.Param, len(res.Points), def.Runs, sweepOutDir)
	return nil
}

func init() {
	registerParamFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepDefPath, "def", "", "Sweep definition YAML")
	sweepCmd.Flags().StringVar(&sweepOutDir, "out-dir", "sweep_out", "Directory for sweep CSVs and charts")
	sweepCmd.Flags().BoolVar(&sweepCharts, "charts", true, "Render PNG charts")
	sweepCmd.Flags().BoolVar(&sweepStrict, "strict", false, "Fail when any population goes negative")
	sweepCmd.Flags().Int64Var(&sweepSeed, "seed", 42, "Seed of the first run at every point")
	sweepCmd.Flags().StringVar(&sweepDBPath, "db", "", "SQLite database for every run (disabled when empty)")
	sweepCmd.Flags().IntVar(&sweepTimesteps, "timesteps", 0, "Override the definition's timesteps when positive")

	rootCmd.AddCommand(sweepCmd)
}
