package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/virosim/virosim/sim"
	_ "github.com/virosim/virosim/sim/process"
	"github.com/virosim/virosim/sim/record"
	"github.com/virosim/virosim/sim/trace"
)

var (
	// Run-level settings
	seed         int64  // Seed of the random stream
	logLevel     string // Log verbosity level
	timesteps    int    // Minutes to simulate
	samplingRate int    // Record every N steps
	strictMode   bool   // Non-negativity check after every step
	traceLevel   string // Lifecycle trace level

	// Parameter sources
	paramsPath  string   // YAML parameter file
	presetsPath string   // presets.yaml
	presetName  string   // Named preset
	overrides   []string // NAME=VALUE overrides

	// Outputs
	dbPath          string   // SQLite database
	metricsTextfile string   // Prometheus textfile
	outputDir       string   // CSV and chart directory
	outputKeys      []string // Keys written to outputDir
	snapshotEvery   int      // Store a state snapshot every N steps
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "virosim",
	Short: "Stochastic simulator of HIV replication inside a single cell",
}

// setLogLevel parses and applies the --log flag.
func setLogLevel() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

func currentParamSource() paramSource {
	return paramSource{
		paramsPath:  paramsPath,
		presetsPath: presetsPath,
		preset:      presetName,
		overrides:   overrides,
	}
}

// runCmd executes one simulated cell using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one simulated cell",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()
		if err := executeRun(cmd.OutOrStdout()); err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Info("Simulation complete.")
	},
}

// executeRun runs one simulation from the package flags and writes the
// requested outputs. The database, when open, is closed before returning.
func executeRun(w io.Writer) (retErr error) {
	if !trace.IsValidTraceLevel(traceLevel) {
		return fmt.Errorf("invalid trace level: %s (want none or lifecycle)", traceLevel)
	}
	if snapshotEvery < 0 {
		return fmt.Errorf("--snapshot-every must be non-negative, got %d", snapshotEvery)
	}
	if snapshotEvery > 0 && dbPath == "" {
		return fmt.Errorf("--snapshot-every requires --db")
	}

	params, err := currentParamSource().build()
	if err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}

	cfg := sim.Config{
		Timesteps:    timesteps,
		SamplingRate: samplingRate,
		Key:          sim.NewSimulationKey(seed),
		Strict:       strictMode,
		Trace:        trace.TraceConfig{Level: trace.TraceLevel(traceLevel)},
	}
	mem := record.NewMemory()
	s, err := sim.NewSimulator(cfg, params, mem)
	if err != nil {
		return fmt.Errorf("failed to create simulator: %w", err)
	}

	var db *record.SQLiteSink
	var runID int64
	if dbPath != "" {
		db, err = record.OpenSQLite(dbPath)
		if err != nil {
			return err
		}
		defer func() {
			if err := db.Close(); err != nil && retErr == nil {
				retErr = fmt.Errorf("closing database: %w", err)
			}
		}()
		runID, err = db.NewRun(seed, presetName)
		if err != nil {
			return err
		}
	}
	if snapshotEvery > 0 {
		s.OnStep = func(step int, state *sim.State) error {
			if step%snapshotEvery != 0 {
				return nil
			}
			return db.SaveSnapshot(runID, step, snapshotPayload(state, step))
		}
	}

	logrus.Infof("Starting simulation: %d timesteps, seed %d", timesteps, seed)
	startTime := time.Now()
	if err := s.Run(); err != nil {
		return fmt.Errorf("simulation halted at step %d: %w", s.Step, err)
	}
	logrus.Infof("Simulation finished in %s", time.Since(startTime))

	s.Metrics.Print(w)
	printTraceSummary(w, s)

	if db != nil {
		if err := db.SaveRun(runID, mem); err != nil {
			return err
		}
		if err := db.SaveParams(runID, params.Snapshot()); err != nil {
			return err
		}
		logrus.Infof("Stored run %d in %s", runID, db.Path())
	}
	if metricsTextfile != "" {
		sink := record.NewPromSink()
		sink.Observe(mem)
		if err := sink.WriteTextfile(metricsTextfile); err != nil {
			return fmt.Errorf("writing metrics textfile: %w", err)
		}
	}
	if outputDir != "" {
		if err := writeRunOutputs(outputDir, mem, outputKeys); err != nil {
			return fmt.Errorf("writing outputs: %w", err)
		}
	}
	return nil
}

// paramsCmd lists the tunable parameters after presets and overrides apply.
var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "Print the resolved scalar parameters",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()
		params, err := currentParamSource().build()
		if err != nil {
			logrus.Fatalf("Invalid parameters: %v", err)
		}
		printParams(cmd.OutOrStdout(), params)
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// registerParamFlags adds the parameter-source flags shared by run, sweep
// and params.
func registerParamFlags(c *cobra.Command) {
	c.Flags().StringVar(&paramsPath, "params", "", "YAML file with parameter values (defaults when empty)")
	c.Flags().StringVar(&presetsPath, "presets-file", "presets.yaml", "Path to the presets file")
	c.Flags().StringVar(&presetName, "preset", "", "Named preset from the presets file")
	c.Flags().StringArrayVar(&overrides, "set", nil, "Parameter override NAME=VALUE (repeatable)")
	c.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
}

// init sets up CLI flags and subcommands
func init() {
	registerParamFlags(runCmd)
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed of the random stream")
	runCmd.Flags().IntVar(&timesteps, "timesteps", 360, "Minutes to simulate")
	runCmd.Flags().IntVar(&samplingRate, "sampling-rate", 1, "Record state every N timesteps")
	runCmd.Flags().BoolVar(&strictMode, "strict", false, "Fail when any population goes negative")
	runCmd.Flags().StringVar(&traceLevel, "trace", string(trace.TraceLevelNone),
		"Lifecycle trace level ("+strings.Join([]string{string(trace.TraceLevelNone), string(trace.TraceLevelLifecycle)}, ", ")+")")

	runCmd.Flags().StringVar(&dbPath, "db", "", "SQLite database for recorded series (disabled when empty)")
	runCmd.Flags().StringVar(&metricsTextfile, "metrics-textfile", "", "Write final values in Prometheus textfile format")
	runCmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory for CSV files and charts (disabled when empty)")
	runCmd.Flags().StringSliceVar(&outputKeys, "keys", nil, "Keys written to --output-dir (all when empty)")
	runCmd.Flags().IntVar(&snapshotEvery, "snapshot-every", 0, "Store a state snapshot in --db every N timesteps")

	registerParamFlags(paramsCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(paramsCmd)
}
