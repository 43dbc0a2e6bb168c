// Package sim provides the core stochastic engine for virosim, a single-cell
// simulator of retroviral replication.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - state.go: the shared population state and its substates
//   - primitives.go: the stochastic transitions every population change goes through
//   - simulator.go: the minute-by-minute loop over the process pipeline
//
// # Architecture
//
// The sim package defines the state, the Process interface and the driver;
// implementations live in sub-packages:
//   - sim/process/: the ten biochemical rules (transcription to Env processing)
//   - sim/record/: recorders and sinks (in-memory series, SQLite, Prometheus, charts)
//   - sim/sweep/: parameter sweeps with per-timestep statistics
//   - sim/trace/: viral progeny lifecycle trace recording
//
// sim/process registers its pipeline constructor via an init() function that
// sets the package-level factory variable NewPipelineFunc.
//
// # Key Interfaces
//
//   - Process: one biochemical rule applied once per timestep
//   - Recorder: receives sampled substate values and end-of-run histograms
//   - Substate: a named group of buckets that knows how to record itself
//
// # Hybrid Kinetics
//
// Binding reactions with fast kinetics (Tat/pTEFb, Rev on transcripts) are
// integrated as ODEs over one minute (ode.go) and turned back into integer
// populations by the mass-balance reconciler (reconcile.go), which conserves
// both the carrier and the ligand totals exactly.
package sim
