package sim_test

// Blank import triggers sim/process's init(), which registers NewPipelineFunc.
// This allows package sim's internal test files to build simulators without
// directly importing sim/process (which would create an import cycle).
import _ "github.com/virosim/virosim/sim/process"
