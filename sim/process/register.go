// register.go wires the biochemical rules into the sim package's registration
// variable (NewPipelineFunc). This init() runs when any package imports
// sim/process, breaking the import cycle between sim/ (interface owner) and
// sim/process/ (implementation). Test code in package sim uses
// process_import_test.go for the blank import.
package process

import "github.com/virosim/virosim/sim"

func init() {
	sim.NewPipelineFunc = NewPipeline
}
