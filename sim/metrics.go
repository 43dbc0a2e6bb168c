// Tracks end-of-run summary figures of a simulated cell: transcripts made,
// protein pools and the virion yield.

package sim

import (
	"fmt"
	"io"
)

// Metrics aggregates statistics about the simulation
// for final reporting.
type Metrics struct {
	Timesteps              int // Number of simulated minutes
	TranscriptsSynthesized int // Total transcripts made
	ProgenyCount           int // Progeny agents created
	StateCounts            []int

	TotalRev   int
	TotalTat   int
	TotalGag   int
	VirionGag  int
	ViableRate float64 // viable virions / prebudding virions

	Viable            int // viable virions (10% of averages, 1.5% Nef)
	GagFilled         int // virions with at least 40% of the average Gag
	CellCycleArrested bool
}

// NewMetrics returns empty metrics.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// Collect fills m from the final state.
func (m *Metrics) Collect(s *State, timesteps int) {
	m.Timesteps = timesteps
	m.TranscriptsSynthesized = s.MRNAs.Synthesized
	m.ProgenyCount = s.Progeny.Len()
	m.StateCounts = s.Progeny.StateCounts()
	m.TotalRev = CountTotalRev(s)
	m.TotalTat = CountTotalTat(s)
	m.TotalGag = CountTotalGag(s)
	m.VirionGag = s.Progeny.Total(Gag)
	m.Viable = s.Progeny.CountViable(10, 1.5)
	m.GagFilled = s.Progeny.CountWithFilter(Gag, 40)
	m.CellCycleArrested = s.CellCycle.Arrested
	if prebud := m.StateCounts[VirionPrebudding-1]; prebud > 0 {
		m.ViableRate = float64(m.Viable) / float64(prebud)
	}
}

// Print displays aggregated metrics at the end of the simulation.
func (m *Metrics) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Simulation Metrics ===")
	fmt.Fprintf(w, "Timesteps            : %d min\n", m.Timesteps)
	fmt.Fprintf(w, "Transcripts Made     : %d\n", m.TranscriptsSynthesized)
	fmt.Fprintf(w, "Total Tat            : %d\n", m.TotalTat)
	fmt.Fprintf(w, "Total Rev            : %d\n", m.TotalRev)
	fmt.Fprintf(w, "Total Gag            : %d\n", m.TotalGag)
	fmt.Fprintf(w, "G2 Arrest            : %v\n", m.CellCycleArrested)
	fmt.Fprintf(w, "Progeny Created      : %d\n", m.ProgenyCount)
	if m.ProgenyCount > 0 {
		for i, n := range m.StateCounts {
			fmt.Fprintf(w, "  %-19s: %d\n", ProgenyState(i+1), n)
		}
		fmt.Fprintf(w, "Virion Gag           : %d\n", m.VirionGag)
		fmt.Fprintf(w, "Gag >= 40%% Virions   : %d\n", m.GagFilled)
		fmt.Fprintf(w, "Viable Virions       : %d (%.2f of prebudding)\n", m.Viable, m.ViableRate)
	}
}
