package trace

// State names used by the summary. They match sim.ProgenyState.String().
const (
	stateNucleateCyt      = "NUCLEATE_CYT"
	stateNucleateMem      = "NUCLEATE_MEM"
	stateGrowingVirion    = "GROWING_VIRION"
	stateVirionPrebudding = "VIRION_PREBUDDING"
)

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalTransitions int
	Created          int
	Dissociations    int // NUCLEATE_MEM -> NUCLEATE_CYT
	Completed        int // reached VIRION_PREBUDDING
	MeanGrowthSteps  float64
	MaxGrowthSteps   int
	EdgeDistribution map[string]int // "FROM->TO" → count
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Growth time runs from entering GROWING_VIRION (or, for agents that skip it,
// entering NUCLEATE_MEM) to entering VIRION_PREBUDDING.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		EdgeDistribution: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalTransitions = len(st.Transitions)
	growthStart := make(map[int]int)
	totalGrowth := 0
	for _, r := range st.Transitions {
		summary.EdgeDistribution[r.Edge()]++
		switch {
		case r.From == "":
			summary.Created++
		case r.From == stateNucleateMem && r.To == stateNucleateCyt:
			summary.Dissociations++
		}
		switch r.To {
		case stateNucleateMem:
			growthStart[r.ProgenyID] = r.Step
		case stateGrowingVirion:
			growthStart[r.ProgenyID] = r.Step
		case stateVirionPrebudding:
			summary.Completed++
			steps := r.Step - growthStart[r.ProgenyID]
			totalGrowth += steps
			if steps > summary.MaxGrowthSteps {
				summary.MaxGrowthSteps = steps
			}
		}
	}
	if summary.Completed > 0 {
		summary.MeanGrowthSteps = float64(totalGrowth) / float64(summary.Completed)
	}
	return summary
}
