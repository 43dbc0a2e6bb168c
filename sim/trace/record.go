// Package trace provides lifecycle-trace recording for viral progeny analysis.
// This package has no dependencies on sim/; it stores pure data types.
package trace

import "fmt"

// TransitionRecord captures a single progeny state change. From is empty
// when the agent was created.
type TransitionRecord struct {
	ProgenyID int
	Step      int
	From      string
	To        string
}

// Edge returns the "FROM->TO" label of the transition.
func (r TransitionRecord) Edge() string {
	from := r.From
	if from == "" {
		from = "CREATED"
	}
	return fmt.Sprintf("%s->%s", from, r.To)
}
