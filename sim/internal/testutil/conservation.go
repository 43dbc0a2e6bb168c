package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/virosim/virosim/sim"
)

// Totals are the conserved quantities of a state.
type Totals struct {
	Rev     int
	Tat     int
	PTEFb   int
	Gag     int
	GagMRNA int
	Env     int
}

// Measure computes the conserved totals of s.
func Measure(s *sim.State) Totals {
	return Totals{
		Rev:     sim.CountTotalRev(s),
		Tat:     sim.CountTotalTat(s),
		PTEFb:   sim.CountTotalPTEFb(s),
		Gag:     sim.CountTotalGag(s),
		GagMRNA: sim.CountTotalGagMRNA(s),
		Env:     sim.CountTotalEnv(s),
	}
}

// TranscriptCount returns every viral transcript in the state, counting
// each packaged genome pair as two.
func TranscriptCount(s *sim.State) int {
	m := s.MRNAs
	total := sim.CountTotalGagMRNA(s)
	for _, bins := range [][]int{m.SingleNuc, m.SingleCyt, m.MultiNuc, m.MultiCyt} {
		for _, n := range bins {
			total += n
		}
	}
	return total
}

// BoundRev counts Rev bound to full-length and single-spliced transcripts in
// both compartments, excluding free Rev.
func BoundRev(s *sim.State) int {
	m := s.MRNAs
	total := 0
	for i := 0; i <= m.MaxRev; i++ {
		total += i * (m.FullNuc[i] + m.FullCyt[i])
		for f := 0; f < sim.SingleSpliceForms; f++ {
			idx := sim.SingleIndex(i, f)
			total += i * (m.SingleNuc[idx] + m.SingleCyt[idx])
		}
	}
	return total
}

// RequireNonNegative fails the test when any bucket of s is negative.
func RequireNonNegative(t testing.TB, s *sim.State, context string) {
	t.Helper()
	require.NoError(t, s.CheckNonNegative(), context)
}

// AssertConserved compares the selected totals of before and after.
func AssertConserved(t testing.TB, before, after Totals, fields ...string) {
	t.Helper()
	for _, f := range fields {
		switch f {
		case "Rev":
			assert.Equal(t, before.Rev, after.Rev, "total Rev")
		case "Tat":
			assert.Equal(t, before.Tat, after.Tat, "total Tat")
		case "PTEFb":
			assert.Equal(t, before.PTEFb, after.PTEFb, "total pTEFb")
		case "Gag":
			assert.Equal(t, before.Gag, after.Gag, "total Gag")
		case "GagMRNA":
			assert.Equal(t, before.GagMRNA, after.GagMRNA, "total full-length transcripts")
		case "Env":
			assert.Equal(t, before.Env, after.Env, "total Env")
		default:
			t.Fatalf("unknown conserved total %q", f)
		}
	}
}
