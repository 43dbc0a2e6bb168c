package sweep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/virosim/virosim/sim/record"
)

func TestParseFilter(t *testing.T) {
	tests := []struct {
		expr string
		want Filter
	}{
		{"progeny_count > 3", Filter{Key: "progeny_count", Op: OpGT, Value: 3}},
		{"proteins_nuc[4]>=100", Filter{Key: "proteins_nuc", Row: 4, Op: OpGE, Value: 100}},
		{"proteins_nuc[4]@any < 0", Filter{Key: "proteins_nuc", Row: 4, AnyStep: true, Op: OpLT, Value: 0}},
		{" k <= 1e3 ", Filter{Key: "k", Op: OpLE, Value: 1000}},
		{"k == 2.5", Filter{Key: "k", Op: OpEQ, Value: 2.5}},
		{"k[2] != 0", Filter{Key: "k", Row: 2, Op: OpNE, Value: 0}},
	}
	for _, tc := range tests {
		t.Run(tc.expr, func(t *testing.T) {
			f, err := ParseFilter(tc.expr)
			require.NoError(t, err)
			assert.Equal(t, tc.want, f)
		})
	}

	for _, bad := range []string{"", "k", "k =! 1", "k > abc", "[1] > 2", "k[99999999999999999999] > 1"} {
		_, err := ParseFilter(bad)
		assert.Error(t, err, bad)
	}
}

func runWith(values ...int) *record.Memory {
	m := record.NewMemory()
	for t, v := range values {
		m.Track(t, "progeny_count", v)
	}
	return m
}

func TestFilter_Match(t *testing.T) {
	run := runWith(0, 5, 2)

	tests := []struct {
		expr string
		want bool
	}{
		{"progeny_count == 2", true},
		{"progeny_count > 2", false},
		{"progeny_count@any > 2", true},
		{"progeny_count@any > 5", false},
		{"progeny_count != 2", false},
		{"progeny_count@any != 2", true},
		{"progeny_count[1] >= 0", true},
		{"missing > 0", false},
	}
	for _, tc := range tests {
		t.Run(tc.expr, func(t *testing.T) {
			f, err := ParseFilter(tc.expr)
			require.NoError(t, err)
			assert.Equal(t, tc.want, f.Match(run))
		})
	}
}

func TestSubset(t *testing.T) {
	// GIVEN three runs ending at 1, 4 and 9 progeny
	runs := []*record.Memory{runWith(0, 1), runWith(2, 4), runWith(3, 9)}
	low, _ := ParseFilter("progeny_count >= 2")
	high, _ := ParseFilter("progeny_count < 9")

	// THEN filters combine with AND; no filters keep everything
	assert.Equal(t, []int{1}, Subset(runs, []Filter{low, high}))
	assert.Equal(t, []int{0, 1, 2}, Subset(runs, nil))
}
