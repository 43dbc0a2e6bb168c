package sim

import "sort"

// Branches is a categorical distribution over target bins, stored as
// cumulative probabilities. The last cumulative value is treated as 1 so
// floating-point round-off never drops an individual.
type Branches struct {
	Targets    []int
	Cumulative []float64
}

// NewBranches builds a Branches table from per-target weights. Weights are
// normalized by their sum.
func NewBranches(targets []int, weights []float64) Branches {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	cum := make([]float64, len(weights))
	acc := 0.0
	for i, w := range weights {
		acc += w
		cum[i] = acc / total
	}
	return Branches{Targets: targets, Cumulative: cum}
}

// Pick draws one target.
func (b Branches) Pick(rng *RNG) int {
	u := rng.Float64()
	k := sort.Search(len(b.Cumulative), func(k int) bool { return b.Cumulative[k] > u })
	if k >= len(b.Targets) {
		k = len(b.Targets) - 1
	}
	return b.Targets[k]
}

// Conversion describes one branching conversion: individuals leave a source
// bin with probability Prob (reduced by Protect on protected bins) and each
// converted individual lands in a bin drawn from Branches.
type Conversion struct {
	Prob    float64
	Protect float64
	// Protected reports whether the source bin is protected. Nil means none.
	Protected func(bin int) bool
	Branches  Branches
	// Offset is added to every drawn target, letting one table serve several
	// Rev-occupancy levels of the same transcript family.
	Offset int
}

// Convert applies a Conversion to bin i of src, writing converted
// individuals into dst. It returns the number converted.
func (c Conversion) Convert(rng *RNG, src []int, i int, dst []int) int {
	p := c.Prob
	if c.Protected != nil && c.Protected(i) {
		p *= 1 - c.Protect
	}
	n := SampleEventCount(rng, src[i], p)
	if n == 0 {
		return 0
	}
	src[i] -= n
	for k := 0; k < n; k++ {
		dst[c.Offset+c.Branches.Pick(rng)]++
	}
	return n
}

// ConvertReleasing is Convert plus resource release: every converted
// individual frees multiplier units of a bound resource, added to *released.
func (c Conversion) ConvertReleasing(rng *RNG, src []int, i int, dst []int, multiplier int, released *int) int {
	n := c.Convert(rng, src, i, dst)
	*released += n * multiplier
	return n
}
