package sim

import "math"

// roundCount rounds a continuous population to a non-negative integer.
// Halves round up.
func roundCount(x float64) int {
	if math.IsNaN(x) || x <= 0 {
		return 0
	}
	return int(math.Round(x))
}

// ReconcileBinding converts the continuous solution of a binding ODE back
// into integer populations that conserve both the carrier total and the
// ligand total of the previous state.
//
// soln holds len(prevBins) occupancy bins followed by the free ligand. Bin i
// carries i ligand units. The returned bins sum to sum(prevBins) and
// Σ i·bins[i] + free equals Σ i·prevBins[i] + prevFree.
func ReconcileBinding(rng *RNG, soln []float64, prevBins []int, prevFree int) ([]int, int) {
	n := len(prevBins)
	bins := make([]int, n)
	for i := 0; i < n; i++ {
		bins[i] = roundCount(soln[i])
	}
	free := roundCount(soln[n])

	targetCarrier := 0
	targetLigand := prevFree
	for i, b := range prevBins {
		targetCarrier += b
		targetLigand += i * b
	}

	repairTotal(rng, bins, targetCarrier)

	ligand := free
	for i, b := range bins {
		ligand += i * b
	}
	if excess := ligand - targetLigand; excess > 0 {
		drained := min(excess, free)
		free -= drained
		excess -= drained
		for excess > 0 {
			i := pickNonEmpty(rng, bins, 1)
			if i < 0 {
				break
			}
			bins[i]--
			bins[i-1]++
			excess--
		}
	} else if excess < 0 {
		free -= excess
	}
	return bins, free
}

// repairTotal adjusts randomly chosen entries of bins until they sum to
// target. Excess is removed from non-empty bins only, so every iteration
// strictly shrinks the discrepancy.
func repairTotal(rng *RNG, bins []int, target int) {
	for {
		sum := 0
		for _, b := range bins {
			sum += b
		}
		diff := sum - target
		if diff == 0 {
			return
		}
		if diff < 0 {
			bins[rng.IntN(len(bins))] -= diff
			return
		}
		i := pickNonEmpty(rng, bins, 0)
		if i < 0 {
			return
		}
		bins[i] = max(bins[i]-diff, 0)
	}
}

// pickNonEmpty returns a uniformly random index >= from whose entry is
// positive, or -1 when there is none.
func pickNonEmpty(rng *RNG, bins []int, from int) int {
	count := 0
	for i := from; i < len(bins); i++ {
		if bins[i] > 0 {
			count++
		}
	}
	if count == 0 {
		return -1
	}
	k := rng.IntN(count)
	for i := from; i < len(bins); i++ {
		if bins[i] > 0 {
			if k == 0 {
				return i
			}
			k--
		}
	}
	return -1
}

// Complexes is the integer state of the Tat/pTEFb feedback loop.
type Complexes struct {
	Tat      int
	PTEFb    int
	Deacetyl int
	Acetyl   int
}

// ReconcileComplexes rounds the continuous Tat/pTEFb solution
// [Tat, pTEFb, deacetylated, acetylated, ...] and restores the totals of prev:
// Tat + deacetyl + acetyl and pTEFb + deacetyl + acetyl. It reports whether
// free pTEFb had to be clamped at zero to do so.
func ReconcileComplexes(rng *RNG, soln []float64, prev Complexes) (Complexes, bool) {
	pools := []int{roundCount(soln[0]), roundCount(soln[2]), roundCount(soln[3])}
	repairTotal(rng, pools, prev.Tat+prev.Deacetyl+prev.Acetyl)

	out := Complexes{Tat: pools[0], Deacetyl: pools[1], Acetyl: pools[2]}
	out.PTEFb = prev.PTEFb + prev.Deacetyl + prev.Acetyl - out.Deacetyl - out.Acetyl
	clamped := false
	if out.PTEFb < 0 {
		out.PTEFb = 0
		clamped = true
	}
	return out, clamped
}
