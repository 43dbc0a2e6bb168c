package sim

import (
	"hash/fnv"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two simulations with the same SimulationKey and identical parameters
// MUST produce bit-for-bit identical results.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === RNG ===

// binomialLoopLimit bounds the number of per-individual Bernoulli draws before
// SampleEventCount switches to an exact binomial sampler.
const binomialLoopLimit = 1 << 14

// RNG is the single random stream of a simulation. Every process, the
// reconciler and the progeny shuffle draw from it in a fixed order, so a run
// is reproducible from its SimulationKey alone.
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type RNG struct {
	*rand.Rand
	key SimulationKey
	src *rand.PCG
}

// NewRNG creates the random stream for a SimulationKey.
func NewRNG(key SimulationKey) *RNG {
	src := rand.NewPCG(uint64(key), uint64(fnv1a64("virosim")))
	return &RNG{Rand: rand.New(src), key: key, src: src}
}

// Key returns the SimulationKey used to create this RNG.
func (r *RNG) Key() SimulationKey {
	return r.key
}

// Poisson draws from a Poisson distribution with mean lambda.
// Non-positive or non-finite lambda yields 0.
func (r *RNG) Poisson(lambda float64) int {
	if lambda <= 0 || math.IsNaN(lambda) || math.IsInf(lambda, 0) {
		return 0
	}
	d := distuv.Poisson{Lambda: lambda, Src: r.src}
	return int(d.Rand())
}

// PoissonCapped returns min(Poisson(lambda), limit). When lambda is so far
// above limit that the draw cannot fall below it, limit is returned without
// sampling; this keeps huge rates from overflowing the integer conversion.
func (r *RNG) PoissonCapped(lambda float64, limit int) int {
	if limit <= 0 {
		return 0
	}
	if math.IsInf(lambda, 1) || lambda > float64(limit)+20*math.Sqrt(float64(limit))+20 {
		return limit
	}
	return min(r.Poisson(lambda), limit)
}

// Binomial draws the number of successes in n trials with success probability p.
func (r *RNG) Binomial(n int, p float64) int {
	if n <= 0 || p <= 0 {
		return 0
	}
	if p >= 1 {
		return n
	}
	if n <= binomialLoopLimit {
		k := 0
		for i := 0; i < n; i++ {
			if r.Float64() < p {
				k++
			}
		}
		return k
	}
	d := distuv.Binomial{N: float64(n), P: p, Src: r.src}
	return min(int(d.Rand()), n)
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
