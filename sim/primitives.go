package sim

// === Stochastic transition primitives ===
//
// Every population change in the engine goes through these helpers. They
// never produce negative counts and conserve the sum of the buckets they touch.

// SampleEventCount returns how many of n individuals undergo an event with
// per-individual probability rate during one timestep.
//
// For rate <= 1 the count is binomial(n, rate). Rates above 1 are treated as
// expected events per individual: min(Poisson(n*rate), n). The result is
// always in [0, n].
func SampleEventCount(rng *RNG, n int, rate float64) int {
	if n <= 0 || rate <= 0 {
		return 0
	}
	if rate <= 1 {
		return rng.Binomial(n, rate)
	}
	return rng.PoissonCapped(float64(n)*rate, n)
}

// Move moves amount individuals from pool[from] to pool[to].
// The amount is clamped to what pool[from] holds.
func Move(pool []int, from, to, amount int) {
	MoveBetween(pool, from, pool, to, amount)
}

// Transfer samples how many individuals of pool[from] convert into pool[to]
// with the given per-individual rate, applies the move, and returns it.
func Transfer(rng *RNG, pool []int, from, to int, rate float64) int {
	return TransferBetween(rng, pool, from, pool, to, rate)
}

// MoveBetween moves amount individuals from src[i] to dst[j].
func MoveBetween(src []int, i int, dst []int, j int, amount int) {
	amount = min(amount, src[i])
	if amount <= 0 {
		return
	}
	src[i] -= amount
	dst[j] += amount
}

// TransferBetween is Transfer across two buckets.
func TransferBetween(rng *RNG, src []int, i int, dst []int, j int, rate float64) int {
	amount := SampleEventCount(rng, src[i], rate)
	MoveBetween(src, i, dst, j, amount)
	return amount
}

// Decay removes a sampled number of individuals from pool[i] and returns it.
func Decay(rng *RNG, pool []int, i int, rate float64) int {
	amount := SampleEventCount(rng, pool[i], rate)
	pool[i] -= amount
	return amount
}
