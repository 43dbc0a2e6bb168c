package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/stat"
)

// === SimulationKey Tests ===

func TestSimulationKey_Creation(t *testing.T) {
	tests := []struct {
		name string
		seed int64
	}{
		{"positive seed", 42},
		{"zero seed", 0},
		{"negative seed", -1},
		{"max int64", math.MaxInt64},
		{"min int64", math.MinInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := NewSimulationKey(tt.seed)
			if int64(key) != tt.seed {
				t.Errorf("NewSimulationKey(%d) = %d, want %d", tt.seed, key, tt.seed)
			}
		})
	}
}

// === RNG Tests ===

func TestRNG_DeterministicStream(t *testing.T) {
	// BDD: Same key produces the same sequence across every sampler
	a := NewRNG(NewSimulationKey(42))
	b := NewRNG(NewSimulationKey(42))

	for i := 0; i < 20; i++ {
		if va, vb := a.Float64(), b.Float64(); va != vb {
			t.Fatalf("Float64 draw %d: got %v and %v, want identical", i, va, vb)
		}
		if va, vb := a.Poisson(7.5), b.Poisson(7.5); va != vb {
			t.Fatalf("Poisson draw %d: got %d and %d, want identical", i, va, vb)
		}
		if va, vb := a.Binomial(100_000, 0.3), b.Binomial(100_000, 0.3); va != vb {
			t.Fatalf("Binomial draw %d: got %d and %d, want identical", i, va, vb)
		}
	}
	if a.Key() != NewSimulationKey(42) {
		t.Errorf("Key() = %d, want 42", a.Key())
	}
}

func TestRNG_DifferentKeysDiffer(t *testing.T) {
	a := NewRNG(NewSimulationKey(1))
	b := NewRNG(NewSimulationKey(2))
	same := 0
	for i := 0; i < 10; i++ {
		if a.Float64() == b.Float64() {
			same++
		}
	}
	assert.Less(t, same, 10)
}

func TestRNG_PoissonEdgeCases(t *testing.T) {
	rng := NewRNG(NewSimulationKey(3))
	for _, lambda := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		assert.Zero(t, rng.Poisson(lambda), "lambda %v", lambda)
	}
}

func TestRNG_PoissonMean(t *testing.T) {
	rng := NewRNG(NewSimulationKey(4))
	xs := make([]float64, 4000)
	for i := range xs {
		xs[i] = float64(rng.Poisson(12))
	}
	mean, std := stat.MeanStdDev(xs, nil)
	assert.InDelta(t, 12, mean, 0.4)
	assert.InDelta(t, math.Sqrt(12), std, 0.3)
}

func TestRNG_PoissonCapped(t *testing.T) {
	rng := NewRNG(NewSimulationKey(5))
	tests := []struct {
		name   string
		lambda float64
		limit  int
		want   func(int) bool
	}{
		{"huge lambda returns limit", 1e30, 40, func(n int) bool { return n == 40 }},
		{"infinite lambda returns limit", math.Inf(1), 7, func(n int) bool { return n == 7 }},
		{"zero limit", 100, 0, func(n int) bool { return n == 0 }},
		{"small lambda stays under limit", 3, 1000, func(n int) bool { return n >= 0 && n <= 1000 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 50; i++ {
				n := rng.PoissonCapped(tt.lambda, tt.limit)
				assert.True(t, tt.want(n), "got %d", n)
			}
		})
	}
}

func TestRNG_BinomialBounds(t *testing.T) {
	rng := NewRNG(NewSimulationKey(6))
	tests := []struct {
		name string
		n    int
		p    float64
	}{
		{"loop regime", 500, 0.2},
		{"distribution regime", binomialLoopLimit * 4, 0.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			xs := make([]float64, 300)
			for i := range xs {
				k := rng.Binomial(tt.n, tt.p)
				assert.GreaterOrEqual(t, k, 0)
				assert.LessOrEqual(t, k, tt.n)
				xs[i] = float64(k)
			}
			mean := stat.Mean(xs, nil)
			assert.InEpsilon(t, float64(tt.n)*tt.p, mean, 0.02)
		})
	}
	assert.Zero(t, rng.Binomial(10, 0))
	assert.Equal(t, 10, rng.Binomial(10, 1))
	assert.Zero(t, rng.Binomial(0, 0.5))
	assert.Zero(t, rng.Binomial(-3, 0.5))
}
