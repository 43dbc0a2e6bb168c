package sim

import "math"

// Derivative evaluates dy/dt at (t, y) into dy.
type Derivative func(t float64, y, dy []float64)

// IntegrateRK4 integrates dy/dt = f(t, y) from t0 to t1 with a fixed number
// of classical fourth-order Runge-Kutta steps and returns y(t1).
// y0 is not modified.
func IntegrateRK4(f Derivative, y0 []float64, t0, t1 float64, steps int) []float64 {
	n := len(y0)
	y := append([]float64(nil), y0...)
	if steps <= 0 || t1 == t0 {
		return y
	}
	k1 := make([]float64, n)
	k2 := make([]float64, n)
	k3 := make([]float64, n)
	k4 := make([]float64, n)
	tmp := make([]float64, n)

	h := (t1 - t0) / float64(steps)
	t := t0
	for s := 0; s < steps; s++ {
		f(t, y, k1)
		for i := range y {
			tmp[i] = y[i] + 0.5*h*k1[i]
		}
		f(t+0.5*h, tmp, k2)
		for i := range y {
			tmp[i] = y[i] + 0.5*h*k2[i]
		}
		f(t+0.5*h, tmp, k3)
		for i := range y {
			tmp[i] = y[i] + h*k3[i]
		}
		f(t+h, tmp, k4)
		for i := range y {
			y[i] += h / 6 * (k1[i] + 2*k2[i] + 2*k3[i] + k4[i])
		}
		t += h
	}
	return y
}

// odeHorizon and odeSubsteps define the per-minute integration window of the
// binding kinetics: 60 one-second samples reported at t = 59, each second
// split into at least odeSubsteps Runge-Kutta steps.
const (
	odeHorizon  = 59.0
	odeSubsteps = 10
	// odeMaxStepRate bounds h·maxRate, keeping explicit RK4 inside its
	// stability region for fast binding.
	odeMaxStepRate = 0.5
)

// IntegrateMinute integrates f over the per-timestep binding window. maxRate
// is an upper estimate of the fastest first-order rate in the system (1/s)
// and refines the step when it exceeds the default resolution.
func IntegrateMinute(f Derivative, y0 []float64, maxRate float64) []float64 {
	steps := int(odeHorizon) * odeSubsteps
	if need := int(math.Ceil(odeHorizon * maxRate / odeMaxStepRate)); need > steps {
		steps = need
	}
	return IntegrateRK4(f, y0, 0, odeHorizon, steps)
}
