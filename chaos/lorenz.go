package chaos

import (
	"fmt"
	"math"
)

// LorenzDt is the fixed RK4 integration step. The integrator is deliberately
// not adaptive: reproducibility requires an identical step sequence on every
// run.
const LorenzDt = 0.01

// Open domains accepted for Lorenz initial conditions. The attractor for the
// classical parameter triple stays inside these bounds.
const (
	lorenzXYDomain = 25.0
	lorenzZMin     = 0.0
	lorenzZMax     = 60.0
)

// LorenzSystem is the continuous 3D system
//
//	dx/dt = σ(y - x)
//	dy/dt = x(ρ - z) - y
//	dz/dt = xy - βz
//
// advanced with fixed-step 4th-order Runge-Kutta.
type LorenzSystem struct {
	sigma, rho, beta float64
	state            [3]float64
	initial          [3]float64
}

// NewLorenzSystem creates a Lorenz system. x0 and y0 must lie strictly in
// (-25, 25) and z0 in (0, 60).
func NewLorenzSystem(sigma, rho, beta, x0, y0, z0 float64) (*LorenzSystem, error) {
	if x0 <= -lorenzXYDomain || x0 >= lorenzXYDomain ||
		y0 <= -lorenzXYDomain || y0 >= lorenzXYDomain ||
		z0 <= lorenzZMin || z0 >= lorenzZMax {
		return nil, fmt.Errorf("%w: lorenz (x0,y0,z0)=(%g,%g,%g) must lie in (-25,25)x(-25,25)x(0,60)",
			ErrInvalidInitialCondition, x0, y0, z0)
	}
	s := [3]float64{x0, y0, z0}
	return &LorenzSystem{sigma: sigma, rho: rho, beta: beta, state: s, initial: s}, nil
}

func (l *LorenzSystem) derivatives(s [3]float64) [3]float64 {
	x, y, z := s[0], s[1], s[2]
	return [3]float64{
		l.sigma * (y - x),
		x*(l.rho-z) - y,
		x*y - l.beta*z,
	}
}

func (l *LorenzSystem) rk4Step(s [3]float64) [3]float64 {
	k1 := l.derivatives(s)
	k2 := l.derivatives(addScaled(s, k1, 0.5*LorenzDt))
	k3 := l.derivatives(addScaled(s, k2, 0.5*LorenzDt))
	k4 := l.derivatives(addScaled(s, k3, LorenzDt))

	var out [3]float64
	for i := 0; i < 3; i++ {
		out[i] = s[i] + (LorenzDt/6.0)*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}
	return out
}

func addScaled(s, k [3]float64, h float64) [3]float64 {
	return [3]float64{s[0] + h*k[0], s[1] + h*k[1], s[2] + h*k[2]}
}

// Advance integrates n RK4 steps.
func (l *LorenzSystem) Advance(n int) {
	for i := 0; i < n; i++ {
		l.state = l.rk4Step(l.state)
	}
}

// Trajectory integrates length steps and returns each visited (x,y,z) point.
func (l *LorenzSystem) Trajectory(length int) [][3]float64 {
	traj := make([][3]float64, length)
	for i := 0; i < length; i++ {
		l.state = l.rk4Step(l.state)
		traj[i] = l.state
	}
	return traj
}

// Quantize integrates n steps and reduces the trajectory to bytes. Each
// coordinate is min-max normalized over the window, the three are mixed with
// fixed weights 0.5/0.3/0.2, and the result is folded mod 1 before
// floor-scaling.
func (l *LorenzSystem) Quantize(n int) []byte {
	traj := l.Trajectory(n)
	xs := make([]float64, n)
	ys := make([]float64, n)
	zs := make([]float64, n)
	for i, p := range traj {
		xs[i], ys[i], zs[i] = p[0], p[1], p[2]
	}
	xn := normalizeWindow(xs)
	yn := normalizeWindow(ys)
	zn := normalizeWindow(zs)

	out := make([]byte, n)
	for i := 0; i < n; i++ {
		mixed := math.Mod(0.5*xn[i]+0.3*yn[i]+0.2*zn[i], 1.0)
		out[i] = byte(math.Floor(255 * mixed))
	}
	return out
}

// Reset restores the initial state.
func (l *LorenzSystem) Reset() {
	l.state = l.initial
}

// ResetTo moves the system to an explicit state, subject to the same domain
// check as construction.
func (l *LorenzSystem) ResetTo(x0, y0, z0 float64) error {
	if x0 <= -lorenzXYDomain || x0 >= lorenzXYDomain ||
		y0 <= -lorenzXYDomain || y0 >= lorenzXYDomain ||
		z0 <= lorenzZMin || z0 >= lorenzZMax {
		return fmt.Errorf("%w: lorenz (x0,y0,z0)=(%g,%g,%g) must lie in (-25,25)x(-25,25)x(0,60)",
			ErrInvalidInitialCondition, x0, y0, z0)
	}
	l.state = [3]float64{x0, y0, z0}
	return nil
}

// State returns the current (x,y,z) point.
func (l *LorenzSystem) State() [3]float64 { return l.state }
