package chaos

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// Chaotic regime bounds for the sine control parameter.
const (
	SineChaosMin = 0.8
	SineChaosMax = 1.0
)

// SineMap is the nonlinear 1D map x' = μ·sin(π·x). Each iterate is folded
// into [0,1] via absolute value and mod 1; the fold is a numerical-stability
// guard, not part of the canonical map.
type SineMap struct {
	mu       float64
	x        float64
	initialX float64
}

// NewSineMap creates a sine map. x0 must lie strictly in (0,1). Values of μ
// outside [0.8, 1.0] are accepted with a warning.
func NewSineMap(mu, x0 float64) (*SineMap, error) {
	if x0 <= 0 || x0 >= 1 {
		return nil, fmt.Errorf("%w: sine x0=%g must lie in (0, 1)", ErrInvalidInitialCondition, x0)
	}
	if mu < SineChaosMin || mu > SineChaosMax {
		logrus.WithFields(logrus.Fields{
			"function": "NewSineMap",
			"package":  "chaos",
			"mu":       mu,
		}).Warn("sine mu outside chaotic regime [0.8, 1.0]")
	}
	return &SineMap{mu: mu, x: x0, initialX: x0}, nil
}

func (m *SineMap) step(x float64) float64 {
	x = math.Abs(m.mu * math.Sin(math.Pi*x))
	if x > 1.0 {
		x -= math.Floor(x)
	}
	return x
}

// Advance iterates the map n times.
func (m *SineMap) Advance(n int) {
	for i := 0; i < n; i++ {
		m.x = m.step(m.x)
	}
}

// Trajectory advances the map length steps and returns each visited value.
func (m *SineMap) Trajectory(length int) []float64 {
	traj := make([]float64, length)
	x := m.x
	for i := 0; i < length; i++ {
		x = m.step(x)
		traj[i] = x
	}
	m.x = x
	return traj
}

// Quantize advances n steps and reduces the trajectory to bytes via
// floor(255·|x|).
func (m *SineMap) Quantize(n int) []byte {
	traj := m.Trajectory(n)
	out := make([]byte, n)
	for i, v := range traj {
		out[i] = byte(math.Floor(255 * math.Abs(v)))
	}
	return out
}

// Reset restores the initial state.
func (m *SineMap) Reset() {
	m.x = m.initialX
}

// ResetTo moves the map to an explicit state, subject to the same domain
// check as construction.
func (m *SineMap) ResetTo(x0 float64) error {
	if x0 <= 0 || x0 >= 1 {
		return fmt.Errorf("%w: sine x0=%g must lie in (0, 1)", ErrInvalidInitialCondition, x0)
	}
	m.x = x0
	return nil
}

// State returns the current value.
func (m *SineMap) State() float64 { return m.x }
