package chaos

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// Chaotic regime bounds for the logistic control parameter.
const (
	LogisticChaosMin = 3.57
	LogisticChaosMax = 4.0
)

// LogisticMap is the discrete 1D map x' = r·x·(1-x).
type LogisticMap struct {
	r        float64
	x        float64
	initialX float64
}

// NewLogisticMap creates a logistic map. x0 must lie strictly in (0,1).
// Values of r outside [3.57, 4.0] are accepted with a warning since the map
// may leave the chaotic regime.
func NewLogisticMap(r, x0 float64) (*LogisticMap, error) {
	if x0 <= 0 || x0 >= 1 {
		return nil, fmt.Errorf("%w: logistic x0=%g must lie in (0, 1)", ErrInvalidInitialCondition, x0)
	}
	if r < LogisticChaosMin || r > LogisticChaosMax {
		logrus.WithFields(logrus.Fields{
			"function": "NewLogisticMap",
			"package":  "chaos",
			"r":        r,
		}).Warn("logistic r outside chaotic regime [3.57, 4.0]")
	}
	return &LogisticMap{r: r, x: x0, initialX: x0}, nil
}

// Advance iterates the map n times.
func (m *LogisticMap) Advance(n int) {
	for i := 0; i < n; i++ {
		m.x = m.r * m.x * (1 - m.x)
	}
}

// Trajectory advances the map length steps and returns each visited value.
func (m *LogisticMap) Trajectory(length int) []float64 {
	traj := make([]float64, length)
	x := m.x
	for i := 0; i < length; i++ {
		x = m.r * x * (1 - x)
		traj[i] = x
	}
	m.x = x
	return traj
}

// Quantize advances n steps and reduces the trajectory to bytes via
// floor(255·x).
func (m *LogisticMap) Quantize(n int) []byte {
	traj := m.Trajectory(n)
	out := make([]byte, n)
	for i, v := range traj {
		out[i] = byte(math.Floor(255 * v))
	}
	return out
}

// Reset restores the initial state.
func (m *LogisticMap) Reset() {
	m.x = m.initialX
}

// ResetTo moves the map to an explicit state, subject to the same domain
// check as construction.
func (m *LogisticMap) ResetTo(x0 float64) error {
	if x0 <= 0 || x0 >= 1 {
		return fmt.Errorf("%w: logistic x0=%g must lie in (0, 1)", ErrInvalidInitialCondition, x0)
	}
	m.x = x0
	return nil
}

// State returns the current value.
func (m *LogisticMap) State() float64 { return m.x }
