package chaos

import (
	"fmt"
	"math"
	"sort"
)

// henonDomain bounds the open interval (-henonDomain, henonDomain) accepted
// for Hénon initial conditions. The classic attractor basin lies well inside.
const henonDomain = 1.5

// HenonMap is the discrete 2D map x' = 1 - a·x² + y; y' = b·x. Beyond byte
// generation it supplies the cipher's permutation stage via the order
// statistics of its x-trajectory.
type HenonMap struct {
	a, b     float64
	x, y     float64
	initialX float64
	initialY float64
}

// NewHenonMap creates a Hénon map. Both coordinates must lie strictly inside
// (-1.5, 1.5).
func NewHenonMap(a, b, x0, y0 float64) (*HenonMap, error) {
	if x0 <= -henonDomain || x0 >= henonDomain || y0 <= -henonDomain || y0 >= henonDomain {
		return nil, fmt.Errorf("%w: henon (x0,y0)=(%g,%g) must lie in (-1.5, 1.5)", ErrInvalidInitialCondition, x0, y0)
	}
	return &HenonMap{a: a, b: b, x: x0, y: y0, initialX: x0, initialY: y0}, nil
}

// Advance iterates the map n times.
func (m *HenonMap) Advance(n int) {
	for i := 0; i < n; i++ {
		x := 1 - m.a*m.x*m.x + m.y
		y := m.b * m.x
		m.x, m.y = x, y
	}
}

// Trajectory advances the map length steps and returns the visited x and y
// coordinates.
func (m *HenonMap) Trajectory(length int) (xs, ys []float64) {
	xs = make([]float64, length)
	ys = make([]float64, length)
	x, y := m.x, m.y
	for i := 0; i < length; i++ {
		x, y = 1-m.a*x*x+y, m.b*x
		xs[i] = x
		ys[i] = y
	}
	m.x, m.y = x, y
	return xs, ys
}

// PermutationIndices advances the map n steps and returns the indices that
// would sort the x-trajectory ascending. The result is always a bijection
// over {0,…,n-1}, but it follows the order statistics of the trajectory
// rather than a uniform draw over all n! permutations.
func (m *HenonMap) PermutationIndices(n int) []int {
	xs, _ := m.Trajectory(n)
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(i, j int) bool {
		return xs[perm[i]] < xs[perm[j]]
	})
	return perm
}

// Quantize advances n steps and reduces the trajectory to bytes: (|x|+|y|)/2
// is min-max normalized over the generated window, then floor-scaled.
func (m *HenonMap) Quantize(n int) []byte {
	xs, ys := m.Trajectory(n)
	mixed := make([]float64, n)
	for i := range mixed {
		mixed[i] = (math.Abs(xs[i]) + math.Abs(ys[i])) / 2
	}
	norm := normalizeWindow(mixed)
	out := make([]byte, n)
	for i, v := range norm {
		out[i] = byte(math.Floor(255 * v))
	}
	return out
}

// Reset restores the initial state.
func (m *HenonMap) Reset() {
	m.x, m.y = m.initialX, m.initialY
}

// ResetTo moves the map to an explicit state, subject to the same domain
// check as construction.
func (m *HenonMap) ResetTo(x0, y0 float64) error {
	if x0 <= -henonDomain || x0 >= henonDomain || y0 <= -henonDomain || y0 >= henonDomain {
		return fmt.Errorf("%w: henon (x0,y0)=(%g,%g) must lie in (-1.5, 1.5)", ErrInvalidInitialCondition, x0, y0)
	}
	m.x, m.y = x0, y0
	return nil
}

// State returns the current coordinates.
func (m *HenonMap) State() (x, y float64) { return m.x, m.y }
