package chaos

import (
	"errors"
	"fmt"
)

// Map is the capability shared by all four chaotic primitives. Every method
// mutates the owning map's state; Trajectory-style methods are exposed on the
// concrete types because their shapes differ per variant.
type Map interface {
	// Advance iterates the map n times, discarding output.
	Advance(n int)

	// Quantize advances the map n steps and returns the trajectory reduced
	// to one byte per step.
	Quantize(n int) []byte

	// Reset restores the state captured at construction time.
	Reset()
}

// ErrInvalidInitialCondition is returned when a map is constructed with an
// initial state outside its required open domain.
var ErrInvalidInitialCondition = errors.New("initial condition outside valid domain")

// ErrInvalidMixing is returned when mixing weights cannot be normalized.
var ErrInvalidMixing = errors.New("invalid mixing coefficients")

// DefaultBurnIn is the number of iterations discarded before keystream
// output, decorrelating the trajectory from its (low-entropy) seed.
const DefaultBurnIn = 4096

// Params holds the control parameters for all four maps. The defaults sit in
// each map's documented chaotic regime; values outside that regime are
// accepted with a logged warning, never rejected.
type Params struct {
	LogisticR   float64
	HenonA      float64
	HenonB      float64
	LorenzSigma float64
	LorenzRho   float64
	LorenzBeta  float64
	SineMu      float64
}

// DefaultParams returns the documented default parameter set.
func DefaultParams() Params {
	return Params{
		LogisticR:   3.99,
		HenonA:      1.4,
		HenonB:      0.3,
		LorenzSigma: 10.0,
		LorenzRho:   28.0,
		LorenzBeta:  8.0 / 3.0,
		SineMu:      0.99,
	}
}

// Mixing holds the four weights controlling each map's contribution to the
// combined keystream. Construct via NewMixing so the invariant (weights sum
// to exactly 1) holds.
type Mixing struct {
	Alpha float64
	Beta  float64
	Gamma float64
	Delta float64
}

// NewMixing normalizes the supplied weights to sum to 1. Weights must be
// non-negative with a positive sum.
func NewMixing(alpha, beta, gamma, delta float64) (Mixing, error) {
	if alpha < 0 || beta < 0 || gamma < 0 || delta < 0 {
		return Mixing{}, fmt.Errorf("%w: weights must be non-negative", ErrInvalidMixing)
	}
	total := alpha + beta + gamma + delta
	if total <= 0 {
		return Mixing{}, fmt.Errorf("%w: weights sum to zero", ErrInvalidMixing)
	}
	return Mixing{
		Alpha: alpha / total,
		Beta:  beta / total,
		Gamma: gamma / total,
		Delta: delta / total,
	}, nil
}

// DefaultMixing returns equal weights.
func DefaultMixing() Mixing {
	return Mixing{Alpha: 0.25, Beta: 0.25, Gamma: 0.25, Delta: 0.25}
}

// InitialConditions is the seven-component seed vector for a hybrid map.
// Each component must lie strictly inside its target map's valid domain.
type InitialConditions struct {
	LogisticX0 float64
	HenonX0    float64
	HenonY0    float64
	LorenzX0   float64
	LorenzY0   float64
	LorenzZ0   float64
	SineX0     float64
}

// DefaultInitialConditions returns the fixed conditions used when no
// secret-derived seed is supplied.
func DefaultInitialConditions() InitialConditions {
	return InitialConditions{
		LogisticX0: 0.5,
		HenonX0:    0.1,
		HenonY0:    0.1,
		LorenzX0:   1.0,
		LorenzY0:   1.0,
		LorenzZ0:   1.0,
		SineX0:     0.5,
	}
}

// normEpsilon guards min-max normalization against zero-width windows.
const normEpsilon = 1e-10

// normalizeWindow maps vals into [0,1] by min-max normalization over the
// window itself, not any global range.
func normalizeWindow(vals []float64) []float64 {
	if len(vals) == 0 {
		return nil
	}
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	span := hi - lo + normEpsilon
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = (v - lo) / span
	}
	return out
}
