package chaos

import (
	"math"

	"github.com/sirupsen/logrus"
)

// HybridMap couples the four chaotic primitives. The maps evolve
// independently; coupling happens at byte generation, where the four
// quantized trajectories pass through a fixed multi-layer mixing function
// weighted by the normalized Mixing coefficients.
type HybridMap struct {
	logistic *LogisticMap
	henon    *HenonMap
	lorenz   *LorenzSystem
	sine     *SineMap

	params Params
	mixing Mixing
}

// NewHybridMap builds a composer from explicit parameters, mixing weights,
// and initial conditions. The mixing weights must already be normalized
// (construct via NewMixing or DefaultMixing). Construction fails if any
// initial condition falls outside its map's valid domain.
func NewHybridMap(params Params, mixing Mixing, ic InitialConditions) (*HybridMap, error) {
	logistic, err := NewLogisticMap(params.LogisticR, ic.LogisticX0)
	if err != nil {
		return nil, err
	}
	henon, err := NewHenonMap(params.HenonA, params.HenonB, ic.HenonX0, ic.HenonY0)
	if err != nil {
		return nil, err
	}
	lorenz, err := NewLorenzSystem(params.LorenzSigma, params.LorenzRho, params.LorenzBeta,
		ic.LorenzX0, ic.LorenzY0, ic.LorenzZ0)
	if err != nil {
		return nil, err
	}
	sine, err := NewSineMap(params.SineMu, ic.SineX0)
	if err != nil {
		return nil, err
	}
	return &HybridMap{
		logistic: logistic,
		henon:    henon,
		lorenz:   lorenz,
		sine:     sine,
		params:   params,
		mixing:   mixing,
	}, nil
}

// Advance steps all four maps synchronously n times. No outputs are combined
// here; the call only moves the internal phase forward.
func (h *HybridMap) Advance(n int) {
	h.logistic.Advance(n)
	h.henon.Advance(n)
	h.lorenz.Advance(n)
	h.sine.Advance(n)
}

// GenerateKeystream produces nBytes of mixed chaotic output. The composer
// first advances all maps by burnIn steps with output discarded, then
// quantizes each map independently and combines the four byte sequences.
// The call consumes state: a second call continues the trajectory rather
// than repeating it.
func (h *HybridMap) GenerateKeystream(nBytes, burnIn int) []byte {
	if nBytes <= 0 {
		return nil
	}
	h.Advance(burnIn)

	b1 := h.logistic.Quantize(nBytes)
	b2 := h.henon.Quantize(nBytes)
	b3 := h.lorenz.Quantize(nBytes)
	b4 := h.sine.Quantize(nBytes)

	logrus.WithFields(logrus.Fields{
		"function": "GenerateKeystream",
		"package":  "chaos",
		"n_bytes":  nBytes,
		"burn_in":  burnIn,
	}).Debug("Mixing quantized trajectories")

	return h.mixBytes(b1, b2, b3, b4)
}

// mixBytes is the fixed four-layer diffusion function. Layer order is part
// of the keystream definition and must not change.
func (h *HybridMap) mixBytes(b1, b2, b3, b4 []byte) []byte {
	n := len(b1)

	// Layer 2 inputs: pairwise XOR, each rotated by a fixed positional offset.
	xor1 := make([]byte, n)
	xor2 := make([]byte, n)
	for i := 0; i < n; i++ {
		xor1[i] = b1[i] ^ b2[i]
		xor2[i] = b3[i] ^ b4[i]
	}
	rot1 := rotateBytes(xor1, 3)
	rot2 := rotateBytes(xor2, 5)

	// Layer 4 inputs.
	r1 := rotateBytes(b1, 1)
	r2 := rotateBytes(b2, 2)

	out := make([]byte, n)
	for i := 0; i < n; i++ {
		// Layer 1: weighted modular sum, carried out in floating point.
		w := math.Mod(h.mixing.Alpha*float64(b1[i]), 256) +
			math.Mod(h.mixing.Beta*float64(b2[i]), 256) +
			math.Mod(h.mixing.Gamma*float64(b3[i]), 256) +
			math.Mod(h.mixing.Delta*float64(b4[i]), 256)
		mixedAdd := int(math.Mod(w, 256))

		// Layer 2: multi-stage XOR with rotation.
		mixedXor := xor1[i] ^ xor2[i] ^ rot1[i] ^ rot2[i]

		// Layer 3: combine the additive and XOR layers.
		intermediate := byte((mixedAdd + int(mixedXor)) % 256)

		// Layer 4: final whitening against rotated source streams.
		out[i] = intermediate ^ r1[i] ^ r2[i]
	}
	return out
}

// rotateBytes rotates b right by k positions: out[i] = b[(i-k) mod n].
func rotateBytes(b []byte, k int) []byte {
	n := len(b)
	if n == 0 {
		return nil
	}
	k = ((k % n) + n) % n
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = b[(i-k+n)%n]
	}
	return out
}

// GeneratePermutation derives an n-element permutation from the Hénon map's
// trajectory. Like GenerateKeystream, the call consumes the Hénon state, so
// successive permutation and keystream calls on one composer form a single
// cumulative sequence.
func (h *HybridMap) GeneratePermutation(n int) []int {
	return h.henon.PermutationIndices(n)
}

// AttractorData returns an nPoints Lorenz trajectory for visualization. The
// Lorenz state is snapshotted and restored around the call, so the composer's
// persistent phase is undisturbed.
func (h *HybridMap) AttractorData(nPoints int) [][3]float64 {
	saved := h.lorenz.state
	traj := h.lorenz.Trajectory(nPoints)
	h.lorenz.state = saved
	return traj
}

// Reset restores all four maps to their initial conditions.
func (h *HybridMap) Reset() {
	h.logistic.Reset()
	h.henon.Reset()
	h.lorenz.Reset()
	h.sine.Reset()
}

// Params returns the parameter set in effect.
func (h *HybridMap) Params() Params { return h.params }

// Mixing returns the normalized mixing weights in effect.
func (h *HybridMap) Mixing() Mixing { return h.mixing }
