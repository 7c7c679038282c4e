// Package chaos implements the chaotic map primitives and their hybrid
// composition used as the pseudorandom core of the Butterfly cipher.
//
// Four maps with different mathematical character are provided:
//
//   - [LogisticMap]: discrete 1D, x' = r·x·(1-x)
//   - [HenonMap]: discrete 2D, x' = 1 - a·x² + y; y' = b·x
//   - [LorenzSystem]: continuous 3D, integrated with fixed-step RK4
//   - [SineMap]: nonlinear 1D, x' = μ·sin(π·x), folded into [0,1]
//
// Each map owns a small mutable state vector, its immutable parameters, and
// its initial state. Every Advance, Trajectory, Quantize, or permutation call
// both reads and mutates that state: trajectory output is destructively
// consumed, never cached. Reset restores the initial state regardless of how
// many steps were consumed.
//
// # Hybrid Composition
//
// [HybridMap] advances all four maps in lock-step and combines their quantized
// trajectories through a fixed four-layer mixing function controlled by
// normalized [Mixing] weights:
//
//	hm, err := chaos.NewHybridMap(chaos.DefaultParams(), chaos.DefaultMixing(), chaos.DefaultInitialConditions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	keystream := hm.GenerateKeystream(64, chaos.DefaultBurnIn)
//	perm := hm.GeneratePermutation(16)
//
// Keystream and permutation generation share the same underlying state, so
// successive calls on one composer consume trajectory cumulatively. Callers
// that need to replay an identical sequence must call Reset first.
//
// # Determinism and Concurrency
//
// All output is a pure function of (parameters, initial conditions, call
// sequence). None of the types in this package are safe for concurrent use;
// parallelism is only safe across independent instances.
package chaos
