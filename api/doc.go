// Package api exposes the Butterfly core over a JSON/base64 HTTP surface.
//
// Endpoints:
//
//	GET  /api/health              — liveness probe
//	POST /api/derive_key          — derive key material from seed+salt
//	POST /api/encrypt             — encrypt text or base64 binary
//	POST /api/decrypt             — decrypt to text or base64 binary
//	POST /api/metrics/entropy     — Shannon entropy of data or a generated keystream
//	POST /api/metrics/lyapunov    — Lyapunov exponents for selected maps
//	POST /api/metrics/avalanche   — avalanche measurement over the cipher
//	POST /api/metrics/statistical — NIST-style statistical battery
//	POST /api/attractor           — Lorenz attractor trajectory for visualization
//
// Binary payloads travel base64-encoded. Map parameters arrive as a JSON
// object with the recognized keys (logistic_r, henon_a, henon_b,
// lorenz_sigma, lorenz_rho, lorenz_beta, sine_mu); unspecified keys fall
// back to the documented defaults. Mixing arrives as a four-element array
// and is re-normalized server-side.
//
// The server holds no per-request state: every call constructs fresh engines
// from its inputs, so concurrent requests never share chaotic state.
package api
