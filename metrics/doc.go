// Package metrics provides read-only randomness and chaos diagnostics for
// byte sequences produced by the Butterfly core: Shannon entropy, largest
// Lyapunov exponent estimators, avalanche measurement, and a NIST-inspired
// statistical battery (frequency, runs, chi-square, autocorrelation, serial).
//
// These analyzers consume produced bytes as opaque input and return
// statistics. They never feed back into the encrypt/decrypt path and are not
// required for correctness of the core.
package metrics
