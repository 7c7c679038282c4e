// Package ckdf implements the chaotic key derivation function: it turns a
// low-entropy secret and a salt into reproducible, whitened key material by
// seeding a hybrid chaotic composer and post-processing its output with
// HKDF-SHA256.
//
// Construction pipeline:
//
//  1. preseed = HMAC-SHA512(key=salt, message=secret), 64 bytes
//  2. seven 8-byte big-endian integers from the preseed are affinely mapped
//     into each map's valid domain and seed a [chaos.HybridMap]
//  3. keystream requests run a burn-in (default 4096 steps) before output
//  4. key material is whitened with HKDF-SHA256 keyed by the salt
//
// Usage:
//
//	kdf, err := ckdf.New([]byte("secret"), salt)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	key, err := kdf.DeriveKey(32, nil)
//
// A KDF instance is a state machine: every DeriveKey, DeriveKeystream, or
// GeneratePermutation call consumes chaotic trajectory. Reset restores the
// composer to its secret-derived initial conditions without re-running the
// HMAC preprocessing. Output is deterministic for fixed (secret, salt,
// parameters, mixing, burn-in) across processes.
//
// The raw (unwhitened) keystream is exposed for the cipher's internal use;
// it is not recommended for direct cryptographic consumption.
package ckdf
