// Package butterfly implements chaos-based key derivation and encryption.
//
// Butterfly derives cryptographic key material and encrypts data using byte
// streams generated from four coupled nonlinear dynamical systems (logistic,
// Hénon, Lorenz, and sine maps) instead of a standard cipher primitive. This
// package is the top-level facade over the subsystems:
//
//   - chaos: map primitives and the hybrid composer
//   - ckdf: chaotic key derivation (HMAC seeding + HKDF whitening)
//   - cipher: the permutation+keystream block cipher
//   - metrics: read-only randomness diagnostics
//   - api: the JSON/base64 HTTP surface
//
// # Getting Started
//
//	opts := butterfly.NewOptions()
//
//	key, err := butterfly.DeriveKey([]byte("secret"), salt, 32, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ct, err := butterfly.Encrypt(plaintext, []byte("secret"), opts)
//	pt, err := butterfly.Decrypt(ct, []byte("secret"), opts)
//
// Decryption succeeds only under the same secret, salt, parameters, and
// mixing weights used to encrypt: ciphertext carries no header, salt, or
// integrity tag, so those inputs must be transported out-of-band.
//
// # Security
//
// This construction is a research design, not a vetted cipher. It provides
// no authentication: a wrong key or corrupted ciphertext yields garbage or a
// padding error, nothing stronger. When no salt is supplied it is derived
// from the secret itself, which makes repeated encryptions under one secret
// deterministic; supply a random salt wherever ciphertext
// indistinguishability matters.
package butterfly
