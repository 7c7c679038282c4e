// Package cipher implements the Butterfly block cipher: a 16-byte-block
// construction that reorders each block with a chaotically derived
// permutation and diffuses it with a whitened chaotic keystream.
//
// Per block, encryption derives a fresh permutation and keystream from the
// owned [ckdf.KDF], applies the permutation (out[i] = block[perm[i]]), and
// XORs the keystream in. Plaintext is PKCS#7-padded first; a full padding
// block is appended when the input is already block-aligned.
//
// # State Contract
//
// Encryption and decryption must traverse an identical sequence of chaotic
// state transitions from the same starting point. Encrypt assumes a fresh
// engine at its initial state — use one Cipher per encryption. Decrypt
// enforces its half of the contract by unconditionally resetting the KDF
// before replaying the derivation sequence:
//
//	c, err := cipher.New([]byte("secret"), salt)
//	ct, err := c.Encrypt(plaintext)
//
//	// Same instance or an identically constructed one; Decrypt resets first.
//	pt, err := c.Decrypt(ct)
//
// # Security Notes
//
// The construction is unauthenticated: no integrity tag is produced or
// verified, and ciphertext carries no header, version, or salt. A wrong key
// or corrupted ciphertext decrypts to garbage; the only built-in failure
// signal is an out-of-range final pad byte, surfaced as [ErrInvalidPadding].
//
// When no salt is supplied, it defaults to the first 16 bytes of
// SHA-256(secret). That makes the salt predictable from the secret alone:
// callers needing ciphertext indistinguishability across repeated same-secret
// encryptions must supply an independent random salt.
package cipher
