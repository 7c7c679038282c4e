package butterfly

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/vivekjain488/Butterfly/chaos"
	"github.com/vivekjain488/Butterfly/cipher"
	"github.com/vivekjain488/Butterfly/ckdf"
)

// Options configures the chaotic engine behind every facade call. Zero
// fields of Params are not valid; start from NewOptions and override.
type Options struct {
	// Params are the control parameters for the four maps.
	Params chaos.Params

	// Mixing are the keystream contribution weights, normalized to sum 1.
	Mixing chaos.Mixing

	// BurnIn is the number of iterations discarded before any keystream
	// output. Lowering it weakens decorrelation from the seed.
	BurnIn int

	// BlockSize is the cipher block size in bytes.
	BlockSize int
}

// NewOptions returns the documented defaults: chaotic-regime parameters,
// equal mixing weights, 4096-step burn-in, 16-byte blocks.
func NewOptions() *Options {
	return &Options{
		Params:    chaos.DefaultParams(),
		Mixing:    chaos.DefaultMixing(),
		BurnIn:    chaos.DefaultBurnIn,
		BlockSize: cipher.DefaultBlockSize,
	}
}

func (o *Options) kdfConfig() ckdf.Config {
	return ckdf.Config{Params: o.Params, Mixing: o.Mixing, BurnIn: o.BurnIn}
}

func (o *Options) cipherConfig() cipher.Config {
	return cipher.Config{BlockSize: o.BlockSize, KDF: o.kdfConfig()}
}

// DeriveKey derives keyLength bytes of whitened key material from a secret
// and salt. A nil opts uses NewOptions. A nil salt falls back to the first
// 16 bytes of SHA-256(secret) — predictable from the secret, see the package
// docs before relying on it.
func DeriveKey(secret, salt []byte, keyLength int, opts *Options) ([]byte, error) {
	if opts == nil {
		opts = NewOptions()
	}
	if salt == nil {
		salt = cipher.DeriveSalt(secret)
		logrus.WithFields(logrus.Fields{
			"function": "DeriveKey",
			"package":  "butterfly",
		}).Warn("no salt supplied; deriving salt from secret")
	}

	kdf, err := ckdf.NewWithConfig(secret, salt, opts.kdfConfig())
	if err != nil {
		return nil, fmt.Errorf("constructing KDF: %w", err)
	}
	return kdf.DeriveKey(keyLength, nil)
}

// Encrypt encrypts plaintext under the secret with a fresh engine, honoring
// the cipher's fresh-state contract. A nil opts uses NewOptions; the salt is
// derived from the secret (see DeriveKey).
func Encrypt(plaintext, secret []byte, opts *Options) ([]byte, error) {
	return EncryptWithSalt(plaintext, secret, nil, opts)
}

// EncryptWithSalt is Encrypt with an explicit salt. The same salt must be
// presented again at decryption; it is not embedded in the ciphertext.
func EncryptWithSalt(plaintext, secret, salt []byte, opts *Options) ([]byte, error) {
	if opts == nil {
		opts = NewOptions()
	}
	c, err := cipher.NewWithConfig(secret, salt, opts.cipherConfig())
	if err != nil {
		return nil, fmt.Errorf("constructing cipher: %w", err)
	}
	return c.Encrypt(plaintext)
}

// Decrypt decrypts ciphertext produced by Encrypt under the same secret and
// options.
func Decrypt(ciphertext, secret []byte, opts *Options) ([]byte, error) {
	return DecryptWithSalt(ciphertext, secret, nil, opts)
}

// DecryptWithSalt is Decrypt with an explicit salt, matching
// EncryptWithSalt.
func DecryptWithSalt(ciphertext, secret, salt []byte, opts *Options) ([]byte, error) {
	if opts == nil {
		opts = NewOptions()
	}
	c, err := cipher.NewWithConfig(secret, salt, opts.cipherConfig())
	if err != nil {
		return nil, fmt.Errorf("constructing cipher: %w", err)
	}
	return c.Decrypt(ciphertext)
}
