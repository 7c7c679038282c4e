package cipher

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/vivekjain488/Butterfly/ckdf"
)

// DefaultBlockSize is the cipher's block size in bytes (128 bits).
const DefaultBlockSize = 16

// ErrInvalidPadding is returned when the final pad-length byte is zero or
// exceeds the block size or the buffer length. With no authentication tag,
// this is the earliest point at which a wrong key can surface at all.
var ErrInvalidPadding = errors.New("invalid padding")

// ErrCiphertextLength is returned when the ciphertext is empty or not a
// multiple of the block size.
var ErrCiphertextLength = errors.New("ciphertext length is not a positive multiple of the block size")

// Config carries the cipher's tunable knobs. The zero value is not usable;
// start from DefaultConfig.
type Config struct {
	BlockSize int
	KDF       ckdf.Config
}

// DefaultConfig returns a 16-byte block size over the default KDF settings.
func DefaultConfig() Config {
	return Config{
		BlockSize: DefaultBlockSize,
		KDF:       ckdf.DefaultConfig(),
	}
}

// Cipher is a chaos-based block cipher engine. Each instance owns one KDF
// whose state both Encrypt and Decrypt consume; not safe for concurrent use.
type Cipher struct {
	blockSize int
	salt      []byte
	kdf       *ckdf.KDF
}

// DeriveSalt produces the fallback salt used when a caller supplies none:
// the first 16 bytes of SHA-256(secret). The result is predictable from the
// secret, so repeated encryptions under the same secret share initial
// conditions; supply a random salt when that matters.
func DeriveSalt(secret []byte) []byte {
	sum := sha256.Sum256(secret)
	return sum[:16]
}

// New builds a cipher with the default configuration. A nil salt falls back
// to DeriveSalt(secret).
func New(secret, salt []byte) (*Cipher, error) {
	return NewWithConfig(secret, salt, DefaultConfig())
}

// NewWithConfig builds a cipher. The engine starts at its initial chaotic
// state; the encrypt contract assumes it stays untouched until Encrypt runs.
func NewWithConfig(secret, salt []byte, cfg Config) (*Cipher, error) {
	if cfg.BlockSize <= 0 {
		return nil, fmt.Errorf("block size must be positive, got %d", cfg.BlockSize)
	}
	if salt == nil {
		salt = DeriveSalt(secret)
		logrus.WithFields(logrus.Fields{
			"function": "NewWithConfig",
			"package":  "cipher",
		}).Warn("no salt supplied; deriving salt from secret (predictable, see package docs)")
	}

	kdf, err := ckdf.NewWithConfig(secret, salt, cfg.KDF)
	if err != nil {
		return nil, fmt.Errorf("constructing KDF: %w", err)
	}

	return &Cipher{
		blockSize: cfg.BlockSize,
		salt:      append([]byte(nil), salt...),
		kdf:       kdf,
	}, nil
}

// Encrypt pads the plaintext and encrypts it block by block. The engine must
// be at its initial state: encrypting twice on one instance, or encrypting
// after other derivation calls, produces ciphertext that Decrypt's
// reset-and-replay cannot reverse.
func (c *Cipher) Encrypt(plaintext []byte) ([]byte, error) {
	padded := pad(plaintext, c.blockSize)
	ciphertext := make([]byte, 0, len(padded))

	for start := 0; start < len(padded); start += c.blockSize {
		block, err := c.encryptBlock(padded[start : start+c.blockSize])
		if err != nil {
			return nil, err
		}
		ciphertext = append(ciphertext, block...)
	}

	logrus.WithFields(logrus.Fields{
		"function":          "Encrypt",
		"package":           "cipher",
		"plaintext_length":  len(plaintext),
		"ciphertext_length": len(ciphertext),
	}).Debug("Encryption complete")

	return ciphertext, nil
}

// Decrypt reverses Encrypt. It first resets the KDF to its initial
// conditions: regenerating the identical permutation and keystream sequence
// requires starting from the same state encryption started from. It then
// strips the PKCS#7 padding, returning ErrInvalidPadding when the final byte
// cannot be a pad length.
func (c *Cipher) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) == 0 || len(ciphertext)%c.blockSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes with block size %d", ErrCiphertextLength, len(ciphertext), c.blockSize)
	}

	c.kdf.Reset()

	plaintext := make([]byte, 0, len(ciphertext))
	for start := 0; start < len(ciphertext); start += c.blockSize {
		block, err := c.decryptBlock(ciphertext[start : start+c.blockSize])
		if err != nil {
			return nil, err
		}
		plaintext = append(plaintext, block...)
	}

	return unpad(plaintext, c.blockSize)
}

func (c *Cipher) encryptBlock(block []byte) ([]byte, error) {
	perm := c.kdf.GeneratePermutation(c.blockSize)

	permuted := make([]byte, c.blockSize)
	for i, p := range perm {
		permuted[i] = block[p]
	}

	keystream, err := c.kdf.DeriveKeystream(c.blockSize, false)
	if err != nil {
		return nil, fmt.Errorf("deriving block keystream: %w", err)
	}
	for i := range permuted {
		permuted[i] ^= keystream[i]
	}
	return permuted, nil
}

func (c *Cipher) decryptBlock(block []byte) ([]byte, error) {
	// Identical derivation calls in identical order reproduce the values
	// used during encryption.
	perm := c.kdf.GeneratePermutation(c.blockSize)
	keystream, err := c.kdf.DeriveKeystream(c.blockSize, false)
	if err != nil {
		return nil, fmt.Errorf("deriving block keystream: %w", err)
	}

	afterXor := make([]byte, c.blockSize)
	for i := range block {
		afterXor[i] = block[i] ^ keystream[i]
	}

	inverse := make([]int, c.blockSize)
	for i, p := range perm {
		inverse[p] = i
	}

	plain := make([]byte, c.blockSize)
	for i := range plain {
		plain[i] = afterXor[inverse[i]]
	}
	return plain, nil
}

// pad applies PKCS#7 padding. A full pad block is appended even when data is
// already block-aligned, so padding is always removable.
func pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padLen)
	}
	return padded
}

// unpad strips PKCS#7 padding by count. Pad byte values are not verified;
// only the count is range-checked, matching the construction's documented
// (absent) tamper detection.
func unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty buffer", ErrInvalidPadding)
	}
	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > blockSize || padLen > len(data) {
		return nil, fmt.Errorf("%w: pad length %d with buffer length %d", ErrInvalidPadding, padLen, len(data))
	}
	return data[:len(data)-padLen], nil
}

// BlockSize returns the block size in bytes.
func (c *Cipher) BlockSize() int { return c.blockSize }

// Salt returns the salt in effect, whether supplied or derived.
func (c *Cipher) Salt() []byte { return append([]byte(nil), c.salt...) }

// KDF exposes the owned key derivation component, for callers that need a
// keystream fingerprint or explicit reset. Touching it between construction
// and Encrypt violates the state contract.
func (c *Cipher) KDF() *ckdf.KDF { return c.kdf }
