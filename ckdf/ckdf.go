package ckdf

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/hkdf"

	"github.com/vivekjain488/Butterfly/chaos"
)

// MinSaltLength is the minimum accepted salt size in bytes.
const MinSaltLength = 16

// maxHKDFOutput is HKDF-SHA256's single-call expansion limit (255 blocks of
// the hash size). Longer whitened keystreams are produced by chunking.
const maxHKDFOutput = 255 * sha256.Size

// DefaultKeyInfo is the HKDF context used by DeriveKey when none is given.
var DefaultKeyInfo = []byte("Butterfly-crypto-key")

// keystreamInfo is the fixed HKDF context for whitened keystreams.
var keystreamInfo = []byte("keystream")

// ErrSaltTooShort is returned when the salt is under MinSaltLength bytes.
var ErrSaltTooShort = errors.New("salt must be at least 16 bytes")

// ErrInvalidLength is returned for non-positive output length requests.
var ErrInvalidLength = errors.New("requested length must be positive")

// Config carries the tunable knobs of a KDF. The zero value is not usable;
// start from DefaultConfig.
type Config struct {
	Params chaos.Params
	Mixing chaos.Mixing
	BurnIn int
}

// DefaultConfig returns the documented defaults: chaotic-regime parameters,
// equal mixing weights, 4096-step burn-in.
func DefaultConfig() Config {
	return Config{
		Params: chaos.DefaultParams(),
		Mixing: chaos.DefaultMixing(),
		BurnIn: chaos.DefaultBurnIn,
	}
}

// KDF derives key material from a secret and salt through a hybrid chaotic
// composer. Not safe for concurrent use.
type KDF struct {
	secret []byte
	salt   []byte
	burnIn int
	hybrid *chaos.HybridMap
}

// New builds a KDF with the default configuration.
func New(secret, salt []byte) (*KDF, error) {
	return NewWithConfig(secret, salt, DefaultConfig())
}

// NewWithConfig builds a KDF. The salt must be at least 16 bytes. The secret
// and salt are keyed through HMAC-SHA512 to produce the composer's initial
// conditions, so construction cost includes no chaotic iteration; burn-in
// happens per derivation call.
func NewWithConfig(secret, salt []byte, cfg Config) (*KDF, error) {
	if len(salt) < MinSaltLength {
		return nil, fmt.Errorf("%w: got %d", ErrSaltTooShort, len(salt))
	}
	if cfg.BurnIn < 0 {
		return nil, fmt.Errorf("burn-in must be non-negative, got %d", cfg.BurnIn)
	}

	mac := hmac.New(sha512.New, salt)
	mac.Write(secret)
	preseed := mac.Sum(nil)

	ic := initialConditionsFromPreseed(preseed)
	hybrid, err := chaos.NewHybridMap(cfg.Params, cfg.Mixing, ic)
	if err != nil {
		return nil, fmt.Errorf("seeding hybrid map: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"function":  "NewWithConfig",
		"package":   "ckdf",
		"salt_size": len(salt),
		"burn_in":   cfg.BurnIn,
	}).Debug("Chaotic KDF constructed")

	return &KDF{
		secret: append([]byte(nil), secret...),
		salt:   append([]byte(nil), salt...),
		burnIn: cfg.BurnIn,
		hybrid: hybrid,
	}, nil
}

// twoPow64 normalizes 64-bit preseed words into [0,1).
const twoPow64 = 1 << 64

// initialConditionsFromPreseed maps the 64-byte HMAC output onto the seven
// initial conditions, each scaled into its map's documented seeding range.
func initialConditionsFromPreseed(preseed []byte) chaos.InitialConditions {
	word := func(off int) float64 {
		u := binary.BigEndian.Uint64(preseed[off : off+8])
		return float64(u) / twoPow64
	}
	return chaos.InitialConditions{
		LogisticX0: word(0)*0.8 + 0.1,  // [0.1, 0.9]
		HenonX0:    word(8)*0.4 - 0.2,  // [-0.2, 0.2]
		HenonY0:    word(16)*0.4 - 0.2, // [-0.2, 0.2]
		LorenzX0:   word(24)*20 - 10,   // [-10, 10]
		LorenzY0:   word(32)*20 - 10,   // [-10, 10]
		LorenzZ0:   word(40)*40 + 5,    // [5, 45]
		SineX0:     word(48)*0.8 + 0.1, // [0.1, 0.9]
	}
}

// DeriveKey produces length bytes of whitened key material. The composer
// generates a raw keystream of twice the requested length (with burn-in),
// which HKDF-SHA256 extracts and expands using the construction salt and the
// supplied context. A nil info falls back to DefaultKeyInfo.
func (k *KDF) DeriveKey(length int, info []byte) ([]byte, error) {
	if length <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, length)
	}
	if length > maxHKDFOutput {
		return nil, fmt.Errorf("key length %d exceeds HKDF-SHA256 limit %d", length, maxHKDFOutput)
	}
	if info == nil {
		info = DefaultKeyInfo
	}

	raw := k.hybrid.GenerateKeystream(2*length, k.burnIn)

	out := make([]byte, length)
	if _, err := io.ReadFull(hkdf.New(sha256.New, raw, k.salt, info), out); err != nil {
		return nil, fmt.Errorf("hkdf expansion failed: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"function":   "DeriveKey",
		"package":    "ckdf",
		"key_length": length,
	}).Debug("Key derived")

	return out, nil
}

// DeriveKeystream produces length bytes of keystream. With raw set, the
// unwhitened chaotic bytes are returned directly. Otherwise each chunk of at
// most 8160 bytes is independently whitened with HKDF-SHA256 under the same
// salt and context; continuity across chunk boundaries is therefore not
// cryptographically linked.
func (k *KDF) DeriveKeystream(length int, raw bool) ([]byte, error) {
	if length <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, length)
	}

	stream := k.hybrid.GenerateKeystream(length, k.burnIn)
	if raw {
		return stream, nil
	}

	out := make([]byte, 0, length)
	for start := 0; start < length; start += maxHKDFOutput {
		end := start + maxHKDFOutput
		if end > length {
			end = length
		}
		chunk := make([]byte, end-start)
		if _, err := io.ReadFull(hkdf.New(sha256.New, stream[start:end], k.salt, keystreamInfo), chunk); err != nil {
			return nil, fmt.Errorf("hkdf expansion failed: %w", err)
		}
		out = append(out, chunk...)
	}
	return out, nil
}

// GeneratePermutation derives an n-element permutation from the composer,
// consuming its state. Exposed for the block cipher's permutation stage.
func (k *KDF) GeneratePermutation(n int) []int {
	return k.hybrid.GeneratePermutation(n)
}

// Reset restores the composer to its secret-derived initial conditions. The
// HMAC preprocessing is not re-run; reset cost is constant regardless of how
// much trajectory was consumed.
func (k *KDF) Reset() {
	k.hybrid.Reset()
}

// Salt returns the construction salt.
func (k *KDF) Salt() []byte { return append([]byte(nil), k.salt...) }

// Params returns the parameter set in effect.
func (k *KDF) Params() chaos.Params { return k.hybrid.Params() }

// Mixing returns the normalized mixing weights in effect.
func (k *KDF) Mixing() chaos.Mixing { return k.hybrid.Mixing() }

// BurnIn returns the per-derivation burn-in step count.
func (k *KDF) BurnIn() int { return k.burnIn }
