package metrics

import (
	"fmt"
	"math/bits"
	"math/rand"

	"gonum.org/v1/gonum/stat"
)

// EncryptFunc encrypts a plaintext with a fresh engine. Avalanche measurement
// needs a fresh engine per call so every ciphertext starts from the same
// chaotic state.
type EncryptFunc func(plaintext []byte) ([]byte, error)

// AvalancheResult summarizes how ciphertext bits respond to single-bit
// plaintext changes. A strong cipher flips about 50% of them.
type AvalancheResult struct {
	MeanFlipPercent float64 `json:"mean_flip_percentage"`
	StdFlipPercent  float64 `json:"std_flip_percentage"`
	MinFlips        int     `json:"min_flip"`
	MaxFlips        int     `json:"max_flip"`
	TotalBits       int     `json:"total_bits"`
	Trials          int     `json:"trials"`
}

// Avalanche flips one random plaintext bit per trial and measures the
// Hamming distance between the resulting ciphertext and the unmodified
// baseline. The rng drives only which bit is flipped, not the cipher.
func Avalanche(encrypt EncryptFunc, plaintext []byte, trials int, rng *rand.Rand) (*AvalancheResult, error) {
	if len(plaintext) == 0 {
		return nil, fmt.Errorf("plaintext must not be empty")
	}
	if trials <= 0 {
		return nil, fmt.Errorf("trials must be positive, got %d", trials)
	}

	baseline, err := encrypt(plaintext)
	if err != nil {
		return nil, fmt.Errorf("encrypting baseline: %w", err)
	}
	totalBits := len(baseline) * 8

	flips := make([]float64, 0, trials)
	minFlips, maxFlips := totalBits+1, -1

	for trial := 0; trial < trials; trial++ {
		modified := append([]byte(nil), plaintext...)
		bitIndex := rng.Intn(len(plaintext) * 8)
		modified[bitIndex/8] ^= 1 << (7 - bitIndex%8)

		ct, err := encrypt(modified)
		if err != nil {
			return nil, fmt.Errorf("encrypting trial %d: %w", trial, err)
		}

		diff := 0
		limit := len(ct)
		if len(baseline) < limit {
			limit = len(baseline)
		}
		for i := 0; i < limit; i++ {
			diff += bits.OnesCount8(baseline[i] ^ ct[i])
		}

		flips = append(flips, float64(diff))
		if diff < minFlips {
			minFlips = diff
		}
		if diff > maxFlips {
			maxFlips = diff
		}
	}

	mean, std := stat.MeanStdDev(flips, nil)
	scale := 100 / float64(totalBits)

	return &AvalancheResult{
		MeanFlipPercent: mean * scale,
		StdFlipPercent:  std * scale,
		MinFlips:        minFlips,
		MaxFlips:        maxFlips,
		TotalBits:       totalBits,
		Trials:          trials,
	}, nil
}
