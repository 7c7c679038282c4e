package ckdf

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivekjain488/Butterfly/chaos"
)

var testSalt = []byte("random_salt_16++")

// fastConfig keeps derivation cheap in tests; determinism properties do not
// depend on the burn-in count.
func fastConfig() Config {
	cfg := DefaultConfig()
	cfg.BurnIn = 64
	return cfg
}

func TestSaltValidation(t *testing.T) {
	cases := []struct {
		name      string
		salt      []byte
		wantError bool
	}{
		{"Exactly 16 bytes", []byte("0123456789abcdef"), false},
		{"Longer salt", []byte("0123456789abcdef0123"), false},
		{"15 bytes", []byte("0123456789abcde"), true},
		{"Empty", nil, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New([]byte("secret"), tc.salt)
			if tc.wantError {
				assert.ErrorIs(t, err, ErrSaltTooShort)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestInitialConditionsFromPreseedRanges(t *testing.T) {
	// Extremal preseeds must map strictly inside every map's domain.
	allZero := make([]byte, 64)
	allOnes := bytes.Repeat([]byte{0xff}, 64)

	for _, preseed := range [][]byte{allZero, allOnes} {
		ic := initialConditionsFromPreseed(preseed)

		assert.GreaterOrEqual(t, ic.LogisticX0, 0.1)
		assert.Less(t, ic.LogisticX0, 0.9)
		assert.GreaterOrEqual(t, ic.HenonX0, -0.2)
		assert.Less(t, ic.HenonX0, 0.2)
		assert.GreaterOrEqual(t, ic.LorenzX0, -10.0)
		assert.Less(t, ic.LorenzX0, 10.0)
		assert.GreaterOrEqual(t, ic.LorenzZ0, 5.0)
		assert.Less(t, ic.LorenzZ0, 45.0)
		assert.GreaterOrEqual(t, ic.SineX0, 0.1)
		assert.Less(t, ic.SineX0, 0.9)
	}
}

// Concrete scenario: two independent derivations under the documented
// secret/salt pair must agree byte for byte.
func TestDeriveKeyDeterminism(t *testing.T) {
	secret := []byte("my_super_secret_password")

	kdf1, err := New(secret, testSalt)
	require.NoError(t, err)
	key1, err := kdf1.DeriveKey(32, nil)
	require.NoError(t, err)

	kdf2, err := New(secret, testSalt)
	require.NoError(t, err)
	key2, err := kdf2.DeriveKey(32, nil)
	require.NoError(t, err)

	require.Len(t, key1, 32)
	assert.Equal(t, key1, key2, "independent KDF instances must derive identical keys")
}

func TestDeriveKeyLengths(t *testing.T) {
	kdf, err := NewWithConfig([]byte("secret"), testSalt, fastConfig())
	require.NoError(t, err)

	for _, n := range []int{1, 16, 32, 64, 257} {
		key, err := kdf.DeriveKey(n, nil)
		require.NoError(t, err)
		assert.Len(t, key, n)
	}

	_, err = kdf.DeriveKey(0, nil)
	assert.ErrorIs(t, err, ErrInvalidLength)
	_, err = kdf.DeriveKey(-5, nil)
	assert.ErrorIs(t, err, ErrInvalidLength)
}

func TestDeriveKeySecretSensitivity(t *testing.T) {
	cfg := fastConfig()

	kdf1, err := NewWithConfig([]byte("my_super_secret_password"), testSalt, cfg)
	require.NoError(t, err)
	key1, err := kdf1.DeriveKey(32, nil)
	require.NoError(t, err)

	// One character changed.
	kdf2, err := NewWithConfig([]byte("my_super_secret_passwore"), testSalt, cfg)
	require.NoError(t, err)
	key2, err := kdf2.DeriveKey(32, nil)
	require.NoError(t, err)

	require.NotEqual(t, key1, key2)

	differing := 0
	for i := range key1 {
		if key1[i] != key2[i] {
			differing++
		}
	}
	// HKDF whitening makes near-collisions astronomically unlikely; require a
	// non-trivial fraction without pinning an exact threshold.
	assert.Greater(t, differing, 8, "only %d/32 bytes differ after a one-character secret change", differing)
}

func TestDeriveKeyInfoSeparation(t *testing.T) {
	cfg := fastConfig()

	kdf1, err := NewWithConfig([]byte("secret"), testSalt, cfg)
	require.NoError(t, err)
	keyA, err := kdf1.DeriveKey(32, []byte("context-a"))
	require.NoError(t, err)

	kdf2, err := NewWithConfig([]byte("secret"), testSalt, cfg)
	require.NoError(t, err)
	keyB, err := kdf2.DeriveKey(32, []byte("context-b"))
	require.NoError(t, err)

	assert.NotEqual(t, keyA, keyB, "different HKDF contexts must separate keys")
}

func TestDeriveKeystreamRawVersusWhitened(t *testing.T) {
	cfg := fastConfig()

	kdf1, err := NewWithConfig([]byte("secret"), testSalt, cfg)
	require.NoError(t, err)
	raw, err := kdf1.DeriveKeystream(256, true)
	require.NoError(t, err)

	kdf2, err := NewWithConfig([]byte("secret"), testSalt, cfg)
	require.NoError(t, err)
	white, err := kdf2.DeriveKeystream(256, false)
	require.NoError(t, err)

	require.Len(t, raw, 256)
	require.Len(t, white, 256)
	assert.NotEqual(t, raw, white, "whitening must transform the raw stream")
}

func TestDeriveKeystreamChunking(t *testing.T) {
	cfg := fastConfig()
	kdf, err := NewWithConfig([]byte("secret"), testSalt, cfg)
	require.NoError(t, err)

	// Crosses the 8160-byte HKDF single-call limit.
	long, err := kdf.DeriveKeystream(maxHKDFOutput+512, false)
	require.NoError(t, err)
	require.Len(t, long, maxHKDFOutput+512)

	// Deterministic across instances despite chunking.
	kdf2, err := NewWithConfig([]byte("secret"), testSalt, cfg)
	require.NoError(t, err)
	long2, err := kdf2.DeriveKeystream(maxHKDFOutput+512, false)
	require.NoError(t, err)
	assert.Equal(t, long, long2)
}

func TestResetReplaysDerivations(t *testing.T) {
	cfg := fastConfig()
	kdf, err := NewWithConfig([]byte("secret"), testSalt, cfg)
	require.NoError(t, err)

	ks1, err := kdf.DeriveKeystream(64, false)
	require.NoError(t, err)
	perm1 := kdf.GeneratePermutation(16)

	// Consume more state, then reset.
	_, err = kdf.DeriveKey(32, nil)
	require.NoError(t, err)
	kdf.GeneratePermutation(16)

	kdf.Reset()

	ks2, err := kdf.DeriveKeystream(64, false)
	require.NoError(t, err)
	perm2 := kdf.GeneratePermutation(16)

	assert.Equal(t, ks1, ks2)
	assert.Equal(t, perm1, perm2)
}

func TestKeystreamEntropy(t *testing.T) {
	if testing.Short() {
		t.Skip("entropy measurement uses the full burn-in")
	}

	kdf, err := New([]byte("entropy_measurement_seed"), testSalt)
	require.NoError(t, err)

	stream, err := kdf.DeriveKeystream(10000, false)
	require.NoError(t, err)

	var counts [256]int
	for _, b := range stream {
		counts[b]++
	}
	entropy := 0.0
	n := float64(len(stream))
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / n
		entropy -= p * math.Log2(p)
	}
	assert.GreaterOrEqual(t, entropy, 7.9, "whitened keystream entropy below 7.9 bits/byte")
}

func TestStateAdvancesAcrossCalls(t *testing.T) {
	cfg := fastConfig()
	kdf, err := NewWithConfig([]byte("secret"), testSalt, cfg)
	require.NoError(t, err)

	ks1, err := kdf.DeriveKeystream(64, true)
	require.NoError(t, err)
	ks2, err := kdf.DeriveKeystream(64, true)
	require.NoError(t, err)
	assert.NotEqual(t, ks1, ks2, "successive derivations consume trajectory")
}

func TestDifferentSaltDifferentConditions(t *testing.T) {
	cfg := fastConfig()

	kdf1, err := NewWithConfig([]byte("secret"), []byte("salt_number_one!"), cfg)
	require.NoError(t, err)
	kdf2, err := NewWithConfig([]byte("secret"), []byte("salt_number_two!"), cfg)
	require.NoError(t, err)

	key1, err := kdf1.DeriveKey(32, nil)
	require.NoError(t, err)
	key2, err := kdf2.DeriveKey(32, nil)
	require.NoError(t, err)

	assert.NotEqual(t, key1, key2)
}

func TestConfigMixingAffectsOutput(t *testing.T) {
	cfgA := fastConfig()

	cfgB := fastConfig()
	mix, err := chaos.NewMixing(0.6, 0.2, 0.1, 0.1)
	require.NoError(t, err)
	cfgB.Mixing = mix

	kdfA, err := NewWithConfig([]byte("secret"), testSalt, cfgA)
	require.NoError(t, err)
	kdfB, err := NewWithConfig([]byte("secret"), testSalt, cfgB)
	require.NoError(t, err)

	keyA, err := kdfA.DeriveKey(32, nil)
	require.NoError(t, err)
	keyB, err := kdfB.DeriveKey(32, nil)
	require.NoError(t, err)

	assert.NotEqual(t, keyA, keyB)
}
