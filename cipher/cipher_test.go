package cipher

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivekjain488/Butterfly/ckdf"
)

// fastConfig trims the burn-in so round-trip sweeps stay quick. The cipher's
// correctness is independent of the burn-in count.
func fastConfig() Config {
	cfg := DefaultConfig()
	cfg.KDF.BurnIn = 32
	return cfg
}

func newFastCipher(t *testing.T, secret string) *Cipher {
	t.Helper()
	c, err := NewWithConfig([]byte(secret), nil, fastConfig())
	require.NoError(t, err)
	return c
}

func TestRoundTripScenario(t *testing.T) {
	plaintext := []byte("Hello, chaos cryptography!")
	secret := []byte("test_password_123")

	enc, err := New(secret, nil)
	require.NoError(t, err)
	ciphertext, err := enc.Encrypt(plaintext)
	require.NoError(t, err)

	require.NotEqual(t, plaintext, ciphertext[:len(plaintext)])
	assert.Equal(t, 32, len(ciphertext), "26 bytes pad to two 16-byte blocks")

	dec, err := New(secret, nil)
	require.NoError(t, err)
	recovered, err := dec.Decrypt(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, plaintext, recovered)

	// Wrong secret: different bytes, or an explicit padding error.
	wrong, err := New([]byte("wrong_password"), nil)
	require.NoError(t, err)
	garbage, err := wrong.Decrypt(ciphertext)
	if err != nil {
		assert.ErrorIs(t, err, ErrInvalidPadding)
	} else {
		assert.NotEqual(t, plaintext, garbage)
	}
}

func TestRoundTripLengths(t *testing.T) {
	for length := 0; length <= 64; length++ {
		data := make([]byte, length)
		for i := range data {
			data[i] = byte(i*7 + 13)
		}

		enc := newFastCipher(t, "length_sweep_secret")
		ct, err := enc.Encrypt(data)
		require.NoError(t, err, "length %d", length)

		wantBlocks := length/DefaultBlockSize + 1
		require.Len(t, ct, wantBlocks*DefaultBlockSize, "length %d", length)

		dec := newFastCipher(t, "length_sweep_secret")
		pt, err := dec.Decrypt(ct)
		require.NoError(t, err, "length %d", length)
		require.Equal(t, data, pt, "round trip failed at length %d", length)
	}
}

func TestDecryptResetsState(t *testing.T) {
	// Decrypt must work on the same engine that encrypted, because it resets
	// before replaying.
	c := newFastCipher(t, "shared_engine_secret")
	plaintext := []byte("stateful engines need the reset contract")

	ct, err := c.Encrypt(plaintext)
	require.NoError(t, err)

	pt, err := c.Decrypt(ct)
	require.NoError(t, err)
	assert.Equal(t, plaintext, pt)

	// And decrypting again still works: each Decrypt replays from the start.
	pt2, err := c.Decrypt(ct)
	require.NoError(t, err)
	assert.Equal(t, plaintext, pt2)
}

func TestEncryptTwiceOnOneEngineBreaksContract(t *testing.T) {
	c := newFastCipher(t, "contract_secret")
	plaintext := []byte("the engine is single-shot for encryption")

	ct1, err := c.Encrypt(plaintext)
	require.NoError(t, err)
	ct2, err := c.Encrypt(plaintext)
	require.NoError(t, err)

	// The second ciphertext comes from advanced state and is not the same
	// sequence Decrypt will replay.
	assert.NotEqual(t, ct1, ct2)

	pt, err := c.Decrypt(ct1)
	require.NoError(t, err)
	assert.Equal(t, plaintext, pt, "first ciphertext matches the replayed sequence")
}

func TestCiphertextLengthValidation(t *testing.T) {
	c := newFastCipher(t, "validation_secret")

	cases := []struct {
		name string
		ct   []byte
	}{
		{"Empty", nil},
		{"Partial block", make([]byte, 15)},
		{"Block and a half", make([]byte, 24)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.Decrypt(tc.ct)
			assert.ErrorIs(t, err, ErrCiphertextLength)
		})
	}
}

func TestPadUnpad(t *testing.T) {
	cases := []struct {
		name    string
		dataLen int
		padLen  int
	}{
		{"Empty input gets full block", 0, 16},
		{"One byte", 1, 15},
		{"Fifteen bytes", 15, 1},
		{"Aligned input gets full extra block", 16, 16},
		{"Seventeen bytes", 17, 15},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data := bytes.Repeat([]byte{0xAB}, tc.dataLen)
			padded := pad(data, 16)

			require.Equal(t, 0, len(padded)%16)
			assert.Equal(t, byte(tc.padLen), padded[len(padded)-1])

			recovered, err := unpad(padded, 16)
			require.NoError(t, err)
			assert.Equal(t, data, recovered)
		})
	}
}

func TestUnpadRejectsCorruptLengths(t *testing.T) {
	cases := []struct {
		name string
		data []byte
	}{
		{"Zero pad byte", append(bytes.Repeat([]byte{1}, 15), 0)},
		{"Pad beyond block size", append(bytes.Repeat([]byte{1}, 15), 17)},
		{"Pad beyond buffer", []byte{200}},
		{"Empty", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := unpad(tc.data, 16)
			assert.ErrorIs(t, err, ErrInvalidPadding)
		})
	}
}

func TestDefaultSaltIsDerivedFromSecret(t *testing.T) {
	secret := []byte("predictable_salt_secret")

	c1 := newFastCipher(t, string(secret))
	c2 := newFastCipher(t, string(secret))
	assert.Equal(t, c1.Salt(), c2.Salt(), "derived salt is deterministic")
	assert.Equal(t, DeriveSalt(secret), c1.Salt())
	assert.Len(t, c1.Salt(), 16)

	// Consequence of the footgun: identical plaintext+secret gives identical
	// ciphertext across fresh engines.
	pt := []byte("same in, same out")
	ct1, err := c1.Encrypt(pt)
	require.NoError(t, err)
	ct2, err := c2.Encrypt(pt)
	require.NoError(t, err)
	assert.Equal(t, ct1, ct2)
}

func TestExplicitSaltChangesCiphertext(t *testing.T) {
	cfg := fastConfig()
	secret := []byte("salted_secret")
	pt := []byte("salt separates ciphertexts")

	c1, err := NewWithConfig(secret, []byte("first_salt_16_b!"), cfg)
	require.NoError(t, err)
	c2, err := NewWithConfig(secret, []byte("second_salt_16b!"), cfg)
	require.NoError(t, err)

	ct1, err := c1.Encrypt(pt)
	require.NoError(t, err)
	ct2, err := c2.Encrypt(pt)
	require.NoError(t, err)
	assert.NotEqual(t, ct1, ct2)
}

func TestShortSaltRejected(t *testing.T) {
	_, err := New([]byte("secret"), []byte("short"))
	assert.ErrorIs(t, err, ckdf.ErrSaltTooShort)
}

func TestCustomBlockSize(t *testing.T) {
	cfg := fastConfig()
	cfg.BlockSize = 8

	enc, err := NewWithConfig([]byte("secret"), nil, cfg)
	require.NoError(t, err)
	ct, err := enc.Encrypt([]byte("block size eight"))
	require.NoError(t, err)
	require.Equal(t, 0, len(ct)%8)

	dec, err := NewWithConfig([]byte("secret"), nil, cfg)
	require.NoError(t, err)
	pt, err := dec.Decrypt(ct)
	require.NoError(t, err)
	assert.Equal(t, []byte("block size eight"), pt)
}

func TestBinaryPlaintextRoundTrip(t *testing.T) {
	data := make([]byte, 257)
	for i := range data {
		data[i] = byte(255 - i%256)
	}

	enc := newFastCipher(t, "binary_secret")
	ct, err := enc.Encrypt(data)
	require.NoError(t, err)

	dec := newFastCipher(t, "binary_secret")
	pt, err := dec.Decrypt(ct)
	require.NoError(t, err)
	assert.Equal(t, data, pt)
}

func BenchmarkEncryptBlock(b *testing.B) {
	cfg := DefaultConfig()
	cfg.KDF.BurnIn = 32
	c, err := NewWithConfig([]byte("bench_secret"), nil, cfg)
	if err != nil {
		b.Fatal(err)
	}
	block := bytes.Repeat([]byte{0x5A}, 16)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Encrypt(block); err != nil {
			b.Fatal(err)
		}
	}
}
