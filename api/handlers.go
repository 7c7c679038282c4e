package api

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"unicode/utf8"

	"github.com/vivekjain488/Butterfly/chaos"
	"github.com/vivekjain488/Butterfly/cipher"
	"github.com/vivekjain488/Butterfly/ckdf"
	"github.com/vivekjain488/Butterfly/metrics"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "healthy",
		Service: "Butterfly API",
		Version: Version,
	})
}

// kdfConfig assembles a KDF configuration from wire params and mixing.
func (s *Server) kdfConfig(paramsMap map[string]float64, mixing []float64) (ckdf.Config, error) {
	params, err := paramsFromMap(paramsMap)
	if err != nil {
		return ckdf.Config{}, err
	}
	mix, err := mixingFromSlice(mixing)
	if err != nil {
		return ckdf.Config{}, err
	}
	return ckdf.Config{Params: params, Mixing: mix, BurnIn: s.burnIn}, nil
}

func (s *Server) cipherConfig(paramsMap map[string]float64, mixing []float64) (cipher.Config, error) {
	kdfCfg, err := s.kdfConfig(paramsMap, mixing)
	if err != nil {
		return cipher.Config{}, err
	}
	return cipher.Config{BlockSize: cipher.DefaultBlockSize, KDF: kdfCfg}, nil
}

// resolveSalt decodes a base64 salt, or derives one from the seed when the
// field is absent (the documented predictable-salt fallback).
func resolveSalt(saltB64, seed string) ([]byte, error) {
	if saltB64 == "" {
		return cipher.DeriveSalt([]byte(seed)), nil
	}
	salt, err := base64.StdEncoding.DecodeString(saltB64)
	if err != nil {
		return nil, fmt.Errorf("salt is not valid base64: %w", err)
	}
	return salt, nil
}

func (s *Server) handleDeriveKey(w http.ResponseWriter, r *http.Request) {
	var req deriveKeyRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if req.Seed == "" {
		writeError(w, http.StatusBadRequest, errors.New("seed is required"))
		return
	}
	if req.KeyLength == 0 {
		req.KeyLength = 32
	}

	salt, err := resolveSalt(req.Salt, req.Seed)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	cfg, err := s.kdfConfig(req.Params, req.Mixing)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	kdf, err := ckdf.NewWithConfig([]byte(req.Seed), salt, cfg)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	key, err := kdf.DeriveKey(req.KeyLength, nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	mix := kdf.Mixing()
	writeJSON(w, http.StatusOK, deriveKeyResponse{
		Key:        base64.StdEncoding.EncodeToString(key),
		KeyLength:  len(key),
		ParamsUsed: paramsToMap(kdf.Params()),
		MixingUsed: []float64{mix.Alpha, mix.Beta, mix.Gamma, mix.Delta},
	})
}

func (s *Server) handleEncrypt(w http.ResponseWriter, r *http.Request) {
	var req encryptRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if req.Plaintext == "" || req.Seed == "" {
		writeError(w, http.StatusBadRequest, errors.New("plaintext and seed required"))
		return
	}

	var plaintext []byte
	if req.Mode == "binary" {
		var err error
		plaintext, err = base64.StdEncoding.DecodeString(req.Plaintext)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("plaintext is not valid base64: %w", err))
			return
		}
	} else {
		plaintext = []byte(req.Plaintext)
	}

	cfg, err := s.cipherConfig(req.Params, req.Mixing)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	engine, err := cipher.NewWithConfig([]byte(req.Seed), nil, cfg)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	ciphertext, err := engine.Encrypt(plaintext)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	// Keystream fingerprint for client-side verification; drawn after
	// encryption, so it commits to the engine's post-encryption state.
	sample, err := engine.KDF().DeriveKeystream(32, true)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	digest := sha256.Sum256(sample)

	writeJSON(w, http.StatusOK, encryptResponse{
		Ciphertext:       base64.StdEncoding.EncodeToString(ciphertext),
		CiphertextLength: len(ciphertext),
		KeystreamHash:    hex.EncodeToString(digest[:]),
		ParamsUsed:       paramsToMap(engine.KDF().Params()),
	})
}

func (s *Server) handleDecrypt(w http.ResponseWriter, r *http.Request) {
	var req decryptRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if req.Ciphertext == "" || req.Seed == "" {
		writeError(w, http.StatusBadRequest, errors.New("ciphertext and seed required"))
		return
	}

	ciphertext, err := base64.StdEncoding.DecodeString(req.Ciphertext)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("ciphertext is not valid base64: %w", err))
		return
	}

	cfg, err := s.cipherConfig(req.Params, req.Mixing)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	engine, err := cipher.NewWithConfig([]byte(req.Seed), nil, cfg)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	plaintext, err := engine.Decrypt(ciphertext)
	if err != nil {
		// Wrong key, truncation, and tampering all surface here; there is
		// no authentication tag to catch them earlier.
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	if req.Mode == "binary" {
		writeJSON(w, http.StatusOK, decryptResponse{
			Plaintext:       base64.StdEncoding.EncodeToString(plaintext),
			PlaintextLength: len(plaintext),
		})
		return
	}
	if !utf8.Valid(plaintext) {
		writeError(w, http.StatusBadRequest, errors.New("decrypted data is not valid UTF-8"))
		return
	}
	writeJSON(w, http.StatusOK, decryptResponse{
		Plaintext:       string(plaintext),
		PlaintextLength: len(plaintext),
	})
}

// analysisBytes returns the payload to analyze: the supplied data, or a
// whitened keystream generated from the seed with a fixed analysis salt.
func (s *Server) analysisBytes(dataB64, seed string, length int, salt []byte, defaultSeed string, defaultLength int) ([]byte, error) {
	if dataB64 != "" {
		data, err := base64.StdEncoding.DecodeString(dataB64)
		if err != nil {
			return nil, fmt.Errorf("data is not valid base64: %w", err)
		}
		return data, nil
	}

	if seed == "" {
		seed = defaultSeed
	}
	if length <= 0 {
		length = defaultLength
	}

	cfg := ckdf.DefaultConfig()
	cfg.BurnIn = s.burnIn
	kdf, err := ckdf.NewWithConfig([]byte(seed), salt, cfg)
	if err != nil {
		return nil, err
	}
	return kdf.DeriveKeystream(length, false)
}

func (s *Server) handleEntropy(w http.ResponseWriter, r *http.Request) {
	var req entropyRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	data, err := s.analysisBytes(req.Data, req.Seed, req.Length, []byte("entropy_test_salt"), "default_seed", 1000)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	entropy := metrics.ShannonEntropy(data)
	blockEntropies := metrics.EntropyPerBlock(data, 16)
	if len(blockEntropies) > 20 {
		blockEntropies = blockEntropies[:20]
	}

	quality := "Poor"
	switch {
	case entropy >= 7.99:
		quality = "Excellent"
	case entropy >= 7.9:
		quality = "Good"
	}

	writeJSON(w, http.StatusOK, entropyResponse{
		Entropy:        entropy,
		Target:         8.0,
		Quality:        quality,
		SampleSize:     len(data),
		BlockEntropies: blockEntropies,
	})
}

func (s *Server) handleLyapunov(w http.ResponseWriter, r *http.Request) {
	var req lyapunovRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if req.Maps == nil {
		req.Maps = []string{"logistic", "henon"}
	}

	params, err := paramsFromMap(req.Params)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	results := make(map[string]lyapunovMapResult)
	for _, name := range req.Maps {
		switch name {
		case "logistic":
			lambda := metrics.LyapunovLogistic(params.LogisticR, 0.5, 5000)
			results["logistic"] = lyapunovMapResult{
				Lambda: lambda, Chaotic: lambda > 0, R: params.LogisticR,
			}
		case "henon":
			lambda := metrics.LyapunovHenon(params.HenonA, params.HenonB, 0.1, 0.1, 5000)
			results["henon"] = lyapunovMapResult{
				Lambda: lambda, Chaotic: lambda > 0, A: params.HenonA, B: params.HenonB,
			}
		case "lorenz":
			lambda := metrics.LyapunovLorenz(params.LorenzSigma, params.LorenzRho, params.LorenzBeta,
				1, 1, 1, chaos.LorenzDt, 5000)
			results["lorenz"] = lyapunovMapResult{
				Lambda: lambda, Chaotic: lambda > 0,
				Sigma: params.LorenzSigma, Rho: params.LorenzRho, Beta: params.LorenzBeta,
			}
		default:
			writeError(w, http.StatusBadRequest, fmt.Errorf("unknown map %q", name))
			return
		}
	}

	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleAvalanche(w http.ResponseWriter, r *http.Request) {
	var req avalancheRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if req.Seed == "" {
		req.Seed = "test_seed"
	}
	if req.Plaintext == "" {
		req.Plaintext = "Hello, Butterfly! This is a test message for avalanche effect analysis."
	}
	if req.NTrials <= 0 {
		req.NTrials = 50
	}

	cfg, err := s.cipherConfig(req.Params, nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	// Fresh engine per call so every ciphertext replays the same sequence.
	encrypt := func(pt []byte) ([]byte, error) {
		engine, err := cipher.NewWithConfig([]byte(req.Seed), nil, cfg)
		if err != nil {
			return nil, err
		}
		return engine.Encrypt(pt)
	}

	rng := rand.New(rand.NewSource(int64(len(req.Plaintext))*7919 + int64(req.NTrials)))
	result, err := metrics.Avalanche(encrypt, []byte(req.Plaintext), req.NTrials, rng)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	quality := "Poor"
	switch {
	case math.Abs(result.MeanFlipPercent-50) < 5:
		quality = "Excellent"
	case math.Abs(result.MeanFlipPercent-50) < 10:
		quality = "Good"
	}

	writeJSON(w, http.StatusOK, avalancheResponse{
		MeanFlipPercentage: result.MeanFlipPercent,
		StdFlipPercentage:  result.StdFlipPercent,
		MinFlip:            result.MinFlips,
		MaxFlip:            result.MaxFlips,
		TotalBits:          result.TotalBits,
		Target:             50.0,
		Quality:            quality,
	})
}

func (s *Server) handleStatistical(w http.ResponseWriter, r *http.Request) {
	var req statisticalRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	data, err := s.analysisBytes(req.Data, req.Seed, req.Length, []byte("statistical_test_salt"), "test_seed", 10000)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, metrics.RunSuite(data))
}

func (s *Server) handleAttractor(w http.ResponseWriter, r *http.Request) {
	var req attractorRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if req.NPoints <= 0 {
		req.NPoints = 1000
	}

	params, err := paramsFromMap(req.Params)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	mixing, err := mixingFromSlice(req.Mixing)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	hm, err := chaos.NewHybridMap(params, mixing, chaos.DefaultInitialConditions())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	trajectory := hm.AttractorData(req.NPoints)

	writeJSON(w, http.StatusOK, attractorResponse{
		Points:  trajectory,
		NPoints: len(trajectory),
		Params: map[string]float64{
			"sigma": params.LorenzSigma,
			"rho":   params.LorenzRho,
			"beta":  params.LorenzBeta,
		},
	})
}
