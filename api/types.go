package api

import (
	"fmt"

	"github.com/vivekjain488/Butterfly/chaos"
)

// Recognized parameter keys on the wire.
const (
	paramLogisticR   = "logistic_r"
	paramHenonA      = "henon_a"
	paramHenonB      = "henon_b"
	paramLorenzSigma = "lorenz_sigma"
	paramLorenzRho   = "lorenz_rho"
	paramLorenzBeta  = "lorenz_beta"
	paramSineMu      = "sine_mu"
)

// paramsFromMap overlays wire parameters onto the defaults. Unknown keys are
// rejected so typos fail loudly instead of silently using a default.
func paramsFromMap(m map[string]float64) (chaos.Params, error) {
	p := chaos.DefaultParams()
	for key, value := range m {
		switch key {
		case paramLogisticR:
			p.LogisticR = value
		case paramHenonA:
			p.HenonA = value
		case paramHenonB:
			p.HenonB = value
		case paramLorenzSigma:
			p.LorenzSigma = value
		case paramLorenzRho:
			p.LorenzRho = value
		case paramLorenzBeta:
			p.LorenzBeta = value
		case paramSineMu:
			p.SineMu = value
		default:
			return chaos.Params{}, fmt.Errorf("unrecognized parameter %q", key)
		}
	}
	return p, nil
}

// paramsToMap serializes a parameter set for params_used response fields.
func paramsToMap(p chaos.Params) map[string]float64 {
	return map[string]float64{
		paramLogisticR:   p.LogisticR,
		paramHenonA:      p.HenonA,
		paramHenonB:      p.HenonB,
		paramLorenzSigma: p.LorenzSigma,
		paramLorenzRho:   p.LorenzRho,
		paramLorenzBeta:  p.LorenzBeta,
		paramSineMu:      p.SineMu,
	}
}

// mixingFromSlice converts the wire four-tuple, applying normalization.
func mixingFromSlice(weights []float64) (chaos.Mixing, error) {
	if weights == nil {
		return chaos.DefaultMixing(), nil
	}
	if len(weights) != 4 {
		return chaos.Mixing{}, fmt.Errorf("mixing must have exactly 4 weights, got %d", len(weights))
	}
	return chaos.NewMixing(weights[0], weights[1], weights[2], weights[3])
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type deriveKeyRequest struct {
	Seed      string             `json:"seed"`
	Salt      string             `json:"salt,omitempty"` // base64
	KeyLength int                `json:"key_length"`
	Params    map[string]float64 `json:"params,omitempty"`
	Mixing    []float64          `json:"mixing,omitempty"`
}

type deriveKeyResponse struct {
	Key        string             `json:"key"` // base64
	KeyLength  int                `json:"key_length"`
	ParamsUsed map[string]float64 `json:"params_used"`
	MixingUsed []float64          `json:"mixing_used"`
}

type encryptRequest struct {
	Plaintext string             `json:"plaintext"`
	Seed      string             `json:"seed"`
	Mode      string             `json:"mode,omitempty"` // "text" (default) or "binary"
	Params    map[string]float64 `json:"params,omitempty"`
	Mixing    []float64          `json:"mixing,omitempty"`
}

type encryptResponse struct {
	Ciphertext       string             `json:"ciphertext"` // base64
	CiphertextLength int                `json:"ciphertext_length"`
	KeystreamHash    string             `json:"keystream_hash"` // hex
	ParamsUsed       map[string]float64 `json:"params_used"`
}

type decryptRequest struct {
	Ciphertext string             `json:"ciphertext"` // base64
	Seed       string             `json:"seed"`
	Mode       string             `json:"mode,omitempty"`
	Params     map[string]float64 `json:"params,omitempty"`
	Mixing     []float64          `json:"mixing,omitempty"`
}

type decryptResponse struct {
	Plaintext       string `json:"plaintext"` // text or base64 per mode
	PlaintextLength int    `json:"plaintext_length"`
}

type entropyRequest struct {
	Data   string `json:"data,omitempty"` // base64; analyzed directly when present
	Seed   string `json:"seed,omitempty"`
	Length int    `json:"length,omitempty"`
}

type entropyResponse struct {
	Entropy        float64   `json:"entropy"`
	Target         float64   `json:"target"`
	Quality        string    `json:"quality"`
	SampleSize     int       `json:"sample_size"`
	BlockEntropies []float64 `json:"block_entropies"`
}

type lyapunovRequest struct {
	Maps   []string           `json:"maps,omitempty"`
	Params map[string]float64 `json:"params,omitempty"`
}

type lyapunovMapResult struct {
	Lambda  float64 `json:"lambda"`
	Chaotic bool    `json:"chaotic"`
	R       float64 `json:"r,omitempty"`
	A       float64 `json:"a,omitempty"`
	B       float64 `json:"b,omitempty"`
	Sigma   float64 `json:"sigma,omitempty"`
	Rho     float64 `json:"rho,omitempty"`
	Beta    float64 `json:"beta,omitempty"`
}

type avalancheRequest struct {
	Seed      string             `json:"seed,omitempty"`
	Plaintext string             `json:"plaintext,omitempty"`
	NTrials   int                `json:"n_trials,omitempty"`
	Params    map[string]float64 `json:"params,omitempty"`
}

type avalancheResponse struct {
	MeanFlipPercentage float64 `json:"mean_flip_percentage"`
	StdFlipPercentage  float64 `json:"std_flip_percentage"`
	MinFlip            int     `json:"min_flip"`
	MaxFlip            int     `json:"max_flip"`
	TotalBits          int     `json:"total_bits"`
	Target             float64 `json:"target"`
	Quality            string  `json:"quality"`
}

type statisticalRequest struct {
	Data   string `json:"data,omitempty"` // base64
	Seed   string `json:"seed,omitempty"`
	Length int    `json:"length,omitempty"`
}

type attractorRequest struct {
	NPoints int                `json:"n_points,omitempty"`
	Params  map[string]float64 `json:"params,omitempty"`
	Mixing  []float64          `json:"mixing,omitempty"`
}

type attractorResponse struct {
	Points  [][3]float64       `json:"points"`
	NPoints int                `json:"n_points"`
	Params  map[string]float64 `json:"params"`
}
