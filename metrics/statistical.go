package metrics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultAlpha is the significance level for pass/fail decisions.
const DefaultAlpha = 0.01

// TestResult reports one statistical test.
type TestResult struct {
	Name        string  `json:"test_name"`
	Statistic   float64 `json:"statistic"`
	PValue      float64 `json:"p_value"`
	Threshold   float64 `json:"threshold,omitempty"`
	Passed      bool    `json:"passed"`
	Description string  `json:"description"`
}

// SuiteSummary aggregates pass counts for a battery run.
type SuiteSummary struct {
	TotalTests int     `json:"total_tests"`
	Passed     int     `json:"passed"`
	Failed     int     `json:"failed"`
	PassRate   float64 `json:"pass_rate"`
}

// SuiteResult is the output of RunSuite.
type SuiteResult struct {
	Frequency       TestResult   `json:"frequency"`
	Runs            TestResult   `json:"runs"`
	ChiSquare       TestResult   `json:"chi_square"`
	Autocorrelation TestResult   `json:"autocorrelation"`
	Serial2Bit      TestResult   `json:"serial_2bit"`
	Serial3Bit      TestResult   `json:"serial_3bit"`
	Summary         SuiteSummary `json:"summary"`
}

// unpackBits expands data into one byte (0 or 1) per bit, MSB first.
func unpackBits(data []byte) []byte {
	bits := make([]byte, 0, len(data)*8)
	for _, b := range data {
		for shift := 7; shift >= 0; shift-- {
			bits = append(bits, (b>>shift)&1)
		}
	}
	return bits
}

// FrequencyTest is the NIST monobit test: the count of ones and zeros in a
// bit sequence should be approximately equal.
func FrequencyTest(bits []byte, alpha float64) TestResult {
	n := len(bits)
	ones := 0
	for _, b := range bits {
		ones += int(b)
	}

	s := math.Abs(float64(2*ones - n))
	sObs := s / math.Sqrt(float64(n))
	pValue := math.Erfc(sObs / math.Sqrt2)

	return TestResult{
		Name:        "Frequency (Monobit) Test",
		Statistic:   sObs,
		PValue:      pValue,
		Passed:      pValue >= alpha,
		Description: fmt.Sprintf("Tests if #0s ~ #1s (p=%.4f, threshold=%g)", pValue, alpha),
	}
}

// RunsTest checks the number of runs (maximal same-value stretches) against
// the expectation for independent bits. Its pre-test fails sequences whose
// bit frequency is already too skewed.
func RunsTest(bits []byte, alpha float64) TestResult {
	n := len(bits)
	ones := 0
	for _, b := range bits {
		ones += int(b)
	}
	pi := float64(ones) / float64(n)

	if math.Abs(pi-0.5) >= 2/math.Sqrt(float64(n)) {
		return TestResult{
			Name:        "Runs Test",
			PValue:      0,
			Passed:      false,
			Description: "Failed pre-test: frequency too far from 0.5",
		}
	}

	runs := 1
	for i := 1; i < n; i++ {
		if bits[i] != bits[i-1] {
			runs++
		}
	}

	numerator := math.Abs(float64(runs) - 2*float64(n)*pi*(1-pi))
	denominator := 2 * math.Sqrt(2*float64(n)) * pi * (1 - pi)
	vObs := 0.0
	if denominator != 0 {
		vObs = numerator / denominator
	}
	pValue := math.Erfc(vObs / math.Sqrt2)

	return TestResult{
		Name:        "Runs Test",
		Statistic:   vObs,
		PValue:      pValue,
		Passed:      pValue >= alpha,
		Description: fmt.Sprintf("Tests for expected # of runs (p=%.4f)", pValue),
	}
}

// ChiSquareTest checks byte-value uniformity: all 256 values should occur
// with equal frequency.
func ChiSquareTest(data []byte, alpha float64) TestResult {
	n := len(data)
	var counts [256]int
	for _, b := range data {
		counts[b]++
	}

	expected := float64(n) / 256
	chiSquare := 0.0
	for _, observed := range counts {
		diff := float64(observed) - expected
		chiSquare += diff * diff / expected
	}

	pValue := distuv.ChiSquared{K: 255}.Survival(chiSquare)

	return TestResult{
		Name:        "Chi-Square Test",
		Statistic:   chiSquare,
		PValue:      pValue,
		Passed:      pValue >= alpha,
		Description: fmt.Sprintf("Tests byte uniformity (p=%.4f)", pValue),
	}
}

// AutocorrelationTest measures linear correlation between the sequence and
// lagged copies of itself; independence requires correlations near zero at
// every lag. The pass threshold is the 95% confidence bound 2/sqrt(n).
func AutocorrelationTest(data []byte, maxLag int, alpha float64) TestResult {
	n := len(data)
	seq := make([]float64, n)
	for i, b := range data {
		seq[i] = float64(b)
	}

	maxCorr := 0.0
	for lag := 1; lag <= maxLag && lag < n/2; lag++ {
		corr := math.Abs(stat.Correlation(seq[:n-lag], seq[lag:], nil))
		if corr > maxCorr {
			maxCorr = corr
		}
	}

	threshold := 2 / math.Sqrt(float64(n))
	pValue := 0.0
	if maxCorr < 1 {
		pValue = 1 - maxCorr
	}

	return TestResult{
		Name:        "Autocorrelation Test",
		Statistic:   maxCorr,
		Threshold:   threshold,
		PValue:      pValue,
		Passed:      maxCorr < threshold,
		Description: fmt.Sprintf("Tests independence (max_corr=%.4f, threshold=%.4f)", maxCorr, threshold),
	}
}

// SerialTest checks that all m-bit patterns occur with equal frequency over
// a sliding window.
func SerialTest(bits []byte, m int, alpha float64) TestResult {
	n := len(bits)
	name := fmt.Sprintf("Serial Test (m=%d)", m)
	if n < m {
		return TestResult{
			Name:        name,
			PValue:      0,
			Passed:      false,
			Description: "Sequence too short",
		}
	}

	counts := make(map[string]int)
	for i := 0; i+m <= n; i++ {
		counts[string(bits[i:i+m])]++
	}

	nPatterns := math.Pow(2, float64(m))
	expected := float64(n-m+1) / nPatterns
	chiSquare := 0.0
	for _, c := range counts {
		diff := float64(c) - expected
		chiSquare += diff * diff / expected
	}
	// Patterns that never occur still contribute their expectation.
	chiSquare += float64(int(nPatterns)-len(counts)) * expected

	pValue := distuv.ChiSquared{K: nPatterns - 1}.Survival(chiSquare)

	return TestResult{
		Name:        name,
		Statistic:   chiSquare,
		PValue:      pValue,
		Passed:      pValue >= alpha,
		Description: fmt.Sprintf("Tests %d-bit pattern uniformity (p=%.4f)", m, pValue),
	}
}

// RunSuite runs the full battery over a byte sequence at DefaultAlpha.
func RunSuite(data []byte) SuiteResult {
	bits := unpackBits(data)

	result := SuiteResult{
		Frequency:       FrequencyTest(bits, DefaultAlpha),
		Runs:            RunsTest(bits, DefaultAlpha),
		ChiSquare:       ChiSquareTest(data, DefaultAlpha),
		Autocorrelation: AutocorrelationTest(data, 100, DefaultAlpha),
		Serial2Bit:      SerialTest(bits, 2, DefaultAlpha),
		Serial3Bit:      SerialTest(bits, 3, DefaultAlpha),
	}

	all := []TestResult{
		result.Frequency, result.Runs, result.ChiSquare,
		result.Autocorrelation, result.Serial2Bit, result.Serial3Bit,
	}
	passed := 0
	for _, r := range all {
		if r.Passed {
			passed++
		}
	}
	result.Summary = SuiteSummary{
		TotalTests: len(all),
		Passed:     passed,
		Failed:     len(all) - passed,
		PassRate:   float64(passed) / float64(len(all)) * 100,
	}
	return result
}
