package speech

import (
	"fmt"

	"github.com/RyanBlaney/sonido-veritas/algorithms/common"
	"gonum.org/v1/gonum/floats"
)

// LPCMethod selects how predictor coefficients are fitted
type LPCMethod string

const (
	// LPCBurg minimises forward and backward prediction error jointly
	LPCBurg LPCMethod = "burg"
	// LPCAutocorrelation solves the Yule-Walker equations with Levinson-Durbin
	LPCAutocorrelation LPCMethod = "autocorrelation"
)

// ParseLPCMethod validates a method name
func ParseLPCMethod(name string) (LPCMethod, error) {
	switch LPCMethod(name) {
	case LPCBurg, LPCAutocorrelation:
		return LPCMethod(name), nil
	default:
		return "", fmt.Errorf("unknown LPC method %q", name)
	}
}

// LPCAnalyzer performs Linear Predictive Coding analysis.
// LPC models the vocal tract as an all-pole filter A(z) = 1 + a1*z^-1 + ... + ap*z^-p
type LPCAnalyzer struct {
	order  int
	method LPCMethod
}

// LPCResult contains LPC analysis results
type LPCResult struct {
	Coefficients    []float64 `json:"coefficients"`     // [1, a1, ..., ap]
	ReflectionCoeff []float64 `json:"reflection_coeff"` // k1, ..., kp
	ResidualEnergy  float64   `json:"residual_energy"`  // Prediction error energy
	Order           int       `json:"order"`
	Method          LPCMethod `json:"method"`
}

// NewLPCAnalyzer creates a new LPC analyzer
func NewLPCAnalyzer(order int, method LPCMethod) *LPCAnalyzer {
	if method == "" {
		method = LPCBurg
	}
	return &LPCAnalyzer{
		order:  order,
		method: method,
	}
}

// Analyze fits predictor coefficients to the whole signal
func (lpc *LPCAnalyzer) Analyze(signal []float64) (*LPCResult, error) {
	if lpc.order < 1 {
		return nil, fmt.Errorf("LPC order must be at least 1, got %d", lpc.order)
	}
	if !common.AllFinite(signal) {
		return nil, fmt.Errorf("signal contains non-finite samples")
	}

	var (
		result *LPCResult
		err    error
	)
	switch lpc.method {
	case LPCBurg:
		result, err = lpc.burg(signal)
	case LPCAutocorrelation:
		result, err = lpc.autocorrelation(signal)
	default:
		return nil, fmt.Errorf("unknown LPC method %q", lpc.method)
	}
	if err != nil {
		return nil, err
	}

	if !common.AllFinite(result.Coefficients) {
		return nil, fmt.Errorf("LPC fit of order %d is numerically unstable", lpc.order)
	}

	result.Order = lpc.order
	result.Method = lpc.method
	return result, nil
}

// burg runs Burg's recursion. Each stage needs at least one forward and one
// backward error sample, so the signal must be longer than the order.
func (lpc *LPCAnalyzer) burg(signal []float64) (*LPCResult, error) {
	p := lpc.order
	if len(signal) <= p {
		return nil, fmt.Errorf("signal too short for LPC analysis of order %d", p)
	}

	a := make([]float64, p+1)
	prev := make([]float64, p+1)
	a[0], prev[0] = 1.0, 1.0
	k := make([]float64, p)

	fwd := append([]float64(nil), signal[1:]...)
	bwd := append([]float64(nil), signal[:len(signal)-1]...)

	den := floats.Dot(fwd, fwd) + floats.Dot(bwd, bwd)

	for i := range p {
		reflect := -2.0 * floats.Dot(bwd, fwd) / (den + smallestNormal)
		k[i] = reflect

		prev, a = a, prev
		for j := 1; j <= i+1; j++ {
			a[j] = prev[j] + reflect*prev[i-j+1]
		}

		for n := range fwd {
			f, b := fwd[n], bwd[n]
			fwd[n] = f + reflect*b
			bwd[n] = b + reflect*f
		}

		q := 1.0 - reflect*reflect
		den = q*den - bwd[len(bwd)-1]*bwd[len(bwd)-1] - fwd[0]*fwd[0]

		fwd = fwd[1:]
		bwd = bwd[:len(bwd)-1]
	}

	return &LPCResult{
		Coefficients:    a,
		ReflectionCoeff: k,
		ResidualEnergy:  den,
	}, nil
}

// autocorrelation fits coefficients from the biased autocorrelation sequence
func (lpc *LPCAnalyzer) autocorrelation(signal []float64) (*LPCResult, error) {
	p := lpc.order
	if len(signal) < p*2 {
		return nil, fmt.Errorf("signal too short for LPC analysis of order %d", p)
	}

	R := make([]float64, p+1)
	for lag := range R {
		sum := 0.0
		for n := 0; n+lag < len(signal); n++ {
			sum += signal[n] * signal[n+lag]
		}
		R[lag] = sum
	}

	coeffs, reflectionCoeffs, residualEnergy, err := levinsonDurbin(R, p)
	if err != nil {
		return nil, fmt.Errorf("Levinson-Durbin algorithm failed: %w", err)
	}

	return &LPCResult{
		Coefficients:    coeffs,
		ReflectionCoeff: reflectionCoeffs,
		ResidualEnergy:  residualEnergy,
	}, nil
}

// levinsonDurbin solves for A(z) = 1 + a1*z^-1 + ... given R[0..p]
func levinsonDurbin(R []float64, p int) ([]float64, []float64, float64, error) {
	if len(R) < p+1 {
		return nil, nil, 0, fmt.Errorf("insufficient autocorrelation values")
	}

	if R[0] == 0 {
		return nil, nil, 0, fmt.Errorf("zero energy signal")
	}

	a := make([]float64, p+1)
	tmp := make([]float64, p+1)
	k := make([]float64, p)
	E := R[0]

	a[0] = 1.0

	for i := 1; i <= p; i++ {
		acc := R[i]
		for j := 1; j < i; j++ {
			acc += a[j] * R[i-j]
		}

		if E <= 0 {
			return nil, nil, 0, fmt.Errorf("prediction error energy became zero")
		}

		k[i-1] = -acc / E

		copy(tmp, a)
		for j := 1; j < i; j++ {
			a[j] = tmp[j] + k[i-1]*tmp[i-j]
		}
		a[i] = k[i-1]

		E *= 1 - k[i-1]*k[i-1]
	}

	return a, k, E, nil
}

// smallestNormal is the smallest positive normal float64
const smallestNormal = 0x1p-1022

// MeanAbsCoefficient summarises a fit as the mean absolute value of [1, a1..ap]
func (r *LPCResult) MeanAbsCoefficient() float64 {
	return common.MeanAbs(r.Coefficients)
}
