package temporal

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-veritas/algorithms/common"
	"github.com/RyanBlaney/sonido-veritas/algorithms/windowing"
	"github.com/mjibson/go-dsp/fft"
)

// TempoParams controls the autocorrelation tempo estimator
type TempoParams struct {
	StartBPM float64 `json:"start_bpm"` // centre of the log-normal tempo prior
	StdBPM   float64 `json:"std_bpm"`   // prior width in octaves
	MaxTempo float64 `json:"max_tempo"` // tempos above this are never chosen
	ACSize   float64 `json:"ac_size"`   // autocorrelation window in seconds
}

// DefaultTempoParams returns a prior centred on 120 BPM
func DefaultTempoParams() TempoParams {
	return TempoParams{
		StartBPM: 120.0,
		StdBPM:   1.0,
		MaxTempo: 320.0,
		ACSize:   8.0,
	}
}

// TempoEstimation estimates a single global tempo from an onset strength envelope
type TempoEstimation struct {
	sampleRate int
	hopSize    int
	params     TempoParams
}

// NewTempoEstimation creates a new tempo estimator with default parameters
func NewTempoEstimation(sampleRate, hopSize int) *TempoEstimation {
	return NewTempoEstimationWithParams(sampleRate, hopSize, DefaultTempoParams())
}

// NewTempoEstimationWithParams creates a tempo estimator with custom parameters
func NewTempoEstimationWithParams(sampleRate, hopSize int, params TempoParams) *TempoEstimation {
	return &TempoEstimation{
		sampleRate: sampleRate,
		hopSize:    hopSize,
		params:     params,
	}
}

// WindowLength is the number of envelope frames covered by the autocorrelation window
func (te *TempoEstimation) WindowLength() int {
	return int(math.Floor(te.params.ACSize * float64(te.sampleRate) / float64(te.hopSize)))
}

// Tempogram computes the mean over time of the windowed, max-normalised
// autocorrelation of the onset envelope. Index k is the lag in frames.
func (te *TempoEstimation) Tempogram(envelope []float64) ([]float64, error) {
	winLength := te.WindowLength()
	if winLength < 2 {
		return nil, fmt.Errorf("autocorrelation window of %d frames is too short", winLength)
	}
	if len(envelope) == 0 {
		return nil, fmt.Errorf("empty onset envelope")
	}

	padded := common.PadCenter(envelope, winLength, common.PadLinearRamp)
	window := windowing.NewPeriodicHann(winLength)

	fftSize := 1
	for fftSize < 2*winLength-1 {
		fftSize <<= 1
	}

	tempogram := make([]float64, winLength)
	frame := make([]float64, fftSize)

	// an even window yields one frame more than the envelope length
	numFrames := len(padded) - winLength + 1
	for t := range numFrames {
		clear(frame)
		copy(frame, padded[t:t+winLength])
		if err := window.ApplyInPlace(frame[:winLength]); err != nil {
			return nil, err
		}

		acf := autocorrelate(frame, winLength)

		peak := 0.0
		for _, v := range acf {
			peak = math.Max(peak, math.Abs(v))
		}
		if peak == 0 {
			continue
		}

		for k, v := range acf {
			tempogram[k] += v / peak
		}
	}

	for k := range tempogram {
		tempogram[k] /= float64(numFrames)
	}

	return tempogram, nil
}

// autocorrelate returns the first maxLag autocorrelation values of a zero-padded frame
func autocorrelate(frame []float64, maxLag int) []float64 {
	spectrum := fft.FFTReal(frame)
	for i, c := range spectrum {
		re, im := real(c), imag(c)
		spectrum[i] = complex(re*re+im*im, 0)
	}

	inverse := fft.IFFT(spectrum)
	acf := make([]float64, maxLag)
	for k := range acf {
		acf[k] = real(inverse[k])
	}
	return acf
}

// LagToBPM converts an autocorrelation lag in frames to beats per minute
func (te *TempoEstimation) LagToBPM(lag int) float64 {
	if lag <= 0 {
		return math.Inf(1)
	}
	return 60.0 * float64(te.sampleRate) / (float64(te.hopSize) * float64(lag))
}

// EstimateTempo picks the lag that maximises log1p(1e6*tempogram) plus a
// log-normal prior around StartBPM. An envelope with no onsets therefore
// returns the representable tempo closest to StartBPM.
func (te *TempoEstimation) EstimateTempo(envelope []float64) (float64, error) {
	tempogram, err := te.Tempogram(envelope)
	if err != nil {
		return 0.0, err
	}

	logStart := math.Log2(te.params.StartBPM)
	bestLag := 0
	bestScore := math.Inf(-1)

	for lag := 1; lag < len(tempogram); lag++ {
		bpm := te.LagToBPM(lag)
		if bpm >= te.params.MaxTempo {
			continue
		}

		z := (math.Log2(bpm) - logStart) / te.params.StdBPM
		score := math.Log1p(1e6*tempogram[lag]) - 0.5*z*z
		if score > bestScore {
			bestScore = score
			bestLag = lag
		}
	}

	if bestLag == 0 {
		return 0.0, fmt.Errorf("no tempo candidate below %.0f BPM", te.params.MaxTempo)
	}

	return te.LagToBPM(bestLag), nil
}
