package spectral

import (
	"fmt"
	"math"
)

// MFCC computes Mel-Frequency Cepstral Coefficients from a power spectrogram:
// mel filter bank -> decibels -> orthonormal DCT-II
type MFCC struct {
	numCoefficients int
	numMelFilters   int
	sampleRate      int
	lowFreq         float64
	highFreq        float64
	amin            float64
	topDB           float64

	melScale    *MelScale
	filterBank  [][]float64
	dctMatrix   [][]float64
	initialized bool
}

// MFCCParams contains parameters for MFCC computation
type MFCCParams struct {
	NumCoefficients int     `json:"num_coefficients"` // Number of MFCC coefficients (default: 13)
	NumMelFilters   int     `json:"num_mel_filters"`  // Number of mel bands (default: 128)
	LowFreq         float64 `json:"low_freq"`         // Low frequency bound (default: 0)
	HighFreq        float64 `json:"high_freq"`        // High frequency bound (default: sampleRate/2)
	AMin            float64 `json:"amin"`             // Power floor before the log (default: 1e-10)
	TopDB           float64 `json:"top_db"`           // Dynamic range kept below the peak (default: 80)
}

// DefaultMFCCParams returns the parameters used for speech descriptors
func DefaultMFCCParams(sampleRate int) MFCCParams {
	return MFCCParams{
		NumCoefficients: 13,
		NumMelFilters:   128,
		LowFreq:         0.0,
		HighFreq:        float64(sampleRate) / 2.0,
		AMin:            1e-10,
		TopDB:           80.0,
	}
}

// NewMFCC creates a new MFCC computer with default parameters
func NewMFCC(sampleRate, numCoefficients int) *MFCC {
	params := DefaultMFCCParams(sampleRate)
	params.NumCoefficients = numCoefficients
	return NewMFCCWithParams(sampleRate, params)
}

// NewMFCCWithParams creates a new MFCC computer with custom parameters
func NewMFCCWithParams(sampleRate int, params MFCCParams) *MFCC {
	defaults := DefaultMFCCParams(sampleRate)
	if params.NumCoefficients <= 0 {
		params.NumCoefficients = defaults.NumCoefficients
	}
	if params.NumMelFilters <= 0 {
		params.NumMelFilters = defaults.NumMelFilters
	}
	if params.HighFreq <= 0 {
		params.HighFreq = defaults.HighFreq
	}
	if params.AMin <= 0 {
		params.AMin = defaults.AMin
	}
	if params.TopDB < 0 {
		params.TopDB = defaults.TopDB
	}

	return &MFCC{
		numCoefficients: params.NumCoefficients,
		numMelFilters:   params.NumMelFilters,
		sampleRate:      sampleRate,
		lowFreq:         params.LowFreq,
		highFreq:        params.HighFreq,
		amin:            params.AMin,
		topDB:           params.TopDB,
		melScale:        NewMelScale(),
	}
}

// Initialize prepares the MFCC computer for the given FFT size
func (mfcc *MFCC) Initialize(fftSize int) error {
	if fftSize <= 0 {
		return fmt.Errorf("invalid FFT size: %d", fftSize)
	}

	mfcc.filterBank = mfcc.melScale.CreateMelFilterBank(
		mfcc.numMelFilters,
		fftSize,
		mfcc.sampleRate,
		mfcc.lowFreq,
		mfcc.highFreq,
	)

	if len(mfcc.filterBank) == 0 {
		return fmt.Errorf("failed to create mel filter bank")
	}

	mfcc.createDCTMatrix()

	mfcc.initialized = true
	return nil
}

// MelSpectrogram applies the mel filter bank to every frame of a power spectrogram
func (mfcc *MFCC) MelSpectrogram(powerSpectrogram [][]float64) ([][]float64, error) {
	if len(powerSpectrogram) == 0 {
		return nil, fmt.Errorf("empty power spectrogram")
	}

	if !mfcc.initialized {
		fftSize := (len(powerSpectrogram[0]) - 1) * 2
		if err := mfcc.Initialize(fftSize); err != nil {
			return nil, fmt.Errorf("failed to initialize MFCC: %w", err)
		}
	}

	return mfcc.melScale.ApplyFilterBankFrames(powerSpectrogram, mfcc.filterBank), nil
}

// LogMelSpectrogram returns the mel spectrogram in decibels, clipped to topDB below its peak
func (mfcc *MFCC) LogMelSpectrogram(powerSpectrogram [][]float64) ([][]float64, error) {
	melSpectrogram, err := mfcc.MelSpectrogram(powerSpectrogram)
	if err != nil {
		return nil, err
	}
	return PowerToDB(melSpectrogram, mfcc.amin, mfcc.topDB), nil
}

// ComputeFromLogMel applies the DCT to each frame of a log-mel spectrogram
func (mfcc *MFCC) ComputeFromLogMel(logMelSpectrogram [][]float64) ([][]float64, error) {
	if len(mfcc.dctMatrix) == 0 {
		mfcc.createDCTMatrix()
	}

	mfccFrames := make([][]float64, len(logMelSpectrogram))

	for t, logMel := range logMelSpectrogram {
		if len(logMel) != mfcc.numMelFilters {
			return nil, fmt.Errorf("frame %d has %d mel bands, expected %d", t, len(logMel), mfcc.numMelFilters)
		}
		mfccFrames[t] = mfcc.applyDCT(logMel)
	}

	return mfccFrames, nil
}

// createDCTMatrix creates the orthonormal DCT-II matrix
func (mfcc *MFCC) createDCTMatrix() {
	mfcc.dctMatrix = make([][]float64, mfcc.numCoefficients)

	for k := 0; k < mfcc.numCoefficients; k++ {
		mfcc.dctMatrix[k] = make([]float64, mfcc.numMelFilters)

		scale := math.Sqrt(2.0 / float64(mfcc.numMelFilters))
		if k == 0 {
			scale = math.Sqrt(1.0 / float64(mfcc.numMelFilters))
		}

		for n := 0; n < mfcc.numMelFilters; n++ {
			mfcc.dctMatrix[k][n] = scale * math.Cos(math.Pi*float64(k)*(float64(n)+0.5)/float64(mfcc.numMelFilters))
		}
	}
}

func (mfcc *MFCC) applyDCT(logMelSpectrum []float64) []float64 {
	mfccCoeffs := make([]float64, mfcc.numCoefficients)

	for k := 0; k < mfcc.numCoefficients; k++ {
		sum := 0.0
		for n := 0; n < len(logMelSpectrum) && n < len(mfcc.dctMatrix[k]); n++ {
			sum += logMelSpectrum[n] * mfcc.dctMatrix[k][n]
		}
		mfccCoeffs[k] = sum
	}

	return mfccCoeffs
}
