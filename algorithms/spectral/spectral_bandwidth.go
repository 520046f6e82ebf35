package spectral

import (
	"math"
)

// SpectralBandwidth computes the second-order spread of a spectrum around its centroid
type SpectralBandwidth struct {
	freqs []float64
}

// NewSpectralBandwidth creates a bandwidth calculator for spectra of fftSize/2+1 bins
func NewSpectralBandwidth(sampleRate, fftSize int) *SpectralBandwidth {
	return &SpectralBandwidth{
		freqs: FFTFrequencies(sampleRate, fftSize),
	}
}

// Compute calculates spectral bandwidth for a single spectrum given its centroid
func (sb *SpectralBandwidth) Compute(spectrum []float64, centroid float64) float64 {
	numerator := 0.0
	denominator := 0.0

	for i := 0; i < len(spectrum) && i < len(sb.freqs); i++ {
		diff := sb.freqs[i] - centroid
		numerator += diff * diff * spectrum[i]
		denominator += spectrum[i]
	}

	if denominator == 0 {
		return 0
	}

	return math.Sqrt(numerator / denominator)
}

// ComputeFrames processes multiple frames with their corresponding centroids
func (sb *SpectralBandwidth) ComputeFrames(spectrogram [][]float64, centroids []float64) []float64 {
	if len(centroids) != len(spectrogram) {
		return []float64{}
	}

	bandwidths := make([]float64, len(spectrogram))

	for t, spectrum := range spectrogram {
		bandwidths[t] = sb.Compute(spectrum, centroids[t])
	}

	return bandwidths
}
