package spectral

// DefaultRolloffPercent is the fraction of spectral magnitude below the roll-off frequency
const DefaultRolloffPercent = 0.85

// SpectralRolloff computes spectral rolloff frequency
type SpectralRolloff struct {
	freqs []float64
}

// NewSpectralRolloff creates a rolloff calculator for spectra of fftSize/2+1 bins
func NewSpectralRolloff(sampleRate, fftSize int) *SpectralRolloff {
	return &SpectralRolloff{
		freqs: FFTFrequencies(sampleRate, fftSize),
	}
}

// Compute returns the lowest bin frequency at which the cumulative magnitude
// reaches threshold (0-1) of the frame total. Silent frames roll off at 0 Hz.
func (sr *SpectralRolloff) Compute(spectrum []float64, threshold float64) float64 {
	n := min(len(spectrum), len(sr.freqs))
	if n == 0 {
		return 0.0
	}

	total := 0.0
	for i := range n {
		total += spectrum[i]
	}

	if total == 0 {
		return 0
	}

	target := threshold * total
	cumulative := 0.0

	for i := range n {
		cumulative += spectrum[i]
		if cumulative >= target {
			return sr.freqs[i]
		}
	}

	return sr.freqs[n-1]
}

// ComputeFrames processes multiple frames efficiently
func (sr *SpectralRolloff) ComputeFrames(spectrogram [][]float64, threshold float64) []float64 {
	rolloffs := make([]float64, len(spectrogram))

	for t, spectrum := range spectrogram {
		rolloffs[t] = sr.Compute(spectrum, threshold)
	}

	return rolloffs
}
