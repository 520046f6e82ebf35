package tonal

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-veritas/algorithms/common"
	"github.com/RyanBlaney/sonido-veritas/algorithms/spectral"
)

// smallestNormal is the smallest positive normal float64
const smallestNormal = 0x1p-1022

// PitchTrackParams contains parameters for spectral peak pitch tracking
type PitchTrackParams struct {
	MinFreq   float64 `json:"min_freq"`  // Lowest bin frequency considered (Hz)
	MaxFreq   float64 `json:"max_freq"`  // Bins at or above this are ignored (Hz)
	Threshold float64 `json:"threshold"` // Fraction of the frame maximum a peak must exceed
}

// DefaultPitchTrackParams returns a 150-4000 Hz search with a 0.1 peak threshold
func DefaultPitchTrackParams() PitchTrackParams {
	return PitchTrackParams{
		MinFreq:   150.0,
		MaxFreq:   4000.0,
		Threshold: 0.1,
	}
}

// PitchTracker finds spectral peaks in every frame and refines each one with
// parabolic interpolation. The output is sparse: one pitch and one magnitude
// per (frame, bin), zero where the bin is not a peak.
type PitchTracker struct {
	sampleRate int
	fftSize    int
	params     PitchTrackParams
	freqs      []float64
}

// NewPitchTracker creates a tracker with default parameters
func NewPitchTracker(sampleRate, fftSize int) *PitchTracker {
	return NewPitchTrackerWithParams(sampleRate, fftSize, DefaultPitchTrackParams())
}

// NewPitchTrackerWithParams creates a tracker with custom parameters
func NewPitchTrackerWithParams(sampleRate, fftSize int, params PitchTrackParams) *PitchTracker {
	params.MinFreq = math.Max(params.MinFreq, 0)

	return &PitchTracker{
		sampleRate: sampleRate,
		fftSize:    fftSize,
		params:     params,
		freqs:      spectral.FFTFrequencies(sampleRate, fftSize),
	}
}

// Track runs the tracker over a spectrogram (frames x bins)
func (pt *PitchTracker) Track(spectrogram [][]float64) (pitches, magnitudes [][]float64, err error) {
	numBins := len(pt.freqs)

	pitches = make([][]float64, len(spectrogram))
	magnitudes = make([][]float64, len(spectrogram))

	for t, spectrum := range spectrogram {
		if len(spectrum) != numBins {
			return nil, nil, fmt.Errorf("frame %d has %d bins, expected %d", t, len(spectrum), numBins)
		}

		pitches[t] = make([]float64, numBins)
		magnitudes[t] = make([]float64, numBins)
		pt.trackFrame(spectrum, pitches[t], magnitudes[t])
	}

	return pitches, magnitudes, nil
}

func (pt *PitchTracker) trackFrame(spectrum, pitches, magnitudes []float64) {
	n := len(spectrum)
	if n < 3 {
		return
	}

	peak := 0.0
	for _, v := range spectrum {
		peak = math.Max(peak, v)
	}
	floor := pt.params.Threshold * peak

	// spectrum with everything at or below the threshold zeroed
	gated := func(i int) float64 {
		if spectrum[i] > floor {
			return spectrum[i]
		}
		return 0
	}

	for i := 1; i < n; i++ {
		f := pt.freqs[i]
		if f < pt.params.MinFreq || f >= pt.params.MaxFreq {
			continue
		}

		// the Nyquist bin has no upper neighbour and is not interpolated
		last := i == n-1

		current := gated(i)
		if !(current > gated(i-1) && (last || current >= gated(i+1))) {
			continue
		}

		avg, curvature := 0.0, 0.0
		if !last {
			avg = 0.5 * (spectrum[i+1] - spectrum[i-1])
			curvature = 2*spectrum[i] - spectrum[i+1] - spectrum[i-1]
		}
		if math.Abs(curvature) < smallestNormal {
			curvature += 1
		}
		shift := avg / curvature

		pitches[i] = (float64(i) + shift) * float64(pt.sampleRate) / float64(pt.fftSize)
		magnitudes[i] = spectrum[i] + 0.5*avg*shift
	}
}

// MeanPitch averages the pitches whose magnitude is above the median of the
// whole magnitude matrix. Returns NaN when nothing is selected.
func MeanPitch(pitches, magnitudes [][]float64) float64 {
	flat := make([]float64, 0, len(magnitudes)*len(firstRow(magnitudes)))
	for _, row := range magnitudes {
		flat = append(flat, row...)
	}
	if len(flat) == 0 {
		return math.NaN()
	}

	median := common.Median(flat)

	sum := 0.0
	count := 0
	for t, row := range magnitudes {
		for f, mag := range row {
			if mag > median {
				sum += pitches[t][f]
				count++
			}
		}
	}

	if count == 0 {
		return math.NaN()
	}
	return sum / float64(count)
}

func firstRow(matrix [][]float64) []float64 {
	if len(matrix) == 0 {
		return nil
	}
	return matrix[0]
}
