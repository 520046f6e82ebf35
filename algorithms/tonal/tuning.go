package tonal

import (
	"math"

	"github.com/RyanBlaney/sonido-veritas/algorithms/common"
)

// TuningEstimator estimates the deviation of a recording from A4=440 Hz
// equal temperament, in fractions of a bin
type TuningEstimator struct {
	tracker       *PitchTracker
	resolution    float64
	binsPerOctave int
}

// NewTuningEstimator creates an estimator with a resolution of 0.01 of a semitone
func NewTuningEstimator(sampleRate, fftSize int) *TuningEstimator {
	return &TuningEstimator{
		tracker:       NewPitchTracker(sampleRate, fftSize),
		resolution:    0.01,
		binsPerOctave: 12,
	}
}

// Estimate tracks peaks in a power spectrogram, keeps those at least as strong
// as the median tracked peak and returns the most common pitch deviation in
// [-0.5, 0.5). Returns 0 when no pitched content is found.
func (te *TuningEstimator) Estimate(powerSpectrogram [][]float64) (float64, error) {
	pitches, magnitudes, err := te.tracker.Track(powerSpectrogram)
	if err != nil {
		return 0.0, err
	}

	var peakMags []float64
	for t, row := range pitches {
		for f, p := range row {
			if p > 0 {
				peakMags = append(peakMags, magnitudes[t][f])
			}
		}
	}
	if len(peakMags) == 0 {
		return 0.0, nil
	}

	threshold := common.Median(peakMags)

	var frequencies []float64
	for t, row := range pitches {
		for f, p := range row {
			if p > 0 && magnitudes[t][f] >= threshold {
				frequencies = append(frequencies, p)
			}
		}
	}

	return te.PitchTuning(frequencies), nil
}

// PitchTuning histograms the fractional part of each frequency's position on
// the equal tempered scale and returns the left edge of the fullest bin
func (te *TuningEstimator) PitchTuning(frequencies []float64) float64 {
	numBins := int(math.Ceil(1.0 / te.resolution))
	counts := make([]int, numBins)
	found := false

	for _, f := range frequencies {
		if f <= 0 {
			continue
		}

		octs := math.Log2(f / (440.0 / 16.0))
		residual := math.Mod(float64(te.binsPerOctave)*octs, 1.0)
		if residual < 0 {
			residual += 1.0
		}
		if residual >= 0.5 {
			residual -= 1.0
		}

		bin := int(math.Floor((residual + 0.5) * float64(numBins)))
		bin = max(0, min(bin, numBins-1))
		counts[bin]++
		found = true
	}

	if !found {
		return 0.0
	}

	best := 0
	for i, c := range counts {
		if c > counts[best] {
			best = i
		}
	}

	return -0.5 + float64(best)/float64(numBins)
}
