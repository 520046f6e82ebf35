package tonal

import (
	"math"
	"testing"

	"github.com/RyanBlaney/sonido-veritas/algorithms/spectral"
	"github.com/RyanBlaney/sonido-veritas/algorithms/windowing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	sampleRate = 16000
	fftSize    = 2048
	hopSize    = 512
)

func toneMagnitude(t *testing.T, freq float64) [][]float64 {
	t.Helper()

	signal := make([]float64, sampleRate)
	for i := range signal {
		signal[i] = 0.5 * math.Sin(2*math.Pi*freq*float64(i)/sampleRate)
	}

	result, err := spectral.NewSTFT().ComputeWithWindow(signal, fftSize, hopSize, sampleRate, windowing.NewPeriodicHann(fftSize))
	require.NoError(t, err)
	return result.Magnitude
}

func TestPitchTrackerFindsTone(t *testing.T) {
	tracker := NewPitchTracker(sampleRate, fftSize)

	pitches, mags, err := tracker.Track(toneMagnitude(t, 440))
	require.NoError(t, err)
	require.NotEmpty(t, pitches)

	assert.InDelta(t, 440.0, MeanPitch(pitches, mags), 3.0)
}

func TestPitchTrackerIgnoresOutOfRange(t *testing.T) {
	tracker := NewPitchTracker(sampleRate, fftSize)

	// 100 Hz is below the 150 Hz floor
	pitches, _, err := tracker.Track(toneMagnitude(t, 100))
	require.NoError(t, err)

	for frame, row := range pitches {
		for bin, p := range row {
			if p > 0 {
				assert.GreaterOrEqual(t, p, 140.0, "frame %d bin %d", frame, bin)
			}
		}
	}
}

func TestMeanPitchOfSilenceIsUndefined(t *testing.T) {
	tracker := NewPitchTracker(sampleRate, fftSize)
	silence := make([][]float64, 4)
	for i := range silence {
		silence[i] = make([]float64, fftSize/2+1)
	}

	pitches, mags, err := tracker.Track(silence)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(MeanPitch(pitches, mags)))
	assert.True(t, math.IsNaN(MeanPitch(nil, nil)))
}

func TestPitchTrackerRejectsWrongBinCount(t *testing.T) {
	_, _, err := NewPitchTracker(sampleRate, fftSize).Track([][]float64{make([]float64, 10)})
	assert.Error(t, err)
}

func TestPitchTrackerKeepsNyquistPeak(t *testing.T) {
	// 4 kHz audio puts Nyquist at 2 kHz, inside the default search range
	tracker := NewPitchTracker(4000, 8)

	pitches, mags, err := tracker.Track([][]float64{{0, 0, 0, 1, 5}})
	require.NoError(t, err)

	assert.Equal(t, 2000.0, pitches[0][4])
	assert.Equal(t, 5.0, mags[0][4])
	assert.Zero(t, pitches[0][3])
}

func TestMeanPitchUsesMedianOfAllMagnitudes(t *testing.T) {
	pitches := [][]float64{{0, 200, 0, 400}}
	mags := [][]float64{{0, 1, 0, 3}}
	// median of {0,1,0,3} is 0.5, both peaks are selected
	assert.InDelta(t, 300.0, MeanPitch(pitches, mags), 1e-12)

	mags = [][]float64{{1, 2, 1, 3}}
	pitches = [][]float64{{100, 200, 100, 400}}
	// median is 1.5
	assert.InDelta(t, 300.0, MeanPitch(pitches, mags), 1e-12)
}

func TestPitchTuning(t *testing.T) {
	te := NewTuningEstimator(sampleRate, fftSize)

	assert.InDelta(t, 0.0, te.PitchTuning([]float64{440, 880, 220}), 1e-9)

	sharp := 440 * math.Pow(2, 0.25/12)
	assert.InDelta(t, 0.25, te.PitchTuning([]float64{sharp, sharp, 440}), 0.011)

	assert.Equal(t, 0.0, te.PitchTuning(nil))
	assert.Equal(t, 0.0, te.PitchTuning([]float64{0, -1}))
}

func TestEstimateTuningOfTone(t *testing.T) {
	te := NewTuningEstimator(sampleRate, fftSize)

	mag := toneMagnitude(t, 440)
	power := make([][]float64, len(mag))
	for i, row := range mag {
		power[i] = make([]float64, len(row))
		for j, v := range row {
			power[i][j] = v * v
		}
	}

	tuning, err := te.Estimate(power)
	require.NoError(t, err)
	// parabolic interpolation on power reads the tone slightly flat
	assert.InDelta(t, 0.0, tuning, 0.06)
}
