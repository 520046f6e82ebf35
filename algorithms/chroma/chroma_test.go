package chroma

import (
	"math"
	"testing"

	"github.com/RyanBlaney/sonido-veritas/algorithms/spectral"
	"github.com/RyanBlaney/sonido-veritas/algorithms/windowing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChromaOfA440(t *testing.T) {
	const sampleRate, fftSize, hopSize = 16000, 2048, 512

	signal := make([]float64, sampleRate)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * 440 * float64(i) / sampleRate)
	}

	stft, err := spectral.NewSTFT().ComputeCentered(signal, fftSize, hopSize, sampleRate, windowing.NewPeriodicHann(fftSize))
	require.NoError(t, err)
	power := spectral.NewPowerSpectrum().ComputeFromSTFT(stft)

	chromagram, err := NewChromaSTFTDefault(sampleRate, fftSize).ComputeFrames(power)
	require.NoError(t, err)
	require.Len(t, chromagram, stft.TimeFrames)

	frame := chromagram[len(chromagram)/2]
	require.Len(t, frame, 12)

	best := 0
	for i := range frame {
		if frame[i] > frame[best] {
			best = i
		}
		assert.LessOrEqual(t, frame[i], 1.0+1e-12)
		assert.GreaterOrEqual(t, frame[i], 0.0)
	}
	// pitch classes start at C, so A is index 9
	assert.Equal(t, 9, best)
	assert.InDelta(t, 1.0, frame[9], 1e-12)
}

func TestChromaOfSilenceIsZero(t *testing.T) {
	cs := NewChromaSTFTDefault(22050, 2048)
	chromagram, err := cs.ComputeFrames([][]float64{make([]float64, 1025)})
	require.NoError(t, err)
	assert.Equal(t, make([]float64, 12), chromagram[0])
}

func TestChromaRejectsWrongBinCount(t *testing.T) {
	_, err := NewChromaSTFTDefault(22050, 2048).ComputeFrames([][]float64{make([]float64, 10)})
	assert.Error(t, err)
}

func TestChromaFilterBankShape(t *testing.T) {
	bank := NewChromaSTFT(22050, 2048, 0.1).GetFilterBank()
	require.Len(t, bank, 12)
	for _, row := range bank {
		assert.Len(t, row, 1025)
	}
}
