package temporal

import (
	"math"

	"github.com/RyanBlaney/sonido-veritas/algorithms/common"
)

// Energy computes frame-level energy features
type Energy struct {
	frameSize int
	hopSize   int
}

// NewEnergy creates a new energy calculator
func NewEnergy(frameSize, hopSize int) *Energy {
	return &Energy{
		frameSize: frameSize,
		hopSize:   hopSize,
	}
}

// ComputeShortTimeEnergy calculates RMS energy for overlapping frames without padding
func (e *Energy) ComputeShortTimeEnergy(signal []float64) []float64 {
	numFrames := common.FrameCount(len(signal), e.frameSize, e.hopSize)
	energies := make([]float64, numFrames)

	for i := range numFrames {
		startIdx := i * e.hopSize
		endIdx := startIdx + e.frameSize

		sumSquares := 0.0
		for j := startIdx; j < endIdx; j++ {
			sumSquares += signal[j] * signal[j]
		}
		energies[i] = math.Sqrt(sumSquares / float64(e.frameSize))
	}

	return energies
}

// ComputeRMS zero-pads frameSize/2 samples on both sides and returns the RMS
// of every centred frame. A non-empty signal yields 1 + len/hopSize values.
func (e *Energy) ComputeRMS(signal []float64) []float64 {
	if len(signal) == 0 {
		return []float64{}
	}
	return e.ComputeShortTimeEnergy(common.PadCenter(signal, e.frameSize, common.PadConstant))
}
