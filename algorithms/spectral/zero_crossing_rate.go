package spectral

import (
	"math"

	"github.com/RyanBlaney/sonido-veritas/algorithms/common"
)

// ZeroCrossingRate calculates the fraction of sign changes per frame.
// High ZCR indicates fricatives/unvoiced speech, low ZCR indicates voiced speech.
type ZeroCrossingRate struct {
	frameSize int
	hopSize   int
	threshold float64
}

// NewZeroCrossingRate creates a calculator with 2048-sample frames and a 512-sample hop
func NewZeroCrossingRate() *ZeroCrossingRate {
	return NewZeroCrossingRateWithParams(2048, 512)
}

// NewZeroCrossingRateWithParams creates calculator with custom parameters
func NewZeroCrossingRateWithParams(frameSize, hopSize int) *ZeroCrossingRate {
	return &ZeroCrossingRate{
		frameSize: frameSize,
		hopSize:   hopSize,
		threshold: 1e-10,
	}
}

// ComputeNormalized returns crossings divided by frame length. Samples with
// magnitude at or below the threshold count as zero, and zero counts as positive.
func (zcr *ZeroCrossingRate) ComputeNormalized(frame []float64) float64 {
	if len(frame) < 2 {
		return 0.0
	}

	crossings := 0
	prevNegative := zcr.isNegative(frame[0])
	for i := 1; i < len(frame); i++ {
		negative := zcr.isNegative(frame[i])
		if negative != prevNegative {
			crossings++
		}
		prevNegative = negative
	}

	return float64(crossings) / float64(len(frame))
}

func (zcr *ZeroCrossingRate) isNegative(sample float64) bool {
	if math.Abs(sample) <= zcr.threshold {
		return false
	}
	return sample < 0
}

// ComputeFrames calculates ZCR for overlapping frames of a signal without padding
func (zcr *ZeroCrossingRate) ComputeFrames(signal []float64) []float64 {
	numFrames := common.FrameCount(len(signal), zcr.frameSize, zcr.hopSize)
	zcrValues := make([]float64, numFrames)

	for i := range numFrames {
		startIdx := i * zcr.hopSize
		zcrValues[i] = zcr.ComputeNormalized(signal[startIdx : startIdx+zcr.frameSize])
	}

	return zcrValues
}

// ComputeFramesCentered pads the signal by repeating its edge samples so that
// every frame is centred on a hop boundary, then calculates per-frame ZCR
func (zcr *ZeroCrossingRate) ComputeFramesCentered(signal []float64) []float64 {
	if len(signal) == 0 {
		return []float64{}
	}
	return zcr.ComputeFrames(common.PadCenter(signal, zcr.frameSize, common.PadEdge))
}
