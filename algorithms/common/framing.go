package common

// PadMode selects how PadCenter fills the samples added around a signal
type PadMode int

const (
	// PadConstant pads with zeros
	PadConstant PadMode = iota
	// PadEdge repeats the first and last samples
	PadEdge
	// PadLinearRamp ramps linearly from zero at the outer edge towards the
	// first and last samples
	PadLinearRamp
)

// PadCenter pads frameSize/2 samples on both sides so that frame t is centred
// on sample t*hopSize. Returns a new slice; the input is not modified.
func PadCenter(signal []float64, frameSize int, mode PadMode) []float64 {
	pad := frameSize / 2
	padded := make([]float64, len(signal)+2*pad)
	copy(padded[pad:], signal)

	if len(signal) == 0 {
		return padded
	}

	first := signal[0]
	last := signal[len(signal)-1]

	switch mode {
	case PadEdge:
		for i := range pad {
			padded[i] = first
			padded[len(padded)-1-i] = last
		}
	case PadLinearRamp:
		for i := range pad {
			padded[i] = first * float64(i) / float64(pad)
			padded[len(padded)-1-i] = last * float64(i) / float64(pad)
		}
	}

	return padded
}

// FrameCount returns the number of full frames of frameSize that fit in a
// signal of the given length when advancing by hopSize
func FrameCount(length, frameSize, hopSize int) int {
	if length < frameSize || frameSize <= 0 || hopSize <= 0 {
		return 0
	}
	return (length-frameSize)/hopSize + 1
}

// CenteredFrameCount is the number of frames produced after PadCenter
func CenteredFrameCount(length, frameSize, hopSize int) int {
	return FrameCount(length+2*(frameSize/2), frameSize, hopSize)
}
