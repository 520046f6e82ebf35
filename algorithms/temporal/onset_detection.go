package temporal

import (
	"fmt"
)

// OnsetDetection builds an onset strength envelope from a log-power mel spectrogram
type OnsetDetection struct {
	lag     int
	fftSize int
	hopSize int
}

// NewOnsetDetection creates an onset detector that compares each frame with
// the previous one. fftSize and hopSize describe the spectrogram framing and
// are used to align the envelope with centred frames.
func NewOnsetDetection(fftSize, hopSize int) *OnsetDetection {
	return &OnsetDetection{
		lag:     1,
		fftSize: fftSize,
		hopSize: hopSize,
	}
}

// OnsetStrength computes the spectral flux of a dB mel spectrogram (frames x bands):
// the mean over bands of the positive frame-to-frame increase. The envelope
// has one value per input frame; the leading frames are zero.
func (od *OnsetDetection) OnsetStrength(logMel [][]float64) ([]float64, error) {
	if len(logMel) == 0 {
		return nil, fmt.Errorf("empty spectrogram")
	}
	if od.hopSize <= 0 {
		return nil, fmt.Errorf("hop size must be positive")
	}

	numFrames := len(logMel)
	envelope := make([]float64, numFrames)

	// lag frames are lost to the difference, plus the centring offset
	offset := od.lag + od.fftSize/(2*od.hopSize)

	for t := od.lag; t < numFrames; t++ {
		out := t - od.lag + offset
		if out >= numFrames {
			break
		}

		current, previous := logMel[t], logMel[t-od.lag]
		if len(current) == 0 || len(current) != len(previous) {
			return nil, fmt.Errorf("frame %d has %d bands, previous has %d", t, len(current), len(previous))
		}

		flux := 0.0
		for b := range current {
			if diff := current[b] - previous[b]; diff > 0 {
				flux += diff
			}
		}
		envelope[out] = flux / float64(len(current))
	}

	return envelope, nil
}
