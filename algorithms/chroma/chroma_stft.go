package chroma

import (
	"fmt"
	"math"
)

// ChromaSTFT projects a power spectrogram onto the 12 pitch classes.
//
// Each FFT bin contributes to nearby pitch classes through a Gaussian in
// semitones, so energy between two notes is shared rather than rounded to
// one. Bins are further weighted by a Gaussian over octaves centred on
// octave 5, and the output starts at C.
type ChromaSTFT struct {
	sampleRate int
	fftSize    int
	chromaBins int
	tuning     float64 // deviation from A440 in fractions of a bin
	ctrOctave  float64
	octWidth   float64

	filterBank [][]float64 // chromaBins x (fftSize/2+1)
}

// NewChromaSTFT creates a 12-bin chromagram calculator. tuning is the
// deviation from A4=440 Hz in fractions of a semitone.
func NewChromaSTFT(sampleRate, fftSize int, tuning float64) *ChromaSTFT {
	cs := &ChromaSTFT{
		sampleRate: sampleRate,
		fftSize:    fftSize,
		chromaBins: 12,
		tuning:     tuning,
		ctrOctave:  5.0,
		octWidth:   2.0,
	}
	cs.filterBank = cs.createFilterBank()
	return cs
}

// NewChromaSTFTDefault creates a chromagram calculator with standard A4=440Hz tuning
func NewChromaSTFTDefault(sampleRate, fftSize int) *ChromaSTFT {
	return NewChromaSTFT(sampleRate, fftSize, 0.0)
}

// hzToOctaves converts frequency to octaves above C0 (A440/16), adjusted for tuning
func (cs *ChromaSTFT) hzToOctaves(freq float64) float64 {
	a440 := 440.0 * math.Pow(2.0, cs.tuning/float64(cs.chromaBins))
	return math.Log2(freq / (a440 / 16.0))
}

func (cs *ChromaSTFT) createFilterBank() [][]float64 {
	n := cs.fftSize
	nChroma := float64(cs.chromaBins)

	// fractional chroma position of every FFT bin; the DC bin is placed
	// 1.5 octaves below bin 1
	frqBins := make([]float64, n)
	for k := 1; k < n; k++ {
		freq := float64(k) * float64(cs.sampleRate) / float64(n)
		frqBins[k] = nChroma * cs.hzToOctaves(freq)
	}
	frqBins[0] = frqBins[1] - 1.5*nChroma

	binWidths := make([]float64, n)
	for k := 0; k < n-1; k++ {
		binWidths[k] = math.Max(frqBins[k+1]-frqBins[k], 1.0)
	}
	binWidths[n-1] = 1.0

	half := math.Round(nChroma / 2)
	weights := make([][]float64, cs.chromaBins)
	for c := range weights {
		weights[c] = make([]float64, n)
	}

	for k := range n {
		norm := 0.0
		for c := range cs.chromaBins {
			d := frqBins[k] - float64(c)
			d = math.Mod(d+half+10*nChroma, nChroma)
			if d < 0 {
				d += nChroma
			}
			d -= half

			w := math.Exp(-0.5 * math.Pow(2*d/binWidths[k], 2))
			weights[c][k] = w
			norm += w * w
		}

		// unit L2 norm per FFT bin, then octave weighting
		norm = math.Sqrt(norm)
		octaveWeight := math.Exp(-0.5 * math.Pow((frqBins[k]/nChroma-cs.ctrOctave)/cs.octWidth, 2))
		for c := range cs.chromaBins {
			if norm > 0 {
				weights[c][k] /= norm
			}
			weights[c][k] *= octaveWeight
		}
	}

	// rotate so that bin 0 is C instead of A
	shift := 3 * (cs.chromaBins / 12)
	rolled := make([][]float64, cs.chromaBins)
	numBins := n/2 + 1
	for c := range cs.chromaBins {
		rolled[c] = weights[(c+shift)%cs.chromaBins][:numBins]
	}

	return rolled
}

// ComputeFrames converts a power spectrogram (frames x bins) to a chromagram
// (frames x 12). Every frame is scaled so that its strongest pitch class is 1;
// frames without energy stay at zero.
func (cs *ChromaSTFT) ComputeFrames(powerSpectrogram [][]float64) ([][]float64, error) {
	numBins := cs.fftSize/2 + 1
	chromagram := make([][]float64, len(powerSpectrogram))

	for t, spectrum := range powerSpectrogram {
		if len(spectrum) != numBins {
			return nil, fmt.Errorf("frame %d has %d bins, expected %d", t, len(spectrum), numBins)
		}

		frame := make([]float64, cs.chromaBins)
		for c, filter := range cs.filterBank {
			sum := 0.0
			for k, w := range filter {
				sum += w * spectrum[k]
			}
			frame[c] = sum
		}

		cs.normalizeChromaFrame(frame)
		chromagram[t] = frame
	}

	return chromagram, nil
}

// normalizeChromaFrame scales a frame to unit maximum
func (cs *ChromaSTFT) normalizeChromaFrame(chromaFrame []float64) {
	peak := 0.0
	for _, v := range chromaFrame {
		peak = math.Max(peak, math.Abs(v))
	}

	if peak > 1e-300 {
		for i := range chromaFrame {
			chromaFrame[i] /= peak
		}
	}
}

// GetFilterBank returns the chroma filter bank (for debugging/visualization)
func (cs *ChromaSTFT) GetFilterBank() [][]float64 {
	return cs.filterBank
}
