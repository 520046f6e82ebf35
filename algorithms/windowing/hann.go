package windowing

import (
	"fmt"
	"math"
)

// Hann is a periodic Hann window: w[n] = 0.5 - 0.5*cos(2*pi*n/N). It is the
// DFT-even form, so frames overlapped at N/4 hops sum to a constant.
type Hann struct {
	coefficients []float64
}

// NewPeriodicHann builds a window of size samples. A size of 1 gives the
// all-pass window [1].
func NewPeriodicHann(size int) *Hann {
	coefficients := make([]float64, max(size, 0))
	if size == 1 {
		coefficients[0] = 1.0
	}

	step := 2 * math.Pi / float64(size)
	for n := range coefficients {
		if size > 1 {
			coefficients[n] = 0.5 - 0.5*math.Cos(step*float64(n))
		}
	}

	return &Hann{coefficients: coefficients}
}

// ApplyInPlace multiplies frame by the window
func (h *Hann) ApplyInPlace(frame []float64) error {
	if len(frame) != len(h.coefficients) {
		return fmt.Errorf("frame of %d samples does not fit a %d-point window", len(frame), len(h.coefficients))
	}

	for n, w := range h.coefficients {
		frame[n] *= w
	}
	return nil
}

// Coefficients returns a copy of the window
func (h *Hann) Coefficients() []float64 {
	return append([]float64(nil), h.coefficients...)
}

// Size returns the window length
func (h *Hann) Size() int {
	return len(h.coefficients)
}
