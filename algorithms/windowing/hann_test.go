package windowing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodicHann(t *testing.T) {
	coeffs := NewPeriodicHann(4).Coefficients()
	require.Len(t, coeffs, 4)
	assert.InDeltaSlice(t, []float64{0, 0.5, 1, 0.5}, coeffs, 1e-12)

	assert.Equal(t, []float64{1}, NewPeriodicHann(1).Coefficients())
	assert.Zero(t, NewPeriodicHann(0).Size())
}

func TestPeriodicHannOverlapAdd(t *testing.T) {
	const size = 16
	coeffs := NewPeriodicHann(size).Coefficients()

	// four windows hopped by size/4 sum to 2 everywhere
	for n := range size / 4 {
		sum := 0.0
		for k := 0; k < 4; k++ {
			sum += coeffs[n+k*size/4]
		}
		assert.InDelta(t, 2.0, sum, 1e-12)
	}
}

func TestApplyInPlace(t *testing.T) {
	h := NewPeriodicHann(8)
	assert.Error(t, h.ApplyInPlace(make([]float64, 4)))

	frame := []float64{1, 1, 1, 1, 1, 1, 1, 1}
	require.NoError(t, h.ApplyInPlace(frame))
	assert.InDeltaSlice(t, h.Coefficients(), frame, 1e-12)

	// the window itself is not modified by callers
	c := h.Coefficients()
	c[0] = 42
	assert.Zero(t, h.Coefficients()[0])
}
