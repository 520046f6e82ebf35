package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPadCenter(t *testing.T) {
	signal := []float64{1, 2, 3}

	assert.Equal(t, []float64{0, 0, 1, 2, 3, 0, 0}, PadCenter(signal, 4, PadConstant))
	assert.Equal(t, []float64{1, 1, 1, 2, 3, 3, 3}, PadCenter(signal, 4, PadEdge))
	assert.Equal(t, []float64{1, 2, 3}, signal)
}

func TestPadCenterLinearRamp(t *testing.T) {
	assert.Equal(t, []float64{0, 1, 2, 4, 2, 0}, PadCenter([]float64{2, 4}, 4, PadLinearRamp))
	assert.Equal(t, []float64{0, 0}, PadCenter(nil, 4, PadLinearRamp)[:2])
}

func TestFrameCount(t *testing.T) {
	assert.Equal(t, 0, FrameCount(100, 2048, 512))
	assert.Equal(t, 1, FrameCount(2048, 2048, 512))
	assert.Equal(t, 3, FrameCount(3072, 2048, 512))
	assert.Equal(t, 0, FrameCount(3072, 2048, 0))
}

func TestCenteredFrameCountMatchesLengthOverHop(t *testing.T) {
	for _, n := range []int{1, 20, 511, 512, 16000, 22050} {
		assert.Equal(t, 1+n/512, CenteredFrameCount(n, 2048, 512), "length %d", n)
	}
}
