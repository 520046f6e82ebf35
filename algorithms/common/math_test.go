package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMedian(t *testing.T) {
	assert.Equal(t, 2.0, Median([]float64{3, 1, 2}))
	assert.Equal(t, 2.5, Median([]float64{4, 1, 3, 2}))
	assert.True(t, math.IsNaN(Median(nil)))
}

func TestMedianDoesNotReorderInput(t *testing.T) {
	data := []float64{3, 1, 2}
	Median(data)
	assert.Equal(t, []float64{3, 1, 2}, data)
}

func TestPopStdDev(t *testing.T) {
	// population std of {2,4,4,4,5,5,7,9} is exactly 2
	assert.InDelta(t, 2.0, PopStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-12)
	assert.Equal(t, 0.0, PopStdDev(make([]float64, 16)))
	assert.Equal(t, 0.0, PopStdDev(nil))
}

func TestMeanAbs(t *testing.T) {
	assert.InDelta(t, 2.0, MeanAbs([]float64{-1, 3, -2}), 1e-12)
	assert.InDelta(t, 1.5, MeanAbsMatrix([][]float64{{-1, 2}, {-1, 2}}), 1e-12)
	assert.InDelta(t, 0.5, MeanMatrix([][]float64{{-1, 2}, {-1, 2}}), 1e-12)
	assert.Equal(t, 0.0, MeanMatrix(nil))
}

func TestIsFinite(t *testing.T) {
	assert.True(t, IsFinite(1.5))
	assert.False(t, IsFinite(math.NaN()))
	assert.False(t, IsFinite(math.Inf(-1)))
	assert.False(t, AllFinite([]float64{1, math.Inf(1)}))
	assert.True(t, AllFinite([]float64{1, 2}))
}
