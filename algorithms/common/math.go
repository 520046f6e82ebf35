package common

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Basic statistical reductions shared by the feature extractors, backed by gonum

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// PopStdDev calculates the population standard deviation (divides by N)
func PopStdDev(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.PopStdDev(data, nil)
}

// Median returns the middle value, averaging the two central values for even lengths.
// NaN for empty input.
func Median(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}

	sorted := slices.Clone(data)
	slices.Sort(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// MeanAbs returns the mean of absolute values
func MeanAbs(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return floats.Norm(data, 1) / float64(len(data))
}

// MeanAbsMatrix returns the mean absolute value over every element of a matrix
func MeanAbsMatrix(matrix [][]float64) float64 {
	sum := 0.0
	count := 0
	for _, row := range matrix {
		sum += floats.Norm(row, 1)
		count += len(row)
	}
	if count == 0 {
		return 0.0
	}
	return sum / float64(count)
}

// MeanMatrix returns the mean over every element of a matrix
func MeanMatrix(matrix [][]float64) float64 {
	sum := 0.0
	count := 0
	for _, row := range matrix {
		sum += floats.Sum(row)
		count += len(row)
	}
	if count == 0 {
		return 0.0
	}
	return sum / float64(count)
}

// IsFinite reports whether v is neither NaN nor infinite
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// AllFinite reports whether every element of data is finite
func AllFinite(data []float64) bool {
	for _, v := range data {
		if !IsFinite(v) {
			return false
		}
	}
	return true
}
