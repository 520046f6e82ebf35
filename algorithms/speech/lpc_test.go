package speech

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ar1(coeff float64, n int, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	x := make([]float64, n)
	for i := 1; i < n; i++ {
		x[i] = coeff*x[i-1] + rng.NormFloat64()*0.1
	}
	return x
}

func TestLPCRecoversAR1(t *testing.T) {
	signal := ar1(0.9, 20000, 7)

	for _, method := range []LPCMethod{LPCBurg, LPCAutocorrelation} {
		t.Run(string(method), func(t *testing.T) {
			result, err := NewLPCAnalyzer(16, method).Analyze(signal)
			require.NoError(t, err)
			require.Len(t, result.Coefficients, 17)

			assert.Equal(t, 1.0, result.Coefficients[0])
			assert.InDelta(t, -0.9, result.Coefficients[1], 0.03)
			for i := 2; i < len(result.Coefficients); i++ {
				assert.InDelta(t, 0.0, result.Coefficients[i], 0.05, "a%d", i)
			}
			assert.Equal(t, method, result.Method)
			assert.Len(t, result.ReflectionCoeff, 16)
		})
	}
}

func TestLPCShortSignal(t *testing.T) {
	_, err := NewLPCAnalyzer(16, LPCBurg).Analyze(make([]float64, 16))
	assert.Error(t, err)

	_, err = NewLPCAnalyzer(16, LPCAutocorrelation).Analyze(ar1(0.5, 31, 1))
	assert.Error(t, err)

	_, err = NewLPCAnalyzer(16, LPCBurg).Analyze(ar1(0.5, 64, 1))
	assert.NoError(t, err)
}

func TestLPCSilence(t *testing.T) {
	_, err := NewLPCAnalyzer(16, LPCAutocorrelation).Analyze(make([]float64, 1000))
	assert.ErrorContains(t, err, "zero energy")

	// Burg degrades to the identity predictor
	result, err := NewLPCAnalyzer(16, LPCBurg).Analyze(make([]float64, 1000))
	require.NoError(t, err)
	assert.InDelta(t, 1.0/17.0, result.MeanAbsCoefficient(), 1e-12)
}

func TestLPCRejectsNonFinite(t *testing.T) {
	signal := ar1(0.5, 100, 3)
	signal[10] = math.NaN()

	_, err := NewLPCAnalyzer(16, LPCBurg).Analyze(signal)
	assert.Error(t, err)
}

func TestLPCRejectsBadOrder(t *testing.T) {
	_, err := NewLPCAnalyzer(0, LPCBurg).Analyze(ar1(0.5, 100, 3))
	assert.Error(t, err)

	_, err = NewLPCAnalyzer(4, LPCMethod("covariance")).Analyze(ar1(0.5, 100, 3))
	assert.Error(t, err)
}

func TestParseLPCMethod(t *testing.T) {
	m, err := ParseLPCMethod("burg")
	require.NoError(t, err)
	assert.Equal(t, LPCBurg, m)

	_, err = ParseLPCMethod("nope")
	assert.Error(t, err)
}

func TestNewLPCAnalyzerDefaultsToBurg(t *testing.T) {
	result, err := NewLPCAnalyzer(2, "").Analyze(ar1(0.5, 100, 3))
	require.NoError(t, err)
	assert.Equal(t, LPCBurg, result.Method)
}
