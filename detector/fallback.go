package detector

import (
	"fmt"

	"github.com/RyanBlaney/sonido-veritas/algorithms/common"
	"github.com/RyanBlaney/sonido-veritas/logging"
)

// FallbackValue replaces any descriptor that cannot be computed
const FallbackValue = 0.0

type featureFunc func(a *analysis) (float64, error)

// withFallback runs fn and substitutes FallbackValue when it fails, panics
// or produces NaN or infinity. The reason is recorded on the analysis.
func (a *analysis) withFallback(name FeatureName, fn featureFunc) (value float64) {
	defer func() {
		if r := recover(); r != nil {
			value = a.fallback(name, fmt.Sprintf("panic: %v", r))
		}
	}()

	v, err := fn(a)
	if err != nil {
		return a.fallback(name, err.Error())
	}
	if !common.IsFinite(v) {
		return a.fallback(name, fmt.Sprintf("non-finite result %v", v))
	}
	return v
}

func (a *analysis) fallback(name FeatureName, reason string) float64 {
	a.logger.Debug("Feature computation failed, using fallback value", logging.Fields{
		"feature": string(name),
		"reason":  reason,
	})
	a.fallbacks[name] = reason
	return FallbackValue
}
