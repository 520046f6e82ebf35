package detector

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/RyanBlaney/sonido-veritas/algorithms/common"
)

// FeatureName identifies one acoustic descriptor
type FeatureName string

const (
	SpectralCentroid  FeatureName = "Spectral Centroid"
	SpectralBandwidth FeatureName = "Spectral Bandwidth"
	RollOff           FeatureName = "Roll-off"
	ZeroCrossingRate  FeatureName = "Zero-Crossing Rate"
	RMS               FeatureName = "RMS"
	Tempo             FeatureName = "Tempo"
	MFCC              FeatureName = "MFCC"
	Chroma            FeatureName = "Chroma"
	Pitch             FeatureName = "Pitch"
	NoiseLevel        FeatureName = "Noise Level"
	LPC               FeatureName = "LPC"
)

var featureOrder = []FeatureName{
	SpectralCentroid,
	SpectralBandwidth,
	RollOff,
	ZeroCrossingRate,
	RMS,
	Tempo,
	MFCC,
	Chroma,
	Pitch,
	NoiseLevel,
	LPC,
}

// FeatureNames returns the 11 descriptors in canonical order
func FeatureNames() []FeatureName {
	return slices.Clone(featureOrder)
}

// IsKnown reports whether name is one of the 11 descriptors
func (name FeatureName) IsKnown() bool {
	return slices.Contains(featureOrder, name)
}

// ParseFeatureName matches name against the descriptor names ignoring case,
// so keys that went through a case-folding config loader still resolve
func ParseFeatureName(name string) (FeatureName, error) {
	for _, known := range featureOrder {
		if strings.EqualFold(string(known), strings.TrimSpace(name)) {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown feature %q", name)
}

// FeatureVector maps every descriptor to its scalar summary
type FeatureVector map[FeatureName]float64

// Validate checks that exactly the 11 descriptors are present and finite
func (fv FeatureVector) Validate() error {
	if len(fv) != len(featureOrder) {
		return fmt.Errorf("%w: %d features, expected %d", ErrInvalidFeatureVector, len(fv), len(featureOrder))
	}

	for _, name := range featureOrder {
		value, ok := fv[name]
		if !ok {
			return fmt.Errorf("%w: missing %q", ErrInvalidFeatureVector, name)
		}
		if !common.IsFinite(value) {
			return fmt.Errorf("%w: %q is %v", ErrInvalidFeatureVector, name, value)
		}
	}

	return nil
}

// Values returns the feature values in canonical order
func (fv FeatureVector) Values() []float64 {
	values := make([]float64, len(featureOrder))
	for i, name := range featureOrder {
		values[i] = fv[name]
	}
	return values
}

// Waveform is a decoded mono signal
type Waveform struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the length of the waveform in time
func (w Waveform) Duration() time.Duration {
	if w.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(w.Samples)) * time.Second / time.Duration(w.SampleRate)
}

func (w Waveform) validate() error {
	if len(w.Samples) == 0 {
		return &ExtractionError{Op: "validate waveform", Err: ErrEmptyWaveform}
	}
	if w.SampleRate <= 0 {
		return &ExtractionError{Op: "validate waveform", Err: fmt.Errorf("%w: %d", ErrInvalidSampleRate, w.SampleRate)}
	}
	for i, s := range w.Samples {
		if !common.IsFinite(s) {
			return &ExtractionError{Op: "validate waveform", Err: fmt.Errorf("%w: sample %d is %v", ErrNonFiniteSample, i, s)}
		}
	}
	return nil
}
