package detector

import (
	"fmt"
	"maps"

	"github.com/RyanBlaney/sonido-veritas/algorithms/common"
)

// DefaultWeight applies to any feature the weight table does not list
const DefaultWeight = 0.05

// ReferenceProfile holds the typical human value of every descriptor.
// It cannot be modified after construction.
type ReferenceProfile struct {
	values map[FeatureName]float64
}

var humanReference = ReferenceProfile{
	values: map[FeatureName]float64{
		SpectralCentroid:  2000,
		SpectralBandwidth: 2500,
		RollOff:           4000,
		ZeroCrossingRate:  0.05,
		RMS:               0.07,
		Tempo:             130,
		MFCC:              7,
		Chroma:            0.45,
		Pitch:             1000,
		NoiseLevel:        0.04,
		LPC:               1.5,
	},
}

// HumanReference returns the built-in profile of typical human speech
func HumanReference() ReferenceProfile {
	return humanReference
}

// NewReferenceProfile builds a profile; every descriptor must be given a finite value
func NewReferenceProfile(values map[FeatureName]float64) (ReferenceProfile, error) {
	if err := FeatureVector(values).Validate(); err != nil {
		return ReferenceProfile{}, fmt.Errorf("invalid reference profile: %w", err)
	}
	return ReferenceProfile{values: maps.Clone(values)}, nil
}

// Value returns the reference value for name
func (p ReferenceProfile) Value(name FeatureName) float64 {
	return p.values[name]
}

// Vector returns a copy of the profile as a FeatureVector
func (p ReferenceProfile) Vector() FeatureVector {
	return FeatureVector(maps.Clone(p.values))
}

// WeightTable holds the contribution of each descriptor to the raw score.
// It cannot be modified after construction.
type WeightTable struct {
	weights map[FeatureName]float64
}

var defaultWeights = WeightTable{
	weights: map[FeatureName]float64{
		SpectralBandwidth: 0.2,
		SpectralCentroid:  0.1,
		RollOff:           0.1,
		Pitch:             0.1,
		Tempo:             0.05,
		MFCC:              0.1,
		Chroma:            0.05,
		ZeroCrossingRate:  0.05,
		NoiseLevel:        0.05,
		RMS:               0.05,
		LPC:               0.15,
	},
}

// DefaultWeights returns the built-in weight table
func DefaultWeights() WeightTable {
	return defaultWeights
}

// NewWeightTable builds a table from non-negative finite weights. Names left
// out weigh DefaultWeight.
func NewWeightTable(weights map[FeatureName]float64) (WeightTable, error) {
	for name, w := range weights {
		if !name.IsKnown() {
			return WeightTable{}, fmt.Errorf("unknown feature %q", name)
		}
		if !common.IsFinite(w) || w < 0 {
			return WeightTable{}, fmt.Errorf("weight for %q must be a non-negative number, got %v", name, w)
		}
	}
	return WeightTable{weights: maps.Clone(weights)}, nil
}

// Weight returns the weight for name, or DefaultWeight when it is not listed
func (t WeightTable) Weight(name FeatureName) float64 {
	if w, ok := t.weights[name]; ok {
		return w
	}
	return DefaultWeight
}

// Weights returns the effective weight of every descriptor
func (t WeightTable) Weights() map[FeatureName]float64 {
	out := make(map[FeatureName]float64, len(featureOrder))
	for _, name := range featureOrder {
		out[name] = t.Weight(name)
	}
	return out
}
