package detector

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// DecisionThreshold is the raw score above which a clip is classified as AI
const DecisionThreshold = 0.3

const (
	MessageAI    = "AI voice detected"
	MessageHuman = "Human voice detected"
)

// Result is the outcome of one classification
type Result struct {
	IsAI       bool    `json:"is_ai" yaml:"is_ai"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
	Message    string  `json:"message" yaml:"message"`
}

// Deviation describes how one feature contributed to the raw score
type Deviation struct {
	Name         FeatureName `json:"name" yaml:"name"`
	Value        float64     `json:"value" yaml:"value"`
	Reference    float64     `json:"reference" yaml:"reference"`
	Difference   float64     `json:"difference" yaml:"difference"`
	Normalized   float64     `json:"normalized" yaml:"normalized"`
	Weight       float64     `json:"weight" yaml:"weight"`
	Contribution float64     `json:"contribution" yaml:"contribution"`
}

// Scoring is the full breakdown behind a Result
type Scoring struct {
	Deviations    []Deviation `json:"deviations" yaml:"deviations"`
	MaxDifference float64     `json:"max_difference" yaml:"max_difference"`
	RawScore      float64     `json:"raw_score" yaml:"raw_score"`
	Result        Result      `json:"result" yaml:"result"`
}

// Scorer compares feature vectors with a reference profile
type Scorer struct {
	reference ReferenceProfile
	weights   WeightTable
}

// NewScorer creates a scorer. It holds no mutable state and is safe for concurrent use.
func NewScorer(reference ReferenceProfile, weights WeightTable) *Scorer {
	return &Scorer{
		reference: reference,
		weights:   weights,
	}
}

// Score classifies a feature vector
func (s *Scorer) Score(fv FeatureVector) (*Result, error) {
	scoring, err := s.Evaluate(fv)
	if err != nil {
		return nil, err
	}
	return &scoring.Result, nil
}

// Evaluate scores a feature vector and returns every intermediate value.
//
// Differences from the reference are divided by the largest difference, so
// the furthest feature always normalises to exactly 1. When the vector
// matches the reference everywhere all normalised differences are 0.
func (s *Scorer) Evaluate(fv FeatureVector) (*Scoring, error) {
	if err := fv.Validate(); err != nil {
		return nil, err
	}

	values := fv.Values()
	references := s.reference.Vector().Values()
	diffs := make([]float64, len(values))
	floats.SubTo(diffs, values, references)
	for i, d := range diffs {
		diffs[i] = math.Abs(d)
	}
	maxDiff := floats.Max(diffs)

	scoring := &Scoring{
		Deviations:    make([]Deviation, len(featureOrder)),
		MaxDifference: maxDiff,
	}

	raw := 0.0
	for i, name := range featureOrder {
		normalized := 0.0
		if maxDiff > 0 {
			normalized = diffs[i] / maxDiff
		}

		weight := s.weights.Weight(name)
		contribution := normalized * weight
		raw += contribution

		scoring.Deviations[i] = Deviation{
			Name:         name,
			Value:        values[i],
			Reference:    references[i],
			Difference:   diffs[i],
			Normalized:   normalized,
			Weight:       weight,
			Contribution: contribution,
		}
	}

	scoring.RawScore = raw
	scoring.Result = Decide(raw)
	return scoring, nil
}

// Decide applies the decision rule to a raw score
func Decide(raw float64) Result {
	if raw > DecisionThreshold {
		return Result{
			IsAI:       true,
			Confidence: raw,
			Message:    MessageAI,
		}
	}
	return Result{
		IsAI:       false,
		Confidence: 1 - raw,
		Message:    MessageHuman,
	}
}
