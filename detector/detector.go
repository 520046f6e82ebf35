// Package detector classifies speech recordings as human or synthetic by
// comparing 11 acoustic descriptors with a reference profile of human speech.
package detector

import (
	"fmt"

	"github.com/RyanBlaney/sonido-veritas/logging"
)

// Detector combines feature extraction and scoring
type Detector struct {
	extractor *Extractor
	scorer    *Scorer
	logger    logging.Logger
}

// Analysis is the complete outcome of classifying one waveform
type Analysis struct {
	Features  FeatureVector          `json:"features" yaml:"features"`
	Fallbacks map[FeatureName]string `json:"fallbacks,omitempty" yaml:"fallbacks,omitempty"`
	Scoring   *Scoring               `json:"scoring" yaml:"scoring"`
}

type options struct {
	config    Config
	logger    logging.Logger
	weights   WeightTable
	reference ReferenceProfile
}

// Option configures a Detector
type Option func(*options)

// WithConfig overrides the analysis parameters
func WithConfig(config Config) Option {
	return func(o *options) {
		o.config = config
	}
}

// WithLogger sets the logger used for diagnostics
func WithLogger(logger logging.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithWeights overrides the weight table
func WithWeights(weights WeightTable) Option {
	return func(o *options) {
		o.weights = weights
	}
}

// WithReference overrides the human reference profile
func WithReference(reference ReferenceProfile) Option {
	return func(o *options) {
		o.reference = reference
	}
}

// New creates a detector with the built-in profile and weights unless
// options say otherwise
func New(opts ...Option) (*Detector, error) {
	o := options{
		config:    DefaultConfig(),
		logger:    logging.GetGlobalLogger(),
		weights:   DefaultWeights(),
		reference: HumanReference(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if len(o.reference.values) == 0 {
		return nil, fmt.Errorf("reference profile is empty")
	}
	if o.logger == nil {
		o.logger = &logging.NoOpLogger{}
	}

	extractor, err := NewExtractor(o.config, o.logger)
	if err != nil {
		return nil, err
	}

	return &Detector{
		extractor: extractor,
		scorer:    NewScorer(o.reference, o.weights),
		logger: o.logger.WithFields(logging.Fields{
			"component": "detector",
		}),
	}, nil
}

// Classify decides whether samples at sampleRate Hz are AI generated
func (d *Detector) Classify(samples []float64, sampleRate int) (*Result, error) {
	return d.ClassifyWaveform(Waveform{Samples: samples, SampleRate: sampleRate})
}

// ClassifyWaveform decides whether w is AI generated
func (d *Detector) ClassifyWaveform(w Waveform) (*Result, error) {
	analysis, err := d.Analyze(w)
	if err != nil {
		return nil, err
	}
	return &analysis.Scoring.Result, nil
}

// Analyze classifies w and returns the features and scoring breakdown
func (d *Detector) Analyze(w Waveform) (*Analysis, error) {
	extraction, err := d.extractor.ExtractDetailed(w)
	if err != nil {
		return nil, err
	}

	scoring, err := d.scorer.Evaluate(extraction.Features)
	if err != nil {
		return nil, fmt.Errorf("failed to score features: %w", err)
	}

	d.logger.Debug("Classification completed", logging.Fields{
		"duration":   w.Duration().String(),
		"raw_score":  scoring.RawScore,
		"is_ai":      scoring.Result.IsAI,
		"confidence": scoring.Result.Confidence,
	})

	return &Analysis{
		Features:  extraction.Features,
		Fallbacks: extraction.Fallbacks,
		Scoring:   scoring,
	}, nil
}

// Extractor returns the feature extractor
func (d *Detector) Extractor() *Extractor {
	return d.extractor
}

// Scorer returns the scorer
func (d *Detector) Scorer() *Scorer {
	return d.scorer
}
