package cmd

import (
	"fmt"

	"github.com/RyanBlaney/sonido-veritas/detector"
	"github.com/RyanBlaney/sonido-veritas/logging"
	"github.com/RyanBlaney/sonido-veritas/transcode"
	"github.com/spf13/viper"
)

// appConfig is the veritas.yaml layout
type appConfig struct {
	Verbose      bool   `mapstructure:"verbose"`
	LogLevel     string `mapstructure:"log_level"`
	OutputFormat string `mapstructure:"output_format"`

	Decoder  transcode.DecoderConfig `mapstructure:"decoder"`
	Detector detector.Config         `mapstructure:"detector"`

	// Weights overrides individual entries of the default weight table
	Weights map[string]float64 `mapstructure:"weights"`
	// Reference replaces the human reference profile; all 11 values are required
	Reference map[string]float64 `mapstructure:"reference"`
}

// loadConfig decodes viper state on top of the library defaults
func loadConfig() (*appConfig, error) {
	config := &appConfig{
		Decoder:  *transcode.DefaultDecoderConfig(),
		Detector: detector.DefaultConfig(),
	}

	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	if err := config.Decoder.Validate(); err != nil {
		return nil, fmt.Errorf("invalid decoder configuration: %w", err)
	}
	if err := config.Detector.Validate(); err != nil {
		return nil, fmt.Errorf("invalid detector configuration: %w", err)
	}

	return config, nil
}

// weightTable merges configured weights into the defaults
func (c *appConfig) weightTable() (detector.WeightTable, error) {
	if len(c.Weights) == 0 {
		return detector.DefaultWeights(), nil
	}

	weights := detector.DefaultWeights().Weights()
	for key, w := range c.Weights {
		name, err := detector.ParseFeatureName(key)
		if err != nil {
			return detector.WeightTable{}, fmt.Errorf("weights: %w", err)
		}
		weights[name] = w
	}
	return detector.NewWeightTable(weights)
}

func (c *appConfig) referenceProfile() (detector.ReferenceProfile, error) {
	if len(c.Reference) == 0 {
		return detector.HumanReference(), nil
	}

	values := make(map[detector.FeatureName]float64, len(c.Reference))
	for key, v := range c.Reference {
		name, err := detector.ParseFeatureName(key)
		if err != nil {
			return detector.ReferenceProfile{}, fmt.Errorf("reference: %w", err)
		}
		values[name] = v
	}
	return detector.NewReferenceProfile(values)
}

func (c *appConfig) newDetector() (*detector.Detector, error) {
	weights, err := c.weightTable()
	if err != nil {
		return nil, err
	}
	reference, err := c.referenceProfile()
	if err != nil {
		return nil, err
	}

	return detector.New(
		detector.WithConfig(c.Detector),
		detector.WithWeights(weights),
		detector.WithReference(reference),
		detector.WithLogger(logging.GetGlobalLogger()),
	)
}
