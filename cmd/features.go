package cmd

import (
	"github.com/RyanBlaney/sonido-veritas/detector"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var featuresCmd = &cobra.Command{
	Use:   "features <file>",
	Short: "Print the acoustic descriptors of a recording",
	Long: `Decode an audio file and print the 11 scalar descriptors used for
classification, without scoring them. Descriptors that could not be computed
are reported as 0 and listed under fallbacks.`,
	Args: cobra.ExactArgs(1),
	RunE: runFeatures,
}

type featuresReport struct {
	File       string                          `json:"file" yaml:"file"`
	SampleRate int                             `json:"sample_rate" yaml:"sample_rate"`
	Duration   string                          `json:"duration" yaml:"duration"`
	Features   detector.FeatureVector          `json:"features" yaml:"features"`
	Fallbacks  map[detector.FeatureName]string `json:"fallbacks,omitempty" yaml:"fallbacks,omitempty"`
}

func init() {
	rootCmd.AddCommand(featuresCmd)
}

func runFeatures(cmd *cobra.Command, args []string) error {
	config, err := loadConfig()
	if err != nil {
		return err
	}

	audio, err := decodeInput(cmd.Context(), config, args[0])
	if err != nil {
		return err
	}

	d, err := config.newDetector()
	if err != nil {
		return err
	}

	extraction, err := d.Extractor().ExtractDetailed(detector.Waveform{Samples: audio.PCM, SampleRate: audio.SampleRate})
	if err != nil {
		return err
	}

	return writeOutput(cmd.OutOrStdout(), viper.GetString("output_format"), featuresReport{
		File:       args[0],
		SampleRate: audio.SampleRate,
		Duration:   audio.Duration.String(),
		Features:   extraction.Features,
		Fallbacks:  extraction.Fallbacks,
	})
}
