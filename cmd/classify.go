package cmd

import (
	"context"
	"fmt"

	"github.com/RyanBlaney/sonido-veritas/detector"
	"github.com/RyanBlaney/sonido-veritas/logging"
	"github.com/RyanBlaney/sonido-veritas/transcode"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <file>",
	Short: "Classify a recording as human or AI generated",
	Long: `Decode an audio file, extract its acoustic descriptors and compare them with
the human reference profile.

Examples:
  # Plain verdict
  veritas classify interview.wav

  # Verdict with features and per-feature deviations, as YAML
  veritas classify --verbose --output yaml voicemail.mp3

  # Analyse only the first 10 seconds, resampled to 16 kHz
  veritas classify --max-duration 10s --sample-rate 16000 podcast.m4a`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

// classifyReport is the --verbose output of classify
type classifyReport struct {
	File       string                          `json:"file" yaml:"file"`
	SampleRate int                             `json:"sample_rate" yaml:"sample_rate"`
	Duration   string                          `json:"duration" yaml:"duration"`
	Result     detector.Result                 `json:"result" yaml:"result"`
	RawScore   float64                         `json:"raw_score" yaml:"raw_score"`
	Features   detector.FeatureVector          `json:"features" yaml:"features"`
	Deviations []detector.Deviation            `json:"deviations" yaml:"deviations"`
	Fallbacks  map[detector.FeatureName]string `json:"fallbacks,omitempty" yaml:"fallbacks,omitempty"`
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
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

	analysis, err := d.Analyze(detector.Waveform{Samples: audio.PCM, SampleRate: audio.SampleRate})
	if err != nil {
		return err
	}

	if !viper.GetBool("verbose") {
		return writeOutput(cmd.OutOrStdout(), viper.GetString("output_format"), analysis.Scoring.Result)
	}

	return writeOutput(cmd.OutOrStdout(), viper.GetString("output_format"), classifyReport{
		File:       args[0],
		SampleRate: audio.SampleRate,
		Duration:   audio.Duration.String(),
		Result:     analysis.Scoring.Result,
		RawScore:   analysis.Scoring.RawScore,
		Features:   analysis.Features,
		Deviations: analysis.Scoring.Deviations,
		Fallbacks:  analysis.Fallbacks,
	})
}

// decodeInput decodes a file into a mono waveform using the configured decoder
func decodeInput(ctx context.Context, config *appConfig, path string) (*transcode.AudioData, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	decoder := transcode.NewDecoder(&config.Decoder)
	audio, err := decoder.DecodeFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	logging.Debug("Input decoded", logging.Fields{
		"file":        path,
		"sample_rate": audio.SampleRate,
		"channels":    audio.Channels,
		"samples":     len(audio.PCM),
	})
	return audio, nil
}
