package cmd

import (
	"context"
	"time"

	"github.com/RyanBlaney/sonido-veritas/detector"
	"github.com/RyanBlaney/sonido-veritas/transcode"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Print the reference profile and weight table in effect",
	Args:  cobra.NoArgs,
	RunE:  runProfile,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that ffmpeg and ffprobe are available for non-WAV input",
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

type profileReport struct {
	Threshold float64                          `json:"threshold" yaml:"threshold"`
	Reference detector.FeatureVector           `json:"reference" yaml:"reference"`
	Weights   map[detector.FeatureName]float64 `json:"weights" yaml:"weights"`
	Analysis  detector.Config                  `json:"analysis" yaml:"analysis"`
}

func init() {
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(checkCmd)
}

func runProfile(cmd *cobra.Command, args []string) error {
	config, err := loadConfig()
	if err != nil {
		return err
	}

	weights, err := config.weightTable()
	if err != nil {
		return err
	}
	reference, err := config.referenceProfile()
	if err != nil {
		return err
	}

	return writeOutput(cmd.OutOrStdout(), viper.GetString("output_format"), profileReport{
		Threshold: detector.DecisionThreshold,
		Reference: reference.Vector(),
		Weights:   weights.Weights(),
		Analysis:  config.Detector,
	})
}

func runCheck(cmd *cobra.Command, args []string) error {
	config, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := transcode.NewDecoder(&config.Decoder).CheckFFmpeg(ctx); err != nil {
		return err
	}

	return writeOutput(cmd.OutOrStdout(), viper.GetString("output_format"), map[string]string{
		"ffmpeg":  config.Decoder.FFmpegPath,
		"ffprobe": config.Decoder.FFprobePath,
		"status":  "ok",
	})
}
