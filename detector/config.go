package detector

import (
	"fmt"

	"github.com/RyanBlaney/sonido-veritas/algorithms/speech"
	"github.com/RyanBlaney/sonido-veritas/algorithms/spectral"
	"github.com/RyanBlaney/sonido-veritas/algorithms/temporal"
	"github.com/RyanBlaney/sonido-veritas/algorithms/tonal"
)

// Config holds the analysis parameters of the feature extractor
type Config struct {
	// Framing
	FFTSize int `json:"fft_size" yaml:"fft_size" mapstructure:"fft_size"`
	HopSize int `json:"hop_size" yaml:"hop_size" mapstructure:"hop_size"`

	// Spectral shape
	RolloffPercent float64 `json:"rolloff_percent" yaml:"rolloff_percent" mapstructure:"rolloff_percent"`
	NumMelBands    int     `json:"num_mel_bands" yaml:"num_mel_bands" mapstructure:"num_mel_bands"`
	NumMFCC        int     `json:"num_mfcc" yaml:"num_mfcc" mapstructure:"num_mfcc"`
	TopDB          float64 `json:"top_db" yaml:"top_db" mapstructure:"top_db"`

	// Pitch tracking
	PitchMinFreq   float64 `json:"pitch_min_freq" yaml:"pitch_min_freq" mapstructure:"pitch_min_freq"`
	PitchMaxFreq   float64 `json:"pitch_max_freq" yaml:"pitch_max_freq" mapstructure:"pitch_max_freq"`
	PitchThreshold float64 `json:"pitch_threshold" yaml:"pitch_threshold" mapstructure:"pitch_threshold"`

	// Tempo prior
	TempoStartBPM float64 `json:"tempo_start_bpm" yaml:"tempo_start_bpm" mapstructure:"tempo_start_bpm"`
	TempoStdBPM   float64 `json:"tempo_std_bpm" yaml:"tempo_std_bpm" mapstructure:"tempo_std_bpm"`
	TempoMaxBPM   float64 `json:"tempo_max_bpm" yaml:"tempo_max_bpm" mapstructure:"tempo_max_bpm"`
	TempoACSize   float64 `json:"tempo_ac_size" yaml:"tempo_ac_size" mapstructure:"tempo_ac_size"`

	// Linear prediction
	LPCOrder  int              `json:"lpc_order" yaml:"lpc_order" mapstructure:"lpc_order"`
	LPCMethod speech.LPCMethod `json:"lpc_method" yaml:"lpc_method" mapstructure:"lpc_method"`
}

// DefaultConfig returns the analysis parameters the reference profile was calibrated with
func DefaultConfig() Config {
	mfcc := spectral.DefaultMFCCParams(0)
	pitch := tonal.DefaultPitchTrackParams()
	tempo := temporal.DefaultTempoParams()

	return Config{
		FFTSize:        2048,
		HopSize:        512,
		RolloffPercent: spectral.DefaultRolloffPercent,
		NumMelBands:    mfcc.NumMelFilters,
		NumMFCC:        mfcc.NumCoefficients,
		TopDB:          mfcc.TopDB,
		PitchMinFreq:   pitch.MinFreq,
		PitchMaxFreq:   pitch.MaxFreq,
		PitchThreshold: pitch.Threshold,
		TempoStartBPM:  tempo.StartBPM,
		TempoStdBPM:    tempo.StdBPM,
		TempoMaxBPM:    tempo.MaxTempo,
		TempoACSize:    tempo.ACSize,
		LPCOrder:       16,
		LPCMethod:      speech.LPCBurg,
	}
}

// Validate checks that the configuration can drive every descriptor
func (c Config) Validate() error {
	if c.FFTSize < 2 {
		return fmt.Errorf("fft size must be at least 2, got %d", c.FFTSize)
	}
	if c.HopSize <= 0 {
		return fmt.Errorf("hop size must be positive, got %d", c.HopSize)
	}
	if c.RolloffPercent <= 0 || c.RolloffPercent > 1 {
		return fmt.Errorf("rolloff percent must be in (0, 1], got %v", c.RolloffPercent)
	}
	if c.NumMelBands <= 0 {
		return fmt.Errorf("number of mel bands must be positive, got %d", c.NumMelBands)
	}
	if c.NumMFCC <= 0 || c.NumMFCC > c.NumMelBands {
		return fmt.Errorf("number of MFCCs must be in [1, %d], got %d", c.NumMelBands, c.NumMFCC)
	}
	if c.TopDB < 0 {
		return fmt.Errorf("top dB must not be negative, got %v", c.TopDB)
	}
	if c.PitchMinFreq < 0 || c.PitchMaxFreq <= c.PitchMinFreq {
		return fmt.Errorf("pitch range [%v, %v) is empty", c.PitchMinFreq, c.PitchMaxFreq)
	}
	if c.PitchThreshold < 0 || c.PitchThreshold >= 1 {
		return fmt.Errorf("pitch threshold must be in [0, 1), got %v", c.PitchThreshold)
	}
	if c.TempoStartBPM <= 0 || c.TempoStdBPM <= 0 || c.TempoMaxBPM <= 0 || c.TempoACSize <= 0 {
		return fmt.Errorf("tempo prior parameters must be positive")
	}
	if c.LPCOrder < 1 {
		return fmt.Errorf("LPC order must be at least 1, got %d", c.LPCOrder)
	}
	if _, err := speech.ParseLPCMethod(string(c.LPCMethod)); err != nil {
		return err
	}
	return nil
}

func (c Config) mfccParams(sampleRate int) spectral.MFCCParams {
	params := spectral.DefaultMFCCParams(sampleRate)
	params.NumCoefficients = c.NumMFCC
	params.NumMelFilters = c.NumMelBands
	params.TopDB = c.TopDB
	return params
}

func (c Config) pitchParams() tonal.PitchTrackParams {
	return tonal.PitchTrackParams{
		MinFreq:   c.PitchMinFreq,
		MaxFreq:   c.PitchMaxFreq,
		Threshold: c.PitchThreshold,
	}
}

func (c Config) tempoParams() temporal.TempoParams {
	return temporal.TempoParams{
		StartBPM: c.TempoStartBPM,
		StdBPM:   c.TempoStdBPM,
		MaxTempo: c.TempoMaxBPM,
		ACSize:   c.TempoACSize,
	}
}
