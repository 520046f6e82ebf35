package detector

import (
	"fmt"
	"maps"
	"math"
	"time"

	"github.com/RyanBlaney/sonido-veritas/algorithms/chroma"
	"github.com/RyanBlaney/sonido-veritas/algorithms/common"
	"github.com/RyanBlaney/sonido-veritas/algorithms/spectral"
	"github.com/RyanBlaney/sonido-veritas/algorithms/speech"
	"github.com/RyanBlaney/sonido-veritas/algorithms/temporal"
	"github.com/RyanBlaney/sonido-veritas/algorithms/tonal"
	"github.com/RyanBlaney/sonido-veritas/algorithms/windowing"
	"github.com/RyanBlaney/sonido-veritas/logging"
)

// Extraction is a feature vector together with the descriptors that fell back
type Extraction struct {
	Features FeatureVector `json:"features" yaml:"features"`
	// Fallbacks maps each descriptor that could not be computed to the reason
	Fallbacks map[FeatureName]string `json:"fallbacks,omitempty" yaml:"fallbacks,omitempty"`
}

// Extractor turns a waveform into the 11 scalar descriptors
type Extractor struct {
	config Config
	logger logging.Logger
}

// NewExtractor creates an extractor. A nil logger uses the global logger.
func NewExtractor(config Config, logger logging.Logger) (*Extractor, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid extractor config: %w", err)
	}
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	return &Extractor{
		config: config,
		logger: logger.WithFields(logging.Fields{
			"component": "feature_extractor",
		}),
	}, nil
}

// Config returns the analysis parameters
func (e *Extractor) Config() Config {
	return e.config
}

// Extract computes the feature vector of w. The only errors are for a
// waveform that cannot be analysed at all; a single descriptor that fails
// is replaced by FallbackValue.
func (e *Extractor) Extract(w Waveform) (FeatureVector, error) {
	extraction, err := e.ExtractDetailed(w)
	if err != nil {
		return nil, err
	}
	return extraction.Features, nil
}

// ExtractDetailed is Extract that also reports which descriptors fell back
func (e *Extractor) ExtractDetailed(w Waveform) (*Extraction, error) {
	if err := w.validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	a := newAnalysis(w, e.config, e.logger)

	features := make(FeatureVector, len(featureOrder))
	for _, name := range featureOrder {
		features[name] = a.withFallback(name, descriptors[name])
	}

	e.logger.Debug("Feature extraction completed", logging.Fields{
		"samples":     len(w.Samples),
		"sample_rate": w.SampleRate,
		"frames":      a.frameCount(),
		"fallbacks":   len(a.fallbacks),
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return &Extraction{
		Features:  features,
		Fallbacks: maps.Clone(a.fallbacks),
	}, nil
}

var descriptors = map[FeatureName]featureFunc{
	SpectralCentroid:  spectralCentroid,
	SpectralBandwidth: spectralBandwidth,
	RollOff:           spectralRolloff,
	ZeroCrossingRate:  zeroCrossingRate,
	RMS:               rmsEnergy,
	Tempo:             tempo,
	MFCC:              mfccMagnitude,
	Chroma:            chromaMean,
	Pitch:             meanPitch,
	NoiseLevel:        noiseLevel,
	LPC:               lpcMagnitude,
}

// analysis holds one waveform and the intermediate representations shared
// by several descriptors. Each is computed at most once.
type analysis struct {
	samples    []float64
	sampleRate int
	config     Config
	logger     logging.Logger
	fallbacks  map[FeatureName]string

	stft    *spectral.STFTResult
	stftErr error
	power   [][]float64

	mfcc      *spectral.MFCC
	logMel    [][]float64
	logMelErr error
}

func newAnalysis(w Waveform, config Config, logger logging.Logger) *analysis {
	return &analysis{
		samples:    w.Samples,
		sampleRate: w.SampleRate,
		config:     config,
		logger:     logger,
		fallbacks:  make(map[FeatureName]string),
	}
}

func (a *analysis) frameCount() int {
	return common.CenteredFrameCount(len(a.samples), a.config.FFTSize, a.config.HopSize)
}

// magnitude returns the centred, Hann-windowed magnitude spectrogram
func (a *analysis) magnitude() (*spectral.STFTResult, error) {
	if a.stft == nil && a.stftErr == nil {
		window := windowing.NewPeriodicHann(a.config.FFTSize)
		a.stft, a.stftErr = spectral.NewSTFT().ComputeCentered(a.samples, a.config.FFTSize, a.config.HopSize, a.sampleRate, window)
		if a.stftErr != nil {
			a.stftErr = fmt.Errorf("STFT: %w", a.stftErr)
		}
	}
	return a.stft, a.stftErr
}

func (a *analysis) powerSpectrogram() ([][]float64, error) {
	if a.power == nil {
		stft, err := a.magnitude()
		if err != nil {
			return nil, err
		}
		a.power = spectral.NewPowerSpectrum().ComputeFromSTFT(stft)
	}
	return a.power, nil
}

// logMelSpectrogram is shared by the cepstral and onset descriptors
func (a *analysis) logMelSpectrogram() ([][]float64, error) {
	if a.logMel == nil && a.logMelErr == nil {
		power, err := a.powerSpectrogram()
		if err != nil {
			return nil, err
		}
		a.mfcc = spectral.NewMFCCWithParams(a.sampleRate, a.config.mfccParams(a.sampleRate))
		a.logMel, a.logMelErr = a.mfcc.LogMelSpectrogram(power)
	}
	return a.logMel, a.logMelErr
}

func spectralCentroid(a *analysis) (float64, error) {
	stft, err := a.magnitude()
	if err != nil {
		return 0, err
	}
	sc := spectral.NewSpectralCentroid(a.sampleRate, a.config.FFTSize)
	return common.Mean(sc.ComputeFrames(stft.Magnitude)), nil
}

func spectralBandwidth(a *analysis) (float64, error) {
	stft, err := a.magnitude()
	if err != nil {
		return 0, err
	}
	centroids := spectral.NewSpectralCentroid(a.sampleRate, a.config.FFTSize).ComputeFrames(stft.Magnitude)
	sb := spectral.NewSpectralBandwidth(a.sampleRate, a.config.FFTSize)
	return common.Mean(sb.ComputeFrames(stft.Magnitude, centroids)), nil
}

func spectralRolloff(a *analysis) (float64, error) {
	stft, err := a.magnitude()
	if err != nil {
		return 0, err
	}
	sr := spectral.NewSpectralRolloff(a.sampleRate, a.config.FFTSize)
	return common.Mean(sr.ComputeFrames(stft.Magnitude, a.config.RolloffPercent)), nil
}

func zeroCrossingRate(a *analysis) (float64, error) {
	zcr := spectral.NewZeroCrossingRateWithParams(a.config.FFTSize, a.config.HopSize)
	return common.Mean(zcr.ComputeFramesCentered(a.samples)), nil
}

func rmsEnergy(a *analysis) (float64, error) {
	energy := temporal.NewEnergy(a.config.FFTSize, a.config.HopSize)
	return common.Mean(energy.ComputeRMS(a.samples)), nil
}

func tempo(a *analysis) (float64, error) {
	logMel, err := a.logMelSpectrogram()
	if err != nil {
		return 0, err
	}

	envelope, err := temporal.NewOnsetDetection(a.config.FFTSize, a.config.HopSize).OnsetStrength(logMel)
	if err != nil {
		return 0, fmt.Errorf("onset strength: %w", err)
	}

	te := temporal.NewTempoEstimationWithParams(a.sampleRate, a.config.HopSize, a.config.tempoParams())
	return te.EstimateTempo(envelope)
}

func mfccMagnitude(a *analysis) (float64, error) {
	logMel, err := a.logMelSpectrogram()
	if err != nil {
		return 0, err
	}

	coefficients, err := a.mfcc.ComputeFromLogMel(logMel)
	if err != nil {
		return 0, err
	}
	return common.MeanAbsMatrix(coefficients), nil
}

func chromaMean(a *analysis) (float64, error) {
	power, err := a.powerSpectrogram()
	if err != nil {
		return 0, err
	}

	tuning, err := tonal.NewTuningEstimator(a.sampleRate, a.config.FFTSize).Estimate(power)
	if err != nil {
		return 0, fmt.Errorf("tuning: %w", err)
	}

	frames, err := chroma.NewChromaSTFT(a.sampleRate, a.config.FFTSize, tuning).ComputeFrames(power)
	if err != nil {
		return 0, err
	}
	return common.MeanMatrix(frames), nil
}

// meanPitch averages the strongest tracked pitches; no voiced frames gives 0
func meanPitch(a *analysis) (float64, error) {
	stft, err := a.magnitude()
	if err != nil {
		return 0, err
	}

	tracker := tonal.NewPitchTrackerWithParams(a.sampleRate, a.config.FFTSize, a.config.pitchParams())
	pitches, magnitudes, err := tracker.Track(stft.Magnitude)
	if err != nil {
		return 0, err
	}

	mean := tonal.MeanPitch(pitches, magnitudes)
	if math.IsNaN(mean) {
		return 0, nil
	}
	return mean, nil
}

func noiseLevel(a *analysis) (float64, error) {
	return common.PopStdDev(a.samples), nil
}

func lpcMagnitude(a *analysis) (float64, error) {
	result, err := speech.NewLPCAnalyzer(a.config.LPCOrder, a.config.LPCMethod).Analyze(a.samples)
	if err != nil {
		return 0, err
	}
	return result.MeanAbsCoefficient(), nil
}
