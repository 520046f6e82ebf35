package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/RyanBlaney/sonido-veritas/detector"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeSilentWAV(t *testing.T, sampleRate, samples int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "silence.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	encoder := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	require.NoError(t, encoder.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           make([]int, samples),
		SourceBitDepth: 16,
	}))
	require.NoError(t, encoder.Close())

	return path
}

func execute(t *testing.T, args ...string) ([]byte, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append(args, "--log-level", "error"))
	err := rootCmd.Execute()
	return out.Bytes(), err
}

func TestClassifyCommand(t *testing.T) {
	path := writeSilentWAV(t, 16000, 16000)

	out, err := execute(t, "classify", path, "--output", "json", "--verbose=false")
	require.NoError(t, err)

	var result detector.Result
	require.NoError(t, json.Unmarshal(out, &result))
	assert.True(t, result.IsAI)
	assert.Equal(t, detector.MessageAI, result.Message)
	assert.Greater(t, result.Confidence, detector.DecisionThreshold)
}

func TestClassifyCommandVerboseYAML(t *testing.T) {
	path := writeSilentWAV(t, 16000, 16000)

	out, err := execute(t, "classify", path, "--output", "yaml", "--verbose")
	require.NoError(t, err)

	var report classifyReport
	require.NoError(t, yaml.Unmarshal(out, &report))
	assert.Equal(t, 16000, report.SampleRate)
	assert.Len(t, report.Features, 11)
	assert.Len(t, report.Deviations, 11)
	assert.True(t, report.Result.IsAI)
	assert.Zero(t, report.Features[detector.RMS])
}

func TestFeaturesCommand(t *testing.T) {
	path := writeSilentWAV(t, 16000, 8000)

	out, err := execute(t, "features", path, "--output", "json", "--verbose=false")
	require.NoError(t, err)

	var report featuresReport
	require.NoError(t, json.Unmarshal(out, &report))
	assert.Equal(t, "500ms", report.Duration)
	require.NoError(t, report.Features.Validate())
}

func TestProfileCommand(t *testing.T) {
	out, err := execute(t, "profile", "--output", "json", "--verbose=false")
	require.NoError(t, err)

	var report profileReport
	require.NoError(t, json.Unmarshal(out, &report))
	assert.Equal(t, 0.3, report.Threshold)
	assert.Equal(t, 2000.0, report.Reference[detector.SpectralCentroid])
	assert.Equal(t, 0.2, report.Weights[detector.SpectralBandwidth])
	assert.Equal(t, 2048, report.Analysis.FFTSize)
}

func TestClassifyMissingFile(t *testing.T) {
	_, err := execute(t, "classify", filepath.Join(t.TempDir(), "missing.wav"), "--output", "json")
	assert.Error(t, err)

	_, err = execute(t, "classify")
	assert.Error(t, err)
}

func TestWriteOutput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeOutput(&buf, "json", map[string]int{"a": 1}))
	assert.JSONEq(t, `{"a": 1}`, buf.String())

	buf.Reset()
	require.NoError(t, writeOutput(&buf, "YAML", map[string]int{"a": 1}))
	assert.Equal(t, "a: 1\n", buf.String())

	assert.Error(t, writeOutput(&buf, "csv", nil))
}

func TestConfigOverrides(t *testing.T) {
	config := &appConfig{
		Weights: map[string]float64{"pitch": 0.4, "spectral bandwidth": 0},
	}

	weights, err := config.weightTable()
	require.NoError(t, err)
	assert.Equal(t, 0.4, weights.Weight(detector.Pitch))
	assert.Zero(t, weights.Weight(detector.SpectralBandwidth))
	assert.Equal(t, 0.15, weights.Weight(detector.LPC))

	config.Weights = map[string]float64{"loudness": 1}
	_, err = config.weightTable()
	assert.Error(t, err)

	config.Reference = map[string]float64{"tempo": 100}
	_, err = config.referenceProfile()
	assert.ErrorIs(t, err, detector.ErrInvalidFeatureVector)

	config.Reference = make(map[string]float64)
	for name, v := range detector.HumanReference().Vector() {
		config.Reference[string(name)] = v
	}
	config.Reference["roll-off"] = 3500
	delete(config.Reference, string(detector.RollOff))
	reference, err := config.referenceProfile()
	require.NoError(t, err)
	assert.Equal(t, 3500.0, reference.Value(detector.RollOff))
}
