package transcode

import (
	"context"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeWAV(t *testing.T, sampleRate, bitDepth, channels int, data []int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "clip.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	encoder := wav.NewEncoder(f, sampleRate, bitDepth, channels, 1)
	require.NoError(t, encoder.Write(&audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: channels,
			SampleRate:  sampleRate,
		},
		Data:           data,
		SourceBitDepth: bitDepth,
	}))
	require.NoError(t, encoder.Close())

	return path
}

func TestDecodeWAVMono(t *testing.T) {
	data := []int{0, 16384, -16384, 32767, -32768}
	path := writeWAV(t, 16000, 16, 1, data)

	decoded, err := NewDecoder(nil).DecodeFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 16000, decoded.SampleRate)
	assert.Equal(t, 1, decoded.Channels)
	require.Len(t, decoded.PCM, len(data))
	assert.InDeltaSlice(t, []float64{0, 0.5, -0.5, 32767.0 / 32768.0, -1}, decoded.PCM, 1e-12)
	assert.Equal(t, "WAV", decoded.Metadata.Format)
	assert.Equal(t, 16, decoded.Metadata.BitDepth)
}

func TestDecodeWAVStereoDownmix(t *testing.T) {
	// interleaved L/R frames
	data := []int{16384, 0, -16384, -16384, 8192, 24576}
	path := writeWAV(t, 22050, 16, 2, data)

	decoded, err := NewDecoder(nil).DecodeFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 22050, decoded.SampleRate)
	assert.Equal(t, 2, decoded.Channels)
	assert.InDeltaSlice(t, []float64{0.25, -0.5, 0.5}, decoded.PCM, 1e-12)
}

func TestDecodeWAVMaxDuration(t *testing.T) {
	data := make([]int, 16000)
	path := writeWAV(t, 8000, 16, 1, data)

	config := DefaultDecoderConfig()
	config.MaxDuration = 500 * time.Millisecond

	decoded, err := NewDecoder(config).DecodeFile(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, decoded.PCM, 4000)
	assert.Equal(t, 500*time.Millisecond, decoded.Duration)
}

func TestDecodeWAVFromBytes(t *testing.T) {
	path := writeWAV(t, 16000, 24, 1, []int{1 << 22, -(1 << 22)})
	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	decoded, err := NewDecoder(nil).DecodeReader(context.Background(), strings.NewReader(string(raw)))
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.5, -0.5}, decoded.PCM, 1e-12)
}

func TestDecodeWAVZeroSampleRate(t *testing.T) {
	path := writeWAV(t, 16000, 16, 1, make([]int, 1600))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	// sample rate field of the fmt chunk
	binary.LittleEndian.PutUint32(raw[24:28], 0)

	var decoded *AudioData
	require.NotPanics(t, func() {
		decoded, err = NewDecoder(nil).DecodeBytes(context.Background(), raw)
	})
	assert.ErrorContains(t, err, "invalid WAV sample rate")
	assert.Nil(t, decoded)
}

func TestDecodeEmptyInput(t *testing.T) {
	_, err := NewDecoder(nil).DecodeBytes(context.Background(), nil)
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "empty.wav")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	_, err = NewDecoder(nil).DecodeFile(context.Background(), path)
	assert.Error(t, err)

	_, err = NewDecoder(nil).DecodeFile(context.Background(), filepath.Join(t.TempDir(), "missing.wav"))
	assert.Error(t, err)
}

func TestIsWAV(t *testing.T) {
	assert.True(t, isWAV([]byte("RIFF\x00\x00\x00\x00WAVEfmt ")))
	assert.False(t, isWAV([]byte("ID3\x04")))
	assert.False(t, isWAV(nil))
}

func TestParseFFprobeOutput(t *testing.T) {
	out := []byte(`{"streams":[{"codec_type":"audio","codec_name":"mp3","sample_rate":"44100","channels":2,"duration":"3.5","bit_rate":"128000","codec_long_name":"MP3"}]}`)

	metadata, err := parseFFprobeOutput(out)
	require.NoError(t, err)
	assert.Equal(t, 44100, metadata.SampleRate)
	assert.Equal(t, 2, metadata.Channels)
	assert.Equal(t, "mp3", metadata.Codec)
	assert.InDelta(t, 3.5, metadata.Duration, 1e-12)
	assert.Equal(t, 128000, metadata.Bitrate)

	_, err = parseFFprobeOutput([]byte(`{"streams":[]}`))
	assert.Error(t, err)

	_, err = parseFFprobeOutput([]byte(`{"streams":[{"codec_type":"video","sample_rate":"44100","channels":2}]}`))
	assert.Error(t, err)

	_, err = parseFFprobeOutput([]byte(`not json`))
	assert.Error(t, err)
}

func TestBuildFFmpegArgs(t *testing.T) {
	metadata := &AudioMetadata{SampleRate: 44100, Channels: 2}

	args := NewDecoder(nil).buildFFmpegArgs(metadata)
	joined := strings.Join(args, " ")
	assert.Contains(t, joined, "-f f64le")
	assert.Contains(t, joined, "-ac 1")
	assert.NotContains(t, joined, "-ar")
	assert.Equal(t, "pipe:1", args[len(args)-1])

	config := DefaultDecoderConfig()
	config.TargetSampleRate = 16000
	config.MaxDuration = 2 * time.Second
	joined = strings.Join(NewDecoder(config).buildFFmpegArgs(metadata), " ")
	assert.Contains(t, joined, "-ar 16000")
	assert.Contains(t, joined, "-t 2.000")
}

func TestBytesToFloat64(t *testing.T) {
	raw := make([]byte, 8*2+3)
	binary.LittleEndian.PutUint64(raw[0:], math.Float64bits(0.25))
	binary.LittleEndian.PutUint64(raw[8:], math.Float64bits(-1))

	assert.Equal(t, []float64{0.25, -1}, bytesToFloat64(raw))
	assert.Nil(t, bytesToFloat64([]byte{1, 2}))
}

func TestDecoderConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultDecoderConfig().Validate())

	config := DefaultDecoderConfig()
	config.Timeout = 0
	assert.Error(t, config.Validate())

	config = DefaultDecoderConfig()
	config.TargetSampleRate = -1
	assert.Error(t, config.Validate())

	config = DefaultDecoderConfig()
	config.FFmpegPath = ""
	assert.Error(t, config.Validate())
}
