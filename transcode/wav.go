package transcode

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/go-audio/wav"
)

const wavFormatPCM = 1

// errNeedsFFmpeg marks WAV variants the native reader leaves to ffmpeg
var errNeedsFFmpeg = errors.New("wav variant requires ffmpeg")

// isWAV reports whether data starts with a RIFF/WAVE header
func isWAV(data []byte) bool {
	return len(data) >= 12 &&
		bytes.Equal(data[0:4], []byte("RIFF")) &&
		bytes.Equal(data[8:12], []byte("WAVE"))
}

// decodeWAV reads 16, 24 and 32-bit integer PCM with go-audio, averages the
// channels to mono and scales samples to [-1, 1) by bit depth
func (d *Decoder) decodeWAV(data []byte) (*AudioData, error) {
	decoder := wav.NewDecoder(bytes.NewReader(data))
	if !decoder.IsValidFile() {
		if err := decoder.Err(); err != nil {
			return nil, fmt.Errorf("invalid WAV file: %w", err)
		}
		return nil, fmt.Errorf("invalid WAV file")
	}
	if decoder.SampleRate == 0 {
		return nil, fmt.Errorf("invalid WAV sample rate: %d", decoder.SampleRate)
	}

	if decoder.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("%w: audio format %d", errNeedsFFmpeg, decoder.WavAudioFormat)
	}
	switch decoder.BitDepth {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: bit depth %d", errNeedsFFmpeg, decoder.BitDepth)
	}

	sampleRate := int(decoder.SampleRate)
	if d.config.TargetSampleRate > 0 && d.config.TargetSampleRate != sampleRate {
		return nil, fmt.Errorf("%w: resampling %d Hz to %d Hz", errNeedsFFmpeg, sampleRate, d.config.TargetSampleRate)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read PCM buffer: %w", err)
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		return nil, fmt.Errorf("invalid channel count: %d", channels)
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = int(decoder.BitDepth)
	}
	scale := 1.0 / float64(int64(1)<<(bitDepth-1))

	frames := len(buf.Data) / channels
	if d.config.MaxDuration > 0 {
		maxFrames := int(d.config.MaxDuration.Seconds() * float64(sampleRate))
		frames = min(frames, maxFrames)
	}
	if frames == 0 {
		return nil, fmt.Errorf("no audio samples decoded")
	}

	pcm := make([]float64, frames)
	for i := range frames {
		sum := 0
		for c := range channels {
			sum += buf.Data[i*channels+c]
		}
		pcm[i] = float64(sum) * scale / float64(channels)
	}

	return &AudioData{
		PCM:        pcm,
		SampleRate: sampleRate,
		Channels:   channels,
		Duration:   time.Duration(frames) * time.Second / time.Duration(sampleRate),
		Metadata: &AudioMetadata{
			SampleRate: sampleRate,
			Channels:   channels,
			Codec:      "pcm",
			Duration:   float64(len(buf.Data)/channels) / float64(sampleRate),
			BitDepth:   bitDepth,
			Format:     "WAV",
		},
	}, nil
}
