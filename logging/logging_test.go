package logging

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
		err  bool
	}{
		{"debug", DebugLevel, false},
		{"INFO", InfoLevel, false},
		{"", InfoLevel, false},
		{"warning", WarnLevel, false},
		{"error", ErrorLevel, false},
		{"verbose", InfoLevel, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.err {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestWriterLoggerRoutesByLevel(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger := NewWriterLogger(&stdout, &stderr)
	logger.SetLevel(DebugLevel)

	logger.Debug("frame computed", Fields{"frame": 3})
	logger.Error(errors.New("boom"), "decode failed")

	assert.Contains(t, stdout.String(), "[DEBUG] frame computed frame=3")
	assert.Contains(t, stderr.String(), "[ERROR] decode failed: boom")
}

func TestChildLoggerSharesLevel(t *testing.T) {
	var stdout bytes.Buffer
	root := NewWriterLogger(&stdout, &stdout)
	child := root.WithFields(Fields{"component": "extractor"})

	child.Debug("hidden")
	assert.Empty(t, stdout.String())

	root.SetLevel(DebugLevel)
	child.Debug("shown")
	assert.Contains(t, stdout.String(), "component=extractor")
}

func TestWithContextFields(t *testing.T) {
	var stdout bytes.Buffer
	logger := NewWriterLogger(&stdout, &stdout)

	ctx := ContextWithFields(context.Background(), Fields{"request_id": "abc"})
	logger.WithContext(ctx).Info("classified")

	assert.Contains(t, stdout.String(), "request_id=abc")
}
