package detector

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyWaveform is returned for a waveform without samples
	ErrEmptyWaveform = errors.New("empty waveform")
	// ErrInvalidSampleRate is returned for a sample rate that is not positive
	ErrInvalidSampleRate = errors.New("invalid sample rate")
	// ErrNonFiniteSample is returned when a sample is NaN or infinite
	ErrNonFiniteSample = errors.New("non-finite sample")
	// ErrInvalidFeatureVector is returned by the scorer for malformed input
	ErrInvalidFeatureVector = errors.New("invalid feature vector")
)

// ExtractionError reports a waveform that cannot be analysed at all.
// Per-feature failures never produce one.
type ExtractionError struct {
	Op  string
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("feature extraction failed: %s: %v", e.Op, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
