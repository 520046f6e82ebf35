package spectral

import (
	"math"
)

// PowerSpectrum provides power spectral density computation
type PowerSpectrum struct{}

// NewPowerSpectrum creates a new power spectrum calculator
func NewPowerSpectrum() *PowerSpectrum {
	return &PowerSpectrum{}
}

// Compute computes power spectral density from magnitude spectrum
func (ps *PowerSpectrum) Compute(magnitudeSpectrum []float64) []float64 {
	power := make([]float64, len(magnitudeSpectrum))
	for i, mag := range magnitudeSpectrum {
		power[i] = mag * mag
	}

	return power
}

// ComputeFromSTFT squares every magnitude of an STFT result
func (ps *PowerSpectrum) ComputeFromSTFT(stftResult *STFTResult) [][]float64 {
	power := make([][]float64, stftResult.TimeFrames)

	for t := range stftResult.TimeFrames {
		power[t] = ps.Compute(stftResult.Magnitude[t])
	}

	return power
}

// PowerToDB converts a power spectrogram to decibels relative to 1.0.
// Values below amin are floored at amin and, when topDB > 0, everything more
// than topDB below the spectrogram's peak is clipped to peak-topDB.
func PowerToDB(power [][]float64, amin, topDB float64) [][]float64 {
	if amin <= 0 {
		amin = 1e-10
	}

	logPower := make([][]float64, len(power))
	peak := math.Inf(-1)

	for t, frame := range power {
		logPower[t] = make([]float64, len(frame))
		for f, p := range frame {
			db := 10.0 * math.Log10(math.Max(amin, p))
			logPower[t][f] = db
			if db > peak {
				peak = db
			}
		}
	}

	if topDB > 0 && !math.IsInf(peak, -1) {
		floor := peak - topDB
		for t := range logPower {
			for f, db := range logPower[t] {
				if db < floor {
					logPower[t][f] = floor
				}
			}
		}
	}

	return logPower
}
