package spectral

import (
	"math"
)

// Slaney mel scale constants: linear below 1 kHz, logarithmic above
const (
	slaneyFSp       = 200.0 / 3.0
	slaneyMinLogHz  = 1000.0
	slaneyMinLogMel = slaneyMinLogHz / slaneyFSp
)

var slaneyLogStep = math.Log(6.4) / 27.0

// MelScale provides mel frequency conversion and filter bank construction
type MelScale struct{}

// NewMelScale creates a mel scale converter using the Slaney (Auditory Toolbox) formula
func NewMelScale() *MelScale {
	return &MelScale{}
}

// HzToMel converts frequency in Hz to mel scale
func (ms *MelScale) HzToMel(hz float64) float64 {
	if hz >= slaneyMinLogHz {
		return slaneyMinLogMel + math.Log(hz/slaneyMinLogHz)/slaneyLogStep
	}
	return hz / slaneyFSp
}

// MelToHz converts mel scale to frequency in Hz
func (ms *MelScale) MelToHz(mel float64) float64 {
	if mel >= slaneyMinLogMel {
		return slaneyMinLogHz * math.Exp(slaneyLogStep*(mel-slaneyMinLogMel))
	}
	return slaneyFSp * mel
}

// CreateMelFilterBank creates numFilters triangular filters spaced evenly on
// the mel scale between lowFreq and highFreq. Each filter is area-normalised
// (Slaney style) so that filters have roughly constant energy per channel.
// Rows are filters, columns are the fftSize/2+1 FFT bins.
func (ms *MelScale) CreateMelFilterBank(numFilters int, fftSize int, sampleRate int, lowFreq, highFreq float64) [][]float64 {
	if numFilters <= 0 || fftSize <= 0 {
		return nil
	}

	fftFreqs := FFTFrequencies(sampleRate, fftSize)

	lowMel := ms.HzToMel(lowFreq)
	highMel := ms.HzToMel(highFreq)

	hzPoints := make([]float64, numFilters+2)
	melStep := (highMel - lowMel) / float64(numFilters+1)
	for i := range hzPoints {
		hzPoints[i] = ms.MelToHz(lowMel + float64(i)*melStep)
	}

	filterBank := make([][]float64, numFilters)
	for m := range numFilters {
		filterBank[m] = make([]float64, len(fftFreqs))

		left, center, right := hzPoints[m], hzPoints[m+1], hzPoints[m+2]
		lowerWidth := center - left
		upperWidth := right - center
		if lowerWidth <= 0 || upperWidth <= 0 {
			continue
		}

		norm := 2.0 / (right - left)

		for k, f := range fftFreqs {
			rising := (f - left) / lowerWidth
			falling := (right - f) / upperWidth
			weight := math.Max(0, math.Min(rising, falling))
			filterBank[m][k] = weight * norm
		}
	}

	return filterBank
}

// ApplyFilterBank applies mel filter bank to power spectrum
func (ms *MelScale) ApplyFilterBank(powerSpectrum []float64, filterBank [][]float64) []float64 {
	if len(filterBank) == 0 || len(powerSpectrum) == 0 {
		return []float64{}
	}

	melSpectrum := make([]float64, len(filterBank))

	for i, filter := range filterBank {
		sum := 0.0
		for j := 0; j < len(filter) && j < len(powerSpectrum); j++ {
			sum += powerSpectrum[j] * filter[j]
		}
		melSpectrum[i] = sum
	}

	return melSpectrum
}

// ApplyFilterBankFrames applies the filter bank to every frame of a power spectrogram
func (ms *MelScale) ApplyFilterBankFrames(powerSpectrogram [][]float64, filterBank [][]float64) [][]float64 {
	melSpectrogram := make([][]float64, len(powerSpectrogram))

	for t, frame := range powerSpectrogram {
		melSpectrogram[t] = ms.ApplyFilterBank(frame, filterBank)
	}

	return melSpectrogram
}
