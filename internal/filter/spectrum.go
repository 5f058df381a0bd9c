package filter

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// minSpectrumSize is the smallest FFT used for response plots.
const minSpectrumSize = 256

// Spectrum returns the magnitude response of coeffs sampled at size/2+1
// evenly spaced frequencies from DC to Nyquist (bin k is frequency k/size).
// size is rounded up to a power of two no smaller than len(coeffs) and the
// coefficients are zero-padded to it.
func Spectrum(coeffs []float64, size int) []float64 {
	size = spectrumSize(max(size, len(coeffs)))

	padded := make([]float64, size)
	copy(padded, coeffs)

	fft := fourier.NewFFT(size)
	bins := fft.Coefficients(nil, padded)

	mag := make([]float64, len(bins))
	for k, c := range bins {
		mag[k] = cmplx.Abs(c)
	}
	return mag
}

// StopbandPeakDB returns the highest magnitude in dB of a spectrum at or
// above the normalized frequency from, where spectrum came from Spectrum.
func StopbandPeakDB(spectrum []float64, from float64) float64 {
	size := 2 * (len(spectrum) - 1)
	peak := math.Inf(-1)
	for k := int(math.Ceil(from * float64(size))); k < len(spectrum); k++ {
		peak = max(peak, MagnitudeDB(spectrum[k]))
	}
	return peak
}

func spectrumSize(n int) int {
	size := minSpectrumSize
	for size < n {
		size <<= 1
	}
	return size
}
