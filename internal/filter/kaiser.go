// Package filter provides FIR design and streaming execution for complex baseband signals.
//
// Design functions are pure: parameters in, coefficients out. Execution types
// (History, FIR) own the mutable per-stream state.
package filter

import (
	"errors"
	"fmt"
	"math"

	"github.com/tphakala/go-iq-demod/internal/mathutil"
	"github.com/tphakala/go-iq-demod/internal/simdops"
)

// Sentinel errors returned by the design functions.
var (
	ErrInvalidTaps        = errors.New("filter: tap count must be at least 1")
	ErrInvalidCutoff      = errors.New("filter: cutoff must be in (0, 0.5)")
	ErrInvalidAttenuation = errors.New("filter: attenuation must be positive")
)

const (
	// Window normalization
	windowCenterDivisor = 2.0

	// Nyquist in normalized frequency units
	nyquist = 0.5
)

// KaiserWindow generates a Kaiser window of the specified length and β parameter.
//
//	w[n] = I₀(β * sqrt(1 - ((n - α)/α)²)) / I₀(β),  α = (N-1)/2
//
// The window is symmetric with a peak of 1.0 at the center.
func KaiserWindow(length int, beta float64) []float64 {
	if length < 1 {
		return []float64{}
	}

	window := make([]float64, length)
	if length == 1 {
		window[0] = 1
		return window
	}

	alpha := float64(length-1) / windowCenterDivisor
	i0Beta := mathutil.BesselI0(beta)

	for n := range length {
		x := (float64(n) - alpha) / alpha
		window[n] = mathutil.BesselI0(beta*math.Sqrt(max(0, 1-x*x))) / i0Beta
	}

	return window
}

// DesignKaiser designs a windowed-sinc lowpass FIR filter of numTaps
// coefficients with normalized cutoff frequency (0 < cutoff < 0.5) and the
// Kaiser window shape chosen for the requested stopband attenuation in dB.
//
// The prototype is sinc(2·fc·t)·w[n] with t measured from the filter center;
// every coefficient is then scaled by 2·fc, which puts the passband gain at
// unity. Coefficients are not renormalized afterwards, so short filters may
// show a small DC gain error.
func DesignKaiser(numTaps int, cutoff, attenuation float64) ([]float64, error) {
	if numTaps < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTaps, numTaps)
	}
	if cutoff <= 0 || cutoff >= nyquist {
		return nil, fmt.Errorf("%w: got %g", ErrInvalidCutoff, cutoff)
	}
	if !(attenuation > 0) || math.IsInf(attenuation, 0) {
		return nil, fmt.Errorf("%w: got %g dB", ErrInvalidAttenuation, attenuation)
	}

	window := KaiserWindow(numTaps, mathutil.KaiserBeta(attenuation))
	center := float64(numTaps-1) / windowCenterDivisor

	coeffs := make([]float64, numTaps)
	for n := range numTaps {
		t := float64(n) - center
		coeffs[n] = mathutil.Sinc(2*cutoff*t) * window[n]
	}
	simdops.Scale(coeffs, 2*cutoff)

	return coeffs, nil
}

// Response evaluates the DTFT of a real FIR at a normalized frequency:
//
//	H(f) = Σ h[n]·e^(-j2πfn)
func Response(coeffs []float64, freq float64) complex128 {
	var re, im float64
	omega := 2 * math.Pi * freq
	for n, h := range coeffs {
		s, c := math.Sincos(omega * float64(n))
		re += h * c
		im -= h * s
	}
	return complex(re, im)
}

// ResponseDB returns the magnitude response in dB at a normalized frequency.
func ResponseDB(coeffs []float64, freq float64) float64 {
	h := Response(coeffs, freq)
	return MagnitudeDB(math.Hypot(real(h), imag(h)))
}

// MagnitudeDB converts linear magnitude to decibels.
func MagnitudeDB(magnitude float64) float64 {
	const (
		minMagnitude = 1e-15 // Avoid log(0)
		dbMultiplier = 20.0  // 20*log10 for magnitude
	)

	if magnitude < minMagnitude {
		magnitude = minMagnitude
	}
	return dbMultiplier * math.Log10(magnitude)
}
