// Package mathutil provides the special functions used by filter design.
package mathutil

import (
	"math"
)

// BesselI0 computes the modified Bessel function of the first kind, order zero: I₀(x).
// It is evaluated for Kaiser window shaping, where arguments stay within [0, β].
//
// The power series
//
//	I₀(x) = Σ ((x/2)^k / k!)²
//
// converges for every x and is summed until the next term no longer changes
// the result in float64. For the β range used in practice (β < 20) this is
// accurate to a few ulp.
func BesselI0(x float64) float64 {
	halfX := x / 2
	sum := 1.0
	term := 1.0

	for k := 1; k < besselMaxTerms; k++ {
		f := halfX / float64(k)
		term *= f * f
		sum += term
		if term < sum*besselSeriesTolerance {
			break
		}
	}

	return sum
}

// KaiserBeta computes the Kaiser window β parameter from the desired
// stopband attenuation in decibels.
//
// Formula from Kaiser & Schafer:
//   - For att > 50 dB: β = 0.1102 * (att - 8.7)
//   - For 21 dB ≤ att ≤ 50 dB: β = 0.5842 * (att - 21)^0.4 + 0.07886 * (att - 21)
//   - For att < 21 dB: β = 0
func KaiserBeta(attenuation float64) float64 {
	if attenuation > kaiserAttHigh {
		return kaiserBetaHighCoeff1 * (attenuation - kaiserBetaHighOffset)
	} else if attenuation >= kaiserAttMedium {
		delta := attenuation - kaiserAttMedium
		return kaiserBetaMediumCoeff1*math.Pow(delta, kaiserBetaMediumPower) + kaiserBetaMediumCoeff2*delta
	}
	return 0.0
}

// KaiserLength estimates the FIR length needed to reach the given stopband
// attenuation with the given transition bandwidth (normalized to the sample
// rate, so 0.5 is Nyquist).
//
//	N ≈ (att - 8) / (2.285 * 2π * Δf)
//
// The estimate is returned unrounded; callers round to whatever structure
// their filter needs (odd, 4m-1, multiple of a phase count).
func KaiserLength(attenuation, transitionBW float64) float64 {
	if transitionBW < minTransitionBW {
		transitionBW = minTransitionBW
	}
	n := (attenuation - kaiserFilterLengthOffset) /
		(kaiserFilterLengthMultiplier * kaiserFilterLengthPiFactor * math.Pi * transitionBW)
	return max(n, 1)
}

// Sinc returns the normalized sinc function sin(πx)/(πx), with Sinc(0) = 1.
func Sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	px := math.Pi * x
	return math.Sin(px) / px
}

// GCD returns the greatest common divisor of two non-negative integers.
func GCD(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
