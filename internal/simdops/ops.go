// Package simdops provides split-complex vector kernels on top of the float64 SIMD routines.
//
// Complex streams are kept as separate real and imaginary slices so that every
// complex dot product against real coefficients becomes two contiguous real
// dot products, which is the shape the SIMD kernels are fast at.
package simdops

import (
	"github.com/tphakala/simd/f64"
)

// Dot computes Σ (re[i] + j·im[i]) * coeffs[i].
// All three slices must have the same length.
func Dot(re, im, coeffs []float64) complex128 {
	return complex(f64.DotProductUnsafe(re, coeffs), f64.DotProductUnsafe(im, coeffs))
}

// CubicDot computes the cubic-interpolated dot product of a split-complex
// window with per-tap polynomial coefficients:
//
//	Σ (re[i] + j·im[i]) * (a[i] + x*(b[i] + x*(c[i] + x*d[i])))
//
// It is used by the polyphase stage to evaluate coefficients between phases.
func CubicDot(re, im, a, b, c, d []float64, x float64) complex128 {
	return complex(
		f64.CubicInterpDot(re, a, b, c, d, x),
		f64.CubicInterpDot(im, a, b, c, d, x),
	)
}

// Split appends the real and imaginary parts of src to re and im.
func Split(re, im []float64, src []complex128) ([]float64, []float64) {
	for _, v := range src {
		re = append(re, real(v))
		im = append(im, imag(v))
	}
	return re, im
}

// Sum returns the sum of all elements.
func Sum(a []float64) float64 {
	return f64.Sum(a)
}

// Scale multiplies every element of a by s in place.
func Scale(a []float64, s float64) {
	f64.Scale(a, a, s)
}
