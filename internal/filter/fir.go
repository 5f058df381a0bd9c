package filter

import (
	"github.com/tphakala/go-iq-demod/internal/simdops"
)

// FIR is a streaming complex-input, real-coefficient FIR filter.
// Its history survives across Process calls, so a stream split into
// arbitrary chunks filters exactly like the unbroken stream.
type FIR struct {
	coeffs []float64
	hist   *History
}

// NewFIR creates a streaming filter from a coefficient set.
// The coefficients are copied; h[0] multiplies the newest sample.
func NewFIR(coeffs []float64) (*FIR, error) {
	if len(coeffs) < 1 {
		return nil, ErrInvalidTaps
	}
	return &FIR{
		coeffs: append([]float64(nil), coeffs...),
		hist:   NewHistory(len(coeffs)),
	}, nil
}

// Push filters a single sample.
func (f *FIR) Push(x complex128) complex128 {
	f.hist.Push(x)
	re, im := f.hist.Window()
	return simdops.Dot(re, im, f.coeffs)
}

// Process filters src and appends the result to dst.
func (f *FIR) Process(dst, src []complex128) []complex128 {
	for _, x := range src {
		dst = append(dst, f.Push(x))
	}
	return dst
}

// Taps returns the filter length.
func (f *FIR) Taps() int {
	return len(f.coeffs)
}

// Delay returns the group delay (L-1)/2 in samples.
func (f *FIR) Delay() float64 {
	return float64(len(f.coeffs)-1) / windowCenterDivisor
}

// Coefficients returns a copy of the coefficient set.
func (f *FIR) Coefficients() []float64 {
	return append([]float64(nil), f.coeffs...)
}
