// Package fm recovers the modulating signal of a frequency-modulated carrier.
package fm

import (
	"errors"
	"fmt"
	"math"

	"github.com/tphakala/simd/c128"
)

// ErrInvalidSensitivity is returned when the modulation sensitivity is not positive.
var ErrInvalidSensitivity = errors.New("fm: modulation sensitivity must be positive")

// Demodulator is a polar discriminator.
//
// For each sample s[n] it measures the phase step
//
//	d[n] = arg(s[n]·conj(s[n-1]))
//
// and scales it by 1/(2π·kf), so a carrier offset of exactly the deviation
// maps to 1.0. Taking the angle of a single product keeps the result correct
// across the ±π boundary without phase unwrapping.
type Demodulator struct {
	prev  complex128
	scale float64

	// scratch for the block products
	lagged   []complex128
	products []complex128
}

// New creates a demodulator with sensitivity kf = deviation / sampleRate.
// Before the first sample the previous sample is taken as 1+0j (zero phase).
func New(kf float64) (*Demodulator, error) {
	if !(kf > 0) || math.IsInf(kf, 0) {
		return nil, fmt.Errorf("%w: kf=%g", ErrInvalidSensitivity, kf)
	}
	return &Demodulator{
		prev:  1,
		scale: 1 / (2 * math.Pi * kf),
	}, nil
}

// Demodulate appends one output per input sample to dst. The last input
// sample is kept for the next call.
func (d *Demodulator) Demodulate(dst []float64, src []complex128) []float64 {
	n := len(src)
	if n == 0 {
		return dst
	}

	if cap(d.lagged) < n {
		d.lagged = make([]complex128, n)
		d.products = make([]complex128, n)
	}
	lagged := d.lagged[:n]
	products := d.products[:n]

	lagged[0] = conj(d.prev)
	for i := 1; i < n; i++ {
		lagged[i] = conj(src[i-1])
	}
	c128.Mul(products, src, lagged)

	for _, p := range products {
		dst = append(dst, math.Atan2(imag(p), real(p))*d.scale)
	}

	d.prev = src[n-1]
	return dst
}

func conj(c complex128) complex128 {
	return complex(real(c), -imag(c))
}
