package filter

import (
	"errors"
	"fmt"
	"math"

	"github.com/tphakala/go-iq-demod/internal/mathutil"
)

// ErrInvalidHalfBand is returned when a half-band length is not of the form 4m-1.
var ErrInvalidHalfBand = errors.New("filter: half-band length must be 4m-1 with m >= 1")

const (
	halfBandCutoff = 0.25
	halfBandCenter = 0.5
)

// HalfBandTaps returns the smallest half-band length 4m-1 that reaches the
// given attenuation when the passband ends at passband (normalized, < 0.25).
// The transition band of a half-band filter is symmetric around 0.25, so it
// spans [passband, 0.5 - passband].
func HalfBandTaps(passband, attenuation float64) int {
	n := mathutil.KaiserLength(attenuation, nyquist-2*passband)
	m := max(1, int(math.Ceil((n+1)/4)))
	return 4*m - 1
}

// DesignHalfBand designs a Kaiser-windowed half-band lowpass of numTaps = 4m-1
// coefficients with cutoff 0.25.
//
// Every coefficient at an even distance from the center is exactly zero, the
// center is exactly 0.5 and the remaining taps sum to exactly 0.5, so the DC
// gain is 1.
func DesignHalfBand(numTaps int, attenuation float64) ([]float64, error) {
	if numTaps < 3 || (numTaps+1)%4 != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidHalfBand, numTaps)
	}

	coeffs, err := DesignKaiser(numTaps, halfBandCutoff, attenuation)
	if err != nil {
		return nil, err
	}

	center := (numTaps - 1) / 2
	var oddSum float64
	for n := range coeffs {
		d := n - center
		switch {
		case d == 0:
			coeffs[n] = halfBandCenter
		case d%2 == 0:
			coeffs[n] = 0
		default:
			oddSum += coeffs[n]
		}
	}

	if oddSum != 0 {
		scale := halfBandCenter / oddSum
		for n := range coeffs {
			if (n-center)%2 != 0 {
				coeffs[n] *= scale
			}
		}
	}

	return coeffs, nil
}
