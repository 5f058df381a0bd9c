package resample

import (
	"github.com/tphakala/go-iq-demod/internal/filter"
	"github.com/tphakala/go-iq-demod/internal/simdops"
)

// halfBandDecimator filters with a 4m-1 tap half-band and keeps every other
// output.
//
// Only even-indexed input samples meet the non-zero outer taps, and only an
// odd-indexed sample meets the 0.5 center tap, so the two input phases are
// kept in separate histories:
//
//	y[n] = Σ h[2t]·x[2n-2t] + 0.5·x[2n-2m+1]
type halfBandDecimator struct {
	outer   []float64 // h[0], h[2], ..., h[4m-2]
	even    *filter.History
	odd     *filter.History
	m       int
	taps    int
	oddNext bool
}

func newHalfBandDecimator(passband, attenuation float64) (*halfBandDecimator, error) {
	h, m, err := designHalfBand(passband, attenuation)
	if err != nil {
		return nil, err
	}

	outer := make([]float64, 2*m)
	for t := range outer {
		outer[t] = h[2*t]
	}

	return &halfBandDecimator{
		outer: outer,
		even:  filter.NewHistory(2 * m),
		odd:   filter.NewHistory(m),
		m:     m,
		taps:  len(h),
	}, nil
}

func (d *halfBandDecimator) process(dst, src []complex128) []complex128 {
	for _, x := range src {
		if d.oddNext {
			d.odd.Push(x)
			d.oddNext = false
			continue
		}

		d.even.Push(x)
		d.oddNext = true

		re, im := d.even.Window()
		dst = append(dst, simdops.Dot(re, im, d.outer)+0.5*d.odd.At(d.m-1))
	}
	return dst
}

func (d *halfBandDecimator) maxOutput(n int) int {
	return (n + 1) / halfBandFactor
}

// delay is (taps-1)/2 samples at the input rate, which is where the filter runs.
func (d *halfBandDecimator) delay() float64 {
	return float64(d.taps-1) / halfBandFactor
}

func (d *halfBandDecimator) ratio() float64 { return 1.0 / halfBandFactor }

func (d *halfBandDecimator) info() StageInfo {
	return StageInfo{Kind: KindHalfBandDecimator, Ratio: d.ratio(), Taps: d.taps, Delay: d.delay()}
}

// halfBandInterpolator doubles the rate with a 4m-1 tap half-band. Each input
// sample produces two outputs: the even phase is a 2m tap dot product and the
// odd phase is the center tap alone, which passes a delayed input through.
type halfBandInterpolator struct {
	outer []float64 // 2·h[2t], gain compensated for zero stuffing
	hist  *filter.History
	m     int
	taps  int
}

func newHalfBandInterpolator(passband, attenuation float64) (*halfBandInterpolator, error) {
	h, m, err := designHalfBand(passband, attenuation)
	if err != nil {
		return nil, err
	}

	outer := make([]float64, 2*m)
	for t := range outer {
		outer[t] = halfBandFactor * h[2*t]
	}

	return &halfBandInterpolator{
		outer: outer,
		hist:  filter.NewHistory(2 * m),
		m:     m,
		taps:  len(h),
	}, nil
}

func (p *halfBandInterpolator) process(dst, src []complex128) []complex128 {
	for _, x := range src {
		p.hist.Push(x)
		re, im := p.hist.Window()
		dst = append(dst, simdops.Dot(re, im, p.outer), p.hist.At(p.m-1))
	}
	return dst
}

func (p *halfBandInterpolator) maxOutput(n int) int {
	return halfBandFactor * n
}

// delay is (taps-1)/2 output samples, expressed in input samples.
func (p *halfBandInterpolator) delay() float64 {
	return float64(p.taps-1) / halfBandFactor / halfBandFactor
}

func (p *halfBandInterpolator) ratio() float64 { return halfBandFactor }

func (p *halfBandInterpolator) info() StageInfo {
	return StageInfo{Kind: KindHalfBandInterpolator, Ratio: p.ratio(), Taps: p.taps, Delay: p.delay()}
}

// designHalfBand sizes and designs a half-band filter for the given passband
// edge (normalized to the rate the filter runs at) and returns it with m,
// where len(h) = 4m-1.
func designHalfBand(passband, attenuation float64) (h []float64, m int, err error) {
	passband = min(passband, maxHalfBandPassband)
	n := filter.HalfBandTaps(passband, attenuation)
	h, err = filter.DesignHalfBand(n, attenuation)
	if err != nil {
		return nil, 0, err
	}
	return h, (n + 1) / 4, nil
}
