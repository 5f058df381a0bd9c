package main

import "math"

// fmGenerator synthesizes a carrier at offsetHz, frequency-modulated by a
// sine tone. Phase is carried between calls so chunks join seamlessly.
type fmGenerator struct {
	rate      float64
	offset    float64
	tone      float64
	deviation float64
	amplitude float64

	n     int64   // samples produced so far
	phase float64 // carrier phase in radians
}

func newFMGenerator(rate, offsetHz, toneHz, deviationHz, amplitude float64) *fmGenerator {
	return &fmGenerator{
		rate:      rate,
		offset:    offsetHz,
		tone:      toneHz,
		deviation: deviationHz,
		amplitude: amplitude,
	}
}

// instantaneous returns the frequency in Hz at sample n.
func (g *fmGenerator) instantaneous(n int64) float64 {
	return g.offset + g.deviation*math.Sin(2*math.Pi*g.tone*float64(n)/g.rate)
}

// generate appends count samples to dst.
func (g *fmGenerator) generate(dst []complex128, count int) []complex128 {
	for range count {
		s, c := math.Sincos(g.phase)
		dst = append(dst, complex(g.amplitude*c, g.amplitude*s))
		g.phase = math.Remainder(g.phase+2*math.Pi*g.instantaneous(g.n)/g.rate, 2*math.Pi)
		g.n++
	}
	return dst
}
