package testutil

import (
	"encoding/binary"
	"math"

	"github.com/tphakala/go-iq-demod/internal/pcm"
)

// s16Scale maps [-1, 1] onto the int16 range when synthesizing IQ bytes.
const s16Scale = 32767.0

// ToneIQ returns n complex samples of a constant-envelope carrier offset by
// freq Hz at the given sample rate. A positive freq rotates counter-clockwise.
func ToneIQ(sampleRate, freq float64, n int, amplitude float64) []complex128 {
	out := make([]complex128, n)
	w := 2 * math.Pi * freq / sampleRate
	for i := range out {
		s, c := math.Sincos(w * float64(i))
		out[i] = complex(amplitude*c, amplitude*s)
	}
	return out
}

// FMToneIQ returns n complex samples of a carrier frequency-modulated by a
// sine tone of toneHz with peak deviation devHz.
func FMToneIQ(sampleRate, toneHz, devHz float64, n int, amplitude float64) []complex128 {
	out := make([]complex128, n)
	var phase float64
	for i := range out {
		s, c := math.Sincos(phase)
		out[i] = complex(amplitude*c, amplitude*s)
		inst := devHz * math.Sin(2*math.Pi*toneHz*float64(i)/sampleRate)
		phase += 2 * math.Pi * inst / sampleRate
		phase = math.Remainder(phase, 2*math.Pi)
	}
	return out
}

// EncodeIQS16 serializes complex samples as interleaved little-endian int16 I/Q pairs.
func EncodeIQS16(samples []complex128) []byte {
	return pcm.AppendIQ(make([]byte, 0, len(samples)*4), pcm.FormatS16, samples)
}

// EncodeIQF32 serializes complex samples as interleaved little-endian float32 I/Q pairs.
func EncodeIQF32(samples []complex128) []byte {
	return pcm.AppendIQ(make([]byte, 0, len(samples)*8), pcm.FormatF32, samples)
}

// DecodeS16 parses little-endian int16 audio and rescales it to [-1, 1].
func DecodeS16(b []byte) []float64 {
	out := make([]float64, len(b)/2)
	for i := range out {
		out[i] = float64(int16(binary.LittleEndian.Uint16(b[2*i:]))) / s16Scale
	}
	return out
}
