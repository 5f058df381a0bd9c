package pcm

import (
	"encoding/binary"
	"fmt"
	"math"
)

// s16Full is the largest int16 magnitude used; the range stays symmetric.
const s16Full = 32767.0

// QuantizeS16 clamps x to [-1, 1] and rounds x·32767 to the nearest int16.
// Clamping comes first, so no input can overflow. NaN quantizes to silence.
func QuantizeS16(x float64) int16 {
	if math.IsNaN(x) {
		return 0
	}
	x = math.Max(-1, math.Min(1, x))
	return int16(math.Round(x * s16Full))
}

// Encoder turns demodulated audio into output bytes.
type Encoder struct {
	format     Format
	squareWave bool
}

// NewEncoder creates an audio encoder. With squareWave set, every sample is
// reduced to its sign (+1, -1 or 0) before encoding, which some downstream
// data decoders prefer.
func NewEncoder(format Format, squareWave bool) (*Encoder, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return &Encoder{format: format, squareWave: squareWave}, nil
}

// Encode appends src to dst in the encoder's format. s16 output is clamped
// and quantized; f32 output is written as is.
func (e *Encoder) Encode(dst []byte, src []float64) []byte {
	for _, x := range src {
		if e.squareWave {
			x = sign(x)
		}
		switch e.format {
		case FormatF32:
			dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(float32(x)))
		default:
			dst = binary.LittleEndian.AppendUint16(dst, uint16(QuantizeS16(x)))
		}
	}
	return dst
}

// Format returns the wire format.
func (e *Encoder) Format() Format {
	return e.format
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// AppendIQ appends src to dst as interleaved I/Q values in format. s16
// values go through QuantizeS16, so the output of AppendIQ decodes back to
// within one quantization step.
func AppendIQ(dst []byte, format Format, src []complex128) []byte {
	for _, s := range src {
		switch format {
		case FormatF32:
			dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(float32(real(s))))
			dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(float32(imag(s))))
		default:
			dst = binary.LittleEndian.AppendUint16(dst, uint16(QuantizeS16(real(s))))
			dst = binary.LittleEndian.AppendUint16(dst, uint16(QuantizeS16(imag(s))))
		}
	}
	return dst
}
