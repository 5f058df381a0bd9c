package pcm

import (
	"encoding/binary"
	"fmt"
	"math"
)

// s16Norm maps the full int16 range into [-1, 1).
const s16Norm = 32768.0

// Decoder turns interleaved I/Q bytes into complex samples.
//
// A sample split across two Decode calls is completed from the carried
// bytes, so a stream decodes identically however it is cut into chunks.
type Decoder struct {
	format  Format
	size    int
	pending []byte
}

// NewDecoder creates an IQ decoder for the given wire format.
func NewDecoder(format Format) (*Decoder, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return &Decoder{
		format:  format,
		size:    format.IQSize(),
		pending: make([]byte, 0, format.IQSize()),
	}, nil
}

// Decode appends the complete samples in src (plus any bytes carried from
// the previous call) to dst. Trailing bytes that do not form a whole sample
// are kept for the next call.
func (d *Decoder) Decode(dst []complex128, src []byte) []complex128 {
	if len(d.pending) > 0 {
		n := copy(d.pending[len(d.pending):d.size], src)
		d.pending = d.pending[:len(d.pending)+n]
		src = src[n:]
		if len(d.pending) < d.size {
			return dst
		}
		dst = append(dst, d.sample(d.pending))
		d.pending = d.pending[:0]
	}

	whole := len(src) - len(src)%d.size
	for off := 0; off < whole; off += d.size {
		dst = append(dst, d.sample(src[off:off+d.size]))
	}

	d.pending = append(d.pending, src[whole:]...)
	return dst
}

// Pending returns the number of carried bytes waiting for the rest of a sample.
func (d *Decoder) Pending() int {
	return len(d.pending)
}

// Format returns the wire format.
func (d *Decoder) Format() Format {
	return d.format
}

func (d *Decoder) sample(b []byte) complex128 {
	if d.format == FormatF32 {
		i := math.Float32frombits(binary.LittleEndian.Uint32(b[0:]))
		q := math.Float32frombits(binary.LittleEndian.Uint32(b[4:]))
		return complex(float64(i), float64(q))
	}
	i := int16(binary.LittleEndian.Uint16(b[0:]))
	q := int16(binary.LittleEndian.Uint16(b[2:]))
	return complex(float64(i)/s16Norm, float64(q)/s16Norm)
}
