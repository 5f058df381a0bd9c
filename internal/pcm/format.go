// Package pcm converts between raw byte streams and sample values: IQ bytes
// to complex samples on the way in, demodulated audio to bytes on the way out.
package pcm

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownFormat is returned for an unsupported sample format name.
var ErrUnknownFormat = errors.New("pcm: unknown sample format")

// Format is a sample encoding on the wire. All formats are little-endian.
type Format string

// Supported formats.
const (
	FormatS16 Format = "s16" // signed 16-bit integer
	FormatF32 Format = "f32" // IEEE-754 float32
)

const (
	s16Bytes = 2
	f32Bytes = 4
)

// ParseFormat parses a format name, case-insensitively. "i16" is accepted as
// an alias of "s16".
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "s16", "i16":
		return FormatS16, nil
	case "f32":
		return FormatF32, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// SampleSize returns the size in bytes of one real value.
func (f Format) SampleSize() int {
	switch f {
	case FormatS16:
		return s16Bytes
	case FormatF32:
		return f32Bytes
	}
	return 0
}

// IQSize returns the size in bytes of one interleaved I/Q pair.
func (f Format) IQSize() int {
	return 2 * f.SampleSize()
}

// Valid reports whether f is a supported format.
func (f Format) Valid() bool {
	return f.SampleSize() > 0
}
