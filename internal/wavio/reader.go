// Package wavio adapts WAV containers to the byte streams the demodulation
// pipeline consumes and produces.
//
// IQ recordings are stored as 16-bit stereo WAV files with I in the left
// channel and Q in the right. Demodulated audio is written as 16-bit mono.
package wavio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Channel layouts.
const (
	IQChannels    = 2
	AudioChannels = 1
)

const (
	bitDepth      = 16
	bytesPerValue = bitDepth / 8

	// pcmFormat is the WAVE_FORMAT_PCM tag.
	pcmFormat = 1

	// readFrames is the number of IQ frames fetched per decoder call.
	readFrames = 4096
)

// Errors returned for unusable files.
var (
	ErrInvalidWAV  = errors.New("wavio: not a valid WAV file")
	ErrUnsupported = errors.New("wavio: IQ WAV must be 16-bit stereo")
)

// Reader streams the PCM payload of an IQ WAV file as interleaved
// little-endian int16 I/Q bytes.
type Reader struct {
	closer  io.Closer
	decoder *wav.Decoder
	buf     *audio.IntBuffer
	pending []byte
	eof     bool
}

// Open opens an IQ WAV file. The caller must Close the reader.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}
	r, err := NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	r.closer = f
	return r, nil
}

// NewReader validates the WAV header in rs and positions it at the PCM data.
func NewReader(rs io.ReadSeeker) (*Reader, error) {
	decoder := wav.NewDecoder(rs)
	if !decoder.IsValidFile() {
		return nil, ErrInvalidWAV
	}
	if decoder.NumChans != IQChannels || decoder.BitDepth != bitDepth {
		return nil, fmt.Errorf("%w: got %d channels, %d-bit", ErrUnsupported, decoder.NumChans, decoder.BitDepth)
	}
	if err := decoder.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("seek to PCM data: %w", err)
	}

	return &Reader{
		decoder: decoder,
		buf: &audio.IntBuffer{
			Format: decoder.Format(),
			Data:   make([]int, readFrames*IQChannels),
		},
	}, nil
}

// SampleRate returns the IQ sample rate from the header.
func (r *Reader) SampleRate() int {
	return int(r.decoder.SampleRate)
}

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (int, error) {
	for len(r.pending) == 0 {
		if r.eof {
			return 0, io.EOF
		}
		if err := r.fill(); err != nil {
			return 0, err
		}
	}
	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}

func (r *Reader) fill() error {
	n, err := r.decoder.PCMBuffer(r.buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read PCM data: %w", err)
	}
	if n == 0 {
		r.eof = true
		return nil
	}

	pending := r.pending[:0]
	for _, v := range r.buf.Data[:n] {
		pending = binary.LittleEndian.AppendUint16(pending, uint16(int16(v)))
	}
	r.pending = pending
	return nil
}

// Close closes the underlying file when the reader was created with Open.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
