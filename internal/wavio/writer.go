package wavio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Writer accepts interleaved little-endian int16 bytes and writes them as a
// 16-bit WAV file: mono audio, or stereo IQ with I left and Q right. The
// header sizes are only correct after Close.
type Writer struct {
	closer  io.Closer
	encoder *wav.Encoder
	buf     *audio.IntBuffer
	partial []byte
}

// Create creates a WAV file at path.
func Create(path string, sampleRate, channels int) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}
	w := NewWriter(f, sampleRate, channels)
	w.closer = f
	return w, nil
}

// NewWriter wraps ws. Close finalizes the header but does not close ws.
func NewWriter(ws io.WriteSeeker, sampleRate, channels int) *Writer {
	return &Writer{
		encoder: wav.NewEncoder(ws, sampleRate, bitDepth, channels, pcmFormat),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
		partial: make([]byte, 0, bytesPerValue),
	}
}

// Write implements io.Writer. A trailing odd byte is held until the next call.
func (w *Writer) Write(p []byte) (int, error) {
	total := len(p)
	data := w.buf.Data[:0]

	if len(w.partial) > 0 && len(p) > 0 {
		w.partial = append(w.partial, p[0])
		data = append(data, int(int16(binary.LittleEndian.Uint16(w.partial))))
		w.partial = w.partial[:0]
		p = p[1:]
	}

	whole := len(p) - len(p)%bytesPerValue
	for off := 0; off < whole; off += bytesPerValue {
		data = append(data, int(int16(binary.LittleEndian.Uint16(p[off:]))))
	}
	w.partial = append(w.partial, p[whole:]...)

	w.buf.Data = data
	if len(data) == 0 {
		return total, nil
	}
	if err := w.encoder.Write(w.buf); err != nil {
		return 0, fmt.Errorf("write WAV data: %w", err)
	}
	return total, nil
}

// Close writes the final header and closes the file when the writer was
// created with Create.
func (w *Writer) Close() error {
	if err := w.encoder.Close(); err != nil {
		return fmt.Errorf("finalize WAV: %w", err)
	}
	if w.closer == nil {
		return nil
	}
	return w.closer.Close()
}
