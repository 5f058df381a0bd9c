package demod

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// flusher is implemented by buffered writers such as *bufio.Writer.
type flusher interface {
	Flush() error
}

// Run demodulates everything read from r and writes the audio to w. It reads
// cfg.ChunkSize bytes at a time and returns once r reports io.EOF, after the
// pipeline has been flushed. The context is checked between chunks; a read
// that is already blocked is not interrupted.
func Run(ctx context.Context, r io.Reader, w io.Writer, cfg Config, opts ...Option) (Stats, error) {
	p, err := New(cfg, opts...)
	if err != nil {
		return Stats{}, err
	}

	chunk := make([]byte, p.cfg.ChunkSize)
	var out []byte

	for {
		if err := ctx.Err(); err != nil {
			return p.Stats(), err
		}

		n, readErr := io.ReadFull(r, chunk)
		if n > 0 {
			if out, err = p.Process(out[:0], chunk[:n]); err != nil {
				return p.Stats(), err
			}
			if err := write(w, out); err != nil {
				return p.Stats(), err
			}
		}

		switch {
		case readErr == nil:
			continue
		case errors.Is(readErr, io.EOF), errors.Is(readErr, io.ErrUnexpectedEOF):
			if out, err = p.Flush(out[:0]); err != nil {
				return p.Stats(), err
			}
			if err := write(w, out); err != nil {
				return p.Stats(), err
			}
			if f, ok := w.(flusher); ok {
				if err := f.Flush(); err != nil {
					return p.Stats(), fmt.Errorf("flush output: %w", err)
				}
			}
			p.logger.Info("stream finished",
				"samples_in", p.stats.SamplesIn,
				"samples_out", p.stats.SamplesOut)
			return p.Stats(), nil
		default:
			return p.Stats(), fmt.Errorf("read input: %w", readErr)
		}
	}
}

func write(w io.Writer, b []byte) error {
	if len(b) == 0 {
		return nil
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
