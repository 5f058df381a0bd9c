// Command iqgen writes a synthetic FM-modulated IQ stream for exercising
// iqdemod.
//
//	iqgen -s 200000 --tone 1000 -d 3500 -t 4 | iqdemod -s 200000 -r 48000 -b 8000 -d 3500 > tone.pcm
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/tphakala/go-iq-demod/internal/pcm"
	"github.com/tphakala/go-iq-demod/internal/wavio"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	logger := log.NewWithOptions(stderr, log.Options{Prefix: "iqgen"})

	fs := pflag.NewFlagSet("iqgen", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		rate      = fs.IntP("samplerate", "s", defaultSampleRate, "IQ sample rate in Hz.")
		offset    = fs.Float64("offset", 0, "Carrier offset from centre in Hz.")
		tone      = fs.Float64("tone", defaultTone, "Modulating tone in Hz. 0 gives an unmodulated carrier.")
		deviation = fs.Float64P("deviation", "d", defaultDeviation, "FM peak deviation in Hz.")
		duration  = fs.Float64P("duration", "t", defaultDuration, "Length in seconds.")
		amplitude = fs.Float64P("amplitude", "a", defaultAmplitude, "Carrier amplitude in (0, 1].")
		outType   = fs.String("outtype", string(pcm.FormatS16), "Sample format: s16 or f32.")
		output    = fs.StringP("output", "o", stdioName, "Output file, - for stdout.")
		asWAV     = fs.Bool("wav", false, "Write a 16-bit stereo WAV file. Requires --output.")
		verbose   = fs.BoolP("verbose", "v", false, "Log signal parameters.")
	)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	format, err := pcm.ParseFormat(*outType)
	if err != nil {
		logger.Error("invalid output format", "err", err)
		return exitUsage
	}
	switch {
	case *rate <= 0:
		logger.Error("sample rate must be positive", "rate", *rate)
		return exitUsage
	case *duration < 0:
		logger.Error("duration must not be negative", "duration", *duration)
		return exitUsage
	case *amplitude <= 0 || *amplitude > 1:
		logger.Error("amplitude must be in (0, 1]", "amplitude", *amplitude)
		return exitUsage
	case math.Abs(*offset)+math.Abs(*deviation) >= float64(*rate)/2:
		logger.Error("signal exceeds Nyquist", "offset", *offset, "deviation", *deviation, "rate", *rate)
		return exitUsage
	case *asWAV && (*output == stdioName || format != pcm.FormatS16):
		logger.Error("--wav needs --output and s16 samples")
		return exitUsage
	}

	w, err := openOutput(*output, *asWAV, *rate, stdout)
	if err != nil {
		logger.Error("cannot open output", "err", err)
		return exitUsage
	}

	total := int64(math.Round(*duration * float64(*rate)))
	logger.Debug("generating",
		"samples", total,
		"rate", *rate,
		"offset", *offset,
		"tone", *tone,
		"deviation", *deviation,
		"format", format)

	gen := newFMGenerator(float64(*rate), *offset, *tone, *deviation, *amplitude)
	err = write(w, gen, format, total)
	if closeErr := w.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		logger.Error("write failed", "err", err)
		return exitFailed
	}
	return exitOK
}

func write(w io.Writer, gen *fmGenerator, format pcm.Format, total int64) error {
	iq := make([]complex128, 0, chunkSamples)
	var buf []byte
	for remaining := total; remaining > 0; {
		n := int(min(remaining, chunkSamples))
		iq = gen.generate(iq[:0], n)
		buf = pcm.AppendIQ(buf[:0], format, iq)
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("write IQ: %w", err)
		}
		remaining -= int64(n)
	}
	return nil
}

type bufferedOutput struct {
	*bufio.Writer
	closer io.Closer
}

func (b *bufferedOutput) Close() error {
	if err := b.Flush(); err != nil {
		return err
	}
	if b.closer == nil {
		return nil
	}
	return b.closer.Close()
}

func openOutput(path string, asWAV bool, rate int, stdout io.Writer) (io.WriteCloser, error) {
	if asWAV {
		return wavio.Create(path, rate, wavio.IQChannels)
	}
	if path == stdioName {
		return &bufferedOutput{Writer: bufio.NewWriterSize(stdout, outputBufferSize)}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}
	return &bufferedOutput{Writer: bufio.NewWriterSize(f, outputBufferSize), closer: f}, nil
}
