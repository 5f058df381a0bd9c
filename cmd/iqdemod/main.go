// Command iqdemod demodulates an interleaved IQ stream into audio.
//
// Raw IQ is read from stdin (or --input) and raw little-endian audio is
// written to stdout (or --output). Logs and the banner go to stderr.
//
//	rtl_sdr -f 145.5M -s 200000 - | iqdemod -s 200000 -r 48000 -b 8000 -d 3500 | aplay -f S16_LE -r 48000
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	demod "github.com/tphakala/go-iq-demod"
	"github.com/tphakala/go-iq-demod/internal/wavio"
)

// errFlagCombination marks open failures caused by the flags themselves
// rather than by the filesystem.
var errFlagCombination = errors.New("invalid flag combination")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	logger := log.NewWithOptions(stderr, log.Options{Prefix: "iqdemod"})

	flags := newFlags(stderr)
	if err := flags.parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if flags.verbose {
		logger.SetLevel(log.DebugLevel)
	}
	fmt.Fprintln(stderr, banner)

	cfg, err := flags.config()
	if err != nil {
		logger.Error("invalid configuration", "err", err)
		return exitUsage
	}

	in, err := openInput(flags, stdin, &cfg, logger)
	if err != nil {
		logger.Error("cannot open input", "err", err)
		return openFailureCode(err)
	}
	defer func() { _ = in.Close() }()

	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "err", err)
		flags.fs.Usage()
		return exitUsage
	}

	out, err := openOutput(flags, stdout, cfg)
	if err != nil {
		logger.Error("cannot open output", "err", err)
		return openFailureCode(err)
	}

	stats, err := demod.Run(ctx, in, out, cfg, demod.WithLogger(logger))
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		logger.Error("demodulation failed", "err", err)
		return exitFailed
	}

	logger.Debug("done",
		"samples_in", stats.SamplesIn,
		"samples_out", stats.SamplesOut,
		"bytes_out", stats.BytesOut)
	return exitOK
}

// openFailureCode maps an open error to an exit code: flag misuse is a usage
// error, anything else is an I/O failure.
func openFailureCode(err error) int {
	if errors.Is(err, errFlagCombination) {
		return exitUsage
	}
	return exitFailed
}

// openInput opens the IQ source. A WAV input supplies the sample rate when
// none was configured.
func openInput(f *cliFlags, stdin io.Reader, cfg *demod.Config, logger *log.Logger) (io.ReadCloser, error) {
	if f.wavIn {
		if f.input == stdioName {
			return nil, fmt.Errorf("%w: --wav-in needs a seekable --input file", errFlagCombination)
		}
		r, err := wavio.Open(f.input)
		if err != nil {
			return nil, err
		}
		if cfg.InputRate == 0 {
			cfg.InputRate = r.SampleRate()
		} else if cfg.InputRate != r.SampleRate() {
			logger.Warn("sample rate differs from WAV header", "configured", cfg.InputRate, "header", r.SampleRate())
		}
		if cfg.InputFormat != demod.FormatS16 {
			logger.Warn("WAV input is always s16, ignoring input format", "format", cfg.InputFormat)
			cfg.InputFormat = demod.FormatS16
		}
		return r, nil
	}

	if f.input == stdioName {
		return io.NopCloser(stdin), nil
	}
	file, err := os.Open(f.input)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}
	return file, nil
}

// bufferedOutput flushes the buffer before closing the destination.
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

func openOutput(f *cliFlags, stdout io.Writer, cfg demod.Config) (io.WriteCloser, error) {
	if f.wavOut {
		if f.output == stdioName {
			return nil, fmt.Errorf("%w: --wav-out needs a seekable --output file", errFlagCombination)
		}
		if cfg.OutputFormat != demod.FormatS16 {
			return nil, fmt.Errorf("%w: --wav-out writes 16-bit audio, got output format %q", errFlagCombination, cfg.OutputFormat)
		}
		return wavio.Create(f.output, cfg.OutputRate, wavio.AudioChannels)
	}

	if f.output == stdioName {
		return &bufferedOutput{Writer: bufio.NewWriterSize(stdout, outputBufferSize)}, nil
	}
	file, err := os.Create(f.output)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}
	return &bufferedOutput{Writer: bufio.NewWriterSize(file, outputBufferSize), closer: file}, nil
}
