// Command analyze-filter prints the anti-alias filter response and the
// resampler cascade that iqdemod would build for a configuration.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"github.com/tphakala/simd/cpu"

	demod "github.com/tphakala/go-iq-demod"
	"github.com/tphakala/go-iq-demod/internal/filter"
	"github.com/tphakala/go-iq-demod/internal/mathutil"
	"github.com/tphakala/go-iq-demod/internal/resample"
)

const (
	// spectrumSize is the FFT length used for the stopband scan.
	spectrumSize = 8192

	// stopbandStart is where the stopband scan begins, as a multiple of the cutoff.
	stopbandStart = 1.5
)

// responsePoints are the frequencies, as multiples of the cutoff, printed
// in the response table.
var responsePoints = []float64{0, 0.25, 0.5, 0.75, 0.9, 1.0, 1.1, 1.25, 1.5, 2.0}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("analyze-filter", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		rate        = fs.IntP("samplerate", "s", 200000, "Input IQ sample rate in Hz.")
		outRate     = fs.IntP("resamplerate", "r", 48000, "Output audio sample rate in Hz.")
		bandwidth   = fs.IntP("bandwidth", "b", 8000, "Anti-alias filter cutoff in Hz.")
		taps        = fs.Int("taps", demod.DefaultFilterTaps, "Anti-alias filter length.")
		attenuation = fs.Float64("attenuation", demod.DefaultAttenuation, "Stopband attenuation target in dB.")
	)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg := demod.DefaultConfig()
	cfg.InputRate = *rate
	cfg.OutputRate = *outRate
	cfg.Bandwidth = *bandwidth
	cfg.Deviation = 1
	cfg.FilterTaps = *taps
	cfg.Attenuation = *attenuation
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if err := report(stdout, cfg); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func report(w io.Writer, cfg demod.Config) error {
	cutoff := float64(cfg.Bandwidth) / float64(cfg.InputRate)
	coeffs, err := filter.DesignKaiser(cfg.FilterTaps, cutoff, cfg.Attenuation)
	if err != nil {
		return err
	}
	fir, err := filter.NewFIR(coeffs)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "=== Anti-alias Filter ===")
	fmt.Fprintf(w, "  Taps:        %d\n", fir.Taps())
	fmt.Fprintf(w, "  Cutoff:      %.6f (%d Hz at %d Hz)\n", cutoff, cfg.Bandwidth, cfg.InputRate)
	fmt.Fprintf(w, "  Attenuation: %.1f dB (beta %.4f)\n", cfg.Attenuation, mathutil.KaiserBeta(cfg.Attenuation))
	fmt.Fprintf(w, "  Kaiser estimate for 10%% transition: %.0f taps\n",
		mathutil.KaiserLength(cfg.Attenuation, 0.1*cutoff))
	fmt.Fprintf(w, "  Group delay: %.1f samples\n", fir.Delay())
	fmt.Fprintf(w, "  DC gain:     %.6f dB\n\n", filter.ResponseDB(coeffs, 0))

	fmt.Fprintln(w, "Response:")
	for _, m := range responsePoints {
		f := m * cutoff
		if f > 0.5 {
			break
		}
		fmt.Fprintf(w, "  %5.2f fc  %9.1f Hz  %8.2f dB\n", m, f*float64(cfg.InputRate), filter.ResponseDB(coeffs, f))
	}
	if from := stopbandStart * cutoff; from < 0.5 {
		spectrum := filter.Spectrum(coeffs, spectrumSize)
		fmt.Fprintf(w, "  Stopband peak above %.2f fc: %.2f dB\n", stopbandStart, filter.StopbandPeakDB(spectrum, from))
	}

	r, err := resample.New(cfg.InputRate, cfg.OutputRate, cfg.Attenuation)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "\n=== Resampler ===")
	fmt.Fprintf(w, "  Ratio: %.6f (%d Hz -> %d Hz)\n", r.Rate(), cfg.InputRate, cfg.OutputRate)
	stages := r.Stages()
	if len(stages) == 0 {
		fmt.Fprintln(w, "  Identity (no stages)")
	}
	for i, st := range stages {
		fmt.Fprintf(w, "  Stage %d: %-21s ratio %.6f  taps %4d", i, st.Kind, st.Ratio, st.Taps)
		if st.Phases > 0 {
			fmt.Fprintf(w, "  phases %d", st.Phases)
		}
		fmt.Fprintf(w, "  delay %.2f\n", st.Delay)
	}
	fmt.Fprintf(w, "  Resampler delay: %.2f input samples\n", r.Delay())
	fmt.Fprintf(w, "  Total latency:   %.2f input samples (%.3f ms)\n",
		fir.Delay()+r.Delay(), 1000*(fir.Delay()+r.Delay())/float64(cfg.InputRate))

	fmt.Fprintf(w, "\nSIMD: %s\n", cpu.Info())
	return nil
}
