package main

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"

	demod "github.com/tphakala/go-iq-demod"
)

// cliFlags holds the parsed command line.
type cliFlags struct {
	fs *pflag.FlagSet

	sampleRate   int
	resampleRate int
	bandwidth    int
	deviation    int
	modulation   string
	inType       string
	outType      string
	squareWave   bool
	deemphasisUS float64
	configPath   string
	input        string
	output       string
	wavIn        bool
	wavOut       bool
	verbose      bool
}

func newFlags(stderr io.Writer) *cliFlags {
	f := &cliFlags{fs: pflag.NewFlagSet("iqdemod", pflag.ContinueOnError)}
	fs := f.fs
	fs.SetOutput(stderr)

	fs.IntVarP(&f.sampleRate, "samplerate", "s", 0, "Input IQ sample rate in Hz.")
	fs.IntVarP(&f.resampleRate, "resamplerate", "r", 0, "Output audio sample rate in Hz. Defaults to the input rate.")
	fs.IntVarP(&f.bandwidth, "bandwidth", "b", 0, "Anti-alias filter cutoff in Hz.")
	fs.StringVarP(&f.modulation, "modulation", "m", string(demod.ModulationFM), "Modulation: fm.")
	fs.IntVarP(&f.deviation, "deviation", "d", 0, "FM peak deviation in Hz.")
	fs.StringVar(&f.inType, "intype", string(demod.FormatS16), "Input sample format: s16 or f32.")
	fs.StringVar(&f.outType, "outtype", string(demod.FormatS16), "Output sample format: s16 or f32.")
	fs.BoolVar(&f.squareWave, "squarewave", false, "Reduce the output to its sign.")
	fs.Float64Var(&f.deemphasisUS, "deemphasis", 0, "FM de-emphasis time constant in microseconds (50 or 75). 0 disables.")
	fs.StringVar(&f.configPath, "config", "", "YAML configuration file. Flags override its values.")
	fs.StringVarP(&f.input, "input", "i", stdioName, "Input file, - for stdin.")
	fs.StringVarP(&f.output, "output", "o", stdioName, "Output file, - for stdout.")
	fs.BoolVar(&f.wavIn, "wav-in", false, "Input is a 16-bit stereo WAV file (I left, Q right).")
	fs.BoolVar(&f.wavOut, "wav-out", false, "Write the audio as a WAV file. Requires --output.")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "Log stage details.")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "%s\n\nUsage: iqdemod -s RATE -b HZ -d HZ [options] < in.iq > out.pcm\n\n", banner)
		fs.PrintDefaults()
	}
	return f
}

func (f *cliFlags) parse(args []string) error {
	return f.fs.Parse(args)
}

// config builds the pipeline configuration: defaults, then the config
// file, then any flag given explicitly.
func (f *cliFlags) config() (demod.Config, error) {
	cfg := demod.DefaultConfig()
	if f.configPath != "" {
		var err error
		if cfg, err = demod.LoadConfig(f.configPath); err != nil {
			return cfg, err
		}
	}

	changed := f.fs.Changed
	if changed("samplerate") {
		cfg.InputRate = f.sampleRate
	}
	if changed("resamplerate") {
		cfg.OutputRate = f.resampleRate
	}
	if changed("bandwidth") {
		cfg.Bandwidth = f.bandwidth
	}
	if changed("deviation") {
		cfg.Deviation = f.deviation
	}
	if changed("modulation") {
		m, err := demod.ParseModulation(f.modulation)
		if err != nil {
			return cfg, err
		}
		cfg.Modulation = m
	}
	if changed("intype") {
		format, err := demod.ParseFormat(f.inType)
		if err != nil {
			return cfg, err
		}
		cfg.InputFormat = format
	}
	if changed("outtype") {
		format, err := demod.ParseFormat(f.outType)
		if err != nil {
			return cfg, err
		}
		cfg.OutputFormat = format
	}
	if changed("squarewave") {
		cfg.SquareWave = f.squareWave
	}
	if changed("deemphasis") {
		cfg.DeemphasisTau = f.deemphasisUS * microsecond
	}
	return cfg, nil
}
