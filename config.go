package demod

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/tphakala/go-iq-demod/internal/pcm"
	"gopkg.in/yaml.v3"
)

// Modulation names the demodulation scheme.
type Modulation string

// Supported modulations.
const (
	ModulationFM Modulation = "fm"
)

// SampleFormat is the wire encoding of input IQ or output audio samples.
type SampleFormat = pcm.Format

// Sample formats.
const (
	FormatS16 SampleFormat = pcm.FormatS16
	FormatF32 SampleFormat = pcm.FormatF32
)

// Configuration errors. Validate wraps one of these per violated rule.
var (
	ErrInvalidRate       = errors.New("demod: sample rate must be positive")
	ErrInvalidBandwidth  = errors.New("demod: bandwidth must be positive and below input Nyquist")
	ErrInvalidModulation = errors.New("demod: unsupported modulation")
	ErrInvalidDeviation  = errors.New("demod: FM deviation must be positive")
	ErrInvalidFormat     = errors.New("demod: unsupported sample format")
	ErrInvalidFilter     = errors.New("demod: invalid filter parameters")
	ErrInvalidChunkSize  = errors.New("demod: chunk size must be positive")
	ErrInvalidDeemphasis = errors.New("demod: de-emphasis time constant must not be negative")
)

// Config is the immutable pipeline configuration.
type Config struct {
	// InputRate is the IQ sample rate in Hz.
	InputRate int `yaml:"input_rate"`

	// OutputRate is the audio sample rate in Hz. Zero means InputRate.
	OutputRate int `yaml:"output_rate"`

	// Bandwidth is the anti-alias filter cutoff in Hz, below InputRate/2.
	Bandwidth int `yaml:"bandwidth"`

	// Modulation selects the demodulator. Only FM is supported.
	Modulation Modulation `yaml:"modulation"`

	// Deviation is the FM peak deviation in Hz. A carrier offset of exactly
	// Deviation demodulates to full scale.
	Deviation int `yaml:"deviation"`

	// InputFormat and OutputFormat select the wire encodings.
	InputFormat  SampleFormat `yaml:"input_format"`
	OutputFormat SampleFormat `yaml:"output_format"`

	// SquareWave reduces every output sample to its sign.
	SquareWave bool `yaml:"square_wave"`

	// DeemphasisTau is the FM de-emphasis time constant in seconds.
	// Zero disables de-emphasis.
	DeemphasisTau float64 `yaml:"deemphasis_tau"`

	// FilterTaps is the anti-alias filter length.
	FilterTaps int `yaml:"filter_taps"`

	// Attenuation is the stopband target in dB for the filter and resampler.
	Attenuation float64 `yaml:"attenuation"`

	// ChunkSize is the driver read size in bytes.
	ChunkSize int `yaml:"chunk_size"`
}

// DefaultConfig returns a configuration with every optional field set.
// Rates, bandwidth and deviation still have to be supplied.
func DefaultConfig() Config {
	return Config{
		Modulation:   ModulationFM,
		InputFormat:  FormatS16,
		OutputFormat: FormatS16,
		FilterTaps:   DefaultFilterTaps,
		Attenuation:  DefaultAttenuation,
		ChunkSize:    DefaultChunkSize,
	}
}

// WithDefaults returns a copy of c with unset optional fields filled in.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.OutputRate == 0 {
		c.OutputRate = c.InputRate
	}
	if c.Modulation == "" {
		c.Modulation = d.Modulation
	}
	if c.InputFormat == "" {
		c.InputFormat = d.InputFormat
	}
	if c.OutputFormat == "" {
		c.OutputFormat = d.OutputFormat
	}
	if c.FilterTaps == 0 {
		c.FilterTaps = d.FilterTaps
	}
	if c.Attenuation == 0 {
		c.Attenuation = d.Attenuation
	}
	if c.ChunkSize == 0 {
		c.ChunkSize = d.ChunkSize
	}
	return c
}

// Validate checks every invariant and reports all violations at once.
func (c Config) Validate() error {
	var errs []error

	if c.InputRate <= 0 {
		errs = append(errs, fmt.Errorf("%w: input rate %d", ErrInvalidRate, c.InputRate))
	}
	if c.OutputRate <= 0 {
		errs = append(errs, fmt.Errorf("%w: output rate %d", ErrInvalidRate, c.OutputRate))
	}
	if c.Bandwidth <= 0 || 2*c.Bandwidth >= c.InputRate {
		errs = append(errs, fmt.Errorf("%w: %d Hz at %d Hz", ErrInvalidBandwidth, c.Bandwidth, c.InputRate))
	}

	switch c.Modulation {
	case ModulationFM:
		if c.Deviation <= 0 {
			errs = append(errs, fmt.Errorf("%w: %d Hz", ErrInvalidDeviation, c.Deviation))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidModulation, c.Modulation))
	}

	if !c.InputFormat.Valid() {
		errs = append(errs, fmt.Errorf("%w: input %q", ErrInvalidFormat, c.InputFormat))
	}
	if !c.OutputFormat.Valid() {
		errs = append(errs, fmt.Errorf("%w: output %q", ErrInvalidFormat, c.OutputFormat))
	}
	if c.FilterTaps < 1 {
		errs = append(errs, fmt.Errorf("%w: %d taps", ErrInvalidFilter, c.FilterTaps))
	}
	if !(c.Attenuation > 0) || math.IsInf(c.Attenuation, 0) {
		errs = append(errs, fmt.Errorf("%w: %g dB attenuation", ErrInvalidFilter, c.Attenuation))
	}
	if c.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidChunkSize, c.ChunkSize))
	}
	if !(c.DeemphasisTau >= 0) || math.IsInf(c.DeemphasisTau, 0) {
		errs = append(errs, fmt.Errorf("%w: %g", ErrInvalidDeemphasis, c.DeemphasisTau))
	}

	return errors.Join(errs...)
}

// ParseModulation parses a modulation name, case-insensitively.
func ParseModulation(name string) (Modulation, error) {
	if m := Modulation(strings.ToLower(strings.TrimSpace(name))); m == ModulationFM {
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidModulation, name)
}

// LoadConfig reads a YAML configuration file on top of DefaultConfig.
// Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes a YAML configuration on top of DefaultConfig.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// ParseFormat parses a sample format name such as "s16" or "f32".
func ParseFormat(name string) (SampleFormat, error) {
	f, err := pcm.ParseFormat(name)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidFormat, name)
	}
	return f, nil
}
