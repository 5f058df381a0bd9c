package demod

import (
	"errors"
	"fmt"
	"math"

	"github.com/charmbracelet/log"
	"github.com/tphakala/go-iq-demod/internal/filter"
	"github.com/tphakala/go-iq-demod/internal/fm"
	"github.com/tphakala/go-iq-demod/internal/pcm"
	"github.com/tphakala/go-iq-demod/internal/resample"
)

// ErrFlushed is returned when a pipeline is used after Flush.
var ErrFlushed = errors.New("demod: pipeline already flushed")

// Stats counts the samples and bytes that went through a pipeline.
type Stats struct {
	SamplesIn  int64 // complex IQ samples decoded
	SamplesOut int64 // audio samples encoded
	BytesIn    int64
	BytesOut   int64
}

// Pipeline is a configured demodulation chain. It is not safe for concurrent
// use.
type Pipeline struct {
	cfg    Config
	logger *log.Logger

	decoder   *pcm.Decoder
	filter    *filter.FIR
	resampler *resample.Resampler
	demod     Demodulator
	deemph    *fm.Deemphasis
	encoder   *pcm.Encoder

	// padding is the number of zeros fed to the resampler before the first
	// filtered sample.
	padding int
	primed  bool
	flushed bool

	iq        []complex128
	filtered  []complex128
	resampled []complex128
	audio     []float64

	stats Stats
}

// New validates cfg and builds every stage.
func New(cfg Config, opts ...Option) (*Pipeline, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := buildOptions(opts)

	p := &Pipeline{cfg: cfg, logger: o.logger}

	var err error
	if p.decoder, err = pcm.NewDecoder(cfg.InputFormat); err != nil {
		return nil, fmt.Errorf("create decoder: %w", err)
	}

	cutoff := float64(cfg.Bandwidth) / float64(cfg.InputRate)
	coeffs, err := filter.DesignKaiser(cfg.FilterTaps, cutoff, cfg.Attenuation)
	if err != nil {
		return nil, fmt.Errorf("design anti-alias filter: %w", err)
	}
	if p.filter, err = filter.NewFIR(coeffs); err != nil {
		return nil, fmt.Errorf("create anti-alias filter: %w", err)
	}

	if p.resampler, err = resample.New(cfg.InputRate, cfg.OutputRate, cfg.Attenuation); err != nil {
		return nil, fmt.Errorf("create resampler: %w", err)
	}
	p.padding = int(math.Ceil(p.resampler.Delay()))

	if p.demod, err = newDemodulator(cfg); err != nil {
		return nil, err
	}
	if cfg.DeemphasisTau > 0 {
		p.deemph = fm.NewDeemphasis(cfg.OutputRate, cfg.DeemphasisTau)
	}

	if p.encoder, err = pcm.NewEncoder(cfg.OutputFormat, cfg.SquareWave); err != nil {
		return nil, fmt.Errorf("create encoder: %w", err)
	}

	p.logStages(cutoff)
	return p, nil
}

func (p *Pipeline) logStages(cutoff float64) {
	p.logger.Info("pipeline ready",
		"in", p.cfg.InputRate,
		"out", p.cfg.OutputRate,
		"ratio", p.resampler.Rate(),
		"modulation", p.cfg.Modulation,
		"delay", p.Delay())
	p.logger.Debug("anti-alias filter",
		"taps", p.filter.Taps(),
		"cutoff", cutoff,
		"attenuation", p.cfg.Attenuation)
	for i, st := range p.resampler.Stages() {
		p.logger.Debug("resampler stage",
			"index", i,
			"kind", st.Kind,
			"ratio", st.Ratio,
			"taps", st.Taps,
			"phases", st.Phases,
			"delay", st.Delay)
	}
	if p.deemph != nil {
		p.logger.Debug("de-emphasis", "tau", p.cfg.DeemphasisTau)
	}
}

// Process decodes src, runs it through every stage and appends the encoded
// audio to dst. Bytes that do not complete an IQ sample are held until the
// next call.
func (p *Pipeline) Process(dst, src []byte) ([]byte, error) {
	if p.flushed {
		return dst, ErrFlushed
	}

	p.iq = p.decoder.Decode(p.iq[:0], src)
	p.stats.BytesIn += int64(len(src))
	p.stats.SamplesIn += int64(len(p.iq))

	return p.push(dst, p.iq)
}

// Flush drains the filter and resampler by pushing enough zero samples for
// every decoded sample to reach the output, and appends the result to dst.
// The pipeline cannot be used afterwards. Partial trailing bytes are dropped.
func (p *Pipeline) Flush(dst []byte) ([]byte, error) {
	if p.flushed {
		return dst, ErrFlushed
	}

	if n := p.decoder.Pending(); n > 0 {
		p.logger.Warn("dropping incomplete IQ sample at end of stream", "bytes", n)
	}

	zeros := make([]complex128, int(math.Ceil(p.Delay())))
	dst, err := p.push(dst, zeros)
	p.flushed = true
	return dst, err
}

func (p *Pipeline) push(dst []byte, iq []complex128) ([]byte, error) {
	p.filtered = p.filtered[:0]
	if !p.primed {
		p.primed = true
		for range p.padding {
			p.filtered = append(p.filtered, 0)
		}
	}
	p.filtered = p.filter.Process(p.filtered, iq)

	if need := p.resampler.MaxOutputLen(len(p.filtered)); cap(p.resampled) < need {
		p.resampled = make([]complex128, need)
	}
	n, err := p.resampler.Execute(p.resampled[:cap(p.resampled)], p.filtered)
	if err != nil {
		return dst, fmt.Errorf("resample: %w", err)
	}

	p.audio = p.demod.Demodulate(p.audio[:0], p.resampled[:n])
	if p.deemph != nil {
		p.deemph.Process(p.audio)
	}

	before := len(dst)
	dst = p.encoder.Encode(dst, p.audio)
	p.stats.SamplesOut += int64(len(p.audio))
	p.stats.BytesOut += int64(len(dst) - before)
	return dst, nil
}

// Delay returns the latency from input to output in input samples: the
// anti-alias filter delay plus the resampler delay.
func (p *Pipeline) Delay() float64 {
	return p.filter.Delay() + p.resampler.Delay()
}

// Stats returns the counters accumulated so far.
func (p *Pipeline) Stats() Stats {
	return p.stats
}

// Config returns the effective configuration with defaults applied.
func (p *Pipeline) Config() Config {
	return p.cfg
}
