// Package resample converts complex sample streams between rational sample rates.
//
// A ratio R = out/in is realized as a cascade of cheap fixed-ratio half-band
// stages plus at most one arbitrary-ratio polyphase stage, all designed for the
// same stopband attenuation:
//
//   - R < 1: k half-band ÷2 stages, then polyphase with ratio R·2^k in (0.5, 1]
//   - R > 1: polyphase with ratio R/2^k in [1, 2), then k half-band ×2 stages
//   - R = 1: no stages
//
// Running the polyphase stage at the lowest rate in the chain keeps its
// per-sample cost small while the half-band stages do the bulk of the rate
// change at half the multiplications of a general FIR.
package resample

import (
	"errors"
	"fmt"
	"math"

	"github.com/tphakala/go-iq-demod/internal/mathutil"
)

// Sentinel errors.
var (
	ErrInvalidRatio       = errors.New("resample: sample rates must be positive")
	ErrInvalidAttenuation = errors.New("resample: attenuation must be positive")
	ErrShortBuffer        = errors.New("resample: output buffer too short")
)

// StageKind identifies the algorithm used by one stage of the cascade.
type StageKind string

// Stage kinds.
const (
	KindHalfBandDecimator    StageKind = "halfband-decimator"
	KindHalfBandInterpolator StageKind = "halfband-interpolator"
	KindPolyphase            StageKind = "polyphase"
)

// StageInfo describes one stage of the cascade.
type StageInfo struct {
	Kind   StageKind
	Ratio  float64 // output/input rate of this stage
	Taps   int     // filter length (taps per phase for polyphase)
	Phases int     // polyphase branches, 0 for half-band stages
	Delay  float64 // group delay in this stage's input samples
}

// stage is one element of the cascade. Implementations keep all streaming
// state internally and append their output to dst.
type stage interface {
	process(dst, src []complex128) []complex128
	maxOutput(n int) int
	delay() float64
	ratio() float64
	info() StageInfo
}

// Resampler is a streaming multi-stage rational resampler for complex samples.
// It is not safe for concurrent use.
type Resampler struct {
	inRate  int
	outRate int

	stages  []stage
	scratch [][]complex128 // output buffers of all but the last stage
	delay   float64
}

// New creates a resampler from inRate to outRate (both in Hz) whose stages all
// reach the given stopband attenuation in dB.
func New(inRate, outRate int, attenuation float64) (*Resampler, error) {
	if inRate <= 0 || outRate <= 0 {
		return nil, fmt.Errorf("%w: %d -> %d", ErrInvalidRatio, inRate, outRate)
	}
	if !(attenuation > 0) || math.IsInf(attenuation, 0) {
		return nil, fmt.Errorf("%w: %g dB", ErrInvalidAttenuation, attenuation)
	}

	r := &Resampler{inRate: inRate, outRate: outRate}

	g := mathutil.GCD(int64(inRate), int64(outRate))
	num, den := int64(outRate)/g, int64(inRate)/g

	switch {
	case num < den:
		if err := r.planDecimation(num, den, attenuation); err != nil {
			return nil, err
		}
	case num > den:
		if err := r.planInterpolation(num, den, attenuation); err != nil {
			return nil, err
		}
	}

	// Accumulate stage delays in units of the original input rate
	scale := 1.0
	for _, st := range r.stages {
		r.delay += st.delay() * scale
		scale /= st.ratio()
	}

	if len(r.stages) > 1 {
		r.scratch = make([][]complex128, len(r.stages)-1)
	}

	return r, nil
}

// planDecimation builds k half-band decimators followed by a polyphase stage
// with ratio in (0.5, 1]. Every stage keeps the final passband flat.
func (r *Resampler) planDecimation(num, den int64, attenuation float64) error {
	k := 0
	for halfBandFactor*num <= den {
		num *= halfBandFactor
		k++
	}
	g := mathutil.GCD(num, den)
	num, den = num/g, den/g

	// Final passband edge, in units of the original input rate
	final := passbandRatio * nyquist * float64(num) / float64(den) / float64(int64(1)<<k)

	for j := range k {
		hb, err := newHalfBandDecimator(final*float64(int64(1)<<j), attenuation)
		if err != nil {
			return fmt.Errorf("half-band stage %d: %w", j+1, err)
		}
		r.stages = append(r.stages, hb)
	}

	if num != den {
		pp, err := newPolyphaseStage(num, den, attenuation)
		if err != nil {
			return err
		}
		r.stages = append(r.stages, pp)
	}

	return nil
}

// planInterpolation builds a polyphase stage with ratio in [1, 2) followed by
// k half-band interpolators.
func (r *Resampler) planInterpolation(num, den int64, attenuation float64) error {
	k := 0
	for num >= halfBandFactor*den {
		den *= halfBandFactor
		k++
	}
	g := mathutil.GCD(num, den)
	num, den = num/g, den/g

	if num != den {
		pp, err := newPolyphaseStage(num, den, attenuation)
		if err != nil {
			return err
		}
		r.stages = append(r.stages, pp)
	}

	// The signal occupies passbandRatio of the input Nyquist band. Each
	// half-band runs at its output rate, in units of the input rate
	// ra·2^(j+1).
	ra := float64(num) / float64(den)
	for j := range k {
		outRate := ra * float64(int64(1)<<(j+1))
		hb, err := newHalfBandInterpolator(passbandRatio*nyquist/outRate, attenuation)
		if err != nil {
			return fmt.Errorf("half-band stage %d: %w", j+1, err)
		}
		r.stages = append(r.stages, hb)
	}

	return nil
}

// Execute resamples src and writes the produced samples to dst, returning how
// many were written. The count depends on the accumulated phase, so callers
// must size dst with MaxOutputLen.
//
// State carries across calls: processing a stream in any chunking yields the
// same samples as processing it in one call.
func (r *Resampler) Execute(dst, src []complex128) (int, error) {
	if need := r.MaxOutputLen(len(src)); len(dst) < need {
		return 0, fmt.Errorf("%w: have %d, need %d", ErrShortBuffer, len(dst), need)
	}

	if len(r.stages) == 0 {
		return copy(dst, src), nil
	}

	cur := src
	last := len(r.stages) - 1
	for i, st := range r.stages[:last] {
		r.scratch[i] = st.process(r.scratch[i][:0], cur)
		cur = r.scratch[i]
	}

	// dst has room for the worst case, so appending stays in its backing array
	out := r.stages[last].process(dst[:0], cur)
	return len(out), nil
}

// MaxOutputLen returns an upper bound on the samples Execute produces for n inputs.
func (r *Resampler) MaxOutputLen(n int) int {
	for _, st := range r.stages {
		n = st.maxOutput(n)
	}
	return n
}

// Delay returns the total group delay in input samples. It is constant for
// the lifetime of the resampler.
func (r *Resampler) Delay() float64 {
	return r.delay
}

// Rate returns the output/input rate ratio.
func (r *Resampler) Rate() float64 {
	return float64(r.outRate) / float64(r.inRate)
}

// Stages describes the cascade in processing order.
func (r *Resampler) Stages() []StageInfo {
	infos := make([]StageInfo, len(r.stages))
	for i, st := range r.stages {
		infos[i] = st.info()
	}
	return infos
}
