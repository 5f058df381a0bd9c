package resample

import (
	"fmt"
	"math"

	"github.com/tphakala/go-iq-demod/internal/filter"
	"github.com/tphakala/go-iq-demod/internal/mathutil"
	"github.com/tphakala/go-iq-demod/internal/simdops"
)

// polyphaseStage resamples by an exact rational ratio num/den using a bank of
// P polyphase branches with cubic interpolation between branches.
//
// The phase accumulator is integer: for each input sample, outputs are
// produced at fractional positions at/num for at = at0, at0+den, ... < num,
// and the overshoot is carried into the next sample. The output count after
// n inputs is therefore exactly ceil(n·num/den), with no drift.
type polyphaseStage struct {
	// Coefficients per phase, stored oldest tap first so they line up with
	// the history window: coef(x) = a + x*(b + x*(c + x*d))
	polyA [][]float64
	polyB [][]float64
	polyC [][]float64
	polyD [][]float64

	numPhases    int
	tapsPerPhase int

	num int64 // output samples ...
	den int64 // ... per den input samples
	at  int64 // phase accumulator, in [0, den) between input samples

	// Input history, oldest first. Holds tapsPerPhase-1 samples between calls.
	histRe []float64
	histIm []float64
}

// newPolyphaseStage designs the filter bank for ratio num/den. The prototype
// runs at numPhases times the stage input rate, keeps passbandRatio of the
// narrower Nyquist band flat and stops at that Nyquist edge.
func newPolyphaseStage(num, den int64, attenuation float64) (*polyphaseStage, error) {
	if num <= 0 || den <= 0 {
		return nil, fmt.Errorf("%w: %d/%d", ErrInvalidRatio, num, den)
	}

	ratio := float64(num) / float64(den)
	stop := nyquist * min(1, ratio)
	pass := passbandRatio * stop

	tapsPerPhase := int(math.Ceil(mathutil.KaiserLength(attenuation, stop-pass)))
	numPhases := defaultPhases
	cutoff := (pass + stop) / 2 / float64(numPhases)

	prototype, err := filter.DesignKaiser(numPhases*tapsPerPhase, cutoff, attenuation)
	if err != nil {
		return nil, fmt.Errorf("polyphase prototype: %w", err)
	}

	// Each branch gets unity DC gain when the prototype sums to numPhases
	if sum := simdops.Sum(prototype); sum != 0 {
		simdops.Scale(prototype, float64(numPhases)/sum)
	}

	// Prototype index of lag k (0 = newest input) at phase p is k*P + p.
	// Indices outside the prototype are zero.
	coeff := func(i int) float64 {
		if i < 0 || i >= len(prototype) {
			return 0
		}
		return prototype[i]
	}

	s := &polyphaseStage{
		polyA:        make([][]float64, numPhases),
		polyB:        make([][]float64, numPhases),
		polyC:        make([][]float64, numPhases),
		polyD:        make([][]float64, numPhases),
		numPhases:    numPhases,
		tapsPerPhase: tapsPerPhase,
		num:          num,
		den:          den,
		histRe:       make([]float64, tapsPerPhase-1),
		histIm:       make([]float64, tapsPerPhase-1),
	}

	for p := range numPhases {
		s.polyA[p] = make([]float64, tapsPerPhase)
		s.polyB[p] = make([]float64, tapsPerPhase)
		s.polyC[p] = make([]float64, tapsPerPhase)
		s.polyD[p] = make([]float64, tapsPerPhase)

		for k := range tapsPerPhase {
			i := k*numPhases + p
			f0 := coeff(i)
			f1 := coeff(i + 1)
			fm1 := coeff(i - 1)
			f2 := coeff(i + 2)

			c := cubicCenterCoeff*(f1+fm1) - f0
			d := (1.0 / cubicDivisor) * (f2 - f1 + fm1 - f0 - cubicCMultiplier*c)
			b := f1 - f0 - d - c

			// Window is oldest first, so lag k sits at the far end
			w := tapsPerPhase - 1 - k
			s.polyA[p][w] = f0
			s.polyB[p][w] = b
			s.polyC[p][w] = c
			s.polyD[p][w] = d
		}
	}

	return s, nil
}

func (s *polyphaseStage) process(dst, src []complex128) []complex128 {
	if len(src) == 0 {
		return dst
	}

	s.histRe, s.histIm = simdops.Split(s.histRe, s.histIm, src)

	taps := s.tapsPerPhase
	phaseScale := float64(s.numPhases) / float64(s.num)
	at := s.at

	for j := range src {
		re := s.histRe[j : j+taps]
		im := s.histIm[j : j+taps]

		for at < s.num {
			pos := float64(at) * phaseScale
			p := int(pos)
			x := pos - float64(p)
			dst = append(dst, simdops.CubicDot(re, im, s.polyA[p], s.polyB[p], s.polyC[p], s.polyD[p], x))
			at += s.den
		}
		at -= s.num
	}
	s.at = at

	// Keep the newest taps-1 samples for the next call
	n := copy(s.histRe, s.histRe[len(src):])
	s.histRe = s.histRe[:n]
	n = copy(s.histIm, s.histIm[len(src):])
	s.histIm = s.histIm[:n]

	return dst
}

func (s *polyphaseStage) maxOutput(n int) int {
	return int((int64(n)*s.num + s.den - 1) / s.den)
}

// delay is the prototype center, (P·T-1)/2 samples at P times the input rate.
func (s *polyphaseStage) delay() float64 {
	return float64(s.numPhases*s.tapsPerPhase-1) / 2 / float64(s.numPhases)
}

func (s *polyphaseStage) ratio() float64 {
	return float64(s.num) / float64(s.den)
}

func (s *polyphaseStage) info() StageInfo {
	return StageInfo{
		Kind:   KindPolyphase,
		Ratio:  s.ratio(),
		Taps:   s.tapsPerPhase,
		Phases: s.numPhases,
		Delay:  s.delay(),
	}
}
