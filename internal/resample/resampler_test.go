package resample

import (
	"math"
	"math/cmplx"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const (
	testAttenuation = 70.0

	// Amplitude error allowed on an in-band tone after the cascade
	toneTolerance = 0.01
)

var testRatePairs = []struct {
	name    string
	in, out int
}{
	{"200k_to_48k", 200000, 48000},
	{"48k_to_200k", 48000, 200000},
	{"44.1k_to_48k", 44100, 48000},
	{"48k_to_44.1k", 48000, 44100},
	{"96k_to_48k", 96000, 48000},
	{"8k_to_48k", 8000, 48000},
	{"2.4M_to_48k", 2400000, 48000},
}

// runChunked pushes src through r in the given chunk sizes, cycling through
// them, and returns all output.
func runChunked(t require.TestingT, r *Resampler, src []complex128, chunks []int) []complex128 {
	var out []complex128
	for i := 0; len(src) > 0; i++ {
		n := min(chunks[i%len(chunks)], len(src))
		buf := make([]complex128, r.MaxOutputLen(n))
		got, err := r.Execute(buf, src[:n])
		require.NoError(t, err)
		out = append(out, buf[:got]...)
		src = src[n:]
	}
	return out
}

func tone(rate, freq float64, n int) []complex128 {
	out := make([]complex128, n)
	for i := range out {
		out[i] = cmplx.Rect(1, 2*math.Pi*freq*float64(i)/rate)
	}
	return out
}

// =============================================================================
// Construction
// =============================================================================

func TestNew_InvalidParams(t *testing.T) {
	tests := []struct {
		name    string
		in, out int
		att     float64
		wantErr error
	}{
		{"zero_input", 0, 48000, testAttenuation, ErrInvalidRatio},
		{"zero_output", 48000, 0, testAttenuation, ErrInvalidRatio},
		{"negative_output", 48000, -1, testAttenuation, ErrInvalidRatio},
		{"zero_attenuation", 48000, 44100, 0, ErrInvalidAttenuation},
		{"nan_attenuation", 48000, 44100, math.NaN(), ErrInvalidAttenuation},
		{"inf_attenuation", 48000, 44100, math.Inf(1), ErrInvalidAttenuation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.in, tt.out, tt.att)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNew_StagePlan(t *testing.T) {
	tests := []struct {
		name      string
		in, out   int
		wantKinds []StageKind
		polyRatio float64
	}{
		{"identity", 48000, 48000, nil, 0},
		{"200k_to_48k", 200000, 48000,
			[]StageKind{KindHalfBandDecimator, KindHalfBandDecimator, KindPolyphase}, 0.96},
		{"48k_to_200k", 48000, 200000,
			[]StageKind{KindPolyphase, KindHalfBandInterpolator, KindHalfBandInterpolator}, 25.0 / 24.0},
		{"44.1k_to_48k", 44100, 48000, []StageKind{KindPolyphase}, 160.0 / 147.0},
		{"96k_to_48k", 96000, 48000, []StageKind{KindHalfBandDecimator}, 0},
		{"8k_to_48k", 8000, 48000,
			[]StageKind{KindPolyphase, KindHalfBandInterpolator, KindHalfBandInterpolator}, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New(tt.in, tt.out, testAttenuation)
			require.NoError(t, err)

			stages := r.Stages()
			kinds := make([]StageKind, len(stages))
			for i, s := range stages {
				kinds[i] = s.Kind
				assert.Positive(t, s.Taps)
				assert.Positive(t, s.Delay)
				if s.Kind == KindPolyphase {
					assert.InDelta(t, tt.polyRatio, s.Ratio, 1e-12)
					assert.Equal(t, defaultPhases, s.Phases)
				}
			}
			if tt.wantKinds == nil {
				assert.Empty(t, kinds)
			} else {
				assert.Equal(t, tt.wantKinds, kinds)
			}

			assert.InDelta(t, float64(tt.out)/float64(tt.in), r.Rate(), 1e-15)
			t.Logf("%s: stages=%+v delay=%.2f", tt.name, stages, r.Delay())
		})
	}
}

func TestIdentity(t *testing.T) {
	r, err := New(48000, 48000, testAttenuation)
	require.NoError(t, err)
	assert.Zero(t, r.Delay())

	src := []complex128{1, 2i, -3, 4 - 4i}
	dst := make([]complex128, r.MaxOutputLen(len(src)))
	n, err := r.Execute(dst, src)
	require.NoError(t, err)
	assert.Equal(t, src, dst[:n])
}

func TestExecute_ShortBuffer(t *testing.T) {
	r, err := New(48000, 96000, testAttenuation)
	require.NoError(t, err)

	src := make([]complex128, 100)
	_, err = r.Execute(make([]complex128, 150), src)
	require.ErrorIs(t, err, ErrShortBuffer)

	n, err := r.Execute(make([]complex128, r.MaxOutputLen(len(src))), src)
	require.NoError(t, err)
	assert.Equal(t, 200, n)
}

// =============================================================================
// Streaming behaviour
// =============================================================================

// TestRateAccuracy checks that the cumulative output count tracks N·R with an
// error that does not grow with N.
func TestRateAccuracy(t *testing.T) {
	const maxCountError = 4

	for _, tt := range testRatePairs {
		t.Run(tt.name, func(t *testing.T) {
			ratio := float64(tt.out) / float64(tt.in)
			for _, total := range []int{10007, 200003} {
				r, err := New(tt.in, tt.out, testAttenuation)
				require.NoError(t, err)

				out := runChunked(t, r, make([]complex128, total), []int{2048, 1, 333, 4096, 7})
				want := float64(total) * ratio
				assert.InDelta(t, want, float64(len(out)), maxCountError,
					"N=%d: got %d outputs, want %.1f", total, len(out), want)
			}
		})
	}
}

// TestChunkingInvariance checks that arbitrary chunking reproduces the
// single-call output.
func TestChunkingInvariance(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	src := make([]complex128, 6000)
	for i := range src {
		src[i] = complex(rng.Float64()*2-1, rng.Float64()*2-1)
	}

	for _, tt := range testRatePairs[:4] {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New(tt.in, tt.out, testAttenuation)
			require.NoError(t, err)
			want := runChunked(t, r, src, []int{len(src)})

			rapid.Check(t, func(rt *rapid.T) {
				chunks := rapid.SliceOfN(rapid.IntRange(1, 1500), 1, 8).Draw(rt, "chunks")

				r, err := New(tt.in, tt.out, testAttenuation)
				require.NoError(rt, err)
				got := runChunked(rt, r, src, chunks)

				require.Len(rt, got, len(want))
				for i := range want {
					if cmplx.Abs(got[i]-want[i]) > 1e-12 {
						rt.Fatalf("sample %d differs: %v != %v", i, got[i], want[i])
					}
				}
			})
		})
	}
}

// TestToneFidelity resamples an in-band complex tone and compares every
// settled output against the ideal tone at the output rate, shifted by the
// reported delay. This checks passband gain, image/alias rejection and the
// delay bookkeeping at once.
func TestToneFidelity(t *testing.T) {
	for _, tt := range testRatePairs {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New(tt.in, tt.out, testAttenuation)
			require.NoError(t, err)

			inRate := float64(tt.in)
			freq := 0.1 * float64(min(tt.in, tt.out))
			n := max(20000, int(40*r.Delay()))
			out := runChunked(t, r, tone(inRate, freq, n), []int{1024})

			ratio := r.Rate()
			settle := 2*r.Delay() + 16
			var worst float64
			checked := 0
			for j, y := range out {
				tIn := float64(j)/ratio - r.Delay()
				if tIn < settle {
					continue
				}
				want := cmplx.Rect(1, 2*math.Pi*freq*tIn/inRate)
				worst = max(worst, cmplx.Abs(y-want))
				checked++
			}

			require.Positive(t, checked)
			assert.Less(t, worst, toneTolerance, "delay=%.3f", r.Delay())
			t.Logf("%s: %d samples checked, max error %.2e", tt.name, checked, worst)
		})
	}
}

// TestAliasRejection feeds a tone above the output Nyquist and checks it is
// attenuated to the design target.
func TestAliasRejection(t *testing.T) {
	const (
		in  = 200000
		out = 48000
	)
	r, err := New(in, out, testAttenuation)
	require.NoError(t, err)

	// 30 kHz would alias to 18 kHz at 48 kHz
	y := runChunked(t, r, tone(in, 30000, 40000), []int{4096})
	settle := int(math.Ceil(2 * r.Delay() * r.Rate()))

	var peak float64
	for _, v := range y[settle:] {
		peak = max(peak, cmplx.Abs(v))
	}
	assert.Less(t, 20*math.Log10(peak), -testAttenuation+10)
}

func BenchmarkExecute_200kTo48k(b *testing.B) {
	r, err := New(200000, 48000, testAttenuation)
	require.NoError(b, err)
	src := tone(200000, 3500, 2048)
	dst := make([]complex128, r.MaxOutputLen(len(src)))

	b.ReportAllocs()
	for b.Loop() {
		_, _ = r.Execute(dst, src)
	}
}
