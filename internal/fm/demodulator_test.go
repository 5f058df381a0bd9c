package fm

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-iq-demod/internal/testutil"
)

const (
	testSampleRate = 48000.0
	testDeviation  = 3500.0
	testKf         = testDeviation / testSampleRate
	testTolerance  = 1e-9
)

func TestNew_InvalidSensitivity(t *testing.T) {
	for _, kf := range []float64{0, -0.1, math.NaN(), math.Inf(1)} {
		_, err := New(kf)
		require.ErrorIs(t, err, ErrInvalidSensitivity, "kf=%v", kf)
	}
}

// TestDemodulate_Linearity checks that a constant offset of ±d Hz maps to ±d/deviation.
func TestDemodulate_Linearity(t *testing.T) {
	for _, offset := range []float64{3500, 1750, 100, -100, -1750, -3500, 7000} {
		d, err := New(testKf)
		require.NoError(t, err)

		in := testutil.ToneIQ(testSampleRate, offset, 1000, 0.7)
		out := d.Demodulate(nil, in)
		require.Len(t, out, len(in))

		// The tone starts at zero phase, so out[0] measures no step from 1+0j
		assert.InDelta(t, 0.0, out[0], testTolerance)
		testutil.AssertAllNear(t, out[1:], offset/testDeviation, testTolerance)
	}
}

func TestDemodulate_FirstSampleZeroPhase(t *testing.T) {
	d, err := New(0.25)
	require.NoError(t, err)

	// A quarter turn from 1+0j is π/2, and 1/(2π·0.25) scales it to 1
	out := d.Demodulate(nil, []complex128{1i})
	assert.InDelta(t, 1.0, out[0], testTolerance)
}

// TestDemodulate_Wraparound crosses ±π on every sample.
func TestDemodulate_Wraparound(t *testing.T) {
	d, err := New(0.45)
	require.NoError(t, err)

	step := 0.9 * math.Pi
	in := make([]complex128, 200)
	for i := range in {
		in[i] = cmplx.Rect(1, step*float64(i+1))
	}

	out := d.Demodulate(nil, in)
	testutil.AssertAllNear(t, out, step/(2*math.Pi*0.45), testTolerance)
}

// TestDemodulate_ChunkBoundary checks the previous sample carries across calls.
func TestDemodulate_ChunkBoundary(t *testing.T) {
	in := testutil.FMToneIQ(testSampleRate, 1000, testDeviation, 4800, 1)

	whole, err := New(testKf)
	require.NoError(t, err)
	want := whole.Demodulate(nil, in)

	split, err := New(testKf)
	require.NoError(t, err)
	var got []float64
	for _, n := range []int{1, 999, 1, 2000, 1799} {
		got = split.Demodulate(got, in[:n])
		in = in[n:]
	}

	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i], got[i], testTolerance, "sample %d", i)
	}

	// The recovered 1 kHz tone is smooth: no jump larger than its slope allows
	maxSlope := 2 * math.Pi * 1000 / testSampleRate
	assert.Less(t, testutil.MaxStep(got[1:]), maxSlope*1.05)
}

func TestDemodulate_Empty(t *testing.T) {
	d, err := New(testKf)
	require.NoError(t, err)
	assert.Empty(t, d.Demodulate(nil, nil))
}

func TestDeemphasis(t *testing.T) {
	d := NewDeemphasis(48000, 50e-6)

	// Step response settles to the input level
	x := make([]float64, 2000)
	for i := range x {
		x[i] = 1
	}
	d.Process(x)
	assert.InDelta(t, 1.0, x[len(x)-1], 1e-6)
	assert.Less(t, x[0], 1.0)

	// State carries over: the next block starts settled
	y := []float64{1, 1}
	d.Process(y)
	assert.InDelta(t, 1.0, y[0], 1e-6)
}

func BenchmarkDemodulate(b *testing.B) {
	d, _ := New(testKf)
	in := testutil.FMToneIQ(testSampleRate, 1000, testDeviation, 2048, 1)
	out := make([]float64, 0, len(in))

	b.ReportAllocs()
	for b.Loop() {
		out = d.Demodulate(out[:0], in)
	}
}
