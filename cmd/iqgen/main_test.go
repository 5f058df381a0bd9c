package main

import (
	"bytes"
	"io"
	"math"
	"math/cmplx"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-iq-demod/internal/pcm"
	"github.com/tphakala/go-iq-demod/internal/wavio"
)

func TestGenerator_ChunkedMatchesWhole(t *testing.T) {
	whole := newFMGenerator(48000, 500, 1000, 3000, 0.5).generate(nil, 5000)

	g := newFMGenerator(48000, 500, 1000, 3000, 0.5)
	var chunked []complex128
	for _, n := range []int{1, 999, 3, 2000, 1997} {
		chunked = g.generate(chunked, n)
	}
	assert.Equal(t, whole, chunked)
}

func TestGenerator_InstantaneousFrequency(t *testing.T) {
	const rate = 200000.0
	g := newFMGenerator(rate, -2000, 1000, 3500, 1)
	iq := g.generate(nil, 4000)

	for i := 1; i < len(iq); i++ {
		got := cmplx.Phase(iq[i]*cmplx.Conj(iq[i-1])) * rate / (2 * math.Pi)
		require.InDelta(t, g.instantaneous(int64(i-1)), got, 1e-6, "sample %d", i)
		require.InDelta(t, 1, cmplx.Abs(iq[i]), 1e-12)
	}
}

func TestRun_Stdout(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-s", "48000", "-t", "0.5", "--outtype", "f32"}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())
	assert.Equal(t, 24000*pcm.FormatF32.IQSize(), stdout.Len())
}

func TestRun_WAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "iq.wav")
	var stdout, stderr bytes.Buffer
	code := run([]string{"-s", "96000", "-t", "0.25", "--wav", "-o", path}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())

	r, err := wavio.Open(path)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()
	assert.Equal(t, 96000, r.SampleRate())

	raw, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Len(t, raw, 24000*pcm.FormatS16.IQSize())
}

func TestRun_InvalidArguments(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zero rate", []string{"-s", "0"}},
		{"negative duration", []string{"-t", "-1"}},
		{"amplitude above one", []string{"-a", "1.5"}},
		{"beyond Nyquist", []string{"-s", "8000", "-d", "3000", "--offset", "2000"}},
		{"unknown format", []string{"--outtype", "u8"}},
		{"wav to stdout", []string{"--wav"}},
		{"wav float", []string{"--wav", "-o", "x.wav", "--outtype", "f32"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			assert.Equal(t, exitUsage, run(tt.args, &stdout, &stderr))
			assert.Zero(t, stdout.Len())
		})
	}
}
