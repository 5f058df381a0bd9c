package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Report(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-s", "200000", "-r", "48000", "-b", "8000"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	out := stdout.String()
	assert.Contains(t, out, "Taps:        64")
	assert.Contains(t, out, "halfband-decimator")
	assert.Contains(t, out, "polyphase")
	assert.Contains(t, out, "Stopband peak")
	assert.Contains(t, out, "SIMD:")
}

func TestRun_Identity(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-s", "48000", "-r", "48000", "-b", "5000"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "Identity")
}

func TestRun_InvalidBandwidth(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run([]string{"-s", "48000", "-b", "30000"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "bandwidth")
	assert.Zero(t, stdout.Len())
}
