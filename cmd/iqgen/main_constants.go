package main

// Exit codes
const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

// Default signal
const (
	defaultSampleRate = 200000
	defaultTone       = 1000.0
	defaultDeviation  = 3500.0
	defaultDuration   = 1.0
	defaultAmplitude  = 0.5
)

const (
	stdioName = "-"

	// chunkSamples is the number of IQ samples generated per write.
	chunkSamples = 4096

	outputBufferSize = 64 * 1024
)
