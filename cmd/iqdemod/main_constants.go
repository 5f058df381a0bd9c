package main

// Exit codes
const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

// I/O
const (
	// stdioName selects stdin or stdout in place of a file path.
	stdioName = "-"

	// outputBufferSize is the stdout/file write buffer.
	outputBufferSize = 64 * 1024

	microsecond = 1e-6
)

const banner = "iqdemod: streaming IQ to audio demodulator"
