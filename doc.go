// Package demod demodulates a streamed IQ radio signal into audio.
//
// Interleaved 16-bit (or float32) I/Q samples flow through five stages, each
// keeping its state across chunks so that a stream cut at arbitrary points
// produces the same output as one unbroken buffer:
//
//  1. IQ decoding to complex samples in [-1, 1]
//  2. A Kaiser windowed-sinc anti-alias lowpass at the configured bandwidth
//  3. A multi-stage rational resampler to the output rate
//  4. FM demodulation with a polar discriminator
//  5. Quantization to 16-bit little-endian audio
//
// # Quick Start
//
// Streaming from a reader to a writer:
//
//	cfg := demod.DefaultConfig()
//	cfg.InputRate = 200000
//	cfg.OutputRate = 48000
//	cfg.Bandwidth = 8000
//	cfg.Deviation = 3500
//
//	stats, err := demod.Run(ctx, os.Stdin, os.Stdout, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Driving the pipeline chunk by chunk:
//
//	p, err := demod.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for chunk := range chunks {
//	    out, err = p.Process(out[:0], chunk)
//	    ...
//	}
//	out, err = p.Flush(out[:0])
//
// # Latency
//
// The anti-alias filter delays the signal by (taps-1)/2 input samples and the
// resampler by [Pipeline.Delay] minus that. The first chunk is preceded by
// the resampler delay in zeros, and [Pipeline.Flush] pushes enough zeros
// through every stage that all input reaches the output.
//
// # Configuration
//
// [Config] can be filled in code or loaded from YAML with [LoadConfig]:
//
//	input_rate: 200000
//	output_rate: 48000
//	bandwidth: 8000
//	modulation: fm
//	deviation: 3500
//	output_format: s16
//	deemphasis_tau: 50e-6
//
// Invalid configurations are rejected by [New] before any sample is
// processed; the returned error wraps one sentinel per violated rule.
package demod
