package demod

// Filter defaults
const (
	// DefaultFilterTaps is the anti-alias filter length.
	DefaultFilterTaps = 64

	// DefaultAttenuation is the stopband attenuation target in dB shared by
	// the anti-alias filter and every resampler stage.
	DefaultAttenuation = 70.0
)

// Stream defaults
const (
	// DefaultChunkSize is the number of input bytes read per driver iteration.
	DefaultChunkSize = 8192
)

// De-emphasis time constants in seconds
const (
	DeemphasisEurope = 50e-6
	DeemphasisUS     = 75e-6
)
