package demod

import (
	"fmt"

	"github.com/tphakala/go-iq-demod/internal/fm"
)

// Demodulator turns baseband complex samples into real audio samples, one
// output per input. Implementations keep whatever state they need across
// calls.
type Demodulator interface {
	Demodulate(dst []float64, src []complex128) []float64
}

// newDemodulator creates the demodulator stage for cfg. It runs at the
// output rate, after resampling.
func newDemodulator(cfg Config) (Demodulator, error) {
	switch cfg.Modulation {
	case ModulationFM:
		// kf is the deviation as a fraction of the rate the discriminator sees
		kf := float64(cfg.Deviation) / float64(cfg.OutputRate)
		d, err := fm.New(kf)
		if err != nil {
			return nil, fmt.Errorf("create FM demodulator: %w", err)
		}
		return d, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidModulation, cfg.Modulation)
	}
}
