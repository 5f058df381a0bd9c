package fm

// Deemphasis is the single-pole lowpass that undoes broadcast FM
// pre-emphasis. Typical time constants are 50 µs (Europe) and 75 µs (US).
type Deemphasis struct {
	alpha float64
	prev  float64
}

// NewDeemphasis creates a de-emphasis filter for audio at sampleRate Hz.
func NewDeemphasis(sampleRate int, tau float64) *Deemphasis {
	dt := 1.0 / float64(sampleRate)
	return &Deemphasis{alpha: dt / (tau + dt)}
}

// Process filters src in place.
func (d *Deemphasis) Process(src []float64) {
	y := d.prev
	for i, x := range src {
		y += d.alpha * (x - y)
		src[i] = y
	}
	d.prev = y
}
