package filter

// History is a fixed-capacity circular buffer of the most recent complex
// samples, kept newest first.
//
// Samples are stored twice (at pos and pos+size) in split real/imaginary
// slices, so the newest-first window is always one contiguous slice that the
// SIMD dot products can consume without wrapping. A new History holds zeros.
type History struct {
	re   []float64
	im   []float64
	pos  int
	size int
}

// NewHistory creates a history of the given capacity (at least 1).
func NewHistory(size int) *History {
	size = max(size, 1)
	return &History{
		re:   make([]float64, 2*size),
		im:   make([]float64, 2*size),
		size: size,
	}
}

// Push inserts x as the newest sample, discarding the oldest.
func (h *History) Push(x complex128) {
	h.pos--
	if h.pos < 0 {
		h.pos = h.size - 1
	}
	r, i := real(x), imag(x)
	h.re[h.pos], h.re[h.pos+h.size] = r, r
	h.im[h.pos], h.im[h.pos+h.size] = i, i
}

// Window returns the stored samples newest first. The slices alias the
// history and are only valid until the next Push.
func (h *History) Window() (re, im []float64) {
	return h.re[h.pos : h.pos+h.size], h.im[h.pos : h.pos+h.size]
}

// At returns the sample pushed k pushes ago (At(0) is the newest).
func (h *History) At(k int) complex128 {
	return complex(h.re[h.pos+k], h.im[h.pos+k])
}

// Len returns the capacity.
func (h *History) Len() int {
	return h.size
}
