package resample

// Stage design constants
const (
	// Number of polyphase branches in the arbitrary-rate stage. Coefficients
	// between branches come from cubic interpolation, so 64 is plenty.
	defaultPhases = 64

	// Fraction of the narrowest Nyquist band kept flat by every stage
	passbandRatio = 0.9

	// Upper bound for a half-band passband edge (the band is symmetric about 0.25)
	maxHalfBandPassband = 0.225

	// Nyquist in normalized frequency units
	nyquist = 0.5

	// Half-band rate factor
	halfBandFactor = 2
)

// Catmull-Rom style coefficient interpolation between adjacent phases:
// f(x) = a + b*x + c*x² + d*x³ through f(-1), f(0), f(1), f(2)
const (
	cubicCenterCoeff = 0.5 // c = 0.5*(f1+fm1) - f0
	cubicDivisor     = 6.0 // d = (1/6) * (f2 - f1 + fm1 - f0 - 4*c)
	cubicCMultiplier = 4.0
)
