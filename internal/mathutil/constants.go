package mathutil

// Bessel series constants
const (
	// Relative size of a series term below which summation stops
	besselSeriesTolerance = 1e-17

	// Upper bound on series terms; convergence takes ~x/2 + 20 terms
	besselMaxTerms = 500
)

// Kaiser window formula constants
// From Kaiser & Schafer's empirical formulas
const (
	// Attenuation thresholds for β calculation
	kaiserAttHigh   = 50.0 // High attenuation threshold (dB)
	kaiserAttMedium = 21.0 // Medium attenuation threshold (dB)

	// Kaiser β formula coefficients
	kaiserBetaHighCoeff1 = 0.1102 // Coefficient for high attenuation
	kaiserBetaHighOffset = 8.7    // Offset for high attenuation

	kaiserBetaMediumCoeff1 = 0.5842  // Primary coefficient for medium attenuation
	kaiserBetaMediumPower  = 0.4     // Power for medium attenuation formula
	kaiserBetaMediumCoeff2 = 0.07886 // Secondary coefficient for medium attenuation
)

// Filter length estimation constants
const (
	// Kaiser's filter length formula: N ≈ (att - 8) / (2.285 * 2π * Δf)
	kaiserFilterLengthOffset     = 8.0   // Attenuation offset in Kaiser formula
	kaiserFilterLengthMultiplier = 2.285 // Multiplier in Kaiser formula
	kaiserFilterLengthPiFactor   = 2.0   // Factor for 2π in formula

	// Smallest transition band accepted, avoids division by zero
	minTransitionBW = 1e-6
)
