package domain

// Band is a discretized risk bucket.
type Band string

const (
	BandLow    Band = "Low"
	BandMedium Band = "Medium"
	BandHigh   Band = "High"
)

// Band thresholds. Buckets are closed on the right: a score of exactly 33 is
// Low and a score of exactly 66 is Medium.
const (
	bandLowMax    = 33.0
	bandMediumMax = 66.0
)

// BandFor buckets a 0-100 score into Low/Medium/High.
func BandFor(score float64) Band {
	switch {
	case score <= bandLowMax:
		return BandLow
	case score <= bandMediumMax:
		return BandMedium
	default:
		return BandHigh
	}
}
