package gauge

import "math"

// Tier is the color band a score falls into.
type Tier string

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// Tier thresholds on the 0-10 scale. Boundaries belong to the higher tier.
const (
	MediumThreshold = 5.0
	HighThreshold   = 8.0
)

// Reading is the visual state derived from a score.
type Reading struct {
	Score float64
	Tier  Tier

	// Fill is the ring fill percentage in [0, 100].
	Fill float64
}

// TierFor maps a score to its tier.
func TierFor(score float64) Tier {
	switch {
	case score < MediumThreshold:
		return TierLow
	case score < HighThreshold:
		return TierMedium
	default:
		return TierHigh
	}
}

// FillPercent maps the 0-10 scale linearly to 0-100, clamping scores
// outside that range.
func FillPercent(score float64) float64 {
	return math.Max(0, math.Min(100, score*10))
}

// Read returns the reading for score. ok is false when there is nothing to
// render: a missing score or NaN.
func Read(score *float64) (r Reading, ok bool) {
	if score == nil || math.IsNaN(*score) {
		return Reading{}, false
	}
	s := *score
	return Reading{
		Score: s,
		Tier:  TierFor(s),
		Fill:  FillPercent(s),
	}, true
}
