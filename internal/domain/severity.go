package domain

import (
	"math"
	"strings"
)

// baseSeverity maps each disaster type to its starting severity score.
var baseSeverity = map[DisasterType]int{
	DisasterEarthquake: 70,
	DisasterFire:       65,
	DisasterFlood:      60,
	DisasterStorm:      55,
	DisasterOther:      40,
}

// SeverityScorer computes a bounded severity score from a classification
// and a weather reading.
//
// The steps apply in a fixed order: base score, confidence adjustment,
// weather adjustment, jitter, clamp. Reordering them changes results and is
// a breaking change.
type SeverityScorer struct {
	// Jitter adds a random offset in [-5, +5] to reflect real-world noise.
	// Deployments that need reproducible scores leave it off.
	Jitter bool

	rand Rand
}

// NewSeverityScorer builds a scorer. rand may be nil when jitter is
// disabled.
func NewSeverityScorer(jitter bool, rand Rand) SeverityScorer {
	return SeverityScorer{Jitter: jitter, rand: rand}
}

// Score returns a severity in [0, 100].
func (s SeverityScorer) Score(disasterType DisasterType, confidence float64, weather WeatherResult) int {
	base, ok := baseSeverity[disasterType]
	if !ok {
		base = baseSeverity[DisasterOther]
	}

	// Confidence 0.5 is neutral; the adjustment spans -20..+20.
	score := base + int(math.Round((confidence-0.5)*40))

	score += weatherAdjustment(disasterType, weather)

	if s.Jitter && s.rand != nil {
		score += IntBetween(s.rand, -5, 5)
	}

	return clampScore(score)
}

// weatherAdjustment returns the type-specific additive adjustment derived
// from current conditions.
func weatherAdjustment(disasterType DisasterType, weather WeatherResult) int {
	conditions := strings.ToLower(weather.Conditions)

	switch disasterType {
	case DisasterFlood:
		if strings.Contains(conditions, "rain") || strings.Contains(conditions, "storm") {
			return 15
		}
	case DisasterStorm:
		if weather.WindSpeed > 15 {
			return 10
		}
	case DisasterFire:
		if strings.Contains(conditions, "rain") {
			return -10
		}
	}
	return 0
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
