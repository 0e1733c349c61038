// Package fallback implements the network-free variants of the four
// enrichment provider roles. They are the correctness backstop of the
// pipeline: they never fail, never touch the network, and produce
// deterministic or pseudo-random approximations of the live services.
package fallback

import (
	"context"
	"math"
	"strings"

	"github.com/couchcryptid/disaster-alert-service/internal/domain"
)

const (
	summaryMaxChars   = 100
	summaryMarker     = " [summary generated]"
	summaryConfidence = 0.7
)

// Summarizer returns a truncated prefix of the report text.
type Summarizer struct{}

func NewSummarizer() *Summarizer { return &Summarizer{} }

func (s *Summarizer) Summarize(_ context.Context, text string) (domain.SummaryResult, error) {
	summary := text
	// Truncate by runes, not bytes, so multibyte text is never split
	// mid-sequence.
	if runes := []rune(summary); len(runes) > summaryMaxChars {
		summary = string(runes[:summaryMaxChars]) + "..."
	}
	return domain.SummaryResult{
		Summary:    summary + summaryMarker,
		Confidence: summaryConfidence,
		Source:     domain.SourceFallback,
	}, nil
}

// keywordSet pairs a disaster type with the substrings that indicate it.
type keywordSet struct {
	disasterType domain.DisasterType
	keywords     []string
}

// keywordSets are checked in order; the first matching set wins. No scoring
// happens across multiple matches.
var keywordSets = []keywordSet{
	{domain.DisasterFlood, []string{"flood", "rain", "water", "inundat"}},
	{domain.DisasterFire, []string{"fire", "burn", "blaze", "smoke"}},
	{domain.DisasterEarthquake, []string{"earthquake", "quake", "tremor", "seismic"}},
	{domain.DisasterStorm, []string{"storm", "hurricane", "cyclone", "wind"}},
}

// Classifier matches lowercase report text against fixed keyword sets.
type Classifier struct {
	rand domain.Rand
}

func NewClassifier(rand domain.Rand) *Classifier {
	return &Classifier{rand: rand}
}

func (c *Classifier) Classify(_ context.Context, text string) (domain.ClassificationResult, error) {
	lower := strings.ToLower(text)

	disasterType := domain.DisasterOther
	confidence := domain.FloatBetween(c.rand, 0.3, 0.6)

	for _, set := range keywordSets {
		if containsAny(lower, set.keywords) {
			disasterType = set.disasterType
			confidence = domain.FloatBetween(c.rand, 0.7, 0.95)
			break
		}
	}

	return domain.ClassificationResult{
		DisasterType: disasterType,
		Confidence:   confidence,
		Scores:       map[domain.DisasterType]float64{disasterType: confidence},
		Source:       domain.SourceFallback,
	}, nil
}

func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// conditions is the fixed set the weather fallback draws from.
var conditions = []string{"clear", "cloudy", "rainy", "stormy", "foggy"}

// Weather produces pseudo-random readings within plausible ranges.
type Weather struct {
	rand domain.Rand
}

func NewWeather(rand domain.Rand) *Weather {
	return &Weather{rand: rand}
}

func (w *Weather) CurrentWeather(_ context.Context, _, _ float64) (domain.WeatherResult, error) {
	return domain.WeatherResult{
		TemperatureC: roundTenth(domain.FloatBetween(w.rand, -10, 35)),
		Conditions:   conditions[w.rand.Intn(len(conditions))],
		HumidityPct:  domain.IntBetween(w.rand, 30, 95),
		WindSpeed:    roundTenth(domain.FloatBetween(w.rand, 0, 25)),
		Source:       domain.SourceFallback,
	}, nil
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

// placeNames is the fixed pool the geo fallback picks from. The choice is
// not derived from the input coordinates.
var placeNames = []string{
	"Mumbai, Maharashtra, India",
	"Delhi, NCT, India",
	"Bengaluru, Karnataka, India",
	"Chennai, Tamil Nadu, India",
	"Kolkata, West Bengal, India",
}

// Geo returns a plausible place name chosen pseudo-randomly.
type Geo struct {
	rand domain.Rand
}

func NewGeo(rand domain.Rand) *Geo {
	return &Geo{rand: rand}
}

func (g *Geo) ReverseGeocode(_ context.Context, _, _ float64) (domain.GeoResult, error) {
	return domain.GeoResult{
		LocationName: placeNames[g.rand.Intn(len(placeNames))],
		Address:      map[string]string{"mock": "true"},
		Source:       domain.SourceFallback,
	}, nil
}
