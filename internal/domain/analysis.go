package domain

import "context"

// Source records whether a provider result came from the external service
// or the local fallback.
type Source string

const (
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
)

// AnalysisRequest carries the inputs for one pipeline invocation.
type AnalysisRequest struct {
	Text string
	Lat  float64
	Lon  float64
}

// SummaryResult is the summarizer's output.
type SummaryResult struct {
	Summary    string  `json:"summary"`
	Confidence float64 `json:"confidence"`
	Source     Source  `json:"source"`
}

// ClassificationResult is the classifier's output. Scores holds the full
// label-to-score mapping; DisasterType is the highest-scoring label.
type ClassificationResult struct {
	DisasterType DisasterType             `json:"disaster_type"`
	Confidence   float64                  `json:"confidence"`
	Scores       map[DisasterType]float64 `json:"scores"`
	Source       Source                   `json:"source"`
}

// WeatherResult is the weather lookup's output.
type WeatherResult struct {
	TemperatureC float64 `json:"temperature_c"`
	Conditions   string  `json:"conditions"`
	HumidityPct  int     `json:"humidity_pct"`
	WindSpeed    float64 `json:"wind_speed"`
	Source       Source  `json:"source"`
}

// GeoResult is the reverse geocoder's output. Address holds the raw
// component map from the upstream service (empty for fallback results).
type GeoResult struct {
	LocationName string            `json:"location_name"`
	Address      map[string]string `json:"address,omitempty"`
	Source       Source            `json:"source"`
}

// Evidence bundles the raw per-provider results retained alongside the
// final analysis for auditability. Each of the four roles is present as
// either a result pointer or an entry in Errors, never neither.
type Evidence struct {
	Summary        *SummaryResult        `json:"summary,omitempty"`
	Classification *ClassificationResult `json:"classification,omitempty"`
	Weather        *WeatherResult        `json:"weather,omitempty"`
	Geo            *GeoResult            `json:"geo,omitempty"`
	Errors         map[string]string     `json:"errors,omitempty"`
}

// AnalysisResult is the assembled output of the report analysis pipeline.
type AnalysisResult struct {
	Summary       string       `json:"summary"`
	DisasterType  DisasterType `json:"disaster_type"`
	SeverityScore int          `json:"severity_score"`
	LocationName  string       `json:"location_name"`
	Evidence      Evidence     `json:"evidence"`
}

// Summarizer condenses report text into a short summary.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (SummaryResult, error)
}

// Classifier assigns a disaster type to report text.
type Classifier interface {
	Classify(ctx context.Context, text string) (ClassificationResult, error)
}

// WeatherLookup fetches current weather for a coordinate pair.
type WeatherLookup interface {
	CurrentWeather(ctx context.Context, lat, lon float64) (WeatherResult, error)
}

// GeoResolver reverse-geocodes a coordinate pair to a place name.
type GeoResolver interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (GeoResult, error)
}

// UnknownLocation is the sentinel place name used when resolution yields
// no usable address components.
const UnknownLocation = "Unknown Location"
