// Package domain models disaster reports, alerts, and the enrichment
// results produced by the report analysis pipeline.
//
// # Reports and Alerts
//
// A Report is a raw citizen or sensor submission: free text plus WGS-84
// coordinates. Analysis turns a Report into an Alert carrying a disaster
// classification, a 0-100 severity score, a human-readable summary, and a
// resolved location name.
//
// # Enrichment Providers
//
// Four independent provider roles enrich a report:
//
//	Summarizer    - condenses the report text.
//	Classifier    - assigns one of the closed disaster types.
//	WeatherLookup - current weather at the report coordinates.
//	GeoResolver   - reverse-geocodes coordinates to a place name.
//
// Each role has a live implementation calling an external service and a
// network-free fallback approximation. Every provider result is tagged with
// its Source (live or fallback) so consumers can audit how much real
// enrichment actually happened.
//
// # Severity Scoring
//
// Severity is computed from the classification and the weather reading in a
// fixed order: per-type base score, confidence adjustment, weather
// adjustment, optional jitter, clamp to [0,100]. The order is a contract;
// reordering the steps changes scores. See [SeverityScorer].
//
//	Base scores: earthquake 70 | fire 65 | flood 60 | storm 55 | other 40
//
// # Randomness
//
// Fallback providers and severity jitter draw from a [Rand] source injected
// at construction so tests can force determinism with a fixed seed.
package domain
