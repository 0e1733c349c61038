// Package analysis implements the report analysis pipeline: four provider
// gateways fanned out concurrently, a severity scorer over their joined
// outputs, and a last-resort fallback result when everything else goes
// wrong.
package analysis

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/disaster-alert-service/internal/domain"
	"github.com/couchcryptid/disaster-alert-service/internal/observability"
)

// Gateways holds the four provider gateways the analyzer fans out to.
type Gateways struct {
	Summary        *SummaryGateway
	Classification *ClassificationGateway
	Weather        *WeatherGateway
	Geo            *GeoGateway
}

// Analyzer orchestrates the report analysis pipeline. Construct one at
// startup and share it across request paths; it holds no per-call state.
type Analyzer struct {
	gateways Gateways
	scorer   domain.SeverityScorer
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// New creates an Analyzer with its gateway dependencies injected.
func New(gateways Gateways, scorer domain.SeverityScorer, logger *slog.Logger, metrics *observability.Metrics) *Analyzer {
	return &Analyzer{
		gateways: gateways,
		scorer:   scorer,
		logger:   logger,
		metrics:  metrics,
	}
}

// Analyze runs the full pipeline for one request. It always returns a
// structurally valid result: gateways absorb provider failures, and the
// outermost recover turns any unexpected panic into the fixed fallback
// result. Nothing escapes this boundary.
func (a *Analyzer) Analyze(ctx context.Context, req domain.AnalysisRequest) (result domain.AnalysisResult) {
	start := time.Now()
	a.metrics.AnalysesTotal.Inc()

	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("analysis recovered from panic", "panic", r)
			a.metrics.AnalyzerRecoveries.Inc()
			result = FallbackResult(req.Text)
		}
	}()

	var (
		wg             sync.WaitGroup
		panicked       atomic.Bool
		summary        domain.SummaryResult
		classification domain.ClassificationResult
		weather        domain.WeatherResult
		geo            domain.GeoResult
	)

	// The four provider calls are independent; run them concurrently and
	// join. Each writes to its own variable, so no lock is needed. A panic
	// inside a goroutine cannot be caught by the outer recover, so each
	// branch guards itself and trips the shared flag instead of crashing
	// the process.
	run := func(f func()) {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				a.logger.Error("provider gateway panicked", "panic", r)
				panicked.Store(true)
			}
		}()
		f()
	}

	wg.Add(4)
	go run(func() { summary = a.gateways.Summary.Invoke(ctx, req.Text) })
	go run(func() { classification = a.gateways.Classification.Invoke(ctx, req.Text) })
	go run(func() { weather = a.gateways.Weather.Invoke(ctx, req.Lat, req.Lon) })
	go run(func() { geo = a.gateways.Geo.Invoke(ctx, req.Lat, req.Lon) })
	wg.Wait()

	if panicked.Load() {
		a.metrics.AnalyzerRecoveries.Inc()
		return FallbackResult(req.Text)
	}

	severity := a.scorer.Score(classification.DisasterType, classification.Confidence, weather)

	result = domain.AnalysisResult{
		Summary:       summary.Summary,
		DisasterType:  classification.DisasterType,
		SeverityScore: severity,
		LocationName:  geo.LocationName,
		Evidence: domain.Evidence{
			Summary:        &summary,
			Classification: &classification,
			Weather:        &weather,
			Geo:            &geo,
		},
	}

	a.metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	a.logger.Info("analysis completed",
		"disaster_type", result.DisasterType,
		"severity", result.SeverityScore,
		"location", result.LocationName,
	)

	return result
}

const (
	fallbackSeverity   = 50
	fallbackTextPrefix = 50
	errAnalysisFailed  = "analysis failed"
)

// FallbackResult is the fixed last-resort result produced when the
// pipeline itself fails. Every field is structurally valid and the
// evidence carries error markers instead of provider results.
func FallbackResult(text string) domain.AnalysisResult {
	prefix := text
	// Rune-based truncation so multibyte text stays valid UTF-8.
	if runes := []rune(prefix); len(runes) > fallbackTextPrefix {
		prefix = string(runes[:fallbackTextPrefix])
	}

	return domain.AnalysisResult{
		Summary:       "Emergency report: " + prefix + "... [analysis failed]",
		DisasterType:  domain.DisasterOther,
		SeverityScore: fallbackSeverity,
		LocationName:  domain.UnknownLocation,
		Evidence: domain.Evidence{
			Errors: map[string]string{
				"summary":        errAnalysisFailed,
				"classification": errAnalysisFailed,
				"weather":        errAnalysisFailed,
				"geo":            errAnalysisFailed,
			},
		},
	}
}
