package analysis

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/disaster-alert-service/internal/domain"
	"github.com/couchcryptid/disaster-alert-service/internal/observability"
	"github.com/sony/gobreaker"
)

// gateway bundles the live-attempt policy shared by every provider role:
// a per-provider timeout, a circuit breaker, and fallback accounting.
type gateway struct {
	name    string
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
	metrics *observability.Metrics
}

func newGateway(name string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) gateway {
	return gateway{
		name:    name,
		timeout: timeout,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: 3,
			Interval:    time.Minute,
			Timeout:     2 * time.Minute,
		}),
		logger:  logger,
		metrics: metrics,
	}
}

// invoke applies the live-then-fallback contract. A nil live function means
// the live variant is unconfigured and the fallback serves directly. Any
// live failure (error, timeout, open breaker, malformed response surfaced
// as an error) is logged and absorbed; invoke never fails outward. The live
// path gets a single attempt per analysis, no retries.
func invoke[T any](ctx context.Context, g gateway, live func(ctx context.Context) (T, error), fallback func(ctx context.Context) T) T {
	if live == nil {
		g.metrics.ProviderRequests.WithLabelValues(g.name, string(domain.SourceFallback)).Inc()
		return fallback(ctx)
	}

	liveCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	result, err := g.breaker.Execute(func() (interface{}, error) {
		return live(liveCtx)
	})
	if err != nil {
		g.logger.Warn("live provider failed, using fallback",
			"provider", g.name,
			"error", err,
		)
		g.metrics.ProviderFallbacks.WithLabelValues(g.name).Inc()
		g.metrics.ProviderRequests.WithLabelValues(g.name, string(domain.SourceFallback)).Inc()
		return fallback(ctx)
	}

	g.metrics.ProviderRequests.WithLabelValues(g.name, string(domain.SourceLive)).Inc()
	return result.(T)
}

// SummaryGateway wraps the summarizer role.
type SummaryGateway struct {
	gw       gateway
	live     domain.Summarizer // nil when unconfigured
	fallback domain.Summarizer
}

// NewSummaryGateway creates a summarizer gateway. live may be nil.
func NewSummaryGateway(live, fallback domain.Summarizer, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *SummaryGateway {
	return &SummaryGateway{
		gw:       newGateway("summary", timeout, logger, metrics),
		live:     live,
		fallback: fallback,
	}
}

// Invoke returns a summary, from the live backend when possible.
func (g *SummaryGateway) Invoke(ctx context.Context, text string) domain.SummaryResult {
	var live func(context.Context) (domain.SummaryResult, error)
	if g.live != nil {
		live = func(ctx context.Context) (domain.SummaryResult, error) {
			return g.live.Summarize(ctx, text)
		}
	}
	return invoke(ctx, g.gw, live, func(ctx context.Context) domain.SummaryResult {
		result, _ := g.fallback.Summarize(ctx, text)
		return result
	})
}

// ClassificationGateway wraps the classifier role.
type ClassificationGateway struct {
	gw       gateway
	live     domain.Classifier
	fallback domain.Classifier
}

// NewClassificationGateway creates a classifier gateway. live may be nil.
func NewClassificationGateway(live, fallback domain.Classifier, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *ClassificationGateway {
	return &ClassificationGateway{
		gw:       newGateway("classification", timeout, logger, metrics),
		live:     live,
		fallback: fallback,
	}
}

func (g *ClassificationGateway) Invoke(ctx context.Context, text string) domain.ClassificationResult {
	var live func(context.Context) (domain.ClassificationResult, error)
	if g.live != nil {
		live = func(ctx context.Context) (domain.ClassificationResult, error) {
			return g.live.Classify(ctx, text)
		}
	}
	return invoke(ctx, g.gw, live, func(ctx context.Context) domain.ClassificationResult {
		result, _ := g.fallback.Classify(ctx, text)
		return result
	})
}

// WeatherGateway wraps the weather lookup role.
type WeatherGateway struct {
	gw       gateway
	live     domain.WeatherLookup
	fallback domain.WeatherLookup
}

// NewWeatherGateway creates a weather gateway. live may be nil.
func NewWeatherGateway(live, fallback domain.WeatherLookup, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *WeatherGateway {
	return &WeatherGateway{
		gw:       newGateway("weather", timeout, logger, metrics),
		live:     live,
		fallback: fallback,
	}
}

func (g *WeatherGateway) Invoke(ctx context.Context, lat, lon float64) domain.WeatherResult {
	var live func(context.Context) (domain.WeatherResult, error)
	if g.live != nil {
		live = func(ctx context.Context) (domain.WeatherResult, error) {
			return g.live.CurrentWeather(ctx, lat, lon)
		}
	}
	return invoke(ctx, g.gw, live, func(ctx context.Context) domain.WeatherResult {
		result, _ := g.fallback.CurrentWeather(ctx, lat, lon)
		return result
	})
}

// GeoGateway wraps the reverse-geocoding role.
type GeoGateway struct {
	gw       gateway
	live     domain.GeoResolver
	fallback domain.GeoResolver
}

// NewGeoGateway creates a geo gateway. live may be nil.
func NewGeoGateway(live, fallback domain.GeoResolver, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *GeoGateway {
	return &GeoGateway{
		gw:       newGateway("geo", timeout, logger, metrics),
		live:     live,
		fallback: fallback,
	}
}

func (g *GeoGateway) Invoke(ctx context.Context, lat, lon float64) domain.GeoResult {
	var live func(context.Context) (domain.GeoResult, error)
	if g.live != nil {
		live = func(ctx context.Context) (domain.GeoResult, error) {
			return g.live.ReverseGeocode(ctx, lat, lon)
		}
	}
	return invoke(ctx, g.gw, live, func(ctx context.Context) domain.GeoResult {
		result, _ := g.fallback.ReverseGeocode(ctx, lat, lon)
		return result
	})
}
