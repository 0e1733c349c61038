package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	httpadapter "github.com/couchcryptid/disaster-alert-service/internal/adapter/http"
	"github.com/couchcryptid/disaster-alert-service/internal/adapter/huggingface"
	kafkaadapter "github.com/couchcryptid/disaster-alert-service/internal/adapter/kafka"
	"github.com/couchcryptid/disaster-alert-service/internal/adapter/nominatim"
	"github.com/couchcryptid/disaster-alert-service/internal/adapter/openai"
	"github.com/couchcryptid/disaster-alert-service/internal/adapter/openweather"
	"github.com/couchcryptid/disaster-alert-service/internal/analysis"
	"github.com/couchcryptid/disaster-alert-service/internal/config"
	"github.com/couchcryptid/disaster-alert-service/internal/domain"
	"github.com/couchcryptid/disaster-alert-service/internal/fallback"
	"github.com/couchcryptid/disaster-alert-service/internal/observability"
	"github.com/couchcryptid/disaster-alert-service/internal/store"
	"github.com/couchcryptid/disaster-alert-service/internal/sweeper"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	mem := store.NewMemory(clockwork.NewRealClock())

	gateways := buildGateways(cfg, logger, metrics)
	scorer := domain.NewSeverityScorer(cfg.SeverityJitter, domain.NewRand(time.Now().UnixNano()))
	analyzer := analysis.New(gateways, scorer, logger, metrics)

	var publisher analysis.Publisher
	var kafkaPublisher *kafkaadapter.Publisher
	if cfg.PublisherEnabled() {
		kafkaPublisher = kafkaadapter.NewPublisher(cfg, logger)
		publisher = kafkaPublisher
		logger.Info("kafka alert publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaAlertTopic)
	} else {
		logger.Info("kafka alert publishing disabled")
	}

	queue := analysis.NewQueue(analyzer, mem, mem, publisher, logger, metrics, cfg.AnalysisWorkers, cfg.AnalysisQueueSize)
	sweep := sweeper.New(mem, queue, logger)
	srv := httpadapter.NewServer(cfg.HTTPAddr, mem, mem, queue, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	queue.Start(ctx)

	if err := sweep.Start(ctx, cfg.SweepSchedule); err != nil {
		logger.Error("failed to start sweep job", "error", err)
		os.Exit(1)
	}

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	sweep.Stop()
	queue.Wait()
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

// buildGateways wires each provider role with its live adapter when
// credentials are configured, and the local fallback otherwise. With
// MOCK_PROVIDERS=true every role runs on fallbacks, which is the default
// for local development.
func buildGateways(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) analysis.Gateways {
	rand := domain.NewRand(time.Now().UnixNano())

	var (
		summarizer domain.Summarizer
		classifier domain.Classifier
		weather    domain.WeatherLookup
		geo        domain.GeoResolver
	)

	if !cfg.MockProviders {
		var hfClient *huggingface.Client
		if cfg.HFAPIKey != "" {
			hfClient = huggingface.NewClient(cfg.HFAPIKey, cfg.ClassifyTimeout, logger)
			classifier = huggingface.NewClassifier(hfClient)
		}

		// OpenAI is the preferred summarizer; HuggingFace covers the
		// role when only an HF key is present.
		switch {
		case cfg.OpenAIAPIKey != "":
			summarizer = openai.NewSummarizer(cfg.OpenAIAPIKey, cfg.OpenAIModel, logger)
		case hfClient != nil:
			summarizer = huggingface.NewSummarizer(hfClient)
		}

		if cfg.OpenWeatherKey != "" {
			weather = openweather.NewClient(cfg.OpenWeatherKey, cfg.WeatherTimeout, logger)
		}

		// Nominatim needs no credentials.
		geo = nominatim.NewCachedResolver(nominatim.NewClient(cfg.GeoTimeout, logger), cfg.GeoCacheSize, metrics)
	}

	logger.Info("provider gateways configured",
		"summarizer_live", summarizer != nil,
		"classifier_live", classifier != nil,
		"weather_live", weather != nil,
		"geo_live", geo != nil,
	)

	return analysis.Gateways{
		Summary:        analysis.NewSummaryGateway(summarizer, fallback.NewSummarizer(), cfg.SummaryTimeout, logger, metrics),
		Classification: analysis.NewClassificationGateway(classifier, fallback.NewClassifier(rand), cfg.ClassifyTimeout, logger, metrics),
		Weather:        analysis.NewWeatherGateway(weather, fallback.NewWeather(rand), cfg.WeatherTimeout, logger, metrics),
		Geo:            analysis.NewGeoGateway(geo, fallback.NewGeo(rand), cfg.GeoTimeout, logger, metrics),
	}
}
