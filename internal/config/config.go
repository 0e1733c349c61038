package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// MockProviders forces every provider to its fallback variant,
	// regardless of which credentials are present.
	MockProviders bool

	// Provider credentials. An empty value disables that live variant.
	OpenAIAPIKey   string
	OpenAIModel    string
	HFAPIKey       string
	OpenWeatherKey string

	// Per-provider live-attempt timeouts.
	SummaryTimeout  time.Duration
	ClassifyTimeout time.Duration
	WeatherTimeout  time.Duration
	GeoTimeout      time.Duration

	GeoCacheSize int

	// SeverityJitter adds bounded random noise to severity scores.
	SeverityJitter bool

	// Background analysis queue sizing.
	AnalysisWorkers   int
	AnalysisQueueSize int

	// SweepSchedule is the cron spec for re-enqueueing unanalyzed reports.
	SweepSchedule string

	// Kafka alert publishing (optional; disabled when no brokers are set).
	KafkaBrokers    []string
	KafkaAlertTopic string
}

// PublisherEnabled reports whether alert publishing is configured.
func (c *Config) PublisherEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file in the working directory is loaded first,
// best-effort.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	summaryTimeout, err := parseDuration("SUMMARY_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	classifyTimeout, err := parseDuration("CLASSIFY_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	weatherTimeout, err := parseDuration("WEATHER_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	geoTimeout, err := parseDuration("GEO_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		MockProviders: envBool("MOCK_PROVIDERS", true),

		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:    envOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		HFAPIKey:       os.Getenv("HF_API_KEY"),
		OpenWeatherKey: os.Getenv("OPENWEATHER_API_KEY"),

		SummaryTimeout:  summaryTimeout,
		ClassifyTimeout: classifyTimeout,
		WeatherTimeout:  weatherTimeout,
		GeoTimeout:      geoTimeout,

		GeoCacheSize: envInt("GEO_CACHE_SIZE", 1000),

		SeverityJitter: envBool("SEVERITY_JITTER", true),

		AnalysisWorkers:   envInt("ANALYSIS_WORKERS", 4),
		AnalysisQueueSize: envInt("ANALYSIS_QUEUE_SIZE", 64),

		SweepSchedule: envOrDefault("SWEEP_SCHEDULE", "@every 5m"),

		KafkaBrokers:    parseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaAlertTopic: envOrDefault("KAFKA_ALERT_TOPIC", "disaster-alerts"),
	}

	if cfg.GeoCacheSize <= 0 {
		return nil, errors.New("GEO_CACHE_SIZE must be positive")
	}
	if cfg.AnalysisWorkers <= 0 {
		return nil, errors.New("ANALYSIS_WORKERS must be positive")
	}
	if cfg.AnalysisQueueSize <= 0 {
		return nil, errors.New("ANALYSIS_QUEUE_SIZE must be positive")
	}
	if cfg.PublisherEnabled() && cfg.KafkaAlertTopic == "" {
		return nil, errors.New("KAFKA_ALERT_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		return strings.EqualFold(v, "true")
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	s := envOrDefault(key, def)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

// parseBrokers splits a comma-separated broker list, dropping empty entries.
func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
