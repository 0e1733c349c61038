package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)

	assert.True(t, cfg.MockProviders)
	assert.Empty(t, cfg.OpenAIAPIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	assert.Empty(t, cfg.HFAPIKey)
	assert.Empty(t, cfg.OpenWeatherKey)

	assert.Equal(t, 30*time.Second, cfg.SummaryTimeout)
	assert.Equal(t, 30*time.Second, cfg.ClassifyTimeout)
	assert.Equal(t, 10*time.Second, cfg.WeatherTimeout)
	assert.Equal(t, 10*time.Second, cfg.GeoTimeout)

	assert.Equal(t, 1000, cfg.GeoCacheSize)
	assert.True(t, cfg.SeverityJitter)
	assert.Equal(t, 4, cfg.AnalysisWorkers)
	assert.Equal(t, 64, cfg.AnalysisQueueSize)
	assert.Equal(t, "@every 5m", cfg.SweepSchedule)

	assert.False(t, cfg.PublisherEnabled())
	assert.Equal(t, "disaster-alerts", cfg.KafkaAlertTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "console")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("MOCK_PROVIDERS", "false")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("HF_API_KEY", "hf-test")
	t.Setenv("OPENWEATHER_API_KEY", "ow-test")
	t.Setenv("SUMMARY_TIMEOUT", "15s")
	t.Setenv("GEO_CACHE_SIZE", "250")
	t.Setenv("SEVERITY_JITTER", "false")
	t.Setenv("ANALYSIS_WORKERS", "8")
	t.Setenv("ANALYSIS_QUEUE_SIZE", "128")
	t.Setenv("SWEEP_SCHEDULE", "@every 1m")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_ALERT_TOPIC", "alerts")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.MockProviders)
	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	assert.Equal(t, "gpt-4o", cfg.OpenAIModel)
	assert.Equal(t, "hf-test", cfg.HFAPIKey)
	assert.Equal(t, "ow-test", cfg.OpenWeatherKey)
	assert.Equal(t, 15*time.Second, cfg.SummaryTimeout)
	assert.Equal(t, 250, cfg.GeoCacheSize)
	assert.False(t, cfg.SeverityJitter)
	assert.Equal(t, 8, cfg.AnalysisWorkers)
	assert.Equal(t, 128, cfg.AnalysisQueueSize)
	assert.Equal(t, "@every 1m", cfg.SweepSchedule)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.PublisherEnabled())
	assert.Equal(t, "alerts", cfg.KafkaAlertTopic)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("WEATHER_TIMEOUT", "not-a-duration")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WEATHER_TIMEOUT")
}

func TestLoad_NegativeTimeout(t *testing.T) {
	t.Setenv("GEO_TIMEOUT", "-5s")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_InvalidWorkerCount(t *testing.T) {
	t.Setenv("ANALYSIS_WORKERS", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANALYSIS_WORKERS")
}

func TestParseBrokers(t *testing.T) {
	assert.Nil(t, parseBrokers(""))
	assert.Equal(t, []string{"a:1"}, parseBrokers("a:1"))
	assert.Equal(t, []string{"a:1", "b:2"}, parseBrokers(" a:1 ,, b:2 "))
}
