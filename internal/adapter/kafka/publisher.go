// Package kafka publishes created alerts to a Kafka topic for downstream
// consumers (notification fan-out, archival).
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/disaster-alert-service/internal/config"
	"github.com/couchcryptid/disaster-alert-service/internal/domain"
)

// Publisher produces alert messages to the configured topic.
// It implements analysis.Publisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured alert topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaAlertTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// PublishAlert serializes and publishes one alert.
func (p *Publisher) PublishAlert(ctx context.Context, alert domain.Alert) error {
	msg, err := serializeToMessage(alert)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish alert %s: %w", alert.ID, err)
	}
	p.logger.Debug("alert published", "alert_id", alert.ID, "topic", p.writer.Topic)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals an Alert into a Kafka message keyed by
// alert ID so re-publishes of the same alert land on one partition.
func serializeToMessage(alert domain.Alert) (kafkago.Message, error) {
	data, err := json.Marshal(alert)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize alert: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(alert.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "disaster_type", Value: []byte(alert.DisasterType)},
			{Key: "severity", Value: []byte(strconv.Itoa(alert.SeverityScore))},
		},
	}, nil
}
