// Package kafka publishes dust-storm alerts to a Kafka topic for downstream
// colony systems (dashboards, task schedulers). Publishing is feature-flagged
// and best-effort: the engine never blocks on a broker outage beyond the
// write call itself.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/colony-weather-sim/internal/config"
	"github.com/couchcryptid/colony-weather-sim/internal/observability"
	"github.com/couchcryptid/colony-weather-sim/internal/storm"
)

// AlertWriter produces storm alerts to the configured topic.
// It implements storm.AlertSink.
type AlertWriter struct {
	writer  *kafkago.Writer
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewAlertWriter creates a Kafka producer for the alerts topic.
func NewAlertWriter(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *AlertWriter {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.AlertsTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireOne,
	}
	return &AlertWriter{writer: w, logger: logger, metrics: metrics}
}

// PublishAlert serializes and publishes one storm alert, keyed by settlement
// so a consumer sees each settlement's updates in order.
func (w *AlertWriter) PublishAlert(ctx context.Context, alert storm.Alert) error {
	msg, err := serializeAlert(alert)
	if err != nil {
		w.metrics.AlertErrors.Inc()
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		w.metrics.AlertErrors.Inc()
		return err
	}
	w.metrics.AlertsPublished.Inc()
	return nil
}

func (w *AlertWriter) Close() error {
	return w.writer.Close()
}

// serializeAlert marshals an alert into a Kafka message.
func serializeAlert(alert storm.Alert) (kafkago.Message, error) {
	data, err := json.Marshal(alert)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize storm alert: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(alert.Settlement),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "classification", Value: []byte(alert.Classification)},
			{Key: "sol", Value: []byte(strconv.Itoa(alert.Sol))},
			{Key: "retired", Value: []byte(strconv.FormatBool(alert.Retired))},
		},
	}, nil
}
