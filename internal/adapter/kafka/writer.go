package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/produce-price-report/internal/config"
	"github.com/couchcryptid/produce-price-report/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes charts as JSON to a Kafka topic for downstream
// renderers. It implements pipeline.Sink.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaSinkTopic,
		Balancer:               &kafkago.LeastBytes{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

func (w *Writer) Name() string { return "kafka" }

// Publish writes the chart as a single JSON message keyed by run ID.
func (w *Writer) Publish(ctx context.Context, chart domain.Chart) error {
	msg, err := serializeToMessage(chart)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return err
	}
	w.logger.Debug("chart message written",
		"topic", w.writer.Topic,
		"series", len(chart.Series),
		"bytes", len(msg.Value),
	)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a Chart into a Kafka message.
func serializeToMessage(chart domain.Chart) (kafkago.Message, error) {
	data, err := json.Marshal(chart)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize chart: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(chart.RunID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "chart_title", Value: []byte(chart.Title)},
			{Key: "generated_at", Value: []byte(chart.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
