// Package kafka publishes enrichment events to the sink topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/address-enrichment/internal/config"
	"github.com/couchcryptid/address-enrichment/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces enrichment events to a Kafka topic.
// It implements pipeline.EventPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes one enrichment event and writes it to the sink topic.
func (w *Writer) Publish(ctx context.Context, event domain.EnrichmentEvent) error {
	msg, err := serializeToMessage(event)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an EnrichmentEvent into a Kafka message keyed
// by place id, so all events for one place land on the same partition.
func serializeToMessage(event domain.EnrichmentEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize enrichment event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.PlaceID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "enriched_at", Value: []byte(event.EnrichedAt.Format(time.RFC3339))},
		},
	}, nil
}
