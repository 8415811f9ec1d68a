package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/calyptra/agrocast/internal/config"
	"github.com/calyptra/agrocast/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces completed forecast runs to a Kafka topic.
// It implements service.Publisher.
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

// Publish serializes a forecast run and writes it to the sink topic.
func (w *Writer) Publish(ctx context.Context, run domain.ForecastRun) error {
	msg, err := serializeToMessage(run)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a ForecastRun into a Kafka message keyed by
// crop and location so runs for the same field land on the same partition.
func serializeToMessage(run domain.ForecastRun) (kafkago.Message, error) {
	data, err := json.Marshal(run)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize forecast run: %w", err)
	}
	key := fmt.Sprintf("%s|%.4f|%.4f", run.Crop, run.Latitude, run.Longitude)
	return kafkago.Message{
		Key:   []byte(key),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "crop", Value: []byte(run.Crop)},
			{Key: "generated_at", Value: []byte(run.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
