package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/flood-area-check/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces outcome events to a Kafka topic.
// It implements session.Publisher.
type Writer struct {
	writer  *kafkago.Writer
	brokers []string
	logger  *slog.Logger
}

// Retry bounds for a single publish.
const (
	maxPublishAttempts = 3
	maxPublishBackoff  = 250 * time.Millisecond
)

// NewWriter creates a Kafka producer for the outcome topic. writeTimeout
// bounds each broker write; non-positive values use kafka-go's default.
func NewWriter(brokers []string, topic string, writeTimeout time.Duration, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
		MaxAttempts:            maxPublishAttempts,
		WriteBackoffMax:        maxPublishBackoff,
		WriteTimeout:           writeTimeout,
		// Publishing is synchronous with the request; don't wait for a full batch.
		BatchTimeout: 10 * time.Millisecond,
	}
	return &Writer{writer: w, brokers: brokers, logger: logger}
}

// Publish writes one event, keyed by its ID.
func (w *Writer) Publish(ctx context.Context, event domain.OutcomeEvent) error {
	msg, err := serializeOutcome(event)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish outcome %s: %w", event.ID, err)
	}
	w.logger.Debug("outcome published", "id", event.ID, "action", event.Action, "state", event.State)
	return nil
}

// CheckReadiness succeeds when any configured broker accepts a connection.
func (w *Writer) CheckReadiness(ctx context.Context) error {
	var errs []error
	for _, broker := range w.brokers {
		conn, err := kafkago.DialContext(ctx, "tcp", broker)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		return conn.Close()
	}
	if len(errs) == 0 {
		return errors.New("no kafka brokers configured")
	}
	return fmt.Errorf("kafka unreachable: %w", errors.Join(errs...))
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeOutcome marshals an OutcomeEvent into a Kafka message.
func serializeOutcome(event domain.OutcomeEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize outcome event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "action", Value: []byte(event.Action)},
			{Key: "state", Value: []byte(event.State)},
			{Key: "at", Value: []byte(event.At.Format(time.RFC3339))},
		},
	}, nil
}
