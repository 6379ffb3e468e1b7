package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/wms-platform/materials-service/internal/domain"
	"github.com/wms-platform/materials-service/pkg/logging"
	"github.com/wms-platform/materials-service/pkg/resilience"
)

// ActivityPublisher publishes activity records to a Kafka topic behind a
// circuit breaker, so a degraded broker cannot stall transitions
type ActivityPublisher struct {
	writer  *kafka.Writer
	breaker *resilience.CircuitBreaker
	logger  *logging.Logger
}

var _ domain.ActivityPublisher = (*ActivityPublisher)(nil)

// NewActivityPublisher creates a publisher for the given brokers and topic
func NewActivityPublisher(brokers []string, topic string, logger *logging.Logger) *ActivityPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
		Async:        false,
	}

	return &ActivityPublisher{
		writer:  writer,
		breaker: resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("kafka-activity"), logger),
		logger:  logger.WithComponent("activity-publisher"),
	}
}

// Publish sends one record, keyed by its reference so records for the same
// document stay ordered
func (p *ActivityPublisher) Publish(ctx context.Context, record domain.ActivityRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal activity %s: %w", record.ID, err)
	}

	key := record.ReferenceID
	if key == "" {
		key = record.ID
	}

	_, err = p.breaker.Execute(func() (any, error) {
		return nil, p.writer.WriteMessages(ctx, kafka.Message{
			Key:   []byte(key),
			Value: payload,
			Headers: []kafka.Header{
				{Key: "type", Value: []byte(record.Type)},
				{Key: "action", Value: []byte(record.Action)},
			},
		})
	})
	if err != nil {
		return fmt.Errorf("publish activity %s: %w", record.ID, err)
	}
	return nil
}

// Close flushes and closes the underlying writer
func (p *ActivityPublisher) Close() error {
	return p.writer.Close()
}
