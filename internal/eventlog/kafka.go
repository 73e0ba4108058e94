package eventlog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"
)

// KafkaPublisher implements Publisher on a Kafka topic. Messages are
// partitioned by key hash, which is what gives same-task events their
// per-partition ordering guarantee.
type KafkaPublisher struct {
	writer *kafka.Writer
	logger *slog.Logger
}

// NewKafkaPublisher creates a publisher for the given brokers and topic.
// Writes require acks from all in-sync replicas; a lost broker surfaces as
// a publish error rather than a silently dropped event.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}

	return &KafkaPublisher{
		writer: writer,
		logger: logger.With(slog.String("component", "kafka_publisher")),
	}
}

// Publish appends one keyed message to the topic.
func (p *KafkaPublisher) Publish(ctx context.Context, key string, value []byte) error {
	err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("failed to publish message with key %s: %w", key, err)
	}

	p.logger.Debug("published message", "key", key, "bytes", len(value))
	return nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// KafkaConsumer implements Consumer on a Kafka consumer group. Fetch and
// Commit are split so the caller controls when an offset is acknowledged:
// committing only after the archive upsert is durable keeps delivery
// at-least-once across consumer crashes.
type KafkaConsumer struct {
	reader *kafka.Reader
	logger *slog.Logger
}

// NewKafkaConsumer creates a consumer-group reader for the given topic.
// Multiple instances sharing groupID split partitions between them.
func NewKafkaConsumer(brokers []string, topic, groupID string, logger *slog.Logger) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})

	return &KafkaConsumer{
		reader: reader,
		logger: logger.With(slog.String("component", "kafka_consumer")),
	}
}

// Fetch blocks for the next message without committing its offset.
func (c *KafkaConsumer) Fetch(ctx context.Context) (Message, error) {
	m, err := c.reader.FetchMessage(ctx)
	if err != nil {
		return Message{}, fmt.Errorf("failed to fetch message: %w", err)
	}

	return Message{
		Key:    string(m.Key),
		Value:  m.Value,
		handle: m,
	}, nil
}

// Commit acknowledges the message's offset with the consumer group.
func (c *KafkaConsumer) Commit(ctx context.Context, msg Message) error {
	m, ok := msg.handle.(kafka.Message)
	if !ok {
		return fmt.Errorf("message was not fetched from this consumer")
	}

	if err := c.reader.CommitMessages(ctx, m); err != nil {
		return fmt.Errorf("failed to commit offset %d: %w", m.Offset, err)
	}
	return nil
}

// Close leaves the consumer group and closes the reader.
func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}
