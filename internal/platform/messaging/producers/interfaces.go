// Package producers holds the Kafka write side of the streaming deployment:
// the operation topic feed and its dead letter queue.
package producers

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// MessagePublisher writes one keyed message to the operation topic. The key
// determines the partition, and with it the ordering guarantee for a client.
type MessagePublisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
	Close() error
}

// DeadLetterPublisher routes messages that cannot be processed to the DLQ
// topic together with the rejection reason.
type DeadLetterPublisher interface {
	PublishToDLQ(ctx context.Context, key string, originalMessageValue []byte, reason string) error
	Close() error
}

// KafkaWriter is the subset of kafka.Writer the producers depend on, so a
// fake writer can stand in for a broker.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}
