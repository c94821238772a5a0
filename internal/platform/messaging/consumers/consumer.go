package consumers

import (
	"context"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/tx-dispute-ledger/internal/config"
)

// MessageHandler processes one fetched message. A nil return commits the
// offset; an error leaves it uncommitted for reprocessing.
type MessageHandler func(ctx context.Context, key []byte, value []byte) error

// Consumer defines the message queue consumer interface
type Consumer interface {
	Subscribe(ctx context.Context, topic string, groupID string, handler MessageHandler) error
	Close() error
}

// KafkaConsumer implements Consumer using Kafka
type KafkaConsumer struct {
	reader *kafka.Reader
	logger *slog.Logger
}

func NewKafkaConsumer(_ context.Context, logger *slog.Logger, cfg *config.KafkaConfig) *KafkaConsumer {
	return &KafkaConsumer{
		logger: logger,
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:     []string{cfg.Brokers},
			Topic:       cfg.OperationTopic,
			GroupID:     cfg.ConsumerGroup,
			MinBytes:    cfg.MinBytes,
			MaxBytes:    cfg.MaxBytes,
			MaxWait:     cfg.MaxWait,
			StartOffset: kafka.FirstOffset,
		}),
	}
}

// Subscribe starts a fetch/handle/commit loop for the topic. The loop runs
// until ctx is canceled. Operations must be applied in partition order, so
// messages are handled one at a time and the offset is committed only after
// the handler accepts the message.
func (c *KafkaConsumer) Subscribe(ctx context.Context, topic string, groupID string, handler MessageHandler) error {
	c.logger.Info("subscribed to kafka topic", "topic", topic, "group_id", groupID)

	go func() {
		for {
			select {
			case <-ctx.Done():
				c.logger.Info("context canceled, stopping consumer", "topic", topic, "group_id", groupID)
				return
			default:
				msg, err := c.reader.FetchMessage(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					c.logger.Error("failed to fetch message from kafka",
						"topic", topic,
						"group_id", groupID,
						"error", err,
					)
					time.Sleep(time.Second)
					continue
				}

				if err := handler(ctx, msg.Key, msg.Value); err != nil {
					// Not committed: the message will be redelivered.
					c.logger.Error("failed to process message, will not commit offset",
						"topic", msg.Topic,
						"partition", msg.Partition,
						"offset", msg.Offset,
						"error", err,
					)
					continue
				}

				if err := c.reader.CommitMessages(ctx, msg); err != nil {
					c.logger.Error("failed to commit message after successful processing",
						"topic", msg.Topic,
						"partition", msg.Partition,
						"offset", msg.Offset,
						"error", err,
					)
				}
			}
		}
	}()

	return nil
}

func (c *KafkaConsumer) Close() error {
	if c.reader != nil {
		return c.reader.Close()
	}
	return nil
}
