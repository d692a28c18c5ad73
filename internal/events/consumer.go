package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Received is an envelope read back from Kafka with its data still encoded.
type Received struct {
	EventType    string          `json:"eventType"`
	EventVersion string          `json:"eventVersion"`
	OccurredAt   time.Time       `json:"occurredAt"`
	AggregateID  string          `json:"aggregateId"`
	Data         json.RawMessage `json:"data"`
}

func Decode(value []byte) (Received, error) {
	var evt Received
	if err := json.Unmarshal(value, &evt); err != nil {
		return Received{}, fmt.Errorf("decode event: %w", err)
	}
	return evt, nil
}

// Reader is the part of *kafka.Reader the consumer needs.
type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Handler func(ctx context.Context, evt Received) error

type Consumer struct {
	r      Reader
	logger *zap.Logger
}

// NewConsumer joins group on topic.
func NewConsumer(brokers []string, topic, group string, logger *zap.Logger) *Consumer {
	return NewConsumerFromReader(kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  group,
		Topic:    topic,
		MinBytes: 1e3,
		MaxBytes: 10e6,
	}), logger)
}

func NewConsumerFromReader(r Reader, logger *zap.Logger) *Consumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Consumer{r: r, logger: logger}
}

func (c *Consumer) Close() error { return c.r.Close() }

// Run hands every message to handle until ctx is done. Undecodable messages
// and handler failures are logged and committed; nothing is retried.
func (c *Consumer) Run(ctx context.Context, handle Handler) error {
	for {
		msg, err := c.r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("fetch message: %w", err)
		}

		evt, err := Decode(msg.Value)
		switch {
		case err != nil:
			c.logger.Warn("[consumer] bad payload", zap.ByteString("payload", msg.Value), zap.Error(err))
		default:
			if err := handle(ctx, evt); err != nil {
				c.logger.Warn("[consumer] handler failed",
					zap.String("event", evt.EventType),
					zap.String("aggregate_id", evt.AggregateID),
					zap.Error(err),
				)
			}
		}

		if err := c.r.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("commit offset %d: %w", msg.Offset, err)
		}
	}
}
