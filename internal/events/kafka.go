package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/domain"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

const (
	EventOrderCreated = "OrderCreated"
	EventVersionV1    = "v1"
)

type Producer struct{ w *kafka.Writer }

func NewProducer(brokers []string) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{}, // partition by Kafka message key
			AllowAutoTopicCreation: true,
			WriteTimeout:           5 * time.Second,
		},
	}
}

func (p *Producer) Close() error { return p.w.Close() }

// Envelope is the standard event schema the gateway publishes.
type Envelope struct {
	EventType    string    `json:"eventType"`
	EventVersion string    `json:"eventVersion"`
	OccurredAt   time.Time `json:"occurredAt"`
	AggregateID  string    `json:"aggregateId"` // e.g., orderId
	Data         any       `json:"data"`
}

// OrderCreated is the data of an EventOrderCreated envelope.
type OrderCreated struct {
	OrderID       string               `json:"order_id"`
	CustomerID    string               `json:"customer_id"`
	PaymentID     string               `json:"payment_id"`
	ShippingID    string               `json:"shipping_id"`
	TotalAmount   decimal.Decimal      `json:"total_amount"`
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
	Address       string               `json:"shipping_address,omitempty"`
	Items         []domain.OrderItem   `json:"items"`
}

// Publish writes a single message to Kafka.
// 'key' is the Kafka partition key (use orderId to keep per-order ordering).
func (p *Producer) Publish(ctx context.Context, topic, key string, evt Envelope) error {
	msg, err := Message(topic, key, evt)
	if err != nil {
		return err
	}
	return p.w.WriteMessages(ctx, msg)
}

// Message stamps evt and encodes it as a Kafka message.
func Message(topic, key string, evt Envelope) (kafka.Message, error) {
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}
	val, err := json.Marshal(evt)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode %s event: %w", evt.EventType, err)
	}
	return kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: val,
	}, nil
}
