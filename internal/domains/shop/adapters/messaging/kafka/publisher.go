package kafka

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/Apurer/go-gin-shop/internal/domains/shop/domain"
	"github.com/Apurer/go-gin-shop/internal/domains/shop/ports"
	platformkafka "github.com/Apurer/go-gin-shop/internal/platform/kafka"
)

var _ ports.EventPublisher = (*Publisher)(nil)

// Envelope is the wire format of every order event on the topic.
type Envelope struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	OrderID    int64     `json:"order_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

type placedLinePayload struct {
	ItemID     int64 `json:"item_id"`
	OrderPrice int64 `json:"order_price"`
	Quantity   int   `json:"quantity"`
}

type placedPayload struct {
	MemberID   int64               `json:"member_id"`
	TotalPrice int64               `json:"total_price"`
	Lines      []placedLinePayload `json:"lines"`
}

// Publisher writes order events to one Kafka topic keyed by order id.
type Publisher struct {
	writer platformkafka.MessageWriter
	newID  func() string
}

// NewPublisher wraps a writer, usually one built by platformkafka.Client.NewWriter.
func NewPublisher(writer platformkafka.MessageWriter) *Publisher {
	return &Publisher{writer: writer, newID: func() string { return uuid.NewString() }}
}

// Publish sends the events as one batch.
func (p *Publisher) Publish(ctx context.Context, events ...domain.Event) error {
	if p == nil || p.writer == nil {
		return errors.New("kafka publisher not configured")
	}
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, 0, len(events))
	for _, event := range events {
		envelope, err := p.envelope(event)
		if err != nil {
			return err
		}
		msg, err := platformkafka.JSONMessage(strconv.FormatInt(envelope.OrderID, 10), envelope)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	return p.writer.WriteMessages(ctx, msgs...)
}

func (p *Publisher) envelope(event domain.Event) (Envelope, error) {
	envelope := Envelope{
		EventID:    p.newID(),
		Type:       event.EventName(),
		OccurredAt: event.OccurredAt().UTC(),
	}
	switch e := event.(type) {
	case domain.OrderPlaced:
		lines := make([]placedLinePayload, 0, len(e.Lines))
		for _, line := range e.Lines {
			lines = append(lines, placedLinePayload{ItemID: line.ItemID, OrderPrice: line.OrderPrice, Quantity: line.Quantity})
		}
		envelope.OrderID = e.OrderID
		envelope.Payload = placedPayload{MemberID: e.MemberID, TotalPrice: e.TotalPrice, Lines: lines}
	case domain.OrderCancelled:
		envelope.OrderID = e.OrderID
	case domain.OrderShipped:
		envelope.OrderID = e.OrderID
	case domain.OrderDelivered:
		envelope.OrderID = e.OrderID
	default:
		return Envelope{}, fmt.Errorf("unsupported event %q", event.EventName())
	}
	return envelope, nil
}
