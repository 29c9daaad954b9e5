package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

var ErrDisabled = errors.New("kafka disabled")

// Client holds the broker list parsed from a comma separated string.
type Client struct {
	Brokers []string
}

func NewClient(brokersCSV string) *Client {
	brokers := []string{}
	for _, b := range strings.Split(brokersCSV, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return &Client{Brokers: brokers}
}

func (c *Client) Enabled() bool {
	return c != nil && len(c.Brokers) > 0
}

// NewWriter returns a writer that hashes message keys, so all events of one order land in one partition.
func (c *Client) NewWriter(topic string) (*kafka.Writer, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(c.Brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}, nil
}

// MessageWriter is the part of *kafka.Writer used for publishing.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// JSONMessage encodes payload as a keyed message stamped with the current UTC time.
func JSONMessage(key string, payload any) (kafka.Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{Key: []byte(key), Value: data, Time: time.Now().UTC()}, nil
}
