package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/khoahotran/pictag/internal/application/service"
	"github.com/khoahotran/pictag/internal/config"
)

const (
	TopicTagEvents   = "tag.events"
	TopicImageEvents = "image.events"
)

// Envelope wraps every published event with an id and timestamp so consumers
// can de-duplicate and order.
type Envelope struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

type KafkaProducerClient struct {
	TagEventsWriter   *kafka.Writer
	ImageEventsWriter *kafka.Writer
}

var _ service.EventPublisher = (*KafkaProducerClient)(nil)

func NewKafkaProducerClient(cfg config.Config) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	tagWriter := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    TopicTagEvents,
		Balancer: &kafka.LeastBytes{},
	}

	imageWriter := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    TopicImageEvents,
		Balancer: &kafka.LeastBytes{},
	}

	return &KafkaProducerClient{
		TagEventsWriter:   tagWriter,
		ImageEventsWriter: imageWriter,
	}, nil
}

func (c *KafkaProducerClient) publish(ctx context.Context, w *kafka.Writer, eventType string, payload any) error {
	envelope := Envelope{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
	value, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}
	return w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(eventType),
		Value: value,
	})
}

func (c *KafkaProducerClient) PublishTagEvent(ctx context.Context, eventType string, payload any) error {
	return c.publish(ctx, c.TagEventsWriter, eventType, payload)
}

func (c *KafkaProducerClient) PublishImageEvent(ctx context.Context, eventType string, payload any) error {
	return c.publish(ctx, c.ImageEventsWriter, eventType, payload)
}

func (c *KafkaProducerClient) Close() {
	if c.TagEventsWriter != nil {
		c.TagEventsWriter.Close()
	}
	if c.ImageEventsWriter != nil {
		c.ImageEventsWriter.Close()
	}
}
