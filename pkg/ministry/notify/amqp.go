// Package notify publishes record lifecycle events to RabbitMQ.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/tendant/ministry-hub/pkg/ministry"
)

// DefaultExchange is the topic exchange events are published to
const DefaultExchange = "ministry.events"

// Publisher is the subset of *amqp.Channel used by the sink
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Envelope is the JSON body of every published message
type Envelope struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	Resource   string      `json:"resource"`
	Action     string      `json:"action"`
	ResourceID string      `json:"resource_id"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data,omitempty"`
}

// AMQPSink implements ministry.EventSink on a RabbitMQ topic exchange. The
// routing key is "<resource>.<action>", e.g. "post.deleted".
type AMQPSink struct {
	mu       sync.Mutex
	pub      Publisher
	exchange string
	now      func() time.Time

	conn    *amqp.Connection
	channel *amqp.Channel
}

var _ ministry.EventSink = (*AMQPSink)(nil)

// NewAMQPSink creates a sink publishing through pub
func NewAMQPSink(pub Publisher, exchange string) *AMQPSink {
	if exchange == "" {
		exchange = DefaultExchange
	}
	return &AMQPSink{
		pub:      pub,
		exchange: exchange,
		now:      time.Now,
	}
}

// Dial connects to url, declares a durable topic exchange and returns a sink
// publishing to it
func Dial(url, exchange string) (*AMQPSink, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	slog.Info("RabbitMQ initialized", "exchange", exchange)

	sink := NewAMQPSink(ch, exchange)
	sink.conn = conn
	sink.channel = ch
	return sink, nil
}

// Close releases the channel and connection opened by Dial
func (s *AMQPSink) Close() error {
	if s.channel != nil {
		_ = s.channel.Close()
	}
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

func (s *AMQPSink) RegistrationCreated(ctx context.Context, registration *ministry.Registration) error {
	return s.publish(ctx, "registration", "created", registration.ID, registration)
}

func (s *AMQPSink) RegistrationCheckedIn(ctx context.Context, registration *ministry.Registration) error {
	return s.publish(ctx, "registration", "checked_in", registration.ID, registration)
}

func (s *AMQPSink) PostCreated(ctx context.Context, post *ministry.Post) error {
	return s.publish(ctx, "post", "created", post.ID, post)
}

func (s *AMQPSink) PostUpdated(ctx context.Context, post *ministry.Post) error {
	return s.publish(ctx, "post", "updated", post.ID, post)
}

func (s *AMQPSink) PostDeleted(ctx context.Context, postID string) error {
	return s.publish(ctx, "post", "deleted", postID, nil)
}

func (s *AMQPSink) EventCreated(ctx context.Context, event *ministry.Event) error {
	return s.publish(ctx, "event", "created", event.ID, event)
}

func (s *AMQPSink) EventDeleted(ctx context.Context, eventID string) error {
	return s.publish(ctx, "event", "deleted", eventID, nil)
}

func (s *AMQPSink) publish(ctx context.Context, resource, action, id string, data interface{}) error {
	routingKey := resource + "." + action
	envelope := Envelope{
		ID:         uuid.New().String(),
		Type:       routingKey,
		Resource:   resource,
		Action:     action,
		ResourceID: id,
		OccurredAt: s.now().UTC(),
		Data:       data,
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", routingKey, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.pub.PublishWithContext(ctx,
		s.exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    envelope.ID,
			Type:         routingKey,
			Timestamp:    envelope.OccurredAt,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", routingKey, err)
	}

	slog.Debug("Event published", "exchange", s.exchange, "routing_key", routingKey, "resource_id", id)
	return nil
}
