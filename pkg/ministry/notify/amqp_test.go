package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/ministry-hub/pkg/ministry"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakePublisher struct {
	messages []published
	err      error
}

func (f *fakePublisher) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func TestAMQPSink_RoutingKeys(t *testing.T) {
	pub := &fakePublisher{}
	sink := NewAMQPSink(pub, "")
	ctx := context.Background()

	post := &ministry.Post{ID: "p1", Title: "Hello"}
	event := &ministry.Event{ID: "e1", Title: "Gathering"}
	reg := &ministry.Registration{ID: "r1", Name: "Ada"}

	require.NoError(t, sink.RegistrationCreated(ctx, reg))
	require.NoError(t, sink.RegistrationCheckedIn(ctx, reg))
	require.NoError(t, sink.PostCreated(ctx, post))
	require.NoError(t, sink.PostUpdated(ctx, post))
	require.NoError(t, sink.PostDeleted(ctx, "p1"))
	require.NoError(t, sink.EventCreated(ctx, event))
	require.NoError(t, sink.EventDeleted(ctx, "e1"))

	var keys []string
	for _, m := range pub.messages {
		assert.Equal(t, DefaultExchange, m.exchange)
		keys = append(keys, m.key)
	}
	assert.Equal(t, []string{
		"registration.created",
		"registration.checked_in",
		"post.created",
		"post.updated",
		"post.deleted",
		"event.created",
		"event.deleted",
	}, keys)
}

func TestAMQPSink_Envelope(t *testing.T) {
	pub := &fakePublisher{}
	sink := NewAMQPSink(pub, "custom.exchange")
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	sink.now = func() time.Time { return at }

	require.NoError(t, sink.PostCreated(context.Background(), &ministry.Post{ID: "p1", Title: "Hello"}))
	require.Len(t, pub.messages, 1)

	m := pub.messages[0]
	assert.Equal(t, "custom.exchange", m.exchange)
	assert.Equal(t, "application/json", m.msg.ContentType)
	assert.Equal(t, amqp.Persistent, m.msg.DeliveryMode)
	assert.Equal(t, "post.created", m.msg.Type)
	assert.Equal(t, at, m.msg.Timestamp)

	var envelope struct {
		ID         string          `json:"id"`
		Type       string          `json:"type"`
		Resource   string          `json:"resource"`
		Action     string          `json:"action"`
		ResourceID string          `json:"resource_id"`
		OccurredAt time.Time       `json:"occurred_at"`
		Data       json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(m.msg.Body, &envelope))
	assert.Equal(t, m.msg.MessageId, envelope.ID)
	assert.Equal(t, "post.created", envelope.Type)
	assert.Equal(t, "post", envelope.Resource)
	assert.Equal(t, "created", envelope.Action)
	assert.Equal(t, "p1", envelope.ResourceID)
	assert.True(t, at.Equal(envelope.OccurredAt))

	var post ministry.Post
	require.NoError(t, json.Unmarshal(envelope.Data, &post))
	assert.Equal(t, "Hello", post.Title)
}

func TestAMQPSink_DeleteHasNoData(t *testing.T) {
	pub := &fakePublisher{}
	sink := NewAMQPSink(pub, "")

	require.NoError(t, sink.EventDeleted(context.Background(), "e1"))
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(pub.messages[0].msg.Body, &body))
	assert.NotContains(t, body, "data")
	assert.Equal(t, "e1", body["resource_id"])
}

func TestAMQPSink_PublishError(t *testing.T) {
	sink := NewAMQPSink(&fakePublisher{err: errors.New("channel closed")}, "")
	err := sink.PostDeleted(context.Background(), "p1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "post.deleted")
}
