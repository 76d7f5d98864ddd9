package eventpublisher

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/cashbox/internal/domain"
)

func TestRedisPublisherPublishesJSON(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	sub := client.Subscribe(ctx, "cashbox.events")
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	pub := NewRedisPublisher(client, "cashbox.events")
	err = pub.Publish(ctx, &domain.OutboxEvent{
		ID:            "evt-1",
		EventType:     domain.EventTypeBoxClosed,
		AggregateType: "cashbox",
		AggregateID:   "box-1",
		Payload:       map[string]any{"severity": "ok"},
		CreatedAt:     created,
	})
	require.NoError(t, err)

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)

	var got Message
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
	assert.Equal(t, "evt-1", got.ID)
	assert.Equal(t, domain.EventTypeBoxClosed, got.EventType)
	assert.Equal(t, "box-1", got.AggregateID)
	assert.Equal(t, "ok", got.Payload["severity"])
	assert.True(t, created.Equal(got.CreatedAt))
}

func TestRedisPublisherConnectionError(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	pub := NewRedisPublisher(client, "cashbox.events")
	err := pub.Publish(context.Background(), &domain.OutboxEvent{ID: "evt-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "evt-1")
}
