package redis_test

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/dugoutlabs/statline/pkg/pipeline/types"
	"github.com/dugoutlabs/statline/pkg/redis"
)

func TestPublishSubscribeRoundTrip(t *testing.T) {
	host := os.Getenv("REDIS_TEST_HOST")
	if host == "" {
		t.Skip("REDIS_TEST_HOST not set, skipping redis round-trip test")
	}
	t.Setenv("REDIS_HOST", host)
	if port := os.Getenv("REDIS_TEST_PORT"); port != "" {
		t.Setenv("REDIS_PORT", port)
	}

	ctx := context.Background()
	client, err := redis.NewClient(ctx, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	require.NoError(t, client.Health(ctx))

	sub := client.Subscribe(ctx)
	defer func() { _ = sub.Close() }()

	// Wait for the subscription ack before publishing.
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	client.PublishRunSummary(ctx, &types.RunSummary{
		RunDate:        "2025-06-15",
		Status:         "completed",
		RecordsUpdated: 7,
	})

	recvCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	msg, err := sub.ReceiveMessage(recvCtx)
	require.NoError(t, err)

	var got types.RunSummary
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
	assert.Equal(t, "2025-06-15", got.RunDate)
	assert.Equal(t, uint64(7), got.RecordsUpdated)
}
