package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dugoutlabs/statline/pkg/pipeline/types"
	"github.com/dugoutlabs/statline/pkg/utils"
)

// RunsChannel carries one message per finished pipeline run. Scoring and
// notification services subscribe to refresh their caches.
const RunsChannel = "statline:runs"

// Client wraps the Redis client used for run-summary notifications.
type Client struct {
	client *redis.Client
	logger *zap.Logger
}

// NewClient creates a Redis client from environment configuration:
//   - REDIS_HOST (default "localhost")
//   - REDIS_PORT (default "6379")
//   - REDIS_PASSWORD (default "")
//   - REDIS_DB (default 0)
func NewClient(ctx context.Context, logger *zap.Logger) (*Client, error) {
	host := utils.Env("REDIS_HOST", "localhost")
	port := utils.Env("REDIS_PORT", "6379")
	password := utils.Env("REDIS_PASSWORD", "")
	db := utils.EnvInt("REDIS_DB", 0)

	addr := fmt.Sprintf("%s:%s", host, port)

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,

		PoolSize:     10,
		MinIdleConns: 2,

		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}

	logger.Info("connected to redis", zap.String("addr", addr), zap.Int("db", db))

	return &Client{client: rdb, logger: logger}, nil
}

// PublishRunSummary publishes a finished run summary to RunsChannel.
// Best effort: a failed publish is logged and never fails the run.
func (c *Client) PublishRunSummary(ctx context.Context, summary *types.RunSummary) {
	payload, err := json.Marshal(summary)
	if err != nil {
		c.logger.Warn("failed to encode run summary", zap.Error(err))
		return
	}
	if err := c.client.Publish(ctx, RunsChannel, payload).Err(); err != nil {
		c.logger.Warn("failed to publish run summary",
			zap.String("channel", RunsChannel),
			zap.Error(err))
	}
}

// Subscribe subscribes to run-summary notifications. The caller closes the
// returned PubSub when done.
func (c *Client) Subscribe(ctx context.Context) *redis.PubSub {
	return c.client.Subscribe(ctx, RunsChannel)
}

// Health checks connectivity.
func (c *Client) Health(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.client.Close()
}
