package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// NewClient parses redisURL, connects and verifies the server with a ping.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	return connect(ctx, opts)
}

// ConnectWithRetry pings with exponential backoff until the server answers
// or maxElapsed passes. A malformed URL fails at once.
func ConnectWithRetry(ctx context.Context, redisURL string, maxElapsed time.Duration, log zerolog.Logger) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = maxElapsed

	attempt := 0
	return backoff.RetryWithData(func() (*redis.Client, error) {
		attempt++
		client, err := connect(ctx, opts)
		if err != nil {
			log.Warn().Err(err).Int("attempt", attempt).Msg("redis not reachable, retrying")
		}
		return client, err
	}, backoff.WithContext(b, ctx))
}

func connect(ctx context.Context, opts *redis.Options) (*redis.Client, error) {
	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", opts.Addr, err)
	}

	return client, nil
}
