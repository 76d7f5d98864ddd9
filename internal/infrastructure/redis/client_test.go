package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	s := miniredis.RunT(t)

	ctx := context.Background()
	client, err := NewClient(ctx, fmt.Sprintf("redis://%s/2", s.Addr()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	assert.Equal(t, 2, client.Options().DB)
	require.NoError(t, client.Set(ctx, "totals:box", "1", 0).Err())
	s.Select(2)
	assert.True(t, s.Exists("totals:box"))
}

func TestNewClientErrors(t *testing.T) {
	_, err := NewClient(context.Background(), "://bad-url")
	assert.ErrorContains(t, err, "parse redis URL")

	s := miniredis.RunT(t)
	url := fmt.Sprintf("redis://%s", s.Addr())
	s.Close()

	_, err = NewClient(context.Background(), url)
	assert.ErrorContains(t, err, "ping redis")
}

func TestConnectWithRetry_WaitsForServer(t *testing.T) {
	s := miniredis.RunT(t)
	addr := s.Addr()
	s.Close()

	go func() {
		time.Sleep(300 * time.Millisecond)
		_ = s.Restart()
	}()

	client, err := ConnectWithRetry(context.Background(), "redis://"+addr, 5*time.Second, zerolog.Nop())
	require.NoError(t, err)
	_ = client.Close()
}

func TestConnectWithRetry_GivesUp(t *testing.T) {
	s := miniredis.RunT(t)
	url := "redis://" + s.Addr()
	s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := ConnectWithRetry(ctx, url, 500*time.Millisecond, zerolog.Nop())
	assert.Error(t, err)

	_, err = ConnectWithRetry(ctx, "://bad-url", time.Minute, zerolog.Nop())
	assert.ErrorContains(t, err, "parse redis URL")
}
