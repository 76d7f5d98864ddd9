package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestNewPoolWithConfigDefaults(t *testing.T) {
	ctx := context.Background()

	// using invalid URL should return error
	if _, err := NewPoolWithConfig(ctx, PoolConfig{DatabaseURL: "not-a-url"}); err == nil {
		t.Fatalf("expected error when parsing invalid URL")
	}
}

func TestNewPoolWithConfigPingFailure(t *testing.T) {
	ctx := context.Background()
	cfg := PoolConfig{
		DatabaseURL: "postgres://invalid:5432/db",
		MaxConns:    1,
		MinConns:    0,
	}

	_, err := NewPoolWithConfig(ctx, cfg)
	if err == nil {
		t.Fatalf("expected error when pool cannot connect")
	}
}

func TestConnectWithRetryRejectsBadURL(t *testing.T) {
	start := time.Now()
	_, err := ConnectWithRetry(context.Background(), PoolConfig{DatabaseURL: "not-a-url"}, time.Minute, zerolog.Nop())
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if time.Since(start) > 5*time.Second {
		t.Fatalf("expected malformed URL to fail without retrying")
	}
}

func TestConnectWithRetryGivesUp(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	cfg := PoolConfig{DatabaseURL: "postgres://invalid:5432/db?connect_timeout=1", MaxConns: 1}
	if _, err := ConnectWithRetry(ctx, cfg, time.Second, zerolog.Nop()); err == nil {
		t.Fatalf("expected error when database never becomes ready")
	}
}
