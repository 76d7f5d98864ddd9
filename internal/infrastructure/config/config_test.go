package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cashbox/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL == "" {
		t.Fatalf("expected default database URL to be set")
	}

	if cfg.JWTSecret != "" {
		t.Fatalf("expected JWT secret default to be empty, got %q", cfg.JWTSecret)
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.TotalsCacheTTL != 24*time.Hour {
		t.Fatalf("expected default totals cache TTL 24h, got %s", cfg.TotalsCacheTTL)
	}

	if cfg.RedisConnectRetry != 15*time.Second || cfg.OutboxRetention != 168*time.Hour {
		t.Fatalf("unexpected retry/retention defaults: %s %s", cfg.RedisConnectRetry, cfg.OutboxRetention)
	}

	thresholds := cfg.VarianceThresholds()
	if !thresholds.Warning.Equal(decimal.NewFromInt(1)) || !thresholds.Critical.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("expected 1%%/5%% thresholds, got %s/%s", thresholds.Warning, thresholds.Critical)
	}
	if thresholds.NotesOnCritical {
		t.Fatalf("expected notes on critical to be opt-in")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_TIMEOUT", "45s")
	t.Setenv("JWT_SECRET", "top-secret")
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("VARIANCE_WARNING_PCT", "2.5")
	t.Setenv("VARIANCE_CRITICAL_PCT", "10")
	t.Setenv("REQUIRE_NOTES_ON_CRITICAL", "true")
	t.Setenv("OUTBOX_PUBLISHER", "redis")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL != "postgres://example" {
		t.Fatalf("expected custom database URL, got %s", cfg.DatabaseURL)
	}

	if cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.DatabaseTimeout != 45*time.Second {
		t.Fatalf("expected database timeout override, got %s", cfg.DatabaseTimeout)
	}

	if cfg.JWTSecret != "top-secret" || !cfg.AuthEnabled {
		t.Fatalf("expected auth settings to be set, got secret=%s enabled=%v", cfg.JWTSecret, cfg.AuthEnabled)
	}

	thresholds := cfg.VarianceThresholds()
	if !thresholds.Warning.Equal(decimal.RequireFromString("2.5")) || !thresholds.Critical.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected threshold overrides, got %s/%s", thresholds.Warning, thresholds.Critical)
	}
	if !thresholds.NotesOnCritical {
		t.Fatalf("expected notes on critical to be enabled")
	}

	if cfg.OutboxPublisher != "redis" {
		t.Fatalf("expected redis outbox publisher, got %s", cfg.OutboxPublisher)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	original := os.Getenv("HTTP_READ_TIMEOUT")
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")
	t.Cleanup(func() {
		t.Setenv("HTTP_READ_TIMEOUT", original)
	})

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}

func TestLoadInvalidThreshold(t *testing.T) {
	t.Setenv("VARIANCE_CRITICAL_PCT", "five")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for invalid threshold")
	}
}
