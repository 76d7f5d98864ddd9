package redis

import (
	"context"
	"testing"
	"time"
)

func TestCacheSetAndGet(t *testing.T) {
	client, mr := newTestRedisClient(t)

	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "totals:general-2024-01-16-C1", []byte(`{"TheoreticalCash":"130"}`), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	val, err := cache.Get(ctx, "totals:general-2024-01-16-C1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	if string(val) != `{"TheoreticalCash":"130"}` {
		t.Fatalf("unexpected cached value %s", val)
	}

	if !mr.Exists("cashbox:cache:totals:general-2024-01-16-C1") {
		t.Fatalf("expected key to be stored under the cache prefix")
	}
}

func TestCacheMissReturnsNil(t *testing.T) {
	client, _ := newTestRedisClient(t)

	val, err := NewCache(client).Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("expected miss without error, got %v", err)
	}
	if val != nil {
		t.Fatalf("expected nil value on miss, got %s", val)
	}
}

func TestCacheExpires(t *testing.T) {
	client, mr := newTestRedisClient(t)

	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "short", []byte("v"), time.Second); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	mr.FastForward(2 * time.Second)

	val, err := cache.Get(ctx, "short")
	if err != nil || val != nil {
		t.Fatalf("expected expired key to miss, got val=%s err=%v", val, err)
	}
}

func TestCacheDelete(t *testing.T) {
	client, _ := newTestRedisClient(t)

	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "foo", []byte("bar"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if err := cache.Delete(ctx, "foo"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if val, _ := cache.Get(ctx, "foo"); val != nil {
		t.Fatalf("expected deleted key to miss, got %s", val)
	}
}

func TestCacheReportsConnectionErrors(t *testing.T) {
	client, mr := newTestRedisClient(t)
	mr.Close()

	if _, err := NewCache(client).Get(context.Background(), "foo"); err == nil {
		t.Fatalf("expected error when redis is down")
	}
}
