package redis

import (
	"context"
	"testing"
	"time"
)

func TestCacheSetAndGet(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "material:m1", []byte(`{"ID":"m1"}`), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	val, err := cache.Get(ctx, "material:m1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	if string(val) != `{"ID":"m1"}` {
		t.Fatalf("unexpected cached value %s", val)
	}

	if !mr.Exists("washledger:cache:material:m1") {
		t.Fatalf("expected key to be namespaced")
	}
}

func TestCacheMissReturnsNil(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	val, err := NewCache(client).Get(context.Background(), "material:none")
	if err != nil || val != nil {
		t.Fatalf("expected clean miss, got val=%v err=%v", val, err)
	}
}

func TestCacheExpires(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "k", []byte("v"), time.Second); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	mr.FastForward(2 * time.Second)

	val, err := cache.Get(ctx, "k")
	if err != nil || val != nil {
		t.Fatalf("expected expired key, got val=%s err=%v", val, err)
	}
}

func TestCacheDelete(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "foo", []byte("bar"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if err := cache.Delete(ctx, "foo"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	val, err := cache.Get(ctx, "foo")
	if err != nil || val != nil {
		t.Fatalf("expected deleted key to miss, got val=%s err=%v", val, err)
	}
}

func TestCacheGetFailsWhenServerDown(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer client.Close()

	mr.Close()

	if _, err := NewCache(client).Get(context.Background(), "foo"); err == nil {
		t.Fatalf("expected error when redis is unreachable")
	}
}
