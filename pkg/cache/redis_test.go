package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/ghuser/itemtracker/pkg/config"
)

// newTestRedis starts an in-process Redis and connects a RedisClient to it.
func newTestRedis(t *testing.T) (*RedisClient, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rc, err := NewRedisClient(context.Background(), &config.Config{RedisURL: "redis://" + mr.Addr()})
	if err != nil {
		t.Fatalf("NewRedisClient: %v", err)
	}
	t.Cleanup(func() { _ = rc.Close() })
	return rc, mr
}

func TestNewRedisClient_InvalidURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), &config.Config{RedisURL: "not-a-valid-url"})
	if err == nil {
		t.Fatal("expected error for invalid URL, got nil")
	}
}

func TestNewRedisClient_UnreachableHost(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisClient(context.Background(), &config.Config{RedisURL: "redis://" + addr})
	if err == nil {
		t.Fatal("expected error when Redis is unreachable, got nil")
	}
}

func TestRedisOptions_PoolFromConfig(t *testing.T) {
	opts, err := redisOptions(&config.Config{
		RedisURL:          "redis://cache:6379/2",
		RedisPoolSize:     25,
		RedisMinIdleConns: 5,
	})
	if err != nil {
		t.Fatalf("redisOptions: %v", err)
	}
	if opts.Addr != "cache:6379" || opts.DB != 2 {
		t.Errorf("addr/db: got %s/%d", opts.Addr, opts.DB)
	}
	if opts.PoolSize != 25 || opts.MinIdleConns != 5 {
		t.Errorf("pool: got size %d, min idle %d", opts.PoolSize, opts.MinIdleConns)
	}
	if opts.ReadTimeout != ioTimeout || opts.WriteTimeout != ioTimeout {
		t.Errorf("io timeouts: got %s/%s", opts.ReadTimeout, opts.WriteTimeout)
	}
}

func TestRedisOptions_ZeroPoolKeepsDefaults(t *testing.T) {
	opts, err := redisOptions(&config.Config{RedisURL: "redis://cache:6379/0"})
	if err != nil {
		t.Fatalf("redisOptions: %v", err)
	}
	if opts.PoolSize != 0 || opts.MinIdleConns != 0 {
		t.Errorf("expected go-redis defaults, got size %d, min idle %d", opts.PoolSize, opts.MinIdleConns)
	}
}

func TestRedisClient_PingAndClose(t *testing.T) {
	rc, mr := newTestRedis(t)

	if err := rc.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	mr.SetError("ERR injected failure")
	if err := rc.Ping(context.Background()); err == nil {
		t.Fatal("expected ping error while the server reports an error")
	}
	mr.SetError("")

	if err := rc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
