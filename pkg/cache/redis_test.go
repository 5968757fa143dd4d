package cache

import (
	"context"
	stderrors "errors"
	"net"
	"os"
	"testing"
	"time"
)

// redisAddr returns the address of a disposable Redis for integration
// tests, skipping the test when none is configured.
func redisAddr(t *testing.T) string {
	t.Helper()
	addr := os.Getenv("BOXTREE_TEST_REDIS")
	if addr == "" {
		t.Skip("BOXTREE_TEST_REDIS not set")
	}
	return addr
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewRedisCache(ctx, RedisOptions{Addr: redisAddr(t), Prefix: "boxtree-test:"})
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()
	defer c.Clear(ctx)

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Fatalf("Get(missing) hit=%v err=%v", hit, err)
	}
	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if data, hit, err := c.Get(ctx, "k"); !hit || err != nil || string(data) != "v" {
		t.Fatalf("Get() = %q, %v, %v", data, hit, err)
	}
	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("hit after Clear")
	}
}

func TestClassify(t *testing.T) {
	if classify(nil) != nil {
		t.Error("classify(nil) != nil")
	}
	plain := stderrors.New("WRONGTYPE")
	if err := classify(plain); IsRetryable(err) {
		t.Error("command error classified as retryable")
	}
	netErr := &net.OpError{Op: "dial", Net: "tcp", Err: stderrors.New("connection refused")}
	err := classify(netErr)
	if !IsRetryable(err) || !stderrors.Is(err, ErrNetwork) {
		t.Errorf("classify(%v) = %v, want retryable network error", netErr, err)
	}
}
