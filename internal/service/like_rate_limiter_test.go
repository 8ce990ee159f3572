package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type mockRedisEvaler struct {
	lastScript string
	lastKeys   []string
	lastArgs   []interface{}
	result     int64
	err        error
}

func (m *mockRedisEvaler) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	m.lastScript = script
	m.lastKeys = keys
	m.lastArgs = args
	cmd := redis.NewCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	cmd.SetVal(m.result)
	return cmd
}

func TestLikeRateLimiter_SlidingWindow(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	l := NewLikeRateLimiter(time.Minute, 2).(*likeRateLimiter)
	l.now = func() time.Time { return now }

	if !l.Allow("u1") || !l.Allow("u1") {
		t.Fatalf("expected first two likes to be allowed")
	}
	if l.Allow("u1") {
		t.Fatalf("expected third like inside window to be denied")
	}
	if !l.Allow("u2") {
		t.Fatalf("expected other user to have its own budget")
	}

	now = now.Add(61 * time.Second)
	if !l.Allow("u1") {
		t.Fatalf("expected like to be allowed after window expires")
	}
}

func TestRedisLikeRateLimiterAllow(t *testing.T) {
	t.Run("nil receiver fail-open", func(t *testing.T) {
		var l *redisLikeRateLimiter
		if !l.Allow("u1") {
			t.Fatalf("expected fail-open for nil limiter")
		}
	})

	t.Run("empty key rejected", func(t *testing.T) {
		l := &redisLikeRateLimiter{client: &mockRedisEvaler{result: 1}, window: time.Minute, max: 3, prefix: "likes:rl:"}
		if l.Allow("   ") {
			t.Fatalf("expected empty key to be rejected")
		}
	})

	t.Run("allow when count within max", func(t *testing.T) {
		mock := &mockRedisEvaler{result: 2}
		l := &redisLikeRateLimiter{client: mock, window: 2 * time.Minute, max: 3, prefix: "likes:rl:"}
		if !l.Allow(" u1 ") {
			t.Fatalf("expected allow when count <= max")
		}
		if len(mock.lastKeys) != 1 || mock.lastKeys[0] != "likes:rl:u1" {
			t.Fatalf("unexpected key, got %+v", mock.lastKeys)
		}
		if len(mock.lastArgs) != 1 || mock.lastArgs[0] != 120 {
			t.Fatalf("expected TTL seconds=120, got %+v", mock.lastArgs)
		}
		if mock.lastScript != redisLikeAllowScript {
			t.Fatalf("expected script to match")
		}
	})

	t.Run("deny when count exceeds max", func(t *testing.T) {
		l := &redisLikeRateLimiter{client: &mockRedisEvaler{result: 4}, window: time.Minute, max: 3, prefix: "likes:rl:"}
		if l.Allow("u1") {
			t.Fatalf("expected deny when count > max")
		}
	})

	t.Run("redis error fail-open", func(t *testing.T) {
		l := &redisLikeRateLimiter{client: &mockRedisEvaler{err: errors.New("boom")}, window: time.Minute, max: 1, prefix: "likes:rl:"}
		if !l.Allow("u1") {
			t.Fatalf("expected fail-open on redis error")
		}
	})
}

func TestRedisLikeRateLimiter_Miniredis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	l := NewRedisLikeRateLimiter(client, time.Minute, 2)
	if !l.Allow("u1") || !l.Allow("u1") {
		t.Fatalf("expected first two likes to be allowed")
	}
	if l.Allow("u1") {
		t.Fatalf("expected third like to be denied")
	}
	if ttl := mr.TTL("likes:rl:u1"); ttl != time.Minute {
		t.Fatalf("expected ttl 1m, got %s", ttl)
	}

	mr.FastForward(time.Minute + time.Second)
	if !l.Allow("u1") {
		t.Fatalf("expected like after window to be allowed")
	}
}
