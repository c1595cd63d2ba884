package memcache_test

import (
	"context"
	"testing"
	"time"

	"nutricheck/internal/adapters/memcache"
	"nutricheck/internal/domain"
)

func TestCache_TTL(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	c := memcache.NewWithClock(func() time.Time { return now })
	ctx := context.Background()

	if err := c.Set(ctx, "k", domain.AttemptState{Failed: 3}, 10); err != nil {
		t.Fatalf("set: %v", err)
	}

	var st domain.AttemptState
	if ok, err := c.Get(ctx, "k", &st); !ok || err != nil || st.Failed != 3 {
		t.Fatalf("expected hit with Failed=3, got ok=%v err=%v st=%+v", ok, err, st)
	}

	now = now.Add(10 * time.Second)
	if ok, _ := c.Get(ctx, "k", &st); ok {
		t.Fatalf("expected entry to expire")
	}
}

func TestCache_Del(t *testing.T) {
	c := memcache.New()
	ctx := context.Background()
	_ = c.Set(ctx, "k", 1, 0)
	_ = c.Del(ctx, "k")

	var v int
	if ok, _ := c.Get(ctx, "k", &v); ok {
		t.Fatalf("expected miss after delete")
	}
}
