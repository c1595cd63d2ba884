package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "nutricheck/internal/adapters/redis"
	"nutricheck/internal/domain"
)

func TestCache_SetGetDel(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0, "nutricheck:")
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()

	if err := c.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	var st domain.AttemptState
	ok, err := c.Get(ctx, "admin:attempts:1.2.3.4", &st)
	if err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	want := domain.AttemptState{Failed: 2, LastFailed: time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)}
	if err := c.Set(ctx, "admin:attempts:1.2.3.4", want, 300); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !mr.Exists("nutricheck:admin:attempts:1.2.3.4") {
		t.Fatalf("expected prefixed key in redis, keys=%v", mr.Keys())
	}
	if ttl := mr.TTL("nutricheck:admin:attempts:1.2.3.4"); ttl != 300*time.Second {
		t.Fatalf("expected 300s ttl, got %s", ttl)
	}

	ok, err = c.Get(ctx, "admin:attempts:1.2.3.4", &st)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if st.Failed != 2 || !st.LastFailed.Equal(want.LastFailed) {
		t.Fatalf("unexpected state: %+v", st)
	}

	if err := c.Del(ctx, "admin:attempts:1.2.3.4"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if ok, _ := c.Get(ctx, "admin:attempts:1.2.3.4", &st); ok {
		t.Fatalf("expected miss after delete")
	}
}

func TestCache_Expiry(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0, "")
	ctx := context.Background()

	if err := c.Set(ctx, "k", domain.AttemptState{Failed: 1}, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(61 * time.Second)

	var st domain.AttemptState
	if ok, _ := c.Get(ctx, "k", &st); ok {
		t.Fatalf("expected key to expire")
	}
}
