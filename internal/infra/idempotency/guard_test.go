package idempotency

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestMemoryGuardOnce(t *testing.T) {
	g := NewMemoryGuard()
	ctx := context.Background()

	ok, _ := g.Acquire(ctx, "checkin:appointment:1", time.Hour)
	if !ok {
		t.Fatalf("first acquire should succeed")
	}
	ok, _ = g.Acquire(ctx, "checkin:appointment:1", time.Hour)
	if ok {
		t.Fatalf("second acquire should fail")
	}
	ok, _ = g.Acquire(ctx, "checkin:appointment:2", time.Hour)
	if !ok {
		t.Fatalf("different key should succeed")
	}
}

func TestMemoryGuardExpiry(t *testing.T) {
	now := time.Date(2024, 7, 11, 10, 0, 0, 0, time.UTC)
	g := NewMemoryGuard()
	g.clock = func() time.Time { return now }

	g.Acquire(context.Background(), "k", time.Minute)

	now = now.Add(time.Minute)
	ok, _ := g.Acquire(context.Background(), "k", time.Minute)
	if !ok {
		t.Fatalf("expired key should be claimable again")
	}
}

func TestMemoryGuardRelease(t *testing.T) {
	g := NewMemoryGuard()
	ctx := context.Background()

	g.Acquire(ctx, "k", time.Hour)
	g.Release(ctx, "k")

	ok, _ := g.Acquire(ctx, "k", time.Hour)
	if !ok {
		t.Fatalf("released key should be claimable")
	}
}

func TestMemoryGuardConcurrent(t *testing.T) {
	g := NewMemoryGuard()

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := g.Acquire(context.Background(), "k", time.Hour); ok {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("expected exactly one winner, got %d", wins)
	}
}

func TestNewRedisGuardRejectsBadURL(t *testing.T) {
	if _, err := NewRedisGuard("not a url"); err == nil {
		t.Fatalf("expected parse error")
	}
}
