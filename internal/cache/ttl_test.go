package cache

import (
	"testing"
	"time"
)

func TestTTLGetSet(t *testing.T) {
	c := NewTTL[string, int](time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Fatalf("expected miss")
	}

	c.Set("a", 1)
	val, ok := c.Get("a")
	if !ok || val != 1 {
		t.Fatalf("expected hit with 1, got %d %v", val, ok)
	}
}

func TestTTLExpiry(t *testing.T) {
	c := NewTTL[string, int](time.Minute)
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	c.nowFn = func() time.Time { return now }

	c.Set("a", 1)
	now = now.Add(2 * time.Minute)

	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected expired entry to miss")
	}
}

func TestTTLInvalidateAndPurge(t *testing.T) {
	c := NewTTL[string, int](time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Invalidate("a")
	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected invalidated entry to miss")
	}
	if _, ok := c.Get("b"); !ok {
		t.Fatalf("expected b to remain")
	}

	c.Purge()
	if _, ok := c.Get("b"); ok {
		t.Fatalf("expected purge to clear all")
	}
}
