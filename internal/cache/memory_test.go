package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	found, _, err := m.Get(ctx, "missing")
	if err != nil || found {
		t.Fatalf("expected clean miss, got found=%v err=%v", found, err)
	}

	if err := m.SetWithTTL(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	found, value, err := m.Get(ctx, "k")
	if err != nil || !found || value != "v" {
		t.Fatalf("expected hit with v, got found=%v value=%q err=%v", found, value, err)
	}
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	if err := m.SetWithTTL(ctx, "k", "v", time.Nanosecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	found, _, err := m.Get(ctx, "k")
	if err != nil || found {
		t.Fatalf("expected expired miss, got found=%v err=%v", found, err)
	}
	if m.Len() != 0 {
		t.Fatalf("expected expired entry evicted, len=%d", m.Len())
	}
}
