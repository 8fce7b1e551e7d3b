package cache

import (
	"testing"
	"time"
)

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[int](2, 0)
	c.Set("a", 1)
	c.Set("b", 2)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a missing")
	}
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatal("b should have been evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("a = %v, %v", v, ok)
	}
	st := c.Stats()
	if st.Evictions != 1 || st.Hits != 2 || st.Misses != 1 {
		t.Fatalf("unexpected stats %+v", st)
	}
}

func TestLRUExpiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewLRUCache[string](2, time.Minute, WithClock(func() time.Time { return now }))
	c.Set("k", "v")
	c.Set("j", "w")

	now = now.Add(30 * time.Second)
	if _, ok := c.Get("k"); !ok {
		t.Fatal("expired too early")
	}
	now = now.Add(31 * time.Second)
	if _, ok := c.Get("k"); ok {
		t.Fatal("should have expired")
	}
	if c.Size() != 1 {
		t.Fatalf("size = %d, want 1", c.Size())
	}

	// j is expired too; filling past capacity drops it rather than evicting.
	c.Set("x", "1")
	c.Set("y", "2")
	if c.Size() != 2 {
		t.Fatalf("size = %d, want 2", c.Size())
	}
	if ev := c.Stats().Evictions; ev != 0 {
		t.Fatalf("evictions = %d, want 0", ev)
	}
}

func TestPurge(t *testing.T) {
	c := NewLRUCache[int](4, 0)
	c.Set("a", 1)
	c.Purge()
	if c.Size() != 0 {
		t.Fatal("purge left entries")
	}
	c.Set("b", 2)
	if v, ok := c.Get("b"); !ok || v != 2 {
		t.Fatal("cache unusable after purge")
	}
}
