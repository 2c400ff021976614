package cache

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ardnew/lispfront/log"
)

func TestCache_PutGet(t *testing.T) {
	c := New[string, int]()

	if _, ok := c.Get("a"); ok {
		t.Fatal("expected miss on empty cache")
	}

	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("a", 3)

	if v, ok := c.Get("a"); !ok || v != 3 {
		t.Errorf("expected 3, got %d (ok=%v)", v, ok)
	}

	if !c.Contains("b") || c.Contains("z") {
		t.Error("unexpected Contains result")
	}

	if c.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", c.Len())
	}
}

func TestCache_Defaults(t *testing.T) {
	c := New[int, int]()

	if c.Capacity() != DefaultCapacity {
		t.Errorf("expected capacity %d, got %d", DefaultCapacity, c.Capacity())
	}

	if c.TTL() != DefaultTTL {
		t.Errorf("expected ttl %v, got %v", DefaultTTL, c.TTL())
	}

	if New[int, int](WithTTL(-1)).TTL() != 0 {
		t.Error("expected disabled expiry to report zero TTL")
	}

	if New[int, int](WithCapacity(-5)).Capacity() != DefaultCapacity {
		t.Error("negative capacity must be ignored")
	}
}

func TestCache_CapacityEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[string, int](WithCapacity(2))

	c.Put("a", 1)
	c.Put("b", 2)
	c.Get("a") // b is now least recently used
	c.Put("c", 3)

	if c.Contains("b") {
		t.Error("expected b to be evicted")
	}

	if !c.Contains("a") || !c.Contains("c") {
		t.Error("expected a and c to remain")
	}

	if c.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", c.Len())
	}
}

func TestCache_Unbounded(t *testing.T) {
	c := New[int, int](WithCapacity(0))

	for i := range 100 {
		c.Put(i, i)
	}

	if c.Len() != 100 {
		t.Errorf("expected 100 entries, got %d", c.Len())
	}
}

func TestCache_TTLExpiry(t *testing.T) {
	c := New[string, int](WithTTL(20 * time.Millisecond))

	c.Put("a", 1)

	if !c.Contains("a") {
		t.Fatal("expected fresh entry")
	}

	time.Sleep(60 * time.Millisecond)

	if c.Contains("a") {
		t.Error("expected entry to expire")
	}

	if _, ok := c.Get("a"); ok {
		t.Error("expected Get to miss after expiry")
	}

	if c.Len() != 0 || len(c.Entries()) != 0 {
		t.Error("expired entry still listed")
	}
}

func TestCache_LenCountsLiveEntries(t *testing.T) {
	c := New[string, int](WithTTL(40 * time.Millisecond))

	c.Put("old", 1)
	time.Sleep(60 * time.Millisecond)
	c.Put("new", 2)

	if n := c.Len(); n != 1 {
		t.Errorf("expected 1 live entry, got %d", n)
	}

	if n := len(c.Entries()); n != c.Len() {
		t.Errorf("Len and Entries disagree: %d vs %d", c.Len(), n)
	}
}

func TestCache_Invalidate(t *testing.T) {
	c := New[string, int]()

	c.Put("a", 1)
	c.Put("b", 2)

	if !c.Invalidate("a") {
		t.Error("expected a to be removed")
	}

	if c.Invalidate("a") {
		t.Error("second removal must report absence")
	}

	c.InvalidateAll()

	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d", c.Len())
	}
}

func TestCache_InvalidateFunc(t *testing.T) {
	c := New[string, int]()

	for i, k := range []string{"a", "b", "c", "d", "e"} {
		c.Put(k, i)
	}

	n := c.InvalidateFunc(func(_ string, v int) bool { return v >= 2 })
	if n != 3 {
		t.Errorf("expected 3 removed, got %d", n)
	}

	entries := c.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %v", entries)
	}

	for _, e := range entries {
		if e.Value >= 2 {
			t.Errorf("entry %v should have been removed", e)
		}
	}
}

func TestCache_EntriesOldestFirst(t *testing.T) {
	c := New[string, int]()

	c.Put("x", 1)
	c.Put("y", 2)
	c.Put("z", 3)

	entries := c.Entries()
	for i, want := range []string{"x", "y", "z"} {
		if entries[i].Key != want {
			t.Errorf("position %d: expected %s, got %s", i, want, entries[i].Key)
		}
	}
}

func TestCache_EntriesFollowRecency(t *testing.T) {
	c := New[string, int]()

	c.Put("x", 1)
	c.Put("y", 2)
	c.Get("x")
	c.Put("z", 3)

	entries := c.Entries()
	for i, want := range []string{"y", "x", "z"} {
		if entries[i].Key != want {
			t.Errorf("position %d: expected %s, got %s", i, want, entries[i].Key)
		}
	}
}

func TestCache_LogsRemoval(t *testing.T) {
	var buf bytes.Buffer

	logger := log.Make(&buf, log.WithLevel(log.LevelTrace), log.WithPretty(false))
	c := New[string, int](WithLogger(logger))

	c.Put("gone", 1)
	c.Invalidate("gone")

	if !strings.Contains(buf.String(), `"key":"gone"`) {
		t.Errorf("expected removal trace, got %q", buf.String())
	}
}

func TestCache_Concurrent(t *testing.T) {
	c := New[int, int](WithCapacity(64))

	var wg sync.WaitGroup

	for w := range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range 200 {
				c.Put(w*1000+i, i)
				c.Get(w*1000 + i/2)
				c.Contains(i)

				if i%50 == 0 {
					c.InvalidateFunc(func(k, _ int) bool { return k%2 == 0 })
					_ = c.Entries()
				}
			}
		}()
	}

	wg.Wait()

	if c.Len() > 64 {
		t.Errorf("capacity exceeded: %d", c.Len())
	}
}

func BenchmarkCache_PutGet(b *testing.B) {
	c := New[int, int](WithCapacity(1024))

	var i int

	for b.Loop() {
		c.Put(i&2047, i)
		c.Get(i & 1023)
		i++
	}
}
