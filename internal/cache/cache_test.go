// Reelpick - Verified Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelpick

package cache

import (
	"sync"
	"testing"
	"time"
)

// fakeClock is advanced by hand so expiry tests never sleep.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

type evicted struct {
	key    string
	reason EvictReason
}

func TestLRU_CapacityEvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	var got []evicted
	c := NewLRU[int](3, time.Minute, func(k string, _ int, r EvictReason) {
		got = append(got, evicted{k, r})
	})

	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("c", 3)
	c.Get("a") // b is now least recently used
	c.Add("d", 4)

	if _, ok := c.Get("b"); ok {
		t.Error("expected 'b' to be evicted")
	}
	for _, k := range []string{"a", "c", "d"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("expected %q to be present", k)
		}
	}
	if len(got) != 1 || got[0] != (evicted{"b", EvictCapacity}) {
		t.Errorf("evictions = %+v", got)
	}
	if c.Len() != 3 {
		t.Errorf("Len = %d, want 3", c.Len())
	}
}

func TestLRU_IdleExpiry(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	var reasons []EvictReason
	c := NewLRU[string](10, time.Minute, func(_ string, _ string, r EvictReason) {
		reasons = append(reasons, r)
	})
	c.now = clock.Now

	c.Add("idle", "x")
	c.Add("busy", "y")

	clock.Advance(40 * time.Second)
	if _, ok := c.Get("busy"); !ok {
		t.Fatal("busy should still be live")
	}
	clock.Advance(40 * time.Second) // idle is 80s old, busy 40s since last Get

	if n := c.RemoveExpired(); n != 1 {
		t.Errorf("RemoveExpired = %d, want 1", n)
	}
	if _, ok := c.Get("idle"); ok {
		t.Error("idle should have expired")
	}
	if _, ok := c.Get("busy"); !ok {
		t.Error("busy should survive because Get refreshed it")
	}
	if len(reasons) != 1 || reasons[0] != EvictExpired {
		t.Errorf("reasons = %v", reasons)
	}
}

func TestLRU_Remove(t *testing.T) {
	t.Parallel()

	var reason EvictReason
	c := NewLRU[int](2, time.Minute, func(_ string, _ int, r EvictReason) { reason = r })
	c.Add("a", 1)

	if !c.Remove("a") {
		t.Error("Remove should report presence")
	}
	if c.Remove("a") {
		t.Error("second Remove should report absence")
	}
	if reason != EvictRemoved {
		t.Errorf("reason = %q", reason)
	}
}

func TestLRU_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	c := NewLRU[int](50, time.Minute, nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				k := string(rune('a' + (n+j)%26))
				c.Add(k, j)
				c.Get(k)
				if j%50 == 0 {
					c.RemoveExpired()
				}
			}
		}(i)
	}
	wg.Wait()
	if c.Len() > 50 {
		t.Errorf("Len = %d exceeds capacity", c.Len())
	}
}

func TestTTL_Expiry(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := NewTTL[string](time.Hour, 10)
	c.now = clock.Now

	c.Set("tt0084787", "The Thing")
	if v, ok := c.Get("tt0084787"); !ok || v != "The Thing" {
		t.Fatalf("Get = %q, %v", v, ok)
	}

	clock.Advance(2 * time.Hour)
	if _, ok := c.Get("tt0084787"); ok {
		t.Error("entry should have expired")
	}

	hits, misses := c.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("stats = %d hits, %d misses", hits, misses)
	}
}

func TestTTL_MaxEntries(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := NewTTL[int](time.Minute, 2)
	c.now = clock.Now

	c.Set("old", 1)
	clock.Advance(2 * time.Minute)
	c.Set("a", 2)
	c.Set("b", 3) // full: purges "old" instead of a live entry

	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("'a' should be present")
	}

	c.Set("c", 4) // still full: something must go
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2 after overflow", c.Len())
	}
}

func TestTTL_DisabledAndCleanup(t *testing.T) {
	t.Parallel()

	off := NewTTL[int](0, 10)
	off.Set("k", 1)
	if _, ok := off.Get("k"); ok {
		t.Error("disabled cache should always miss")
	}

	clock := newFakeClock()
	c := NewTTL[int](time.Minute, 10)
	c.now = clock.Now
	c.Set("a", 1)
	c.Set("b", 2)
	c.Delete("b")
	clock.Advance(time.Hour)
	if n := c.Cleanup(); n != 1 {
		t.Errorf("Cleanup = %d, want 1", n)
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d, want 0", c.Len())
	}
}
