package cache

import (
	"strconv"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLRU_GetPut(t *testing.T) {
	c := NewLRU[string, int](4, nil)

	if _, ok := c.Get("missing"); ok {
		t.Error("Get on empty cache should miss")
	}

	c.Put("a", 1)
	c.Put("b", 2)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v; want 1, true", v, ok)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}

	want := Stats{Len: 2, Capacity: 4, Hits: 1, Misses: 1}
	if diff := cmp.Diff(want, c.Stats()); diff != "" {
		t.Errorf("Stats() mismatch (-want +got):\n%s", diff)
	}
}

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	var evicted []string
	c := NewLRU(3, func(k string, _ int) { evicted = append(evicted, k) })

	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3)
	c.Get("a") // b is now the oldest
	c.Put("d", 4)
	c.Put("e", 5)

	if diff := cmp.Diff([]string{"b", "c"}, evicted); diff != "" {
		t.Errorf("evicted mismatch (-want +got):\n%s", diff)
	}
	for _, k := range []string{"a", "d", "e"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("Get(%s) missed", k)
		}
	}
	if got := c.Stats().Evictions; got != 2 {
		t.Errorf("Evictions = %d, want 2", got)
	}
}

func TestLRU_ReplaceEvictsOldValue(t *testing.T) {
	var old []int
	c := NewLRU(2, func(_ string, v int) { old = append(old, v) })

	c.Put("a", 1)
	c.Put("a", 2)
	if v, _ := c.Get("a"); v != 2 {
		t.Errorf("Get(a) = %d, want 2", v)
	}
	if diff := cmp.Diff([]int{1}, old); diff != "" {
		t.Errorf("replaced values mismatch (-want +got):\n%s", diff)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestLRU_Purge(t *testing.T) {
	var evicted []string
	c := NewLRU(4, func(k string, _ int) { evicted = append(evicted, k) })

	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3)
	c.Get("a")

	c.Purge()
	if diff := cmp.Diff([]string{"b", "c", "a"}, evicted); diff != "" {
		t.Errorf("Purge order mismatch (-want +got):\n%s", diff)
	}
	if c.Len() != 0 {
		t.Errorf("Len() after Purge = %d", c.Len())
	}
}

func TestLRU_MinimumCapacity(t *testing.T) {
	c := NewLRU[int, int](0, nil)
	c.Put(1, 1)
	c.Put(2, 2)
	if c.Len() != 1 || c.Stats().Capacity != 1 {
		t.Errorf("Len() = %d, Capacity = %d; want 1, 1", c.Len(), c.Stats().Capacity)
	}
}

func TestLRU_Concurrent(t *testing.T) {
	c := NewLRU[string, int](16, nil)

	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 200 {
				k := strconv.Itoa((g + i) % 32)
				if _, ok := c.Get(k); !ok {
					c.Put(k, i)
				}
			}
		}()
	}
	wg.Wait()

	if c.Len() > 16 {
		t.Errorf("Len() = %d exceeds capacity", c.Len())
	}
}

func BenchmarkLRU_Get(b *testing.B) {
	c := NewLRU[string, int](128, nil)
	for i := range 100 {
		c.Put(strconv.Itoa(i), i)
	}

	b.ReportAllocs()
	for b.Loop() {
		c.Get("50")
	}
}
