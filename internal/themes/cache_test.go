package themes

import (
	"fmt"
	"reflect"
	"sync"
	"testing"
)

func newTestCache() *Cache {
	return NewCache(NewTokenizer(nil), NewExtractor(8, 2))
}

func TestCache_Idempotent(t *testing.T) {
	c := newTestCache()
	content := "stress stress deadline deadline"

	first := c.Themes("2024-10-01", content)
	second := c.Themes("2024-10-01", content)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated call returned different sets: %v vs %v", first.Terms, second.Terms)
	}
	if got := c.Computations(); got != 1 {
		t.Errorf("computations = %d, want 1 (unchanged content must not recompute)", got)
	}
}

func TestCache_InvalidatesOnContentChange(t *testing.T) {
	c := newTestCache()

	before := c.Themes("2024-10-01", "stress stress")
	after := c.Themes("2024-10-01", "sleep sleep sleep rest rest")

	if got := c.Computations(); got != 2 {
		t.Fatalf("computations = %d, want 2 (changed content must recompute)", got)
	}
	if reflect.DeepEqual(before, after) {
		t.Error("changed content produced an identical set")
	}
	if c.Size() != 1 {
		t.Errorf("cache holds %d records for one date, want 1 (stale record must be superseded)", c.Size())
	}

	// The new fingerprint is now authoritative; the old content computes fresh.
	c.Themes("2024-10-01", "sleep sleep sleep rest rest")
	if got := c.Computations(); got != 2 {
		t.Errorf("computations = %d, want 2 (current content must stay cached)", got)
	}
}

func TestCache_SeparateDatesSeparateRecords(t *testing.T) {
	c := newTestCache()
	content := "reading reading writing writing"

	a := c.Themes("2024-10-01", content)
	b := c.Themes("2024-10-02", content)

	// Same fingerprint, different dates: keys are (date, fingerprint), so
	// both compute and both are retained.
	if got := c.Computations(); got != 2 {
		t.Errorf("computations = %d, want 2", got)
	}
	if c.Size() != 2 {
		t.Errorf("cache size = %d, want 2", c.Size())
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf("identical content extracted differently: %v vs %v", a.Terms, b.Terms)
	}
}

func TestCache_EmptyContent(t *testing.T) {
	c := newTestCache()
	ts := c.Themes("2024-10-01", "")
	if !ts.Empty() {
		t.Errorf("empty content produced terms %v", ts.Terms)
	}
	if got := c.Computations(); got != 1 {
		t.Errorf("computations = %d, want 1 (empty result is still cached)", got)
	}
}

func TestCache_ConcurrentSameKeyComputesOnce(t *testing.T) {
	c := newTestCache()
	content := "stress stress deadline deadline"

	var wg sync.WaitGroup
	results := make([]ThemeSet, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.Themes("2024-10-01", content)
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		if !reflect.DeepEqual(r, results[0]) {
			t.Fatalf("goroutine %d saw a different set", i)
		}
	}
	if got := c.Computations(); got != 1 {
		t.Errorf("computations = %d, want 1 (concurrent calls must collapse)", got)
	}
}

func TestCache_ConcurrentDistinctDates(t *testing.T) {
	c := newTestCache()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			date := fmt.Sprintf("2024-10-%02d", i+1)
			c.Themes(date, "reading reading")
		}(i)
	}
	wg.Wait()

	if c.Size() != 16 {
		t.Errorf("cache size = %d, want 16", c.Size())
	}
}

func TestFingerprint_TracksContent(t *testing.T) {
	if Fingerprint("aa") != Fingerprint("aa") {
		t.Error("identical content produced different fingerprints")
	}
	if Fingerprint("aa") == Fingerprint("ab") {
		t.Error("different content produced the same fingerprint")
	}
}
