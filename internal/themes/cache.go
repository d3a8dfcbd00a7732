package themes

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Fingerprint returns the content fingerprint of an entry's freeform section,
// used as the cache validity key.
func Fingerprint(freeform string) string {
	sum := sha256.Sum256([]byte(freeform))
	return hex.EncodeToString(sum[:])
}

type record struct {
	fingerprint string
	themes      ThemeSet
}

// Cache memoizes one ThemeSet per entry for the process lifetime, keyed by
// (date, fingerprint). A record is superseded — not mutated — when the
// entry's freeform content changes; the stale record for that date is
// evicted. Nothing is ever persisted: a restart recomputes on demand, which
// is cheap and deterministic.
//
// Concurrent callers for the same key are collapsed through singleflight so
// at most one extraction runs per distinct (date, fingerprint).
type Cache struct {
	tokenizer *Tokenizer
	extractor Extractor

	mu      sync.RWMutex
	records map[string]record // keyed by ISO date

	group        singleflight.Group
	computations atomic.Int64
}

// NewCache creates a Cache that extracts with the given tokenizer and
// extractor configuration.
func NewCache(tok *Tokenizer, ext Extractor) *Cache {
	return &Cache{
		tokenizer: tok,
		extractor: ext,
		records:   make(map[string]record),
	}
}

// Themes returns the ThemeSet for the entry identified by date, recomputing
// only when the freeform content's fingerprint differs from the cached one.
func (c *Cache) Themes(date string, freeform string) ThemeSet {
	fp := Fingerprint(freeform)

	c.mu.RLock()
	if rec, ok := c.records[date]; ok && rec.fingerprint == fp {
		c.mu.RUnlock()
		return rec.themes
	}
	c.mu.RUnlock()

	v, _, _ := c.group.Do(date+"\x00"+fp, func() (any, error) {
		// Re-check under the write path: another flight may have stored
		// this key between the read above and now.
		c.mu.RLock()
		rec, ok := c.records[date]
		c.mu.RUnlock()
		if ok && rec.fingerprint == fp {
			return rec.themes, nil
		}

		c.computations.Add(1)
		ts := c.extractor.Extract(c.tokenizer.Tokenize(freeform))

		c.mu.Lock()
		c.records[date] = record{fingerprint: fp, themes: ts}
		c.mu.Unlock()
		return ts, nil
	})
	return v.(ThemeSet)
}

// Computations returns how many extractions have actually run. Test
// instrumentation for the at-most-one-computation guarantee.
func (c *Cache) Computations() int64 {
	return c.computations.Load()
}

// Size returns the number of cached records (one per date).
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}
