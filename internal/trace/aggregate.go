// Package trace aggregates entry themes over time windows for memory-trace
// reporting: longitudinal views of how topics emerge, persist, and fade.
package trace

import (
	"sort"
	"time"

	"github.com/quietloop/diarium/internal/themes"
	"github.com/quietloop/diarium/internal/vault"
)

// DefaultBucketDays is the default sub-window size (weekly).
const DefaultBucketDays = 7

// ThemeSource supplies cached theme sets; implemented by themes.Cache.
type ThemeSource interface {
	Themes(date string, freeform string) themes.ThemeSet
}

// Member is one entry feeding an aggregation.
type Member struct {
	Date     time.Time
	Freeform string
}

// Bucket is one sub-window of the aggregation: the merged ThemeSet of its
// member entries plus the dates that contributed.
type Bucket struct {
	Start  time.Time
	End    time.Time // exclusive
	Dates  []time.Time
	Themes themes.ThemeSet
}

// Has reports whether the bucket's merged set contains the term.
func (b Bucket) Has(term string) bool { return b.Themes.Has(term) }

// Window is an ordered sequence of buckets covering [Start, End]. It is a
// read-only report structure; aggregation never mutates source entries.
type Window struct {
	Start   time.Time
	End     time.Time
	Buckets []Bucket
}

// Aggregate partitions entries dated within [start, end] into consecutive
// buckets of bucketDays and merges each bucket's theme sets by summing term
// frequencies, then re-ranking with the same policy as single-entry
// extraction. Entries outside the range are ignored.
func Aggregate(src ThemeSource, entries []Member, start, end time.Time, bucketDays int, ext themes.Extractor) Window {
	if bucketDays <= 0 {
		bucketDays = DefaultBucketDays
	}

	w := Window{Start: start, End: end}
	for cursor := start; !cursor.After(end); cursor = cursor.AddDate(0, 0, bucketDays) {
		bucketEnd := cursor.AddDate(0, 0, bucketDays)
		if bucketEnd.After(end.AddDate(0, 0, 1)) {
			bucketEnd = end.AddDate(0, 0, 1)
		}
		w.Buckets = append(w.Buckets, Bucket{Start: cursor, End: bucketEnd})
	}

	sorted := make([]Member, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	freqs := make([]map[string]int, len(w.Buckets))
	for i := range freqs {
		freqs[i] = make(map[string]int)
	}

	for _, m := range sorted {
		idx := bucketIndex(w.Buckets, m.Date)
		if idx < 0 {
			continue
		}
		b := &w.Buckets[idx]
		b.Dates = append(b.Dates, m.Date)
		ts := src.Themes(m.Date.Format(vault.DateLayout), m.Freeform)
		for _, term := range ts.Terms {
			freqs[idx][term.Text] += term.Count
		}
	}

	for i := range w.Buckets {
		w.Buckets[i].Themes = ext.Rank(freqs[i])
	}
	return w
}

func bucketIndex(buckets []Bucket, date time.Time) int {
	for i, b := range buckets {
		if !date.Before(b.Start) && date.Before(b.End) {
			return i
		}
	}
	return -1
}

// TermSpan records the first and last bucket (indices) a term appears in.
type TermSpan struct {
	First int
	Last  int
}

// TermSpans maps every term in the window to its bucket span. Callers derive
// emerging/fading signals from it: a term first seen mid-window is emerging,
// one absent after an early bucket is fading.
func (w Window) TermSpans() map[string]TermSpan {
	spans := make(map[string]TermSpan)
	for i, b := range w.Buckets {
		for _, term := range b.Themes.Terms {
			span, seen := spans[term.Text]
			if !seen {
				spans[term.Text] = TermSpan{First: i, Last: i}
				continue
			}
			span.Last = i
			spans[term.Text] = span
		}
	}
	return spans
}

// Emerging returns terms that first appear after the opening bucket and are
// still present in the final bucket, sorted alphabetically.
func (w Window) Emerging() []string {
	return w.selectTerms(func(s TermSpan) bool {
		return s.First > 0 && s.Last == len(w.Buckets)-1
	})
}

// Fading returns terms that appear in the opening buckets but are gone
// before the final bucket, sorted alphabetically.
func (w Window) Fading() []string {
	return w.selectTerms(func(s TermSpan) bool {
		return s.Last < len(w.Buckets)-1
	})
}

func (w Window) selectTerms(keep func(TermSpan) bool) []string {
	if len(w.Buckets) == 0 {
		return nil
	}
	var out []string
	for term, span := range w.TermSpans() {
		if keep(span) {
			out = append(out, term)
		}
	}
	sort.Strings(out)
	return out
}
