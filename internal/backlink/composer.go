// Package backlink decides which other entries and topic tags an entry
// should reference, based on theme-set similarity.
package backlink

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/quietloop/diarium/internal/themes"
	"github.com/quietloop/diarium/internal/vault"
)

// DefaultThreshold is the exclusive similarity lower bound for linking.
const DefaultThreshold = 0.08

// DefaultMaxLinks caps the temporal links per entry. The cap is a deliberate
// choice: without it a long-running journal with one dominant theme would
// link every entry to every other.
const (
	DefaultMaxLinks = 6
	DefaultMaxTags  = 5
)

// ThemeSource supplies the cached ThemeSet for an entry. Implemented by
// themes.Cache.
type ThemeSource interface {
	Themes(date string, freeform string) themes.ThemeSet
}

// Candidate is one entry considered for linking.
type Candidate struct {
	Date     time.Time
	Freeform string
}

// Config controls pool selection and link composition. Zero values fall back
// to package defaults; PoolSize 0 means the pool is unbounded.
type Config struct {
	Threshold    float64
	MaxLinks     int
	MaxTags      int
	PoolSize     int
	SynthesisDay time.Weekday
}

func (c Config) withDefaults() Config {
	if c.Threshold <= 0 {
		c.Threshold = DefaultThreshold
	}
	if c.MaxLinks <= 0 {
		c.MaxLinks = DefaultMaxLinks
	}
	if c.MaxTags <= 0 {
		c.MaxTags = DefaultMaxTags
	}
	return c
}

// Set is the derived backlink annotation for one entry. Temporal is ordered
// by date ascending; Tags are slugified hashtags ranked by combined
// frequency.
type Set struct {
	Temporal []time.Time
	Tags     []string
}

// SelectPool narrows all known entries to the candidates for the target. The
// target's own date is always excluded. On the weekly synthesis day the pool
// is the trailing 7 calendar days regardless of PoolSize; otherwise it is the
// PoolSize most recent entries (all of them when PoolSize is 0).
func SelectPool(target Candidate, all []Candidate, cfg Config) []Candidate {
	cfg = cfg.withDefaults()

	pool := make([]Candidate, 0, len(all))
	for _, c := range all {
		if sameDay(c.Date, target.Date) {
			continue
		}
		pool = append(pool, c)
	}
	sort.Slice(pool, func(i, j int) bool { return pool[i].Date.After(pool[j].Date) })

	if target.Date.Weekday() == cfg.SynthesisDay {
		weekStart := target.Date.AddDate(0, 0, -7)
		weekly := pool[:0]
		for _, c := range pool {
			if !c.Date.Before(weekStart) && c.Date.Before(target.Date) {
				weekly = append(weekly, c)
			}
		}
		return weekly
	}

	if cfg.PoolSize > 0 && len(pool) > cfg.PoolSize {
		pool = pool[:cfg.PoolSize]
	}
	return pool
}

type scored struct {
	candidate Candidate
	themes    themes.ThemeSet
	score     float64
}

// Compose builds the BacklinkSet for the target entry against the candidate
// pool. A candidate qualifies only when its similarity strictly exceeds the
// threshold; a score exactly at the threshold does not link. The result is
// regenerated wholesale on every call and has no side effects.
func Compose(src ThemeSource, target Candidate, pool []Candidate, cfg Config) Set {
	cfg = cfg.withDefaults()

	targetThemes := src.Themes(target.Date.Format(vault.DateLayout), target.Freeform)
	if targetThemes.Empty() {
		return Set{}
	}

	var selected []scored
	for _, c := range pool {
		ts := src.Themes(c.Date.Format(vault.DateLayout), c.Freeform)
		if ts.Empty() {
			continue
		}
		score := themes.Similarity(targetThemes, ts)
		if score > cfg.Threshold {
			selected = append(selected, scored{candidate: c, themes: ts, score: score})
		}
	}
	if len(selected) == 0 {
		return Set{}
	}

	// Cap by score, then emit in date order for stable output.
	sort.Slice(selected, func(i, j int) bool {
		if selected[i].score != selected[j].score {
			return selected[i].score > selected[j].score
		}
		return selected[i].candidate.Date.Before(selected[j].candidate.Date)
	})
	if len(selected) > cfg.MaxLinks {
		selected = selected[:cfg.MaxLinks]
	}

	temporal := make([]time.Time, len(selected))
	for i, s := range selected {
		temporal[i] = s.candidate.Date
	}
	sort.Slice(temporal, func(i, j int) bool { return temporal[i].Before(temporal[j]) })

	return Set{
		Temporal: temporal,
		Tags:     deriveTags(targetThemes, selected, cfg.MaxTags),
	}
}

// deriveTags promotes shared terms to topic tags: the union of the selected
// candidates' terms intersected with the target's own set, ranked by combined
// frequency with alphabetical tie-break.
func deriveTags(target themes.ThemeSet, selected []scored, maxTags int) []string {
	combined := make(map[string]int)
	for _, s := range selected {
		for _, term := range s.themes.Terms {
			if target.Has(term.Text) {
				combined[term.Text] += term.Count
			}
		}
	}
	for text := range combined {
		combined[text] += target.Count(text)
	}
	if len(combined) == 0 {
		return nil
	}

	type ranked struct {
		text  string
		count int
	}
	terms := make([]ranked, 0, len(combined))
	for text, count := range combined {
		terms = append(terms, ranked{text: text, count: count})
	}
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].count != terms[j].count {
			return terms[i].count > terms[j].count
		}
		return terms[i].text < terms[j].text
	})
	if len(terms) > maxTags {
		terms = terms[:maxTags]
	}

	tags := make([]string, 0, len(terms))
	for _, t := range terms {
		if tag := Slug(t.text); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

var slugStrip = regexp.MustCompile(`[^a-z0-9 -]+`)
var slugSpaces = regexp.MustCompile(`\s+`)

// Slug converts a theme term into a hashtag-style topic tag: lowercase,
// punctuation stripped, spaces collapsed to hyphens ("work stress" ->
// "#work-stress").
func Slug(term string) string {
	s := strings.ToLower(strings.TrimSpace(term))
	s = slugStrip.ReplaceAllString(s, "")
	s = slugSpaces.ReplaceAllString(strings.TrimSpace(s), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return ""
	}
	return "#" + s
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
