package themes

import "sort"

// Default bounds for theme extraction.
const (
	DefaultMaxThemes    = 8
	DefaultMinFrequency = 2
)

// Extractor ranks tokenizer output into a bounded ThemeSet. It is a pure
// function of its input and configuration: no I/O, no randomness. The cache
// depends on that purity — recomputation must always reproduce the same set.
type Extractor struct {
	MaxThemes    int
	MinFrequency int
}

// NewExtractor creates an Extractor, substituting defaults for non-positive
// bounds.
func NewExtractor(maxThemes, minFrequency int) Extractor {
	if maxThemes <= 0 {
		maxThemes = DefaultMaxThemes
	}
	if minFrequency <= 0 {
		minFrequency = DefaultMinFrequency
	}
	return Extractor{MaxThemes: maxThemes, MinFrequency: minFrequency}
}

// Extract aggregates term frequencies and ranks them into a ThemeSet.
func (e Extractor) Extract(tokens []string) ThemeSet {
	freq := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		freq[tok]++
	}
	return e.Rank(freq)
}

// Rank applies the extraction policy to a frequency table: drop terms below
// MinFrequency, order by count descending with alphabetical tie-break,
// truncate to MaxThemes. Shared by single-entry extraction and time-window
// aggregation so both produce identically ranked sets.
func (e Extractor) Rank(freq map[string]int) ThemeSet {
	terms := make([]Term, 0, len(freq))
	for text, count := range freq {
		if count < e.MinFrequency {
			continue
		}
		terms = append(terms, Term{Text: text, Count: count})
	}

	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Count != terms[j].Count {
			return terms[i].Count > terms[j].Count
		}
		return terms[i].Text < terms[j].Text
	})

	if len(terms) > e.MaxThemes {
		terms = terms[:e.MaxThemes]
	}
	return ThemeSet{Terms: terms}
}
