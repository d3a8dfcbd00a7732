// Package themes turns freeform journal text into a bounded, frequency-ranked
// set of theme terms and scores pairwise overlap between entries.
package themes

// Term is a normalized theme term with its occurrence count.
type Term struct {
	Text  string
	Count int
}

// ThemeSet is an entry's topical fingerprint: terms ordered by rank
// (frequency descending, ties alphabetical).
type ThemeSet struct {
	Terms []Term
}

// Len returns the number of terms in the set.
func (ts ThemeSet) Len() int { return len(ts.Terms) }

// Empty reports whether the set has no terms.
func (ts ThemeSet) Empty() bool { return len(ts.Terms) == 0 }

// Texts returns the term strings in rank order.
func (ts ThemeSet) Texts() []string {
	out := make([]string, len(ts.Terms))
	for i, t := range ts.Terms {
		out[i] = t.Text
	}
	return out
}

// Has reports whether the set contains the given term text.
func (ts ThemeSet) Has(text string) bool {
	for _, t := range ts.Terms {
		if t.Text == text {
			return true
		}
	}
	return false
}

// Count returns the occurrence count for a term, 0 if absent.
func (ts ThemeSet) Count(text string) int {
	for _, t := range ts.Terms {
		if t.Text == text {
			return t.Count
		}
	}
	return 0
}
