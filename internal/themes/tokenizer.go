package themes

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	urlPattern      = regexp.MustCompile(`https?://\S+`)
	mdLinkPattern   = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	wikiLinkPattern = regexp.MustCompile(`\[\[([^\]]*)\]\]`)
)

// Tokenizer normalizes freeform text into candidate theme terms: lowercase
// words with markdown syntax and punctuation stripped, stopwords removed.
// It emits both single words and adjacent two-word phrases so compound
// concepts ("work stress") survive frequency analysis.
type Tokenizer struct {
	stopwords map[string]struct{}
}

// NewTokenizer creates a Tokenizer with the default English stopword set
// plus any extra stopwords (already lowercased or not; they are normalized).
func NewTokenizer(extra []string) *Tokenizer {
	sw := make(map[string]struct{}, len(defaultStopwords)+len(extra))
	for w := range defaultStopwords {
		sw[w] = struct{}{}
	}
	for _, w := range extra {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			sw[w] = struct{}{}
		}
	}
	return &Tokenizer{stopwords: sw}
}

// Tokenize returns the multiset of candidate terms for the given text.
// Empty or whitespace-only input yields an empty result, not an error.
// Phrases never cross sentence boundaries.
func (t *Tokenizer) Tokenize(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	text = strings.ToLower(text)
	text = urlPattern.ReplaceAllString(text, " ")
	text = wikiLinkPattern.ReplaceAllString(text, " $1 ")
	text = mdLinkPattern.ReplaceAllString(text, " $1 ")

	var terms []string
	for _, sentence := range splitSentences(text) {
		words := splitWords(sentence)
		for i, w := range words {
			if t.stop(w) {
				continue
			}
			terms = append(terms, w)
			if i+1 < len(words) && !t.stop(words[i+1]) {
				terms = append(terms, w+" "+words[i+1])
			}
		}
	}
	return terms
}

func (t *Tokenizer) stop(w string) bool {
	_, ok := t.stopwords[w]
	return ok
}

func splitSentences(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		switch r {
		case '.', '!', '?', '\n', ';', ':':
			return true
		}
		return false
	})
}

// splitWords extracts letter/digit runs, dropping single characters and
// tokens without any letter (bare numbers, stray date fragments).
func splitWords(sentence string) []string {
	fields := strings.FieldsFunc(sentence, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	words := fields[:0]
	for _, f := range fields {
		if len(f) < 2 || !hasLetter(f) {
			continue
		}
		words = append(words, f)
	}
	return words
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
