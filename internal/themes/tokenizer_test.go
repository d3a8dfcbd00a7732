package themes

import (
	"reflect"
	"strings"
	"testing"
)

func countOf(terms []string, want string) int {
	n := 0
	for _, t := range terms {
		if t == want {
			n++
		}
	}
	return n
}

func TestTokenize_EmptyInput(t *testing.T) {
	tok := NewTokenizer(nil)
	for _, input := range []string{"", "   ", "\n\t  \n"} {
		if got := tok.Tokenize(input); len(got) != 0 {
			t.Errorf("Tokenize(%q) = %v, want empty", input, got)
		}
	}
}

func TestTokenize_LowercasesAndStripsPunctuation(t *testing.T) {
	tok := NewTokenizer(nil)
	terms := tok.Tokenize("Deadline! DEADLINE, deadline.")
	if got := countOf(terms, "deadline"); got != 3 {
		t.Errorf("count(deadline) = %d, want 3, terms=%v", got, terms)
	}
}

func TestTokenize_RemovesStopwords(t *testing.T) {
	tok := NewTokenizer(nil)
	terms := tok.Tokenize("the project and the deadline")
	for _, term := range terms {
		if term == "the" || term == "and" {
			t.Errorf("stopword %q leaked into terms %v", term, terms)
		}
	}
	if countOf(terms, "project") != 1 || countOf(terms, "deadline") != 1 {
		t.Errorf("content words missing from %v", terms)
	}
}

func TestTokenize_ExtraStopwords(t *testing.T) {
	tok := NewTokenizer([]string{"Project", " deadline "})
	terms := tok.Tokenize("project deadline stress")
	if !reflect.DeepEqual(terms, []string{"stress"}) {
		t.Errorf("terms = %v, want [stress]", terms)
	}
}

func TestTokenize_EmitsBigramPhrases(t *testing.T) {
	tok := NewTokenizer(nil)
	terms := tok.Tokenize("work stress again, work stress")
	if got := countOf(terms, "work stress"); got != 2 {
		t.Errorf("count(%q) = %d, want 2, terms=%v", "work stress", got, terms)
	}
}

func TestTokenize_PhrasesDoNotCrossSentences(t *testing.T) {
	tok := NewTokenizer(nil)
	terms := tok.Tokenize("Finished work. Stress is fading.")
	if countOf(terms, "work stress") != 0 {
		t.Errorf("bigram crossed sentence boundary, terms=%v", terms)
	}
}

func TestTokenize_StripsMarkdownSyntax(t *testing.T) {
	tok := NewTokenizer(nil)
	input := "## Heading\n**bold** _emph_ `code` [label](https://example.com/path) [[2024-10-05]]\n> quoted"
	terms := tok.Tokenize(input)

	joined := strings.Join(terms, " ")
	for _, forbidden := range []string{"https", "example", "com", "2024"} {
		if strings.Contains(joined, forbidden) {
			t.Errorf("markdown artifact %q leaked into terms %v", forbidden, terms)
		}
	}
	if countOf(terms, "heading") != 1 || countOf(terms, "bold") != 1 || countOf(terms, "label") != 1 {
		t.Errorf("content words missing from %v", terms)
	}
}

func TestTokenize_DropsBareNumbersAndSingleChars(t *testing.T) {
	tok := NewTokenizer(nil)
	terms := tok.Tokenize("meeting at 10 30 x b2b planning")
	if countOf(terms, "10") != 0 || countOf(terms, "30") != 0 || countOf(terms, "x") != 0 {
		t.Errorf("junk tokens survived: %v", terms)
	}
	if countOf(terms, "b2b") != 1 {
		t.Errorf("mixed alnum token dropped: %v", terms)
	}
}
