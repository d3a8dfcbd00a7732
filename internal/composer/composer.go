// Package composer builds language-model prompts from journal context and
// parses the free-text responses back into structured data. All model output
// is advisory: callers fall back to static content when generation fails.
package composer

import (
	"context"
	"fmt"
	"strings"
)

// Generator abstracts the language model behind a single completion call.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ContextEntry is one prior journal entry fed into prompt generation,
// most recent first.
type ContextEntry struct {
	Date    string
	Content string
}

// minContextChars guards against prompting the model with effectively
// empty journals; below this the caller should use fallback prompts.
const minContextChars = 20

type Service struct {
	gen Generator
}

func NewService(gen Generator) *Service {
	return &Service{gen: gen}
}

// ReflectionPrompts generates count reflection questions from recent entries.
// The most recent entry is weighted explicitly in the prompt. A nil slice
// with nil error means the context was too thin to prompt on.
func (s *Service) ReflectionPrompts(ctx context.Context, recent []ContextEntry, focus string, count int, weekly bool) ([]string, error) {
	recentText := weightedContext(recent)
	if len(strings.TrimSpace(recentText)) < minContextChars {
		return nil, nil
	}

	response, err := s.gen.Generate(ctx, reflectionPrompt(recentText, focus, count, weekly))
	if err != nil {
		return nil, fmt.Errorf("generating reflection prompts: %w", err)
	}
	return parseNumbered(response, count), nil
}

// Todos extracts action items from an entry's freeform text. A nil slice
// with nil error means the entry contained no actionable items (or was too
// short to analyze).
func (s *Service) Todos(ctx context.Context, freeform string) ([]string, error) {
	if len(strings.TrimSpace(freeform)) < minContextChars {
		return nil, nil
	}

	response, err := s.gen.Generate(ctx, todoPrompt(freeform))
	if err != nil {
		return nil, fmt.Errorf("extracting todos: %w", err)
	}
	if strings.Contains(strings.ToLower(response), "no action items") {
		return nil, nil
	}
	return parseBullets(response), nil
}

// Narrative turns a derived theme digest into a short reflective paragraph
// for the memory-trace report. The digest carries only theme names, counts
// and date ranges, never raw entry text.
func (s *Service) Narrative(ctx context.Context, digest string) (string, error) {
	if len(strings.TrimSpace(digest)) < minContextChars {
		return "", nil
	}

	response, err := s.gen.Generate(ctx, narrativePrompt(digest))
	if err != nil {
		return "", fmt.Errorf("generating trace narrative: %w", err)
	}
	return strings.TrimSpace(stripThink(response)), nil
}

func weightedContext(recent []ContextEntry) string {
	parts := make([]string, 0, len(recent))
	for i, e := range recent {
		if i == 0 {
			parts = append(parts, fmt.Sprintf("## MOST RECENT ENTRY (%s):\n%s", e.Date, e.Content))
		} else {
			parts = append(parts, fmt.Sprintf("## Earlier entry (%s):\n%s", e.Date, e.Content))
		}
	}
	return strings.Join(parts, "\n\n")
}
