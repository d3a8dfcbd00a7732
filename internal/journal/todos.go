package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/quietloop/diarium/internal/planner"
	"github.com/quietloop/diarium/internal/vault"
)

// ExtractTodos pulls action items out of an entry's freeform text, persists
// them (replacing any earlier extraction for the same entry) and writes the
// planner markdown file. A nil todo slice means the entry had no actionable
// items.
func (s *Service) ExtractTodos(ctx context.Context, date time.Time) ([]planner.Todo, string, error) {
	if s.comp == nil || s.todos == nil {
		return nil, "", fmt.Errorf("todo extraction is not configured")
	}

	content, err := s.vault.Read(date)
	if err != nil {
		return nil, "", err
	}

	texts, err := s.comp.Todos(ctx, vault.Freeform(content))
	if err != nil {
		return nil, "", err
	}
	if len(texts) == 0 {
		return nil, "", nil
	}

	key := date.Format(vault.DateLayout)
	todos, err := s.todos.Replace(key, texts)
	if err != nil {
		return nil, "", err
	}

	path, err := planner.WriteMarkdown(s.plannerDir, key, todos, s.now())
	if err != nil {
		return todos, "", err
	}
	return todos, path, nil
}

// Todos lists stored action items across all entries.
func (s *Service) Todos(includeDone bool) ([]planner.Todo, error) {
	if s.todos == nil {
		return nil, fmt.Errorf("todo store is not configured")
	}
	return s.todos.List(includeDone)
}

// MarkTodoDone marks a stored action item as completed.
func (s *Service) MarkTodoDone(id string) error {
	if s.todos == nil {
		return fmt.Errorf("todo store is not configured")
	}
	return s.todos.MarkDone(id)
}
