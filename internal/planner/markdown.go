package planner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/quietloop/diarium/internal/vault"
)

// FileName returns the planner markdown filename for an entry date.
func FileName(entryDate string) string {
	return "todos-" + entryDate + ".md"
}

// RenderMarkdown formats an entry's todos as a checklist document linking
// back to the entry it was extracted from.
func RenderMarkdown(entryDate string, todos []Todo, now time.Time) string {
	var sb strings.Builder

	heading := entryDate
	if d, err := time.Parse(vault.DateLayout, entryDate); err == nil {
		heading = d.Format("January 2, 2006")
	}
	fmt.Fprintf(&sb, "# Action Items - %s\n\n", heading)
	fmt.Fprintf(&sb, "Extracted from diary entry: [[%s]]\n\n", entryDate)
	sb.WriteString("## Tasks\n\n")

	for _, t := range todos {
		box := " "
		if t.Done {
			box = "x"
		}
		fmt.Fprintf(&sb, "- [%s] %s\n", box, t.Text)
	}

	fmt.Fprintf(&sb, "\n---\n\n*Extracted on %s*\n", now.Format("2006-01-02 at 15:04"))
	return sb.String()
}

// WriteMarkdown renders and writes the planner file for an entry into dir,
// creating the directory as needed. Returns the written path.
func WriteMarkdown(dir, entryDate string, todos []Todo, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating planner directory: %w", err)
	}
	path := filepath.Join(dir, FileName(entryDate))
	if err := os.WriteFile(path, []byte(RenderMarkdown(entryDate, todos, now)), 0o644); err != nil {
		return "", fmt.Errorf("writing planner file: %w", err)
	}
	return path, nil
}
