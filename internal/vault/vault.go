// Package vault manages the journal directory: one markdown document per
// calendar day, named YYYY-MM-DD.md.
package vault

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// DateLayout is the canonical entry date format, doubling as the filename stem.
const DateLayout = "2006-01-02"

// ErrNotFound is returned when no entry exists for a requested date.
var ErrNotFound = errors.New("entry not found")

// ErrExists is returned when creating an entry for a date that already has one.
var ErrExists = errors.New("entry already exists")

// Entry identifies one journal document by its date.
type Entry struct {
	Date time.Time
	Path string
}

// Vault is a directory of dated journal entries.
type Vault struct {
	dir string
}

// Open creates the journal directory if needed and returns a Vault over it.
func Open(dir string) (*Vault, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}
	return &Vault{dir: dir}, nil
}

// Dir returns the journal directory path.
func (v *Vault) Dir() string { return v.dir }

// ParseDate parses a YYYY-MM-DD date identifier. Malformed identifiers are
// rejected here, before any analysis code sees them.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be in YYYY-MM-DD format: %q", s)
	}
	return d, nil
}

// List returns all entries sorted by date, newest first. Files whose names
// are not valid dates are skipped.
func (v *Vault) List() ([]Entry, error) {
	files, err := os.ReadDir(v.dir)
	if err != nil {
		return nil, fmt.Errorf("reading journal directory: %w", err)
	}

	var entries []Entry
	for _, f := range files {
		name := f.Name()
		if f.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".md") {
			continue
		}
		date, err := time.Parse(DateLayout, strings.TrimSuffix(name, ".md"))
		if err != nil {
			continue
		}
		entries = append(entries, Entry{Date: date, Path: filepath.Join(v.dir, name)})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})
	return entries, nil
}

// Path returns the file path an entry for the given date lives at.
func (v *Vault) Path(date time.Time) string {
	return filepath.Join(v.dir, date.Format(DateLayout)+".md")
}

// Exists reports whether an entry exists for the given date.
func (v *Vault) Exists(date time.Time) bool {
	_, err := os.Stat(v.Path(date))
	return err == nil
}

// Read returns the full document for the given date.
func (v *Vault) Read(date time.Time) (string, error) {
	data, err := os.ReadFile(v.Path(date))
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%s: %w", date.Format(DateLayout), ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("reading entry %s: %w", date.Format(DateLayout), err)
	}
	return string(data), nil
}

// Write stores the full document for the given date, replacing any previous
// content.
func (v *Vault) Write(date time.Time, content string) error {
	if err := os.WriteFile(v.Path(date), []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing entry %s: %w", date.Format(DateLayout), err)
	}
	return nil
}

// WriteFile stores an arbitrary document (such as a memory-trace report) in
// the journal directory under the given filename.
func (v *Vault) WriteFile(name string, content string) (string, error) {
	path := filepath.Join(v.dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	return path, nil
}
