package planner

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested todo does not exist.
var ErrNotFound = errors.New("not found")

// Todo is one extracted action item, tied to the entry it came from.
type Todo struct {
	ID        string
	EntryDate string
	Text      string
	Done      bool
	CreatedAt time.Time
}
