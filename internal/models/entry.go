package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Entry is one reflection record
type Entry struct {
	ID        string `json:"id"`
	Date      string `json:"date"` // YYYY-MM-DD format
	Learned   string `json:"learned"`
	Question  string `json:"question"`
	Idea      string `json:"idea"`
	Timestamp int64  `json:"timestamp"` // Unix milliseconds of the last write
}

// NewEntry returns an empty entry with a fresh id for the given day.
func NewEntry(date string, now time.Time) Entry {
	return Entry{
		ID:        uuid.New().String(),
		Date:      date,
		Timestamp: now.UnixMilli(),
	}
}

// HasContent reports whether at least one of the three prompts has non-whitespace text.
func (e Entry) HasContent() bool {
	return strings.TrimSpace(e.Learned) != "" ||
		strings.TrimSpace(e.Question) != "" ||
		strings.TrimSpace(e.Idea) != ""
}

// SavedAt returns the timestamp as a time.Time.
func (e Entry) SavedAt() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// WordCount counts whitespace-separated words across all three fields.
func (e Entry) WordCount() int {
	return len(strings.Fields(e.Learned)) +
		len(strings.Fields(e.Question)) +
		len(strings.Fields(e.Idea))
}
