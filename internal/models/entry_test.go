package models

import (
	"testing"
	"time"
)

func TestEntryHasContent(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		want  bool
	}{
		{"all empty", Entry{}, false},
		{"whitespace only", Entry{Learned: "  ", Question: "\n\t", Idea: " "}, false},
		{"learned only", Entry{Learned: "Go channels"}, true},
		{"question only", Entry{Question: "why?"}, true},
		{"idea only", Entry{Idea: " an idea "}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.HasContent(); got != tt.want {
				t.Errorf("HasContent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewEntry(t *testing.T) {
	now := time.Date(2024, 1, 3, 9, 30, 0, 0, time.UTC)
	a := NewEntry("2024-01-03", now)
	b := NewEntry("2024-01-03", now)

	if a.ID == "" || a.ID == b.ID {
		t.Errorf("expected unique non-empty ids, got %q and %q", a.ID, b.ID)
	}
	if a.Date != "2024-01-03" {
		t.Errorf("expected date 2024-01-03, got %s", a.Date)
	}
	if a.Timestamp != now.UnixMilli() {
		t.Errorf("expected timestamp %d, got %d", now.UnixMilli(), a.Timestamp)
	}
	if a.HasContent() {
		t.Error("new entry should be empty")
	}
	if !a.SavedAt().Equal(now) {
		t.Errorf("SavedAt() = %v, want %v", a.SavedAt(), now)
	}
}

func TestEntryWordCount(t *testing.T) {
	e := Entry{Learned: "one two", Question: "  three ", Idea: "four\nfive six"}
	if got := e.WordCount(); got != 6 {
		t.Errorf("WordCount() = %d, want 6", got)
	}
}
