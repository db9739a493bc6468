package storage

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/micromind/internal/constants"
	"github.com/julianstephens/micromind/internal/kv"
	"github.com/julianstephens/micromind/internal/models"
)

// countingStore records how many writes reach the backend.
type countingStore struct {
	*kv.MemoryStore
	sets int
}

func (c *countingStore) Set(key string, value []byte) error {
	c.sets++
	return c.MemoryStore.Set(key, value)
}

// fakeClock starts at 2024-01-03 09:00 UTC and advances a minute per call
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

func setupEntryStore(t *testing.T, mode Mode) (*EntryStore, *countingStore) {
	t.Helper()
	backend := &countingStore{MemoryStore: kv.NewMemoryStore()}
	clock := newFakeClock()
	store := NewEntryStore(backend,
		WithMode(mode),
		WithClock(clock.Now),
		WithLocation(time.UTC),
	)
	return store, backend
}

func newTestEntry(id, date, learned string) models.Entry {
	return models.Entry{ID: id, Date: date, Learned: learned}
}

func mustUpsert(t *testing.T, s *EntryStore, e models.Entry) models.Entry {
	t.Helper()
	saved, ok, err := s.Upsert(e)
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if !ok {
		t.Fatalf("Upsert did not save entry %+v", e)
	}
	return saved
}

func TestLoadEmpty(t *testing.T) {
	s, _ := setupEntryStore(t, ModeID)

	entries := s.Load()
	if entries == nil || len(entries) != 0 {
		t.Errorf("expected a non-nil empty slice, got %#v", entries)
	}
}

func TestLoadMalformed(t *testing.T) {
	for _, raw := range []string{"not json", `{"id":"x"}`, ""} {
		s, backend := setupEntryStore(t, ModeID)
		if err := backend.MemoryStore.Set(constants.EntriesKey, []byte(raw)); err != nil {
			t.Fatalf("Set failed: %v", err)
		}

		if got := s.Load(); len(got) != 0 {
			t.Errorf("Load(%q) = %v, want empty", raw, got)
		}
	}
}

func TestUpsertEmptyIsIgnored(t *testing.T) {
	s, backend := setupEntryStore(t, ModeID)

	draft := s.CurrentDraft()
	draft.Learned = "   \n\t"
	_, ok, err := s.Upsert(draft)
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if ok {
		t.Error("expected whitespace-only entry not to be saved")
	}
	if backend.sets != 0 {
		t.Errorf("expected no writes, got %d", backend.sets)
	}
	if got := len(s.Load()); got != 0 {
		t.Errorf("expected empty collection, got %d entries", got)
	}
}

func TestUpsertIDMode(t *testing.T) {
	s, _ := setupEntryStore(t, ModeID)

	first := mustUpsert(t, s, models.Entry{ID: "a", Date: "2024-01-03", Learned: "goroutines"})
	second := mustUpsert(t, s, models.Entry{ID: "b", Date: "2024-01-03", Idea: "a CLI"})

	entries := s.Load()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries on the same date, got %d", len(entries))
	}
	if entries[0].ID != second.ID || entries[1].ID != first.ID {
		t.Errorf("expected newest first, got %s, %s", entries[0].ID, entries[1].ID)
	}

	first.Question = "why channels?"
	updated := mustUpsert(t, s, first)
	if updated.Timestamp <= first.Timestamp {
		t.Error("expected timestamp to advance on resave")
	}

	entries = s.Load()
	if len(entries) != 2 {
		t.Fatalf("expected resave to replace, got %d entries", len(entries))
	}
	if diff := cmp.Diff(updated, entries[0]); diff != "" {
		t.Errorf("stored entry mismatch (-want +got):\n%s", diff)
	}
}

func TestUpsertAssignsMissingID(t *testing.T) {
	s, _ := setupEntryStore(t, ModeID)

	saved := mustUpsert(t, s, models.Entry{Date: "2024-01-03", Learned: "x"})
	if saved.ID == "" {
		t.Fatal("expected an id to be assigned")
	}
	if _, ok := s.Get(saved.ID); !ok {
		t.Error("expected to find the saved entry by id")
	}
}

func TestUpsertDateMode(t *testing.T) {
	s, _ := setupEntryStore(t, ModeDate)

	original := mustUpsert(t, s, models.Entry{ID: "a", Date: "2024-01-03", Learned: "first"})
	mustUpsert(t, s, models.Entry{ID: "b", Date: "2024-01-02", Learned: "yesterday"})

	replacement := mustUpsert(t, s, models.Entry{ID: "c", Date: "2024-01-03", Learned: "second"})
	if replacement.ID != original.ID {
		t.Errorf("expected replacement to keep id %s, got %s", original.ID, replacement.ID)
	}

	entries := s.Load()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	want := []string{"2024-01-03", "2024-01-02"}
	for i, e := range entries {
		if e.Date != want[i] {
			t.Errorf("entries[%d].Date = %s, want %s", i, e.Date, want[i])
		}
	}
	if entries[0].Learned != "second" {
		t.Errorf("expected today's entry to be replaced, got %q", entries[0].Learned)
	}

	// Moving an entry to a free date keeps one record per id
	moved := mustUpsert(t, s, models.Entry{ID: "b", Date: "2024-01-01", Learned: "moved"})
	if moved.ID != "b" {
		t.Errorf("expected moved entry to keep id b, got %s", moved.ID)
	}
	entries = s.Load()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries after move, got %d", len(entries))
	}
	seen := make(map[string]int)
	for _, e := range entries {
		seen[e.ID]++
	}
	if seen["b"] != 1 {
		t.Errorf("expected exactly one record with id b, got %d", seen["b"])
	}
	if entries[1].Date != "2024-01-01" || entries[1].Learned != "moved" {
		t.Errorf("unexpected moved entry: %+v", entries[1])
	}
}

func TestDelete(t *testing.T) {
	s, backend := setupEntryStore(t, ModeID)

	a := mustUpsert(t, s, models.Entry{ID: "a", Date: "2024-01-02", Learned: "x"})
	mustUpsert(t, s, models.Entry{ID: "b", Date: "2024-01-03", Learned: "y"})
	writes := backend.sets

	if err := s.Delete("missing"); err != nil {
		t.Fatalf("Delete of unknown id failed: %v", err)
	}
	if backend.sets != writes {
		t.Error("expected no write when deleting an unknown id")
	}
	if got := len(s.Load()); got != 2 {
		t.Errorf("expected 2 entries, got %d", got)
	}

	if err := s.Delete(a.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	entries := s.Load()
	if len(entries) != 1 || entries[0].ID != "b" {
		t.Errorf("expected only entry b to remain, got %+v", entries)
	}
	if _, ok := s.Get(a.ID); ok {
		t.Error("expected deleted entry to be gone")
	}
}

func TestCurrentDraft(t *testing.T) {
	t.Run("id mode", func(t *testing.T) {
		s, _ := setupEntryStore(t, ModeID)
		saved := mustUpsert(t, s, models.Entry{ID: "a", Date: "2024-01-03", Learned: "x"})

		draft := s.CurrentDraft()
		if draft.ID == saved.ID {
			t.Error("expected a fresh id in id mode")
		}
		if draft.Date != "2024-01-03" || draft.HasContent() {
			t.Errorf("expected an empty draft for today, got %+v", draft)
		}
	})

	t.Run("date mode", func(t *testing.T) {
		s, _ := setupEntryStore(t, ModeDate)
		if draft := s.CurrentDraft(); draft.HasContent() || draft.ID == "" {
			t.Errorf("expected an empty draft with an id, got %+v", draft)
		}

		saved := mustUpsert(t, s, models.Entry{ID: "a", Date: "2024-01-03", Learned: "x"})
		if diff := cmp.Diff(saved, s.CurrentDraft()); diff != "" {
			t.Errorf("expected today's stored entry (-want +got):\n%s", diff)
		}
	})
}

func TestTodayEntries(t *testing.T) {
	s, _ := setupEntryStore(t, ModeID)
	mustUpsert(t, s, models.Entry{ID: "a", Date: "2024-01-02", Learned: "x"})
	mustUpsert(t, s, models.Entry{ID: "b", Date: "2024-01-03", Learned: "y"})
	mustUpsert(t, s, models.Entry{ID: "c", Date: "2024-01-03", Learned: "z"})

	got := s.TodayEntries()
	if len(got) != 2 || got[0].ID != "c" || got[1].ID != "b" {
		t.Errorf("unexpected today entries: %+v", got)
	}
}

func TestStreak(t *testing.T) {
	tests := []struct {
		name  string
		dates []string
		want  int
	}{
		{"empty", nil, 0},
		{"today only", []string{"2024-01-03"}, 1},
		{"yesterday only", []string{"2024-01-02"}, 0},
		{"three consecutive days", []string{"2024-01-01", "2024-01-02", "2024-01-03"}, 3},
		{"gap", []string{"2024-01-01", "2024-01-03"}, 1},
		{"two days ago", []string{"2024-01-01"}, 0},
		{"gap of two days", []string{"2023-12-31", "2024-01-03"}, 1},
		{"duplicate days", []string{"2024-01-02", "2024-01-03", "2024-01-03"}, 2},
		{"across month boundary", []string{"2023-12-31", "2024-01-01", "2024-01-02", "2024-01-03"}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := setupEntryStore(t, ModeID)
			for _, d := range tt.dates {
				e := models.NewEntry(d, time.Now())
				e.Learned = "x"
				mustUpsert(t, s, e)
			}
			if got := s.Streak(); got != tt.want {
				t.Errorf("Streak() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStreakUsesLocation(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("timezone database unavailable: %v", err)
	}
	// 03:00 UTC on Jan 4 is still Jan 3 in New York
	now := func() time.Time { return time.Date(2024, 1, 4, 3, 0, 0, 0, time.UTC) }
	s := NewEntryStore(kv.NewMemoryStore(), WithClock(now), WithLocation(ny))

	mustUpsert(t, s, models.Entry{ID: "a", Date: "2024-01-03", Learned: "x"})
	if got := s.Streak(); got != 1 {
		t.Errorf("Streak() = %d, want 1", got)
	}
}

func TestStats(t *testing.T) {
	s, _ := setupEntryStore(t, ModeID)
	mustUpsert(t, s, models.Entry{ID: "a", Date: "2023-12-31", Learned: "one two"})
	mustUpsert(t, s, models.Entry{ID: "b", Date: "2024-01-02", Question: "three", Idea: "four five"})
	mustUpsert(t, s, models.Entry{ID: "c", Date: "2024-01-03", Idea: "six"})

	want := models.Stats{TotalEntries: 3, ThisMonth: 2, TotalWords: 6, Streak: 2}
	if diff := cmp.Diff(want, s.Stats()); diff != "" {
		t.Errorf("Stats() mismatch (-want +got):\n%s", diff)
	}
}

func TestSubscribe(t *testing.T) {
	s, _ := setupEntryStore(t, ModeID)

	var got [][]models.Entry
	cancel := s.Subscribe(func(entries []models.Entry) {
		got = append(got, entries)
	})
	mustUpsert(t, s, models.Entry{ID: "a", Date: "2024-01-03", Learned: "x"})
	cancel()
	mustUpsert(t, s, models.Entry{ID: "b", Date: "2024-01-03", Learned: "y"})

	if len(got) != 1 || len(got[0]) != 1 || got[0][0].ID != "a" {
		t.Errorf("unexpected notifications: %+v", got)
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": ModeID, "id": ModeID, "date": ModeDate} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseMode("weekly"); err == nil {
		t.Error("expected an error for an unknown mode")
	}
}
