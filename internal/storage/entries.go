package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/micromind/internal/constants"
	"github.com/julianstephens/micromind/internal/kv"
	"github.com/julianstephens/micromind/internal/logger"
	"github.com/julianstephens/micromind/internal/models"
	"github.com/julianstephens/micromind/internal/utils"
)

// Mode selects how entries are keyed.
type Mode string

const (
	// ModeID allows several entries per day; entries are identified by id.
	ModeID Mode = constants.EntryModeID
	// ModeDate keeps at most one entry per day; saving replaces by date.
	ModeDate Mode = constants.EntryModeDate
)

// ParseMode converts a configuration value into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeID:
		return ModeID, nil
	case ModeDate:
		return ModeDate, nil
	default:
		return "", fmt.Errorf("invalid entry mode %q (expected %q or %q)", s, ModeID, ModeDate)
	}
}

// Option configures an EntryStore.
type Option func(*EntryStore)

// WithMode sets the key mode. The default is ModeID.
func WithMode(m Mode) Option {
	return func(s *EntryStore) { s.mode = m }
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *EntryStore) { s.now = now }
}

// WithLocation sets the timezone "today" is computed in.
func WithLocation(loc *time.Location) Option {
	return func(s *EntryStore) { s.loc = loc }
}

// EntryStore reads and writes the entry collection kept under a single key.
// Every write replaces the whole collection.
type EntryStore struct {
	kv   kv.Store
	mode Mode
	now  func() time.Time
	loc  *time.Location
}

func NewEntryStore(store kv.Store, opts ...Option) *EntryStore {
	s := &EntryStore{
		kv:   store,
		mode: ModeID,
		now:  time.Now,
		loc:  time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mode returns the configured key mode.
func (s *EntryStore) Mode() Mode {
	return s.mode
}

// Today returns the current date in the store's location.
func (s *EntryStore) Today() string {
	return utils.DateIn(s.now(), s.loc)
}

// Load returns all entries in display order. Missing or unparseable data
// yields an empty collection.
func (s *EntryStore) Load() []models.Entry {
	data, err := s.kv.Get(constants.EntriesKey)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			logger.Warn("Failed to read entries", "error", err)
		}
		return []models.Entry{}
	}
	entries, err := decodeEntries(data)
	if err != nil {
		logger.Warn("Stored entries are unparseable, treating as empty", "error", err)
		return []models.Entry{}
	}
	s.sort(entries)
	return entries
}

// Get returns the entry with the given id.
func (s *EntryStore) Get(id string) (models.Entry, bool) {
	for _, e := range s.Load() {
		if e.ID == id {
			return e, true
		}
	}
	return models.Entry{}, false
}

// Upsert stamps and persists entry. An entry without content is not saved
// and reported with ok == false.
func (s *EntryStore) Upsert(entry models.Entry) (saved models.Entry, ok bool, err error) {
	if !entry.HasContent() {
		return entry, false, nil
	}

	entry.Timestamp = s.now().UnixMilli()
	entries := s.Load()

	idx := s.indexOf(entries, entry)
	replaced := idx >= 0
	if replaced {
		if s.mode == ModeDate {
			entry.ID = entries[idx].ID
		}
		entries[idx] = entry
	} else {
		if entry.ID == "" {
			entry.ID = models.NewEntry(entry.Date, s.now()).ID
		}
		entries = append(entries, entry)
	}

	if err := s.save(entries); err != nil {
		return entry, false, err
	}
	logger.Debug("Saved entry", "id", entry.ID, "date", entry.Date, "replaced", replaced)
	return entry, true, nil
}

// Delete removes the entry with the given id. Deleting an unknown id is a no-op.
func (s *EntryStore) Delete(id string) error {
	entries := s.Load()
	kept := entries[:0]
	for _, e := range entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(entries) {
		return nil
	}
	if err := s.save(kept); err != nil {
		return err
	}
	logger.Debug("Deleted entry", "id", id)
	return nil
}

// CurrentDraft returns the entry the editor should start from. In date mode
// that is today's stored entry when there is one; otherwise a fresh entry
// dated today.
func (s *EntryStore) CurrentDraft() models.Entry {
	today := s.Today()
	if s.mode == ModeDate {
		for _, e := range s.Load() {
			if e.Date == today {
				return e
			}
		}
	}
	return models.NewEntry(today, s.now())
}

// TodayEntries returns the stored entries dated today, newest first.
func (s *EntryStore) TodayEntries() []models.Entry {
	today := s.Today()
	var out []models.Entry
	for _, e := range s.Load() {
		if e.Date == today {
			out = append(out, e)
		}
	}
	return out
}

// Streak counts consecutive days with at least one entry, ending today.
// A day without an entry today means a streak of zero.
func (s *EntryStore) Streak() int {
	return streak(s.Load(), s.Today())
}

// Stats summarizes the collection.
func (s *EntryStore) Stats() models.Stats {
	entries := s.Load()
	today := s.Today()
	month := today[:7]

	stats := models.Stats{
		TotalEntries: len(entries),
		Streak:       streak(entries, today),
	}
	for _, e := range entries {
		if len(e.Date) >= 7 && e.Date[:7] == month {
			stats.ThisMonth++
		}
		stats.TotalWords += e.WordCount()
	}
	return stats
}

// Subscribe calls fn with the freshly loaded collection whenever the entries
// record changes, including writes from other processes.
func (s *EntryStore) Subscribe(fn func([]models.Entry)) (cancel func()) {
	return s.kv.Subscribe(constants.EntriesKey, func([]byte) {
		fn(s.Load())
	})
}

// indexOf finds the stored record entry replaces: same date in date mode,
// falling back to same id so a moved entry keeps a single record.
func (s *EntryStore) indexOf(entries []models.Entry, entry models.Entry) int {
	if s.mode == ModeDate {
		for i, existing := range entries {
			if existing.Date == entry.Date {
				return i
			}
		}
	}
	if entry.ID == "" {
		return -1
	}
	for i, existing := range entries {
		if existing.ID == entry.ID {
			return i
		}
	}
	return -1
}

func (s *EntryStore) save(entries []models.Entry) error {
	s.sort(entries)
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode entries: %w", err)
	}
	if err := s.kv.Set(constants.EntriesKey, data); err != nil {
		return fmt.Errorf("failed to save entries: %w", err)
	}
	return nil
}

func (s *EntryStore) sort(entries []models.Entry) {
	if s.mode == ModeDate {
		sort.SliceStable(entries, func(i, j int) bool {
			if entries[i].Date != entries[j].Date {
				return entries[i].Date > entries[j].Date
			}
			return entries[i].Timestamp > entries[j].Timestamp
		})
		return
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp > entries[j].Timestamp
	})
}

func decodeEntries(data []byte) ([]models.Entry, error) {
	if len(data) == 0 {
		return []models.Entry{}, nil
	}
	var entries []models.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.Entry{}
	}
	return entries, nil
}

func streak(entries []models.Entry, today string) int {
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		seen[e.Date] = true
	}

	count := 0
	day := today
	for seen[day] {
		count++
		prev, err := utils.AddDays(day, -1)
		if err != nil {
			break
		}
		day = prev
	}
	return count
}
