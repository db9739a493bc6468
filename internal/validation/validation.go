package validation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/micromind/internal/models"
	"github.com/julianstephens/micromind/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictMissingID       ConflictType = "missing_id"
	ConflictDuplicateID     ConflictType = "duplicate_id"
	ConflictDuplicateDate   ConflictType = "duplicate_date"
	ConflictInvalidDate     ConflictType = "invalid_date"
	ConflictEmptyEntry      ConflictType = "empty_entry"
	ConflictFutureTimestamp ConflictType = "future_timestamp"
)

// Conflict represents a problem found in the stored journal
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string   // YYYY-MM-DD format (if applicable)
	EntryIDs    []string // IDs of entries involved
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Count returns how many conflicts of type ct were found.
func (vr *ValidationResult) Count(ct ConflictType) int {
	n := 0
	for _, c := range vr.Conflicts {
		if c.Type == ct {
			n++
		}
	}
	return n
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

// Validator checks an entry collection for records the store would never write.
type Validator struct {
	// UniqueDates flags several entries on one day, which date mode forbids.
	UniqueDates bool
	// Now bounds timestamps; entries saved in the future are reported.
	Now func() time.Time
}

// New creates a new Validator
func New(uniqueDates bool) *Validator {
	return &Validator{UniqueDates: uniqueDates, Now: time.Now}
}

// ValidateEntries checks entries for conflicts
func (v *Validator) ValidateEntries(entries []models.Entry) ValidationResult {
	var result ValidationResult

	byID := make(map[string][]string)
	byDate := make(map[string][]string)
	// allow for small clock differences between writers
	limit := v.Now().Add(24 * time.Hour).UnixMilli()

	for _, e := range entries {
		if e.ID == "" {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictMissingID,
				Description: fmt.Sprintf("Entry dated %s has no id", e.Date),
				Date:        e.Date,
			})
		} else {
			byID[e.ID] = append(byID[e.ID], e.Date)
		}

		if !utils.ValidateDate(e.Date) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidDate,
				Description: fmt.Sprintf("Entry %s has invalid date %q (expected YYYY-MM-DD)", e.ID, e.Date),
				Date:        e.Date,
				EntryIDs:    []string{e.ID},
			})
		} else {
			byDate[e.Date] = append(byDate[e.Date], e.ID)
		}

		if !e.HasContent() {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictEmptyEntry,
				Description: fmt.Sprintf("Entry %s on %s has no content", e.ID, e.Date),
				Date:        e.Date,
				EntryIDs:    []string{e.ID},
			})
		}

		if e.Timestamp > limit {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictFutureTimestamp,
				Description: fmt.Sprintf("Entry %s was saved in the future (%s)", e.ID, e.SavedAt().Format(time.RFC3339)),
				Date:        e.Date,
				EntryIDs:    []string{e.ID},
			})
		}
	}

	for _, id := range sortedKeys(byID) {
		if dates := byID[id]; len(dates) > 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateID,
				Description: fmt.Sprintf("Id %s is used by %d entries (%s)", id, len(dates), strings.Join(dates, ", ")),
				EntryIDs:    []string{id},
			})
		}
	}

	if v.UniqueDates {
		for _, date := range sortedKeys(byDate) {
			if ids := byDate[date]; len(ids) > 1 {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictDuplicateDate,
					Description: fmt.Sprintf("%s has %d entries but only one is allowed per day", date, len(ids)),
					Date:        date,
					EntryIDs:    ids,
				})
			}
		}
	}

	return result
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
