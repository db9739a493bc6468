package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/micromind/internal/models"
)

func fixedNow() time.Time {
	return time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC)
}

func entry(id, date string) models.Entry {
	return models.Entry{ID: id, Date: date, Learned: "something", Timestamp: fixedNow().UnixMilli()}
}

func TestValidateEntries_Clean(t *testing.T) {
	v := New(true)
	v.Now = fixedNow

	result := v.ValidateEntries([]models.Entry{entry("a", "2024-01-01"), entry("b", "2024-01-02")})
	if result.HasConflicts() {
		t.Errorf("expected no conflicts, got:\n%s", result.FormatReport())
	}
	if result.FormatReport() != "No conflicts detected." {
		t.Errorf("unexpected report: %q", result.FormatReport())
	}
}

func TestValidateEntries_Conflicts(t *testing.T) {
	empty := entry("c", "2024-01-02")
	empty.Learned = " "
	future := entry("d", "2024-01-02")
	future.Timestamp = fixedNow().Add(72 * time.Hour).UnixMilli()

	entries := []models.Entry{
		entry("a", "2024-01-01"),
		entry("a", "2024-01-02"),
		entry("", "2024-01-03"),
		entry("b", "01/03/2024"),
		empty,
		future,
	}

	tests := []struct {
		name        string
		uniqueDates bool
		want        map[ConflictType]int
	}{
		{
			name: "id mode",
			want: map[ConflictType]int{
				ConflictDuplicateID:     1,
				ConflictMissingID:       1,
				ConflictInvalidDate:     1,
				ConflictEmptyEntry:      1,
				ConflictFutureTimestamp: 1,
				ConflictDuplicateDate:   0,
			},
		},
		{
			name:        "date mode",
			uniqueDates: true,
			want: map[ConflictType]int{
				ConflictDuplicateID:   1,
				ConflictDuplicateDate: 1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New(tt.uniqueDates)
			v.Now = fixedNow
			result := v.ValidateEntries(entries)

			for ct, want := range tt.want {
				if got := result.Count(ct); got != want {
					t.Errorf("%s: got %d conflicts, want %d", ct, got, want)
				}
			}
			if !strings.HasPrefix(result.FormatReport(), "Conflicts detected:\n") {
				t.Errorf("unexpected report: %q", result.FormatReport())
			}
		})
	}
}
