package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/julianstephens/micromind/internal/keyring"
	"github.com/julianstephens/micromind/internal/kv"
	"github.com/julianstephens/micromind/internal/kv/postgres"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil error", nil, ""},
		{"simple error", errors.New("storage not initialized"), "Error: storage not initialized"},
		{"wrapped error", fmt.Errorf("failed to load entries: %w", errors.New("disk full")), "Error: failed to load entries: disk full"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.err); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	got := Formatf("entry not found: %s", "abc")
	want := "Error: entry not found: abc"
	if got != want {
		t.Errorf("Formatf() = %q, want %q", got, want)
	}
}

func TestHint(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not initialized", fmt.Errorf("%w, run 'micromind init' first", kv.ErrNotInitialized), "micromind init"},
		{"embedded credentials", fmt.Errorf("bad url: %w", postgres.ErrEmbeddedCredentials), "keyring set"},
		{"keyring empty", keyring.ErrNotFound, "keyring set"},
		{"other", errors.New("disk full"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Hint(tt.err)
			if tt.want == "" && got != "" {
				t.Errorf("Hint() = %q, want none", got)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("Hint() = %q, want it to mention %q", got, tt.want)
			}
		})
	}
}

func TestFormatIncludesHint(t *testing.T) {
	err := fmt.Errorf("%w, run 'micromind init' first", kv.ErrNotInitialized)
	got := Format(err)
	if !strings.HasPrefix(got, "Error: storage not initialized") || !strings.Contains(got, "\nHint: ") {
		t.Errorf("Format() = %q", got)
	}
}
