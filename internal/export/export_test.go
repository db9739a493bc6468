package export

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/micromind/internal/models"
)

var generatedAt = time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)

// sampleEntries is stored newest first, the way EntryStore returns them.
func sampleEntries() []models.Entry {
	return []models.Entry{
		{ID: "b", Date: "2024-01-03", Learned: "D", Question: "E", Idea: "", Timestamp: 2000},
		{ID: "a", Date: "2024-01-01", Learned: "A", Question: "B", Idea: "C", Timestamp: 1000},
	}
}

func TestToMarkdown(t *testing.T) {
	got := ToMarkdown(sampleEntries(), generatedAt)

	want := "# MicroMind Journal\n\n" +
		"Generated on 1/5/2024\n\n" +
		"## Monday, January 1, 2024\n\n" +
		"**What I learned:** A\n\n" +
		"**Question I have:** B\n\n" +
		"**Idea I thought about:** C\n\n" +
		"---\n\n" +
		"## Wednesday, January 3, 2024\n\n" +
		"**What I learned:** D\n\n" +
		"**Question I have:** E\n\n" +
		"**Idea I thought about:** \n\n" +
		"---\n\n"

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ToMarkdown() mismatch (-want +got):\n%s", diff)
	}
}

func TestToText(t *testing.T) {
	got := ToText(sampleEntries()[1:], generatedAt)

	want := "MicroMind Journal\n" +
		"================\n\n" +
		"Generated on 1/5/2024\n\n" +
		"Monday, January 1, 2024\n" +
		"-----------------------\n\n" +
		"What I learned: A\n\n" +
		"Question I have: B\n\n" +
		"Idea I thought about: C\n\n" +
		"\n"

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ToText() mismatch (-want +got):\n%s", diff)
	}
}

func TestEmptyCollection(t *testing.T) {
	md := ToMarkdown(nil, generatedAt)
	if md != "# MicroMind Journal\n\nGenerated on 1/5/2024\n\n" {
		t.Errorf("unexpected empty markdown: %q", md)
	}
	if strings.Contains(md, "##") {
		t.Error("empty markdown should have no entry sections")
	}

	txt := ToText([]models.Entry{}, generatedAt)
	if !strings.HasPrefix(txt, "MicroMind Journal\n") || strings.Contains(txt, "What I learned") {
		t.Errorf("unexpected empty text: %q", txt)
	}

	js, err := ToJSON(nil)
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	if js != "[]" {
		t.Errorf("ToJSON(nil) = %q, want []", js)
	}
}

func TestToJSONRoundTrip(t *testing.T) {
	entries := sampleEntries()
	out, err := ToJSON(entries)
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}

	var parsed []models.Entry
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	want := []models.Entry{entries[1], entries[0]}
	if diff := cmp.Diff(want, parsed); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(out, "\n  {\n    \"id\": \"a\"") {
		t.Errorf("expected two-space indentation, got:\n%s", out)
	}
}

func TestInputNotMutated(t *testing.T) {
	entries := sampleEntries()
	_ = ToMarkdown(entries, generatedAt)
	if entries[0].ID != "b" {
		t.Error("formatter reordered the caller's slice")
	}
}

func TestSameDayKeepsSaveOrder(t *testing.T) {
	entries := []models.Entry{
		{ID: "late", Date: "2024-01-01", Learned: "second", Timestamp: 2},
		{ID: "early", Date: "2024-01-01", Learned: "first", Timestamp: 1},
	}
	md := ToMarkdown(entries, generatedAt)
	if strings.Index(md, "first") > strings.Index(md, "second") {
		t.Error("expected same-day entries in save order")
	}
}

func TestRender(t *testing.T) {
	for _, f := range Formats {
		out, err := Render(f, sampleEntries(), generatedAt)
		if err != nil {
			t.Errorf("Render(%s) failed: %v", f, err)
		}
		if out == "" {
			t.Errorf("Render(%s) returned empty output", f)
		}
	}
	if _, err := Render(Format("pdf"), nil, generatedAt); err == nil {
		t.Error("expected an error for an unknown format")
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"json":     FormatJSON,
		"md":       FormatMarkdown,
		".md":      FormatMarkdown,
		"Markdown": FormatMarkdown,
		"txt":      FormatText,
		"text":     FormatText,
	}
	for in, want := range tests {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("pdf"); err == nil {
		t.Error("expected an error for pdf")
	}
}

func TestFilename(t *testing.T) {
	day := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	tests := map[Format]string{
		FormatJSON:     "micromind-journal-2024-01-03.json",
		FormatMarkdown: "micromind-journal-2024-01-03.md",
		FormatText:     "micromind-journal-2024-01-03.txt",
	}
	for f, want := range tests {
		if got := Filename(f, day); got != want {
			t.Errorf("Filename(%s) = %s, want %s", f, got, want)
		}
	}
}
