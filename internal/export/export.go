// Package export renders journal entries as JSON, Markdown or plain text.
//
// All functions are pure: they never touch the clock or the filesystem, and
// they sort a copy of their input oldest first.
package export

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/micromind/internal/constants"
	"github.com/julianstephens/micromind/internal/models"
	"github.com/julianstephens/micromind/internal/utils"
)

// Format names an export document type.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
)

// Formats lists the supported formats in menu order.
var Formats = []Format{FormatJSON, FormatMarkdown, FormatText}

// ParseFormat accepts a format name or its file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "text", "txt":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown export format %q (expected json, markdown or text)", s)
	}
}

// Extension returns the file extension for f, without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return "md"
	case FormatText:
		return "txt"
	default:
		return "json"
	}
}

// Filename returns the download name for an export produced on day.
func Filename(f Format, day time.Time) string {
	return constants.ExportFilePrefix + day.Format(constants.DateFormat) + "." + f.Extension()
}

// Render produces the document for f.
func Render(f Format, entries []models.Entry, generatedAt time.Time) (string, error) {
	switch f {
	case FormatJSON:
		return ToJSON(entries)
	case FormatMarkdown:
		return ToMarkdown(entries, generatedAt), nil
	case FormatText:
		return ToText(entries, generatedAt), nil
	default:
		return "", fmt.Errorf("unknown export format %q", f)
	}
}

// ToJSON serializes the entries as an indented JSON array.
func ToJSON(entries []models.Entry) (string, error) {
	data, err := json.MarshalIndent(sorted(entries), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode entries: %w", err)
	}
	return string(data), nil
}

// ToMarkdown renders one section per entry under a "# MicroMind Journal" title.
func ToMarkdown(entries []models.Entry, generatedAt time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s Journal\n\n", constants.DisplayName)
	fmt.Fprintf(&b, "Generated on %s\n\n", generatedAt.Format(constants.ShortDateFormat))

	for _, e := range sorted(entries) {
		fmt.Fprintf(&b, "## %s\n\n", utils.LongDate(e.Date))
		fmt.Fprintf(&b, "**%s:** %s\n\n", constants.LabelLearned, e.Learned)
		fmt.Fprintf(&b, "**%s:** %s\n\n", constants.LabelQuestion, e.Question)
		fmt.Fprintf(&b, "**%s:** %s\n\n", constants.LabelIdea, e.Idea)
		b.WriteString("---\n\n")
	}
	return b.String()
}

// ToText renders the same content as ToMarkdown without markup.
func ToText(entries []models.Entry, generatedAt time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s Journal\n", constants.DisplayName)
	b.WriteString("================\n\n")
	fmt.Fprintf(&b, "Generated on %s\n\n", generatedAt.Format(constants.ShortDateFormat))

	for _, e := range sorted(entries) {
		date := utils.LongDate(e.Date)
		fmt.Fprintf(&b, "%s\n", date)
		fmt.Fprintf(&b, "%s\n\n", strings.Repeat("-", len(date)))
		fmt.Fprintf(&b, "%s: %s\n\n", constants.LabelLearned, e.Learned)
		fmt.Fprintf(&b, "%s: %s\n\n", constants.LabelQuestion, e.Question)
		fmt.Fprintf(&b, "%s: %s\n\n", constants.LabelIdea, e.Idea)
		b.WriteString("\n")
	}
	return b.String()
}

// sorted returns a copy of entries ordered by date, oldest first. Entries on
// the same day keep save order.
func sorted(entries []models.Entry) []models.Entry {
	out := make([]models.Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Timestamp < out[j].Timestamp
	})
	return out
}
