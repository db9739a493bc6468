package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"
	"github.com/dustin/go-humanize"

	"github.com/julianstephens/micromind/internal/constants"
	"github.com/julianstephens/micromind/internal/export"
	"github.com/julianstephens/micromind/internal/models"
	"github.com/julianstephens/micromind/internal/utils"
)

type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *Context) error {
	today := ctx.Today()
	entries := ctx.Entries.TodayEntries()

	fmt.Printf("%s\n\n", utils.LongDate(today))
	if len(entries) == 0 {
		fmt.Println("No reflection yet today. Use 'micromind write' or the TUI to add one.")
		return nil
	}
	for i, e := range entries {
		if i > 0 {
			fmt.Println()
		}
		printEntry(e)
	}
	return nil
}

type HistoryCmd struct {
	Limit int `help:"Show at most this many entries (0 for all)." default:"20"`
}

func (c *HistoryCmd) Run(ctx *Context) error {
	entries := ctx.Entries.Load()
	if len(entries) == 0 {
		fmt.Println("No entries yet.")
		return nil
	}

	shown := entries
	if c.Limit > 0 && len(shown) > c.Limit {
		shown = shown[:c.Limit]
	}

	today := ctx.Today()
	fmt.Printf("%d entr%s", len(entries), pluralY(len(entries)))
	if len(shown) < len(entries) {
		fmt.Printf(", showing the latest %d", len(shown))
	}
	fmt.Print("\n\n")
	for _, e := range shown {
		fmt.Printf("  %s  %-22s %s  (saved %s)\n",
			shortID(e.ID),
			utils.RelativeDay(e.Date, today),
			preview(e, 40),
			humanize.Time(e.SavedAt()),
		)
	}
	return nil
}

type ShowCmd struct {
	ID  string `arg:"" help:"Entry id or unique id prefix."`
	Raw bool   `help:"Print plain markdown without terminal styling."`
}

func (c *ShowCmd) Run(ctx *Context) error {
	id, err := ctx.resolveEntry(c.ID)
	if err != nil {
		return err
	}
	e, _ := ctx.Entries.Get(id)

	md := entryMarkdown(e)
	if c.Raw {
		fmt.Print(md)
		return nil
	}

	style := "light"
	if ctx.Settings.Load().DarkMode {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render entry: %w", err)
	}
	fmt.Print(out)
	return nil
}

type DeleteCmd struct {
	ID  string `arg:"" help:"Entry id or unique id prefix."`
	Yes bool   `help:"Skip confirmation." short:"y"`
}

func (c *DeleteCmd) Run(ctx *Context) error {
	id, err := ctx.resolveEntry(c.ID)
	if err != nil {
		return err
	}
	e, _ := ctx.Entries.Get(id)

	if !c.Yes {
		confirmed, err := confirm(
			fmt.Sprintf("Delete the entry from %s?", utils.LongDate(e.Date)),
			preview(e, 60),
			"Delete",
		)
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Delete cancelled.")
			return nil
		}
	}

	if err := ctx.Entries.Delete(id); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	fmt.Printf("✓ Deleted entry %s\n", shortID(id))
	return nil
}

type StreakCmd struct{}

func (c *StreakCmd) Run(ctx *Context) error {
	streak := ctx.Entries.Streak()
	if streak == 0 {
		fmt.Println("No current streak. Write today's reflection to start one.")
		return nil
	}
	fmt.Printf("🔥 %d day streak\n", streak)
	return nil
}

type StatsCmd struct{}

func (c *StatsCmd) Run(ctx *Context) error {
	stats := ctx.Entries.Stats()
	fmt.Println("Journal Stats:")
	fmt.Printf("  Total Entries:  %s\n", humanize.Comma(int64(stats.TotalEntries)))
	fmt.Printf("  This Month:     %s\n", humanize.Comma(int64(stats.ThisMonth)))
	fmt.Printf("  Total Words:    %s\n", humanize.Comma(int64(stats.TotalWords)))
	fmt.Printf("  Current Streak: %d day%s\n", stats.Streak, plural(stats.Streak))
	return nil
}

// confirm asks a yes/no question; aborting counts as no.
func confirm(title, description, affirmative string) (bool, error) {
	confirmed := false
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative(affirmative).
				Negative("Cancel").
				Value(&confirmed),
		),
	).WithTheme(huh.ThemeDracula()).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("confirmation failed: %w", err)
	}
	return confirmed, nil
}

func printEntry(e models.Entry) {
	fmt.Printf("[%s] saved %s\n", shortID(e.ID), humanize.Time(e.SavedAt()))
	fmt.Printf("  %s: %s\n", constants.LabelLearned, orDash(e.Learned))
	fmt.Printf("  %s: %s\n", constants.LabelQuestion, orDash(e.Question))
	fmt.Printf("  %s: %s\n", constants.LabelIdea, orDash(e.Idea))
}

// entryMarkdown renders a single entry the way the markdown export does.
func entryMarkdown(e models.Entry) string {
	doc := export.ToMarkdown([]models.Entry{e}, e.SavedAt())
	// drop the journal title and generated line
	if i := strings.Index(doc, "## "); i >= 0 {
		doc = doc[i:]
	}
	return strings.TrimSuffix(doc, "---\n\n")
}

// preview returns the first non-empty field, truncated to n runes.
func preview(e models.Entry, n int) string {
	text := e.Learned
	for _, field := range []string{e.Learned, e.Question, e.Idea} {
		if strings.TrimSpace(field) != "" {
			text = field
			break
		}
	}
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) > n {
		return string(runes[:n-1]) + "…"
	}
	return text
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
