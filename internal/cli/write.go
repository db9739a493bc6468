package cli

import (
	"fmt"

	"github.com/julianstephens/micromind/internal/constants"
	"github.com/julianstephens/micromind/internal/logger"
	"github.com/julianstephens/micromind/internal/models"
	"github.com/julianstephens/micromind/internal/storage"
	"github.com/julianstephens/micromind/internal/utils"
)

type WriteCmd struct {
	Learned  *string `help:"What I learned." short:"l"`
	Question *string `help:"Question I have." short:"q"`
	Idea     *string `help:"Idea I thought about." short:"i"`
	Date     string  `help:"Day of the reflection (YYYY-MM-DD, default today)."`
	New      bool    `help:"Start a new entry instead of continuing today's latest one (id mode only)."`
}

func (c *WriteCmd) Run(ctx *Context) error {
	if c.Learned == nil && c.Question == nil && c.Idea == nil {
		return fmt.Errorf("nothing to write: pass --learned, --question or --idea")
	}

	entry, err := c.draft(ctx)
	if err != nil {
		return err
	}
	if c.Learned != nil {
		entry.Learned = *c.Learned
	}
	if c.Question != nil {
		entry.Question = *c.Question
	}
	if c.Idea != nil {
		entry.Idea = *c.Idea
	}

	saved, ok, err := ctx.Entries.Upsert(entry)
	if err != nil {
		return fmt.Errorf("failed to save entry: %w", err)
	}
	if !ok {
		fmt.Println("Entry is empty, nothing saved.")
		return nil
	}

	if _, err := ctx.Settings.SetLastEntryDate(saved.Date); err != nil {
		logger.Warn("Failed to record last entry date", "error", err)
	}

	fmt.Printf("✓ Saved entry %s for %s\n", shortID(saved.ID), utils.LongDate(saved.Date))
	if streak := ctx.Entries.Streak(); streak > 0 {
		fmt.Printf("  Streak: %d day%s\n", streak, plural(streak))
	}
	return nil
}

// draft picks the entry the flags are applied to: the stored entry for the
// day when continuing, otherwise a fresh one.
func (c *WriteCmd) draft(ctx *Context) (models.Entry, error) {
	date := ctx.Today()
	if c.Date != "" {
		if !utils.ValidateDate(c.Date) {
			return models.Entry{}, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", c.Date)
		}
		date = c.Date
	}

	if c.New && ctx.Entries.Mode() == storage.ModeDate {
		return models.Entry{}, fmt.Errorf("--new is not available in %q entry mode", constants.EntryModeDate)
	}

	if !c.New {
		for _, e := range ctx.Entries.Load() {
			if e.Date == date {
				return e, nil
			}
		}
	}
	if date == ctx.Today() {
		return ctx.Entries.CurrentDraft(), nil
	}
	return models.NewEntry(date, ctx.Now()), nil
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
