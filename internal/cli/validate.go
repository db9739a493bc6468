package cli

import (
	"fmt"

	"github.com/julianstephens/micromind/internal/storage"
	"github.com/julianstephens/micromind/internal/validation"
)

type ValidateCmd struct{}

func (cmd *ValidateCmd) Run(ctx *Context) error {
	entries := ctx.Entries.Load()

	fmt.Printf("Validating %d entr%s...\n", len(entries), pluralY(len(entries)))
	v := validation.New(ctx.Entries.Mode() == storage.ModeDate)
	v.Now = ctx.Now
	result := v.ValidateEntries(entries)

	fmt.Println()
	fmt.Print(result.FormatReport())
	if !result.HasConflicts() {
		fmt.Println()
		return nil
	}
	return fmt.Errorf("validation found %d conflict(s)", len(result.Conflicts))
}
