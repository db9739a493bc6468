package cli

import (
	"fmt"

	"github.com/julianstephens/micromind/internal/logger"
	"github.com/julianstephens/micromind/internal/utils"
)

type SettingsCmd struct {
	List           bool  `help:"List current settings."`
	DarkMode       *bool `help:"Enable or disable dark mode."`
	ToggleDarkMode bool  `help:"Flip dark mode."`
}

func (c *SettingsCmd) Run(ctx *Context) error {
	if c.DarkMode != nil && c.ToggleDarkMode {
		return fmt.Errorf("--dark-mode and --toggle-dark-mode cannot be combined")
	}

	settings := ctx.Settings.Load()

	if c.List {
		lastEntry := "never"
		if settings.LastEntryDate != "" {
			lastEntry = utils.LongDate(settings.LastEntryDate)
		}
		fmt.Println("Current Settings:")
		fmt.Printf("  Dark Mode:       %v\n", settings.DarkMode)
		fmt.Printf("  Last Entry:      %s\n", lastEntry)
		fmt.Println("\nConfiguration:")
		fmt.Printf("  Storage:         %s\n", ctx.Store.Path())
		fmt.Printf("  Entry Mode:      %s\n", ctx.Entries.Mode())
		fmt.Printf("  Timezone:        %s\n", ctx.Config.Timezone)
		fmt.Printf("  Autosave Delay:  %s\n", ctx.Config.AutosaveDelay)
		fmt.Printf("  Log File:        %s\n", logger.Path(ctx.Config.ConfigDir()))
		return nil
	}

	switch {
	case c.ToggleDarkMode:
		updated, err := ctx.Settings.ToggleDarkMode()
		if err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		fmt.Printf("Dark mode %s.\n", onOff(updated.DarkMode))
	case c.DarkMode != nil:
		settings.DarkMode = *c.DarkMode
		if err := ctx.Settings.Save(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		fmt.Printf("Dark mode %s.\n", onOff(settings.DarkMode))
	default:
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
	}
	return nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
