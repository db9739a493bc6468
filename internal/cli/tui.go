package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/micromind/internal/logger"
	"github.com/julianstephens/micromind/internal/storage"
	"github.com/julianstephens/micromind/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	// Perform automatic backup on TUI startup (storage is already loaded)
	ctx.PerformAutomaticBackup()

	watchCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := storage.Watch(watchCtx, ctx.Store); err != nil {
			logger.Warn("Stopped watching storage for outside changes", "error", err)
		}
	}()

	model := tui.NewModel(ctx.Entries, ctx.Settings, ctx.Store.Path(), ctx.Config.AutosaveDelay)
	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if m, ok := final.(tui.Model); ok {
		m.Close()
	} else {
		model.Close()
	}
	if err != nil {
		return fmt.Errorf("tui failed: %w", err)
	}
	return nil
}
