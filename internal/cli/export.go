package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/micromind/internal/export"
	"github.com/julianstephens/micromind/internal/logger"
)

type ExportCmd struct {
	Format string `help:"Export format (json, markdown, text)." default:"markdown" short:"f"`
	Out    string `help:"Directory to write the export to." default:"." type:"path" short:"o"`
	Stdout bool   `help:"Print the document instead of writing a file."`
}

func (c *ExportCmd) Run(ctx *Context) error {
	format, err := export.ParseFormat(c.Format)
	if err != nil {
		return err
	}

	now := ctx.Now()
	entries := ctx.Entries.Load()
	doc, err := export.Render(format, entries, now)
	if err != nil {
		return err
	}

	if c.Stdout {
		fmt.Print(doc)
		return nil
	}

	path, err := writeExport(c.Out, export.Filename(format, now), doc)
	if err != nil {
		return err
	}
	logger.Info("Exported journal", "format", format, "entries", len(entries), "path", path)
	fmt.Printf("✓ Exported %d entr%s to %s\n", len(entries), pluralY(len(entries)), path)
	return nil
}

// writeExport writes doc to dir/name, creating dir if needed.
func writeExport(dir, name, doc string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return path, nil
}
