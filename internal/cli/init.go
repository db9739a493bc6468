package cli

import (
	"fmt"
	"os"

	"github.com/julianstephens/micromind/internal/constants"
	"github.com/julianstephens/micromind/internal/kv"
	"github.com/julianstephens/micromind/internal/kv/sqlite"
)

type InitCmd struct {
	Force bool `help:"Delete existing file storage before initialization."`
}

func (c *InitCmd) Run(ctx *Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized %s storage at: %s\n", constants.AppName, ctx.Store.Path())
	return nil
}

// reset removes file-backed storage so Init starts from scratch.
func (c *InitCmd) reset(ctx *Context) error {
	switch ctx.Store.(type) {
	case *sqlite.Store, *kv.FileStore:
	default:
		return fmt.Errorf("--force is only supported for file storage")
	}

	path := ctx.Store.Path()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to access existing storage: %w", err)
	}

	// Close first to prevent file locking issues
	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close existing storage: %w", err)
	}
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete existing storage: %w", err)
		}
	}
	fmt.Printf("Deleted existing storage at: %s\n", path)
	return nil
}
