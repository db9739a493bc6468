package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/micromind/internal/constants"
	"github.com/julianstephens/micromind/internal/kv"
)

type DebugCmd struct {
	DBPath       DebugDBPathCmd       `cmd:"" help:"Show storage path."`
	DumpEntries  DebugDumpEntriesCmd  `cmd:"" help:"Dump the raw entries record."`
	DumpSettings DebugDumpSettingsCmd `cmd:"" help:"Dump the raw settings record."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *Context) error {
	// Output in machine-readable format
	output := map[string]string{
		"path": ctx.Store.Path(),
		"mode": string(ctx.Entries.Mode()),
	}

	jsonBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	fmt.Println(string(jsonBytes))
	return nil
}

type DebugDumpEntriesCmd struct{}

func (cmd *DebugDumpEntriesCmd) Run(ctx *Context) error {
	return dumpRecord(ctx, constants.EntriesKey)
}

type DebugDumpSettingsCmd struct{}

func (cmd *DebugDumpSettingsCmd) Run(ctx *Context) error {
	return dumpRecord(ctx, constants.SettingsKey)
}

// dumpRecord prints a record as stored, pretty-printed when it is valid JSON.
func dumpRecord(ctx *Context, key string) error {
	data, err := ctx.Store.Get(key)
	if errors.Is(err, kv.ErrNotFound) {
		return fmt.Errorf("no %s record stored yet", key)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		fmt.Println(string(data))
		return nil
	}
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(jsonBytes))
	return nil
}
