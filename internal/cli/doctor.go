package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/micromind/internal/constants"
	"github.com/julianstephens/micromind/internal/kv"
	"github.com/julianstephens/micromind/internal/models"
	"github.com/julianstephens/micromind/internal/storage"
	"github.com/julianstephens/micromind/internal/validation"
)

// schemaVersioner is implemented by the SQL backends
type schemaVersioner interface {
	SchemaVersion() (current, latest int, err error)
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	report := func(name string, err error, warnOnly bool) {
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", name)
		case warnOnly:
			fmt.Printf("⚠ %s: WARNING\n", name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}
	skip := func(name string) {
		fmt.Printf("⊘ %s: SKIPPED (storage not reachable)\n", name)
	}

	reachable := checkStorageReachable(ctx)
	report("Storage reachable", reachable, false)

	if reachable == nil {
		report("Schema version", checkSchemaVersion(ctx), false)
		report("Entries record", checkRecord(ctx.Store, constants.EntriesKey, &[]models.Entry{}), false)
		report("Settings record", checkRecord(ctx.Store, constants.SettingsKey, &models.Settings{}), false)
		report("Data validation", checkValidation(ctx), false)
	} else {
		skip("Schema version")
		skip("Entries record")
		skip("Settings record")
		skip("Data validation")
	}

	if ctx.BackupManager() != nil {
		report("Backups present", checkBackupsPresent(ctx), true)
	}
	report("Clock/timezone", checkClockTimezone(ctx), false)

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkStorageReachable(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	if _, err := ctx.Store.Get(constants.EntriesKey); err != nil && !errors.Is(err, kv.ErrNotFound) {
		return fmt.Errorf("failed to read storage: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *Context) error {
	sv, ok := ctx.Store.(schemaVersioner)
	if !ok {
		// Document stores have no schema
		return nil
	}
	current, latest, err := sv.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current < latest {
		return fmt.Errorf("schema version %d is behind %d, run '%s init' to migrate", current, latest, constants.AppName)
	}
	if current > latest {
		return fmt.Errorf("schema version %d is newer than this binary supports (%d)", current, latest)
	}
	return nil
}

// checkRecord reports records that would silently load as empty or default.
func checkRecord(store kv.Store, key string, into any) error {
	data, err := store.Get(key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, into); err != nil {
		return fmt.Errorf("%s is unparseable and will be treated as empty: %w", key, err)
	}
	return nil
}

func checkValidation(ctx *Context) error {
	v := validation.New(ctx.Entries.Mode() == storage.ModeDate)
	v.Now = ctx.Now
	result := v.ValidateEntries(ctx.Entries.Load())
	if result.HasConflicts() {
		return fmt.Errorf("%d conflict(s) found, run '%s validate' for details", len(result.Conflicts), constants.AppName)
	}
	return nil
}

func checkBackupsPresent(ctx *Context) error {
	backups, err := ctx.BackupManager().ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with '%s backup create'", constants.AppName)
	}
	return nil
}

func checkClockTimezone(ctx *Context) error {
	now := ctx.Now()

	// Check if time is in a reasonable range (after 2020 and before 2100)
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}

	loc := ctx.Config.Location()
	if loc == time.UTC {
		fmt.Printf("   Note: timezone is UTC, \"today\" follows UTC midnight\n")
	}
	return nil
}
