package main

import (
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/micromind/internal/cli"
	"github.com/julianstephens/micromind/internal/config"
	"github.com/julianstephens/micromind/internal/constants"
	"github.com/julianstephens/micromind/internal/errors"
	"github.com/julianstephens/micromind/internal/logger"
	"github.com/julianstephens/micromind/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path (default ~/.config/micromind/config.yaml)." type:"path"`
	Storage string `help:"Storage: a .db or .json file path, :memory:, postgres, or a postgres:// URL without a password."`
	Mode     string `help:"Entry mode: id (several entries per day) or date (one entry per day)."`
	DebugLog bool   `name:"debug" help:"Enable debug logging to stderr."`

	Init     cli.InitCmd     `cmd:"" help:"Initialize micromind storage."`
	Tui      cli.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Write    cli.WriteCmd    `cmd:"" help:"Write or update a reflection."`
	Today    cli.TodayCmd    `cmd:"" help:"Show today's entries."`
	History  cli.HistoryCmd  `cmd:"" help:"List past entries."`
	Show     cli.ShowCmd     `cmd:"" help:"Show one entry."`
	Delete   cli.DeleteCmd   `cmd:"" help:"Delete an entry."`
	Streak   cli.StreakCmd   `cmd:"" help:"Show the current streak."`
	Stats    cli.StatsCmd    `cmd:"" help:"Show journal statistics."`
	Export   cli.ExportCmd   `cmd:"" help:"Export the journal."`
	Settings cli.SettingsCmd `cmd:"" help:"View or change settings."`
	Validate cli.ValidateCmd `cmd:"" help:"Check stored entries for conflicts."`
	Doctor   cli.DoctorCmd   `cmd:"" help:"Run health checks."`
	Debug    cli.DebugCmd    `cmd:"" help:"Inspect raw storage."`
	Backup   struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a backup now."`
		List    cli.BackupListCmd    `cmd:"" help:"List backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore a backup."`
	} `cmd:"" help:"Manage backups."`
	Keyring struct {
		Set    cli.KeyringSetCmd    `cmd:"" help:"Store the PostgreSQL connection string in the OS keyring."`
		Get    cli.KeyringGetCmd    `cmd:"" help:"Show the stored connection string (password masked)."`
		Delete cli.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status cli.KeyringStatusCmd `cmd:"" help:"Show keyring availability."`
	} `cmd:"" help:"Manage the database connection string in the OS keyring."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("A tiny daily reflection journal: one thing learned, one question, one idea."),
		kong.UsageOnError(),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := config.Load(CLI.Config, constants.DefaultConfigDir)
	if err != nil {
		errors.Fatal(err)
	}
	if err := cfg.Apply(CLI.Storage, CLI.Mode, CLI.DebugLog); err != nil {
		errors.Fatal(err)
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: cfg.ConfigDir()}); err != nil {
		errors.Fatalf("failed to initialize logger: %v", err)
	}

	command := kctx.Command()
	appCtx := &cli.Context{Config: cfg, Now: time.Now}
	var store storage.Provider

	// Keyring commands manage the credentials storage is opened with.
	if !strings.HasPrefix(command, "keyring") {
		store, err = cli.OpenStorage(cfg.Storage)
		if err != nil {
			errors.Fatal(err)
		}

		// init creates storage and doctor reports on it, so neither requires it loaded
		if command != "init" && command != "doctor" {
			if err := store.Load(); err != nil {
				store.Close()
				errors.Fatal(err)
			}
		}

		appCtx, err = cli.NewContext(cfg, store)
		if err != nil {
			store.Close()
			errors.Fatal(err)
		}
	}

	logger.Debug("Running command", "command", command, "storage", cfg.Storage)
	err = kctx.Run(appCtx)
	if store != nil {
		if cerr := store.Close(); cerr != nil {
			logger.Warn("Failed to close storage", "error", cerr)
		}
	}
	if err != nil {
		errors.Fatal(err)
	}
	logger.Close()
}
