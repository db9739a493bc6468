package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/micromind/internal/backup"
	"github.com/julianstephens/micromind/internal/config"
	"github.com/julianstephens/micromind/internal/constants"
	"github.com/julianstephens/micromind/internal/keyring"
	"github.com/julianstephens/micromind/internal/kv"
	"github.com/julianstephens/micromind/internal/kv/postgres"
	"github.com/julianstephens/micromind/internal/kv/sqlite"
	"github.com/julianstephens/micromind/internal/logger"
	"github.com/julianstephens/micromind/internal/storage"
)

type Context struct {
	Config   *config.Config
	Store    storage.Provider
	Entries  *storage.EntryStore
	Settings *storage.SettingsStore
	Now      func() time.Time
}

// NewContext wires the entry and settings stores over store.
func NewContext(cfg *config.Config, store storage.Provider) (*Context, error) {
	mode, err := storage.ParseMode(cfg.EntryMode)
	if err != nil {
		return nil, err
	}
	ctx := &Context{
		Config: cfg,
		Store:  store,
		Now:    time.Now,
	}
	ctx.Entries = storage.NewEntryStore(store,
		storage.WithMode(mode),
		storage.WithLocation(cfg.Location()),
		storage.WithClock(func() time.Time { return ctx.Now() }),
	)
	ctx.Settings = storage.NewSettingsStore(store)
	return ctx, nil
}

// OpenStorage resolves the configured storage value to a backend.
//
// The literal "postgres" takes the connection string from
// MICROMIND_DB_CONNECTION or, failing that, the OS keyring. Those sources may
// carry a password; a connection string given directly may not.
func OpenStorage(value string) (storage.Provider, error) {
	if value != constants.PostgresStorage {
		return storage.Open(value)
	}

	if connStr := os.Getenv(constants.EnvDBConnection); connStr != "" {
		logger.Debug("Using connection string from environment")
		return postgres.New(connStr), nil
	}

	connStr, err := keyring.GetConnectionString()
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, fmt.Errorf("no PostgreSQL connection string found: set %s or run '%s keyring set'", constants.EnvDBConnection, constants.AppName)
	}
	if err != nil {
		return nil, err
	}
	logger.Debug("Using connection string from keyring")
	return postgres.New(connStr), nil
}

// Today returns the current date in the configured timezone.
func (c *Context) Today() string {
	return c.Entries.Today()
}

// BackupManager returns the backup manager for file-backed storage, or nil.
func (c *Context) BackupManager() *backup.Manager {
	switch c.Store.(type) {
	case *sqlite.Store, *kv.FileStore:
		return backup.NewManager(c.Store.Path())
	default:
		return nil
	}
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	mgr := c.BackupManager()
	if mgr == nil {
		return
	}
	if _, err := mgr.CreateBackup(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// resolveEntry finds an entry by full id or unique id prefix.
func (c *Context) resolveEntry(id string) (string, error) {
	if _, ok := c.Entries.Get(id); ok {
		return id, nil
	}

	var matches []string
	for _, e := range c.Entries.Load() {
		if strings.HasPrefix(e.ID, id) {
			matches = append(matches, e.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("entry not found: %s", id)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("id prefix %q is ambiguous (%d entries match)", id, len(matches))
	}
}

// shortID abbreviates an id for listings.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
