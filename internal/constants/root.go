package constants

import "time"

const (
	AppName            = "micromind"
	DisplayName        = "MicroMind"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/micromind"
	DefaultStoragePath = "~/.config/micromind/micromind.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// LongDateFormat renders a date as "Monday, January 1, 2024"
	LongDateFormat = "Monday, January 2, 2006"

	// ShortDateFormat matches the en-US numeric date, e.g. "1/3/2024"
	ShortDateFormat = "1/2/2006"

	// Key-value records
	EntriesKey  = "micromind-entries"
	SettingsKey = "micromind-settings"

	// Entry modes
	EntryModeID   = "id"
	EntryModeDate = "date"

	// Reflection prompt labels
	LabelLearned  = "What I learned"
	LabelQuestion = "Question I have"
	LabelIdea     = "Idea I thought about"

	// PostgresStorage as the storage value reads the connection string from
	// EnvDBConnection or the OS keyring
	PostgresStorage = "postgres"
	EnvDBConnection = "MICROMIND_DB_CONNECTION"

	// Export constants
	ExportFilePrefix = "micromind-journal-"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "micromind-"

	// Log rotation
	LogMaxSizeMB  = 10
	LogMaxBackups = 3
	LogMaxAgeDays = 28

	// Auto-save
	DefaultAutosaveDelay = time.Second
)
