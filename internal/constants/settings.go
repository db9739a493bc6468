package constants

const (
	// Config keys (config.yaml / MICROMIND_* env)
	ConfigStorage       = "storage"
	ConfigEntryMode     = "entry_mode"
	ConfigTimezone      = "timezone"
	ConfigAutosaveDelay = "autosave_delay"
	ConfigDebug         = "debug"

	// Default config values
	DefaultEntryMode = EntryModeID
	DefaultTimezone  = "Local" // Use system local timezone by default
)
