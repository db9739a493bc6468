package models

// Settings holds the persisted user preferences
type Settings struct {
	DarkMode      bool   `json:"darkMode"`
	LastEntryDate string `json:"lastEntryDate"` // YYYY-MM-DD, empty until the first save
}

// DefaultSettings returns the settings used when nothing valid is persisted.
func DefaultSettings() Settings {
	return Settings{}
}

// Stats summarizes the journal for the history and settings views
type Stats struct {
	TotalEntries int `json:"total_entries"`
	ThisMonth    int `json:"this_month"`
	TotalWords   int `json:"total_words"`
	Streak       int `json:"streak"`
}
