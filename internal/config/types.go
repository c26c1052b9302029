package config

// StoreConfig selects where tasks are persisted.
type StoreConfig struct {
	Backend string `json:"backend" validate:"oneof=json sqlite"` // "json" document or "sqlite" database
	Path    string `json:"path" validate:"required"`             // File path of the document or database
}

// LogConfig controls the diagnostic log.
type LogConfig struct {
	Level string `json:"level" validate:"oneof=debug info warn error"`
	File  string `json:"file,omitempty"` // Empty logs to the front-end's fallback writer
}

// ListConfig holds listing preferences.
type ListConfig struct {
	DefaultOrder string `json:"default_order" validate:"oneof=priority due_date"`
}

// TaskerConfig is the top-level configuration.
type TaskerConfig struct {
	Store StoreConfig `json:"store"`
	Log   LogConfig   `json:"log"`
	List  ListConfig  `json:"list"`
}
