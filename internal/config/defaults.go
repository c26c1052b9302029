package config

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// DefaultConfig returns the configuration used when no file overrides it.
func DefaultConfig() *TaskerConfig {
	return &TaskerConfig{
		Store: StoreConfig{
			Backend: BackendJSON,
			Path:    "tasks.json",
		},
		Log: LogConfig{
			Level: "info",
		},
		List: ListConfig{
			DefaultOrder: "priority",
		},
	}
}
