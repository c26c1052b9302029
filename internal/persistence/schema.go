package persistence

import (
	"context"
)

// initSchema creates all required tables if they don't exist.
// position preserves the order dependencies were declared in.
func (s *SQLiteStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS tasks (
		name TEXT PRIMARY KEY,
		priority INTEGER NOT NULL,
		due_date TEXT NOT NULL,
		completed INTEGER NOT NULL DEFAULT 0,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS task_dependencies (
		task_name TEXT NOT NULL,
		depends_on TEXT NOT NULL,
		position INTEGER NOT NULL,
		PRIMARY KEY (task_name, depends_on),
		FOREIGN KEY (task_name) REFERENCES tasks(name) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_task_dependencies_task_name ON task_dependencies(task_name);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}
