package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/aristath/tasker/internal/scheduler"
)

// Save replaces the stored tasks with doc in a single transaction.
func (s *SQLiteStore) Save(ctx context.Context, doc scheduler.Document) error {
	// Begin transaction with serializable isolation (BEGIN IMMEDIATE)
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Dependencies go with their task via ON DELETE CASCADE
	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("failed to clear tasks: %w", err)
	}

	names := make([]string, 0, len(doc))
	for name := range doc {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		rec := doc[name]
		_, err = tx.ExecContext(ctx, `
			INSERT INTO tasks (name, priority, due_date, completed, updated_at)
			VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		`, name, rec.Priority, rec.DueDate, rec.Completed)
		if err != nil {
			return fmt.Errorf("failed to insert task %s: %w", name, err)
		}

		for i, dep := range rec.Dependencies {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO task_dependencies (task_name, depends_on, position)
				VALUES (?, ?, ?)
			`, name, dep, i)
			if err != nil {
				return fmt.Errorf("failed to insert dependency %s -> %s: %w", name, dep, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Load returns every stored task keyed by name.
func (s *SQLiteStore) Load(ctx context.Context) (scheduler.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, priority, due_date, completed
		FROM tasks
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}

	doc := scheduler.Document{}
	for rows.Next() {
		var rec scheduler.Record
		if err := rows.Scan(&rec.Name, &rec.Priority, &rec.DueDate, &rec.Completed); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		rec.Dependencies = []string{}
		doc[rec.Name] = rec
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}
	rows.Close()

	// Dependencies are read in a second pass; the store holds one connection.
	depRows, err := s.db.QueryContext(ctx, `
		SELECT task_name, depends_on
		FROM task_dependencies
		ORDER BY task_name, position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query dependencies: %w", err)
	}
	defer depRows.Close()

	for depRows.Next() {
		var name, dep string
		if err := depRows.Scan(&name, &dep); err != nil {
			return nil, fmt.Errorf("failed to scan dependency: %w", err)
		}
		rec, ok := doc[name]
		if !ok {
			continue
		}
		rec.Dependencies = append(rec.Dependencies, dep)
		doc[name] = rec
	}
	if err := depRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dependencies: %w", err)
	}

	return doc, nil
}
