package scheduler

import (
	"fmt"
	"time"
)

// DateLayout is the canonical due date format.
const DateLayout = "2006-01-02"

// TaskStatus is the derived state of a task.
// Only TaskCompleted is stored; the two pending states are recomputed
// from the completion state of dependencies on every query.
type TaskStatus int

const (
	TaskBlocked    TaskStatus = iota // Pending with at least one incomplete dependency
	TaskExecutable                   // Pending with every dependency completed
	TaskCompleted                    // Terminal
)

func (s TaskStatus) String() string {
	switch s {
	case TaskBlocked:
		return "blocked"
	case TaskExecutable:
		return "executable"
	case TaskCompleted:
		return "completed"
	}
	return fmt.Sprintf("TaskStatus(%d)", int(s))
}

// Task is one named unit of work.
type Task struct {
	Name         string   // Unique key within a registry
	Priority     int      // Lower value is more important
	DueDate      string   // YYYY-MM-DD
	Dependencies []string // Names of tasks that must complete first
	Completed    bool
}

// IsExecutable reports whether every dependency of t is a completed task in
// tasks. Dependencies missing from tasks count as incomplete.
func (t *Task) IsExecutable(tasks map[string]*Task) bool {
	for _, name := range t.Dependencies {
		dep, ok := tasks[name]
		if !ok || !dep.Completed {
			return false
		}
	}
	return true
}

// Status returns the task's current state against tasks.
func (t *Task) Status(tasks map[string]*Task) TaskStatus {
	if t.Completed {
		return TaskCompleted
	}
	if t.IsExecutable(tasks) {
		return TaskExecutable
	}
	return TaskBlocked
}

// Due parses the due date.
func (t *Task) Due() (time.Time, error) {
	due, err := time.Parse(DateLayout, t.DueDate)
	if err != nil {
		return time.Time{}, &TaskError{
			Kind:   ErrMalformedDate,
			Task:   t.Name,
			Detail: fmt.Sprintf("due date %q is not a YYYY-MM-DD date", t.DueDate),
		}
	}
	return due, nil
}

// ValidateDate reports ErrMalformedDate unless s is a YYYY-MM-DD date.
// Add stores due dates as given; front-ends call this on user input.
func ValidateDate(s string) error {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return &TaskError{
			Kind:   ErrMalformedDate,
			Detail: fmt.Sprintf("due date %q is not a YYYY-MM-DD date", s),
		}
	}
	return nil
}

// Record is the persisted form of a task.
type Record struct {
	Name         string   `json:"name"`
	Priority     int      `json:"priority"`
	DueDate      string   `json:"due_date"`
	Dependencies []string `json:"dependencies"`
	Completed    bool     `json:"completed"`
}

// Document is the persisted registry: task name -> record.
type Document map[string]Record

// Record converts t to its persisted form.
func (t *Task) Record() Record {
	deps := make([]string, len(t.Dependencies))
	copy(deps, t.Dependencies)
	return Record{
		Name:         t.Name,
		Priority:     t.Priority,
		DueDate:      t.DueDate,
		Dependencies: deps,
		Completed:    t.Completed,
	}
}

// TaskFromRecord rebuilds a task from its persisted form.
// A record decoded without a completed field yields a pending task.
func TaskFromRecord(r Record) *Task {
	var deps []string
	if len(r.Dependencies) > 0 {
		deps = append([]string(nil), r.Dependencies...)
	}
	return &Task{
		Name:         r.Name,
		Priority:     r.Priority,
		DueDate:      r.DueDate,
		Dependencies: deps,
		Completed:    r.Completed,
	}
}

func cloneTask(task *Task) *Task {
	if task == nil {
		return nil
	}

	cp := *task
	if task.Dependencies != nil {
		cp.Dependencies = append([]string(nil), task.Dependencies...)
	}
	return &cp
}
