package events

import (
	"time"
)

// Event is the base interface for all events.
type Event interface {
	EventType() string
	TaskID() string
}

// TopicTask carries task lifecycle events.
const TopicTask = "task"

// Event type constants
const (
	EventTypeTaskAdded     = "task.added"
	EventTypeTaskCompleted = "task.completed"
)

// TaskAddedEvent is published after a new task has been persisted.
type TaskAddedEvent struct {
	ID           string
	Priority     int
	DueDate      string
	Dependencies []string
	Executable   bool // Whether the task could run immediately
	Timestamp    time.Time
}

func (e TaskAddedEvent) EventType() string { return EventTypeTaskAdded }
func (e TaskAddedEvent) TaskID() string    { return e.ID }

// TaskCompletedEvent is published after a completion has been persisted.
type TaskCompletedEvent struct {
	ID        string
	Unblocked []string // Pending tasks that became executable, by name
	Timestamp time.Time
}

func (e TaskCompletedEvent) EventType() string { return EventTypeTaskCompleted }
func (e TaskCompletedEvent) TaskID() string    { return e.ID }
