package scheduler

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument           = errors.New("invalid argument")
	ErrDuplicateName             = errors.New("duplicate task name")
	ErrUnknownDependency         = errors.New("unknown dependency")
	ErrNotFoundOrAlreadyComplete = errors.New("task not found or already completed")
	ErrMalformedDate             = errors.New("malformed date")
)

// TaskError is a registry validation failure. Kind is one of the Err*
// sentinels above and is matched with errors.Is.
type TaskError struct {
	Kind   error
	Task   string // Task the operation targeted, if any
	Detail string
}

func (e *TaskError) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Kind.Error()
	if e.Task != "" {
		msg = fmt.Sprintf("%s: %q", msg, e.Task)
	}
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	return msg
}

func (e *TaskError) Unwrap() error { return e.Kind }

func invalidf(format string, args ...any) error {
	return &TaskError{Kind: ErrInvalidArgument, Detail: fmt.Sprintf(format, args...)}
}
