package tui

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/aristath/tasker/internal/scheduler"
)

// addFormValues backs the add form fields. It lives behind a pointer so
// the bindings survive copies of the model.
type addFormValues struct {
	name     string
	priority string
	dueDate  string
	deps     string
}

// input converts the form values into registry input.
func (v *addFormValues) input() scheduler.TaskInput {
	return scheduler.TaskInput{
		Name:         v.name,
		Priority:     v.priority,
		DueDate:      v.dueDate,
		Dependencies: scheduler.SplitDependencies(v.deps),
	}
}

type completeFormValues struct {
	name string
}

// newAddForm builds the form for a new task. Only the date layout is checked
// here; everything else is left to the registry so its errors reach the
// status bar in their usual order.
func newAddForm(v *addFormValues, known []string) *huh.Form {
	depsDesc := "Comma-separated task names"
	if len(known) > 0 {
		depsDesc += " (" + strings.Join(known, ", ") + ")"
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&v.name),
			huh.NewInput().
				Title("Priority").
				Description("Integer; lower is more important").
				Placeholder("0").
				Value(&v.priority),
			huh.NewInput().
				Title("Due date").
				Description("YYYY-MM-DD").
				Placeholder(time.Now().Format(scheduler.DateLayout)).
				Validate(validateDate).
				Value(&v.dueDate),
			huh.NewInput().
				Title("Dependencies").
				Description(depsDesc).
				Value(&v.deps),
		),
	).WithShowHelp(true)
}

// newCompleteForm builds a picker over the pending task names.
func newCompleteForm(v *completeFormValues, pending []string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Complete task").
				Options(huh.NewOptions(pending...)...).
				Value(&v.name),
		),
	).WithShowHelp(true)
}

func validateDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("due date is required")
	}
	if scheduler.ValidateDate(s) != nil {
		return errors.New("use YYYY-MM-DD")
	}
	return nil
}
