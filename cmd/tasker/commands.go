package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/aristath/tasker/internal/events"
	"github.com/aristath/tasker/internal/scheduler"
)

func newAddCmd(opts *options) *cobra.Command {
	var priority, due, deps string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Register a new pending task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// One bad date would break every due-date listing
			if err := scheduler.ValidateDate(strings.TrimSpace(due)); err != nil {
				return err
			}

			s, err := openSession(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			err = s.registry.AddInput(cmd.Context(), scheduler.TaskInput{
				Name:         args[0],
				Priority:     priority,
				DueDate:      due,
				Dependencies: scheduler.SplitDependencies(deps),
			})
			if err != nil {
				return err
			}

			task, _ := s.registry.Get(strings.TrimSpace(args[0]))
			state := "blocked"
			if task.IsExecutable(s.registry.Snapshot()) {
				state = "executable"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", task.Name, state)
			return nil
		},
	}

	cmd.Flags().StringVarP(&priority, "priority", "p", "0", "Priority; lower is more important")
	cmd.Flags().StringVarP(&due, "due", "d", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&deps, "deps", "", "Comma-separated names of tasks this one depends on")
	cmd.MarkFlagRequired("due")
	return cmd
}

func newListCmd(opts *options) *cobra.Command {
	var order string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pending tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			if order == "" {
				order = s.cfg.List.DefaultOrder
			}
			orderBy, err := scheduler.ParseOrderBy(order)
			if err != nil {
				return err
			}

			pending, err := s.registry.ListPending(orderBy)
			if err != nil {
				return err
			}

			var rows [][]string
			for p := range pending {
				rows = append(rows, taskRow(p.Task, p.Executable))
			}
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No pending tasks")
				return nil
			}
			printTable(cmd.OutOrStdout(), rows)
			return nil
		},
	}

	cmd.Flags().StringVarP(&order, "order", "o", "", "Sort key: priority or due_date (default from config)")
	return cmd
}

func newCompleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "complete NAME",
		Short: "Mark a pending task completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			sub := s.bus.Subscribe(events.TopicTask, 1)
			if err := s.registry.Complete(cmd.Context(), args[0]); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Completed %s\n", args[0])
			if ev, ok := (<-sub).(events.TaskCompletedEvent); ok && len(ev.Unblocked) > 0 {
				fmt.Fprintf(out, "Now executable: %s\n", strings.Join(ev.Unblocked, ", "))
			}
			return nil
		},
	}
}

func newNextCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Show the most important executable task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			task, ok := s.registry.NextExecutable()
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "No executable tasks")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (priority %d, due %s)\n", task.Name, task.Priority, task.DueDate)
			return nil
		},
	}
}

func newPlanCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "List pending tasks in an order that respects dependencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			plan, err := s.registry.Plan()
			if err != nil {
				return err
			}
			if len(plan) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No pending tasks")
				return nil
			}

			snap := s.registry.Snapshot()
			rows := make([][]string, 0, len(plan))
			for _, task := range plan {
				rows = append(rows, taskRow(task, task.IsExecutable(snap)))
			}
			printTable(cmd.OutOrStdout(), rows)
			return nil
		},
	}
}

func taskRow(task *scheduler.Task, executable bool) []string {
	state := "blocked"
	if executable {
		state = "ready"
	}

	due := task.DueDate
	if t, err := task.Due(); err == nil {
		due += " (" + humanize.Time(t) + ")"
	}

	return []string{
		task.Name,
		strconv.Itoa(task.Priority),
		due,
		strings.Join(task.Dependencies, ", "),
		state,
	}
}

func printTable(w io.Writer, rows [][]string) {
	t := table.New().
		Headers("NAME", "PRIORITY", "DUE", "DEPENDS ON", "STATE").
		Rows(rows...)
	fmt.Fprintln(w, t.Render())
}
