package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/aristath/tasker/internal/scheduler"
)

// TaskRow is one line of the task listing.
type TaskRow struct {
	Name         string
	Priority     int
	DueDate      string
	Dependencies []string
	Executable   bool
}

// TaskPaneModel renders the pending-task listing in a scrollable viewport.
type TaskPaneModel struct {
	viewport viewport.Model
	title    string
	rows     []TaskRow
	err      error
	now      func() time.Time
	width    int
	height   int
	focused  bool
}

// NewTaskPaneModel creates a new task pane.
func NewTaskPaneModel() TaskPaneModel {
	return TaskPaneModel{
		viewport: viewport.New(0, 0),
		title:    "Pending",
		now:      time.Now,
		focused:  true,
	}
}

// Update scrolls the listing.
func (m TaskPaneModel) Update(msg tea.Msg) (TaskPaneModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case KeyUp, KeyK:
			m.viewport.ScrollUp(1)
			return m, nil
		case KeyDown, KeyJ:
			m.viewport.ScrollDown(1)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// SetRows replaces the listing. A non-nil err is shown instead of rows.
func (m *TaskPaneModel) SetRows(title string, rows []TaskRow, err error) {
	m.title = title
	m.rows = rows
	m.err = err
	m.viewport.SetContent(m.renderRows())
}

// Rows returns the rows currently shown.
func (m TaskPaneModel) Rows() []TaskRow {
	return m.rows
}

// SetSize updates the pane dimensions.
func (m *TaskPaneModel) SetSize(width, height int) {
	m.width = width
	m.height = height

	// Account for border (2) and title line (1)
	m.viewport.Width = max(width-2, 0)
	m.viewport.Height = max(height-3, 0)
	m.viewport.SetContent(m.renderRows())
}

// SetFocused updates the focus state.
func (m *TaskPaneModel) SetFocused(focused bool) {
	m.focused = focused
}

// View renders the pane.
func (m TaskPaneModel) View() string {
	border := StyleUnfocusedBorder
	if m.focused {
		border = StyleFocusedBorder
	}

	title := StyleTitle.Render(fmt.Sprintf("%s (%d)", m.title, len(m.rows)))
	content := lipgloss.JoinVertical(lipgloss.Left, title, m.viewport.View())

	return border.
		Width(max(m.width-2, 0)).
		Height(max(m.height-2, 0)).
		Render(content)
}

func (m TaskPaneModel) renderRows() string {
	if m.err != nil {
		return StyleStatusError.Render(m.err.Error())
	}
	if len(m.rows) == 0 {
		return StyleHelp.Render("No pending tasks")
	}

	var b strings.Builder
	for i, row := range m.rows {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderRow(row))
	}
	return b.String()
}

func (m TaskPaneModel) renderRow(row TaskRow) string {
	state := StyleBlocked.Render("blocked")
	if row.Executable {
		state = StyleExecutable.Render("ready  ")
	}

	line := fmt.Sprintf("%s  %-20s p%-4d %s", state, row.Name, row.Priority, m.renderDue(row.DueDate))
	if len(row.Dependencies) > 0 {
		line += StyleHelp.Render("  after " + strings.Join(row.Dependencies, ", "))
	}
	return line
}

// renderDue shows the stored date with a relative hint when it parses.
func (m TaskPaneModel) renderDue(dueDate string) string {
	due, err := (&scheduler.Task{DueDate: dueDate}).Due()
	if err != nil {
		return dueDate
	}
	hint := humanize.RelTime(due, m.now(), "ago", "from now")
	if due.Before(m.now()) {
		return StyleOverdue.Render(fmt.Sprintf("%s (%s)", dueDate, hint))
	}
	return fmt.Sprintf("%s (%s)", dueDate, hint)
}

// rowFromTask converts a listing entry to a row.
func rowFromTask(task *scheduler.Task, executable bool) TaskRow {
	return TaskRow{
		Name:         task.Name,
		Priority:     task.Priority,
		DueDate:      task.DueDate,
		Dependencies: task.Dependencies,
		Executable:   executable,
	}
}
