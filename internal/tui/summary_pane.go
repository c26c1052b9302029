package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aristath/tasker/internal/scheduler"
)

// Summary counts tasks by state.
type Summary struct {
	Total      int
	Completed  int
	Executable int
	Blocked    int
}

// summarize counts the tasks in snap.
func summarize(snap map[string]*scheduler.Task) Summary {
	var s Summary
	for _, task := range snap {
		s.Total++
		switch task.Status(snap) {
		case scheduler.TaskCompleted:
			s.Completed++
		case scheduler.TaskExecutable:
			s.Executable++
		default:
			s.Blocked++
		}
	}
	return s
}

// SummaryPaneModel shows progress counts and the next executable task.
type SummaryPaneModel struct {
	summary Summary
	next    *scheduler.Task
	order   scheduler.OrderBy
	width   int
	height  int
	focused bool
}

// NewSummaryPaneModel creates a new summary pane.
func NewSummaryPaneModel() SummaryPaneModel {
	return SummaryPaneModel{}
}

// Set replaces the displayed state.
func (m *SummaryPaneModel) Set(summary Summary, next *scheduler.Task, order scheduler.OrderBy) {
	m.summary = summary
	m.next = next
	m.order = order
}

// View renders the summary pane.
func (m SummaryPaneModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var b strings.Builder

	title := StyleTitle.Render("Progress")
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", lipgloss.Width(title)))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("Total:     %d\n", m.summary.Total))
	b.WriteString(fmt.Sprintf("Completed: %s\n", StyleCompleted.Render(fmt.Sprintf("%d", m.summary.Completed))))
	b.WriteString(fmt.Sprintf("Ready:     %s\n", StyleExecutable.Render(fmt.Sprintf("%d", m.summary.Executable))))
	b.WriteString(fmt.Sprintf("Blocked:   %s\n", StyleBlocked.Render(fmt.Sprintf("%d", m.summary.Blocked))))
	b.WriteString("\n")

	if m.summary.Total > 0 {
		barWidth := min(m.width-4, 40)
		doneWidth := (m.summary.Completed * barWidth) / m.summary.Total
		readyWidth := (m.summary.Executable * barWidth) / m.summary.Total
		blockedWidth := barWidth - doneWidth - readyWidth

		bar := StyleCompleted.Render(strings.Repeat("=", max(0, doneWidth)))
		bar += StyleExecutable.Render(strings.Repeat("-", max(0, readyWidth)))
		bar += StyleBlocked.Render(strings.Repeat(".", max(0, blockedWidth)))

		b.WriteString(fmt.Sprintf("[%s]  %d/%d\n\n", bar, m.summary.Completed, m.summary.Total))
	}

	b.WriteString(fmt.Sprintf("Order: %s\n", m.order))
	if m.next != nil {
		b.WriteString(fmt.Sprintf("Next:  %s\n", StyleExecutable.Render(m.next.Name)))
	} else {
		b.WriteString("Next:  " + StyleHelp.Render("none") + "\n")
	}

	style := StyleUnfocusedBorder
	if m.focused {
		style = StyleFocusedBorder
	}

	return style.
		Width(max(m.width-2, 0)).
		Height(max(m.height-2, 0)).
		Render(b.String())
}

// SetSize updates the pane dimensions.
func (m *SummaryPaneModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// SetFocused updates the focus state.
func (m *SummaryPaneModel) SetFocused(focused bool) {
	m.focused = focused
}
