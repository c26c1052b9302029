package tui

import (
	"context"
	"errors"
	"fmt"
	"iter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/aristath/tasker/internal/events"
	"github.com/aristath/tasker/internal/scheduler"
)

// formKind identifies which form is open.
type formKind int

const (
	formNone formKind = iota
	formAdd
	formComplete
)

// Model is the root Bubble Tea model for the TUI.
//
// Every registry call happens inside Update, so the registry is only ever
// touched from the Bubble Tea event loop.
type Model struct {
	ctx         context.Context
	registry    *scheduler.Registry
	taskPane    TaskPaneModel
	summaryPane SummaryPaneModel
	order       scheduler.OrderBy
	showPlan    bool

	form     *huh.Form
	formKind formKind
	addVals  *addFormValues
	doneVals *completeFormValues

	status    string
	statusErr bool

	eventSub <-chan events.Event
	width    int
	height   int
	quitting bool
}

// New creates a new TUI model over registry, listing pending tasks in the
// given order. It subscribes to every event on the bus.
func New(ctx context.Context, registry *scheduler.Registry, bus *events.EventBus, order scheduler.OrderBy) Model {
	m := Model{
		ctx:         ctx,
		registry:    registry,
		taskPane:    NewTaskPaneModel(),
		summaryPane: NewSummaryPaneModel(),
		order:       order,
		eventSub:    bus.SubscribeAll(64),
	}
	m.refresh()
	return m
}

// Init initializes the model and returns the initial command.
func (m Model) Init() tea.Cmd {
	return waitForEvent(m.eventSub)
}

// waitForEvent returns a command that waits for the next event from the event bus.
func waitForEvent(sub <-chan events.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-sub
		if !ok {
			return nil // bus closed
		}
		return event
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.computeLayout()
		return m, nil

	case events.TaskAddedEvent:
		m.refresh()
		if !m.statusErr {
			m.setStatus(fmt.Sprintf("Added %q", msg.ID))
		}
		return m, waitForEvent(m.eventSub)

	case events.TaskCompletedEvent:
		m.refresh()
		if !m.statusErr {
			status := fmt.Sprintf("Completed %q", msg.ID)
			if len(msg.Unblocked) > 0 {
				status += fmt.Sprintf(", unblocked %v", msg.Unblocked)
			}
			m.setStatus(status)
		}
		return m, waitForEvent(m.eventSub)

	case events.Event:
		// Not displayed, but keep listening
		return m, waitForEvent(m.eventSub)
	}

	// Forms are modal and see every other message
	if m.form != nil {
		return m.updateForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case KeyQuit, KeyCtrlC:
		m.quitting = true
		return m, tea.Quit

	case KeyAdd:
		m.addVals = &addFormValues{}
		m.openForm(formAdd, newAddForm(m.addVals, m.pendingNames()))
		return m, m.form.Init()

	case KeyComplete:
		pending := m.pendingNames()
		if len(pending) == 0 {
			m.setError(errors.New("no pending tasks"))
			return m, nil
		}
		m.doneVals = &completeFormValues{}
		m.openForm(formComplete, newCompleteForm(m.doneVals, pending))
		return m, m.form.Init()

	case KeyNext:
		if next, ok := m.registry.NextExecutable(); ok {
			m.setStatus(fmt.Sprintf("Next: %s (priority %d, due %s)", next.Name, next.Priority, next.DueDate))
		} else {
			m.setStatus("No executable tasks")
		}
		return m, nil

	case KeyOrder:
		if m.order == scheduler.ByPriority {
			m.order = scheduler.ByDueDate
		} else {
			m.order = scheduler.ByPriority
		}
		m.showPlan = false
		m.refresh()
		if !m.statusErr {
			m.setStatus("Ordered by " + m.order.String())
		}
		return m, nil

	case KeyPlan:
		m.showPlan = !m.showPlan
		m.refresh()
		return m, nil

	case KeyRefresh:
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.taskPane, cmd = m.taskPane.Update(keyMsg)
	return m, cmd
}

// updateForm delegates to the open form and applies it on completion.
func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == KeyEsc {
		m.closeForm()
		m.setStatus("Cancelled")
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.applyForm()
		m.closeForm()
		return m, nil
	case huh.StateAborted:
		m.closeForm()
		m.setStatus("Cancelled")
		return m, nil
	}
	return m, cmd
}

// applyForm runs the registry operation for the submitted form. Success is
// reported through the resulting event.
func (m *Model) applyForm() {
	var err error
	switch m.formKind {
	case formAdd:
		err = m.registry.AddInput(m.ctx, m.addVals.input())
	case formComplete:
		err = m.registry.Complete(m.ctx, m.doneVals.name)
	}
	if err != nil {
		m.setError(err)
		return
	}
	m.statusErr = false
}

func (m *Model) openForm(kind formKind, form *huh.Form) {
	m.formKind = kind
	m.form = form
	if m.width > 0 && m.height > 0 {
		m.form.WithWidth(max(m.width-8, 20)).WithHeight(max(m.height-4, 5))
	}
}

func (m *Model) closeForm() {
	m.form = nil
	m.formKind = formNone
	m.addVals = nil
	m.doneVals = nil
}

// refresh rebuilds both panes from the registry.
func (m *Model) refresh() {
	var (
		title = "Pending by " + m.order.String()
		rows  []TaskRow
		err   error
	)

	if m.showPlan {
		title = "Plan"
		var plan []*scheduler.Task
		plan, err = m.registry.Plan()
		snap := m.registry.Snapshot()
		for _, task := range plan {
			rows = append(rows, rowFromTask(task, task.IsExecutable(snap)))
		}
	} else {
		var pending iter.Seq[scheduler.Pending]
		pending, err = m.registry.ListPending(m.order)
		if err == nil {
			for p := range pending {
				rows = append(rows, rowFromTask(p.Task, p.Executable))
			}
		}
	}

	m.taskPane.SetRows(title, rows, err)
	if err != nil {
		m.setError(err)
	}

	next, _ := m.registry.NextExecutable()
	m.summaryPane.Set(summarize(m.registry.Snapshot()), next, m.order)
}

// pendingNames returns the names of every pending task, sorted.
func (m Model) pendingNames() []string {
	var names []string
	for _, task := range m.registry.Tasks() {
		if !task.Completed {
			names = append(names, task.Name)
		}
	}
	return names
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

// Status returns the status bar text and whether it reports an error.
func (m Model) Status() (string, bool) {
	return m.status, m.statusErr
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	if m.form != nil {
		return lipgloss.JoinVertical(lipgloss.Left, m.form.View(), m.statusView(), FormHelpView())
	}

	mainContent := lipgloss.JoinHorizontal(lipgloss.Top, m.taskPane.View(), m.summaryPane.View())
	return lipgloss.JoinVertical(lipgloss.Left, mainContent, m.statusView(), HelpView())
}

func (m Model) statusView() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return StyleStatusError.Render(m.status)
	}
	return StyleStatusOK.Render(m.status)
}

// computeLayout calculates pane dimensions and updates all child models.
func (m *Model) computeLayout() {
	leftWidth := (m.width * 65) / 100
	rightWidth := m.width - leftWidth
	availableHeight := m.height - 2 // status and help bars

	m.taskPane.SetSize(leftWidth, availableHeight)
	m.summaryPane.SetSize(rightWidth, availableHeight)
	m.taskPane.SetFocused(true)
	m.summaryPane.SetFocused(false)

	if m.form != nil {
		m.form.WithWidth(max(m.width-8, 20)).WithHeight(max(m.height-4, 5))
	}
}
