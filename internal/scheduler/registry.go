package scheduler

import (
	"context"
	"fmt"
	"io"
	"iter"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gammazero/toposort"

	"github.com/aristath/tasker/internal/events"
)

// Storage loads and saves the full registry document.
type Storage interface {
	Load(ctx context.Context) (Document, error)
	Save(ctx context.Context, doc Document) error
}

// Publisher receives registry events.
type Publisher interface {
	Publish(topic string, event events.Event)
}

// Pending is one entry of a pending-task listing.
type Pending struct {
	Task       *Task
	Executable bool
}

// TaskInput carries add parameters as entered by a user.
type TaskInput struct {
	Name         string
	Priority     string
	DueDate      string
	Dependencies []string
}

// Option configures a Registry.
type Option func(*Registry)

// WithPublisher sets where add/complete events are published.
func WithPublisher(p Publisher) Option {
	return func(r *Registry) { r.publisher = p }
}

// WithLogger sets the registry logger.
func WithLogger(l *log.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// Registry owns every task, keyed by name, and writes the whole set back
// to storage after each successful mutation.
//
// A Registry is not safe for concurrent use; one process is expected to own
// the backing store while it is open.
type Registry struct {
	tasks     map[string]*Task
	storage   Storage
	publisher Publisher
	logger    *log.Logger
}

// NewRegistry loads the persisted document from storage. An empty or missing
// store yields an empty registry.
func NewRegistry(ctx context.Context, storage Storage, opts ...Option) (*Registry, error) {
	r := &Registry{
		tasks:   make(map[string]*Task),
		storage: storage,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = log.New(io.Discard)
	}

	doc, err := storage.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}

	for key, rec := range doc {
		if rec.Name == "" {
			rec.Name = key
		}
		if rec.Name != key {
			return nil, fmt.Errorf("loading tasks: record %q is stored under key %q", rec.Name, key)
		}
		r.tasks[key] = TaskFromRecord(rec)
	}

	for name, task := range r.tasks {
		for _, dep := range task.Dependencies {
			if _, ok := r.tasks[dep]; !ok {
				r.logger.Warn("task depends on unknown task; it stays blocked", "task", name, "dependency", dep)
			}
		}
	}

	r.logger.Debug("registry loaded", "tasks", len(r.tasks))
	return r, nil
}

// AddInput validates user-entered parameters and adds the task.
// Checks run in order: name, priority, duplicate, dependencies.
// Surrounding whitespace is trimmed from the name, priority and due date.
func (r *Registry) AddInput(ctx context.Context, in TaskInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return invalidf("task name must not be empty")
	}
	priority, err := strconv.Atoi(strings.TrimSpace(in.Priority))
	if err != nil {
		return invalidf("priority %q is not an integer", in.Priority)
	}
	return r.Add(ctx, name, priority, strings.TrimSpace(in.DueDate), in.Dependencies)
}

// SplitDependencies parses a comma-separated dependency list, dropping
// blank entries.
func SplitDependencies(s string) []string {
	var deps []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			deps = append(deps, part)
		}
	}
	return deps
}

// Add creates a pending task and persists the registry.
// Every dependency must already be registered. On any failure the registry
// is left unchanged.
func (r *Registry) Add(ctx context.Context, name string, priority int, dueDate string, deps []string) error {
	if strings.TrimSpace(name) == "" {
		return invalidf("task name must not be empty")
	}
	if _, exists := r.tasks[name]; exists {
		return &TaskError{Kind: ErrDuplicateName, Task: name}
	}

	unique := make([]string, 0, len(deps))
	for _, dep := range deps {
		if _, ok := r.tasks[dep]; !ok {
			return &TaskError{
				Kind:   ErrUnknownDependency,
				Task:   name,
				Detail: fmt.Sprintf("dependency %q does not exist", dep),
			}
		}
		if !slices.Contains(unique, dep) {
			unique = append(unique, dep)
		}
	}

	task := &Task{
		Name:         name,
		Priority:     priority,
		DueDate:      dueDate,
		Dependencies: unique,
	}
	r.tasks[name] = task

	if err := r.save(ctx); err != nil {
		delete(r.tasks, name)
		return err
	}

	r.logger.Info("task added", "task", name, "priority", priority, "due", dueDate, "dependencies", len(unique))
	r.publish(events.TaskAddedEvent{
		ID:           name,
		Priority:     priority,
		DueDate:      dueDate,
		Dependencies: append([]string(nil), unique...),
		Executable:   task.IsExecutable(r.tasks),
		Timestamp:    time.Now(),
	})
	return nil
}

// Complete marks a pending task completed and persists the registry.
// A missing task and an already completed one fail the same way.
func (r *Registry) Complete(ctx context.Context, name string) error {
	task, exists := r.tasks[name]
	if !exists || task.Completed {
		return &TaskError{Kind: ErrNotFoundOrAlreadyComplete, Task: name}
	}

	task.Completed = true
	if err := r.save(ctx); err != nil {
		task.Completed = false
		return err
	}

	unblocked := r.unblockedBy(name)
	r.logger.Info("task completed", "task", name, "unblocked", len(unblocked))
	r.publish(events.TaskCompletedEvent{
		ID:        name,
		Unblocked: unblocked,
		Timestamp: time.Now(),
	})
	return nil
}

// unblockedBy returns the pending tasks depending on name that are now
// executable, sorted by name.
func (r *Registry) unblockedBy(name string) []string {
	var out []string
	for _, task := range r.tasks {
		if task.Completed || !slices.Contains(task.Dependencies, name) {
			continue
		}
		if task.IsExecutable(r.tasks) {
			out = append(out, task.Name)
		}
	}
	sort.Strings(out)
	return out
}

// ListPending returns the pending tasks in ascending order of the chosen key,
// each paired with its executability. Ties are broken by task name.
//
// Keys are computed up front, so a malformed due date is reported here
// rather than mid-iteration. Every range over the returned sequence pops a
// fresh heap and evaluates executability against the registry's state at
// that moment.
func (r *Registry) ListPending(order OrderBy) (iter.Seq[Pending], error) {
	items := make([]queueItem, 0, len(r.tasks))
	for _, task := range r.tasks {
		if task.Completed {
			continue
		}
		key, err := orderKey(task, order)
		if err != nil {
			return nil, err
		}
		items = append(items, queueItem{key: key, task: task})
	}

	return func(yield func(Pending) bool) {
		q := newTaskQueue(items)
		for q.Len() > 0 {
			task := q.pop()
			if task.Completed {
				continue
			}
			if !yield(Pending{Task: cloneTask(task), Executable: task.IsExecutable(r.tasks)}) {
				return
			}
		}
	}, nil
}

// NextExecutable returns the most important pending task whose dependencies
// are all completed, or false when there is none. Ties are broken by name.
func (r *Registry) NextExecutable() (*Task, bool) {
	var items []queueItem
	for _, task := range r.tasks {
		if task.Completed || !task.IsExecutable(r.tasks) {
			continue
		}
		items = append(items, queueItem{key: int64(task.Priority), task: task})
	}
	if len(items) == 0 {
		return nil, false
	}
	return cloneTask(newTaskQueue(items).pop()), true
}

// Plan returns the pending tasks in an order that satisfies their
// dependencies. Stores edited by hand may contain a cycle, which is
// reported as an error.
func (r *Registry) Plan() ([]*Task, error) {
	names := make([]string, 0, len(r.tasks))
	for name := range r.tasks {
		names = append(names, name)
	}
	sort.Strings(names)

	var edges []toposort.Edge
	for _, name := range names {
		task := r.tasks[name]
		if len(task.Dependencies) == 0 {
			edges = append(edges, toposort.Edge{nil, name})
			continue
		}
		for _, dep := range task.Dependencies {
			// Edge (dep, name) means dep comes before name
			edges = append(edges, toposort.Edge{dep, name})
		}
	}

	sorted, err := toposort.Toposort(edges)
	if err != nil {
		return nil, fmt.Errorf("task dependencies contain a cycle: %w", err)
	}

	plan := make([]*Task, 0, len(sorted))
	for _, node := range sorted {
		if node == nil {
			continue
		}
		task, ok := r.tasks[node.(string)]
		if !ok || task.Completed {
			continue
		}
		plan = append(plan, cloneTask(task))
	}
	return plan, nil
}

// Get returns a copy of the named task.
func (r *Registry) Get(name string) (*Task, bool) {
	task, exists := r.tasks[name]
	if !exists {
		return nil, false
	}
	return cloneTask(task), true
}

// Tasks returns copies of every task sorted by name.
func (r *Registry) Tasks() []*Task {
	tasks := make([]*Task, 0, len(r.tasks))
	for _, task := range r.tasks {
		tasks = append(tasks, cloneTask(task))
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].Name < tasks[j].Name })
	return tasks
}

// Snapshot returns copies of every task keyed by name, for evaluating
// IsExecutable or Status outside the registry.
func (r *Registry) Snapshot() map[string]*Task {
	snap := make(map[string]*Task, len(r.tasks))
	for name, task := range r.tasks {
		snap[name] = cloneTask(task)
	}
	return snap
}

// Len returns the number of tasks.
func (r *Registry) Len() int {
	return len(r.tasks)
}

func (r *Registry) save(ctx context.Context) error {
	doc := make(Document, len(r.tasks))
	for name, task := range r.tasks {
		doc[name] = task.Record()
	}
	if err := r.storage.Save(ctx, doc); err != nil {
		r.logger.Error("failed to persist tasks", "err", err)
		return fmt.Errorf("saving tasks: %w", err)
	}
	return nil
}

func (r *Registry) publish(event events.Event) {
	if r.publisher == nil {
		return
	}
	r.publisher.Publish(events.TopicTask, event)
}
