package scheduler

import (
	"container/heap"
	"fmt"
)

// OrderBy selects the key pending tasks are listed by.
type OrderBy int

const (
	ByPriority OrderBy = iota // Ascending priority, most important first
	ByDueDate                 // Earliest due date first
)

func (o OrderBy) String() string {
	switch o {
	case ByPriority:
		return "priority"
	case ByDueDate:
		return "due_date"
	}
	return fmt.Sprintf("OrderBy(%d)", int(o))
}

// ParseOrderBy accepts "priority", "due_date" or "date".
func ParseOrderBy(s string) (OrderBy, error) {
	switch s {
	case "priority", "":
		return ByPriority, nil
	case "due_date", "date":
		return ByDueDate, nil
	}
	return ByPriority, invalidf("unknown order %q (want priority or due_date)", s)
}

// queueItem is a task keyed for the min-heap. Priorities and due dates
// (as Unix seconds) both fit an int64 key.
type queueItem struct {
	key  int64
	task *Task
}

// taskQueue is a min-heap on key. Equal keys fall back to task name so the
// pop order is reproducible.
type taskQueue []queueItem

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].key != q[j].key {
		return q[i].key < q[j].key
	}
	return q[i].task.Name < q[j].task.Name
}

func (q taskQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *taskQueue) Push(x any) { *q = append(*q, x.(queueItem)) }

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = queueItem{}
	*q = old[:n-1]
	return item
}

// newTaskQueue heapifies a copy of items so the caller's slice can be
// reused for another pass.
func newTaskQueue(items []queueItem) *taskQueue {
	q := make(taskQueue, len(items))
	copy(q, items)
	heap.Init(&q)
	return &q
}

func (q *taskQueue) pop() *Task {
	return heap.Pop(q).(queueItem).task
}

func orderKey(t *Task, order OrderBy) (int64, error) {
	switch order {
	case ByDueDate:
		due, err := t.Due()
		if err != nil {
			return 0, err
		}
		return due.Unix(), nil
	case ByPriority:
		return int64(t.Priority), nil
	}
	return 0, invalidf("unknown order %d", int(order))
}
