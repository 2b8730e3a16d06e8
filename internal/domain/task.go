package domain

import (
	"slices"
	"strings"
	"time"
)

type TaskStatus string

const (
	StatusTodo      TaskStatus = "todo"
	StatusDueToday  TaskStatus = "due_today"
	StatusOverdue   TaskStatus = "overdue"
	StatusCompleted TaskStatus = "completed"
)

var validStatuses = []TaskStatus{StatusTodo, StatusDueToday, StatusOverdue, StatusCompleted}

// ParseTaskStatus validates a stored status value.
func ParseTaskStatus(raw string) (TaskStatus, error) {
	status := TaskStatus(strings.TrimSpace(strings.ToLower(raw)))
	if !slices.Contains(validStatuses, status) {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// Icon returns the list marker used for a status.
func (s TaskStatus) Icon() string {
	switch s {
	case StatusCompleted:
		return "✔"
	case StatusOverdue:
		return "●"
	case StatusDueToday:
		return "◐"
	default:
		return "○"
	}
}

// Label returns the human-readable status name.
func (s TaskStatus) Label() string {
	switch s {
	case StatusCompleted:
		return "Completed"
	case StatusOverdue:
		return "Overdue"
	case StatusDueToday:
		return "Due today"
	default:
		return "Todo"
	}
}

type Task struct {
	ID          string
	Title       string
	Description string
	Status      TaskStatus
	Tags        []Tag
	CreatedAt   time.Time
	DueAt       *time.Time
	FinishedAt  *time.Time
}

type TaskInput struct {
	ID          string
	Title       string
	Description string
	Tags        []string
	DueAt       *time.Time
}

func NewTask(in TaskInput, now time.Time) (Task, error) {
	in.ID = strings.TrimSpace(in.ID)
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)

	if in.ID == "" {
		return Task{}, ErrInvalidID
	}
	if in.Title == "" {
		return Task{}, ErrInvalidTitle
	}

	task := Task{
		ID:          in.ID,
		Title:       in.Title,
		Description: in.Description,
		Status:      StatusTodo,
		Tags:        NormalizeTags(in.Tags),
		CreatedAt:   now.UTC(),
		DueAt:       normalizeTimestamp(in.DueAt),
	}
	task.RecomputeStatus(now)
	return task, nil
}

// RecomputeStatus derives the status from the due date. Completed tasks are never downgraded.
func (t *Task) RecomputeStatus(now time.Time) {
	if t.Status == StatusCompleted {
		return
	}
	if t.DueAt == nil {
		t.Status = StatusTodo
		return
	}
	due := *t.DueAt
	switch {
	case due.Before(now):
		t.Status = StatusOverdue
	case sameLocalDay(due, now):
		t.Status = StatusDueToday
	default:
		t.Status = StatusTodo
	}
}

// Complete marks the task finished. Completing twice keeps the first finish time.
func (t *Task) Complete(now time.Time) {
	if t.Status == StatusCompleted {
		return
	}
	ts := now.UTC().Truncate(time.Second)
	t.Status = StatusCompleted
	t.FinishedAt = &ts
}

func (t *Task) SetDueDate(dueAt *time.Time, now time.Time) {
	t.DueAt = normalizeTimestamp(dueAt)
	t.RecomputeStatus(now)
}

func (t *Task) AddTag(name string) error {
	tag, err := NewTag(name)
	if err != nil {
		return err
	}
	if t.HasTag(tag.Name) {
		return nil
	}
	t.Tags = append(t.Tags, tag)
	slices.SortFunc(t.Tags, compareTags)
	return nil
}

func (t *Task) RemoveTag(name string) {
	name = normalizeTagName(name)
	t.Tags = slices.DeleteFunc(t.Tags, func(tag Tag) bool {
		return tag.Name == name
	})
}

func (t Task) HasTag(name string) bool {
	name = normalizeTagName(name)
	return slices.ContainsFunc(t.Tags, func(tag Tag) bool {
		return tag.Name == name
	})
}

// TagNames returns tag names in display order.
func (t Task) TagNames() []string {
	out := make([]string, 0, len(t.Tags))
	for _, tag := range t.Tags {
		out = append(out, tag.Name)
	}
	return out
}

// Matches reports whether the query appears in the title, description or any tag.
func (t Task) Matches(query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return false
	}
	if strings.Contains(strings.ToLower(t.Title), query) || strings.Contains(strings.ToLower(t.Description), query) {
		return true
	}
	for _, tag := range t.Tags {
		if strings.Contains(tag.Name, query) {
			return true
		}
	}
	return false
}

func sameLocalDay(a, b time.Time) bool {
	a = a.Local()
	b = b.Local()
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func normalizeTimestamp(at *time.Time) *time.Time {
	if at == nil {
		return nil
	}
	ts := at.UTC().Truncate(time.Second)
	return &ts
}
