package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/evanschultz/pomotask/internal/domain"
)

// IDGenerator returns unique identifiers for new entities.
type IDGenerator func() string

// Clock returns the current time.
type Clock func() time.Time

// Service owns the ordered task collection behind a Repository.
type Service struct {
	repo  Repository
	idGen IDGenerator
	clock Clock
}

// NewService constructs a new value for this package.
func NewService(repo Repository, idGen IDGenerator, clock Clock) *Service {
	if idGen == nil {
		idGen = func() string { return "" }
	}
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		repo:  repo,
		idGen: idGen,
		clock: clock,
	}
}

// CreateTaskInput holds input values for create task operations.
type CreateTaskInput struct {
	Title       string
	Description string
	Tags        []string
	DueAt       *time.Time
}

// CreateTask creates task.
func (s *Service) CreateTask(ctx context.Context, in CreateTaskInput) (domain.Task, error) {
	task, err := domain.NewTask(domain.TaskInput{
		ID:          s.idGen(),
		Title:       in.Title,
		Description: in.Description,
		Tags:        in.Tags,
		DueAt:       in.DueAt,
	}, s.clock())
	if err != nil {
		return domain.Task{}, err
	}
	if err := s.repo.CreateTask(ctx, task); err != nil {
		return domain.Task{}, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

// CompleteTask marks one task completed.
func (s *Service) CompleteTask(ctx context.Context, taskID string) (domain.Task, error) {
	taskID = strings.TrimSpace(taskID)
	if taskID == "" {
		return domain.Task{}, ErrInvalidTaskID
	}
	task, err := s.repo.GetTask(ctx, taskID)
	if err != nil {
		return domain.Task{}, err
	}
	if task.Status == domain.StatusCompleted {
		return task, nil
	}
	task.Complete(s.clock())
	if err := s.repo.UpdateTask(ctx, task); err != nil {
		return domain.Task{}, fmt.Errorf("complete task: %w", err)
	}
	return task, nil
}

// TagTask adds a tag to one task.
func (s *Service) TagTask(ctx context.Context, taskID, tag string) (domain.Task, error) {
	task, err := s.repo.GetTask(ctx, strings.TrimSpace(taskID))
	if err != nil {
		return domain.Task{}, err
	}
	if err := task.AddTag(tag); err != nil {
		return domain.Task{}, err
	}
	if err := s.repo.UpdateTask(ctx, task); err != nil {
		return domain.Task{}, fmt.Errorf("tag task: %w", err)
	}
	return task, nil
}

// ListTasks lists tasks in creation order.
func (s *Service) ListTasks(ctx context.Context) ([]domain.Task, error) {
	return s.repo.ListTasks(ctx)
}

// RefreshStatuses recomputes every non-completed status against the clock and
// persists the ones that changed. It returns the refreshed list.
func (s *Service) RefreshStatuses(ctx context.Context) ([]domain.Task, error) {
	tasks, err := s.repo.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clock()
	for idx := range tasks {
		before := tasks[idx].Status
		tasks[idx].RecomputeStatus(now)
		if tasks[idx].Status == before {
			continue
		}
		if err := s.repo.UpdateTask(ctx, tasks[idx]); err != nil {
			return nil, fmt.Errorf("refresh task status %s: %w", tasks[idx].ID, err)
		}
	}
	return tasks, nil
}
