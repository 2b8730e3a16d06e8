package app

import (
	"context"
	"time"
)

// sampleTask describes one starter task relative to the seeding time.
type sampleTask struct {
	Title       string
	Description string
	Tags        []string
	DueIn       time.Duration
	HasDue      bool
	Completed   bool
}

// sampleTasks stores the starter list shown on a fresh session.
var sampleTasks = []sampleTask{
	{Title: "Write code", Description: "Build the **TUI** with Go and Bubble Tea.", Tags: []string{"coding", "learning"}, DueIn: 5 * 24 * time.Hour, HasDue: true},
	{Title: "Go for a run", Description: "5 km, get some fresh air.", Tags: []string{"health", "sport"}, DueIn: -24 * time.Hour, HasDue: true, Completed: true},
	{Title: "Debug the renderer", Description: "Fix the overlay clipping bug in the task list.", Tags: []string{"coding", "debugging"}, DueIn: 3 * time.Hour, HasDue: true},
	{Title: "Buy milk", Description: "Low fat, two bottles.", Tags: []string{"shopping"}, DueIn: time.Hour, HasDue: true},
	{Title: "Pay the power bill", Description: "Otherwise the lights go out.", Tags: []string{"home", "urgent"}, DueIn: -2 * 24 * time.Hour, HasDue: true},
}

// SeedSampleTasks creates the starter tasks when the store is empty.
func (s *Service) SeedSampleTasks(ctx context.Context) (int, error) {
	existing, err := s.repo.ListTasks(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	now := s.clock()
	created := 0
	for _, sample := range sampleTasks {
		in := CreateTaskInput{
			Title:       sample.Title,
			Description: sample.Description,
			Tags:        sample.Tags,
		}
		if sample.HasDue {
			due := now.Add(sample.DueIn)
			in.DueAt = &due
		}
		task, err := s.CreateTask(ctx, in)
		if err != nil {
			return created, err
		}
		created++
		if sample.Completed {
			if _, err := s.CompleteTask(ctx, task.ID); err != nil {
				return created, err
			}
		}
	}
	return created, nil
}
