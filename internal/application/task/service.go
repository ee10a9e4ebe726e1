package task

import (
	"context"
	"fmt"
	"time"

	"github.com/campus-os/api/internal/domain"
	"github.com/campus-os/api/internal/pkg/id"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldTitle       = "title"
	fieldDescription = "description"
	fieldCategory    = "category"
	fieldPriority    = "priority"
	fieldDueDate     = "due_date"
	fieldCompleted   = "completed"
	fieldCompletedAt = "completed_at"
)

type Service interface {
	Create(ctx context.Context, userID string, input domain.TaskInput) (*domain.Task, error)
	List(ctx context.Context, userID string) ([]domain.Task, error)
	Update(ctx context.Context, userID, taskID string, input domain.TaskUpdateInput) (*domain.Task, error)
	Delete(ctx context.Context, userID, taskID string) error
}

type taskStore interface {
	Put(ctx context.Context, t *domain.Task) error
	Get(ctx context.Context, taskID string) (*domain.Task, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Task, error)
	Update(ctx context.Context, taskID string, updates map[string]interface{}) error
	Delete(ctx context.Context, taskID string) error
}

type service struct {
	tasks taskStore
}

type ServiceDeps struct {
	TaskRepo taskStore
}

func NewService(deps ServiceDeps) Service {
	return &service{tasks: deps.TaskRepo}
}

func (s *service) Create(ctx context.Context, userID string, input domain.TaskInput) (*domain.Task, error) {
	priority := input.Priority
	if priority == "" {
		priority = domain.TaskPriorityMedium
	}

	t := &domain.Task{
		TaskID:      id.New(),
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Priority:    priority,
		CreatedAt:   time.Now(),
	}
	if input.DueDate != "" {
		due, err := time.Parse(time.RFC3339, input.DueDate)
		if err != nil {
			return nil, fmt.Errorf("invalid due_date: %w", domain.ErrBadRequest)
		}
		t.DueDate = &due
	}
	if err := s.tasks.Put(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) List(ctx context.Context, userID string) ([]domain.Task, error) {
	return s.tasks.ListByUser(ctx, userID)
}

// Update applies only the fields present in the input. Completing a task
// stamps completed_at; reopening clears it.
func (s *service) Update(ctx context.Context, userID, taskID string, input domain.TaskUpdateInput) (*domain.Task, error) {
	t, err := s.owned(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		updates[fieldTitle] = *input.Title
		t.Title = *input.Title
	}
	if input.Description != nil {
		updates[fieldDescription] = *input.Description
		t.Description = *input.Description
	}
	if input.Category != nil {
		updates[fieldCategory] = *input.Category
		t.Category = *input.Category
	}
	if input.Priority != nil {
		updates[fieldPriority] = *input.Priority
		t.Priority = *input.Priority
	}
	if input.DueDate != nil {
		if *input.DueDate == "" {
			updates[fieldDueDate] = nil
			t.DueDate = nil
		} else {
			due, err := time.Parse(time.RFC3339, *input.DueDate)
			if err != nil {
				return nil, fmt.Errorf("invalid due_date: %w", domain.ErrBadRequest)
			}
			updates[fieldDueDate] = due
			t.DueDate = &due
		}
	}
	if input.Completed != nil && *input.Completed != t.Completed {
		updates[fieldCompleted] = *input.Completed
		t.Completed = *input.Completed
		if *input.Completed {
			now := time.Now()
			updates[fieldCompletedAt] = now
			t.CompletedAt = &now
		} else {
			updates[fieldCompletedAt] = nil
			t.CompletedAt = nil
		}
	}
	if len(updates) == 0 {
		return t, nil
	}

	if err := s.tasks.Update(ctx, taskID, updates); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) Delete(ctx context.Context, userID, taskID string) error {
	if _, err := s.owned(ctx, userID, taskID); err != nil {
		return err
	}
	return s.tasks.Delete(ctx, taskID)
}

func (s *service) owned(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	t, err := s.tasks.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if t.UserID != userID {
		return nil, fmt.Errorf("task belongs to another user: %w", domain.ErrForbidden)
	}
	return t, nil
}
