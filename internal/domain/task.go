package domain

import "time"

const (
	TaskPriorityLow    = "LOW"
	TaskPriorityMedium = "MEDIUM"
	TaskPriorityHigh   = "HIGH"
	TaskPriorityUrgent = "URGENT"
)

// Task is a personal to-do item, scoped to its owner.
type Task struct {
	TaskID      string     `json:"id" dynamodbav:"task_id"`
	UserID      string     `json:"user_id" dynamodbav:"user_id"`
	Title       string     `json:"title" dynamodbav:"title"`
	Description string     `json:"description,omitempty" dynamodbav:"description"`
	Category    string     `json:"category,omitempty" dynamodbav:"category"` // STUDY, ASSIGNMENT, PERSONAL, EXAM, OTHER
	Priority    string     `json:"priority" dynamodbav:"priority"`
	Completed   bool       `json:"completed" dynamodbav:"completed"`
	DueDate     *time.Time `json:"due_date,omitempty" dynamodbav:"due_date"`
	CompletedAt *time.Time `json:"completed_at,omitempty" dynamodbav:"completed_at"`
	CreatedAt   time.Time  `json:"created" dynamodbav:"created_at"`
}

type TaskInput struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Category    string `json:"category" validate:"omitempty,oneof=STUDY ASSIGNMENT PERSONAL EXAM OTHER"`
	Priority    string `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	DueDate     string `json:"due_date"` // RFC3339, optional
}

type TaskUpdateInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category" validate:"omitempty,oneof=STUDY ASSIGNMENT PERSONAL EXAM OTHER"`
	Priority    *string `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	DueDate     *string `json:"due_date"`
	Completed   *bool   `json:"completed"`
}
