package domain

import "time"

// Exam is an admin-managed exam schedule entry.
type Exam struct {
	ExamID      string    `json:"id" dynamodbav:"exam_id"`
	Subject     string    `json:"subject" dynamodbav:"subject"`
	ExamDate    string    `json:"exam_date" dynamodbav:"exam_date"` // YYYY-MM-DD
	Deadline    string    `json:"deadline,omitempty" dynamodbav:"deadline"`
	Description string    `json:"description,omitempty" dynamodbav:"description"`
	CreatedAt   time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt   time.Time `json:"updated" dynamodbav:"updated_at"`
}

type ExamInput struct {
	Subject     string `json:"subject" validate:"required"`
	ExamDate    string `json:"exam_date" validate:"required"`
	Deadline    string `json:"deadline"`
	Description string `json:"description"`
}
