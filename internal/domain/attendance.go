package domain

import "time"

const (
	AttendancePresent = "PRESENT"
	AttendanceAbsent  = "ABSENT"
)

// Attendance is a single class record for a student and subject.
type Attendance struct {
	AttendanceID string    `json:"id" dynamodbav:"attendance_id"`
	StudentID    string    `json:"student_id" dynamodbav:"student_id"`
	Subject      string    `json:"subject" dynamodbav:"subject"`
	Date         string    `json:"date" dynamodbav:"date"` // YYYY-MM-DD
	Status       string    `json:"status" dynamodbav:"status"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
}

type AttendanceInput struct {
	Subject string `json:"subject" validate:"required"`
	Date    string `json:"date" validate:"required"` // YYYY-MM-DD
	Status  string `json:"status" validate:"required,oneof=PRESENT ABSENT"`
}

// SubjectSummary aggregates attendance for one subject.
type SubjectSummary struct {
	Subject    string  `json:"subject"`
	Total      int     `json:"total_classes"`
	Attended   int     `json:"attended_classes"`
	Percentage float64 `json:"percentage"`
	Target     float64 `json:"target_percentage"`
}
