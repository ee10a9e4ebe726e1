package domain

import "time"

// ProfessorReview is an anonymous rating. PostedBy is kept only to prevent
// duplicate reviews and is never serialized.
type ProfessorReview struct {
	ReviewID      string `json:"id" dynamodbav:"review_id"`
	ProfessorName string `json:"professor_name" dynamodbav:"professor_name"`
	Department    string `json:"department,omitempty" dynamodbav:"department"`
	Subject       string `json:"subject,omitempty" dynamodbav:"subject"`

	// Ratings on a 1-5 scale.
	ChillFactor          int `json:"chill_factor" dynamodbav:"chill_factor"`
	AttendanceStrictness int `json:"attendance_strictness" dynamodbav:"attendance_strictness"`
	MarksGenerosity      int `json:"marks_generosity" dynamodbav:"marks_generosity"`
	TeachingQuality      int `json:"teaching_quality" dynamodbav:"teaching_quality"`

	Review    string    `json:"review,omitempty" dynamodbav:"review"`
	PostedBy  string    `json:"-" dynamodbav:"posted_by"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
}

type ProfessorReviewInput struct {
	ProfessorName        string `json:"professor_name" validate:"required"`
	Department           string `json:"department"`
	Subject              string `json:"subject"`
	ChillFactor          int    `json:"chill_factor" validate:"required,min=1,max=5"`
	AttendanceStrictness int    `json:"attendance_strictness" validate:"required,min=1,max=5"`
	MarksGenerosity      int    `json:"marks_generosity" validate:"required,min=1,max=5"`
	TeachingQuality      int    `json:"teaching_quality" validate:"required,min=1,max=5"`
	Review               string `json:"review"`
}

// ProfessorRating aggregates review averages for one professor.
type ProfessorRating struct {
	ProfessorName           string  `json:"professor_name"`
	Department              string  `json:"department,omitempty"`
	ReviewCount             int     `json:"review_count"`
	AvgChillFactor          float64 `json:"avg_chill_factor"`
	AvgAttendanceStrictness float64 `json:"avg_attendance_strictness"`
	AvgMarksGenerosity      float64 `json:"avg_marks_generosity"`
	AvgTeachingQuality      float64 `json:"avg_teaching_quality"`
}
