package domain

import "time"

// Notice is a campus announcement. FileKey points at the uploaded document
// in object storage; Summary is an optional AI-generated digest of the
// notice text.
type Notice struct {
	NoticeID  string    `json:"id" dynamodbav:"notice_id"`
	Title     string    `json:"title" dynamodbav:"title"`
	Body      string    `json:"body,omitempty" dynamodbav:"body"`
	FileKey   string    `json:"file_key,omitempty" dynamodbav:"file_key"`
	FileURL   string    `json:"file_url,omitempty" dynamodbav:"-"`
	Summary   string    `json:"summary,omitempty" dynamodbav:"summary"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
}

type NoticeInput struct {
	Title string `json:"title" validate:"required"`
	Body  string `json:"body"`
}
