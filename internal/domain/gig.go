package domain

import "time"

const (
	GigOpen       = "OPEN"
	GigInProgress = "IN_PROGRESS"
	GigCompleted  = "COMPLETED"
	GigCancelled  = "CANCELLED"
)

// GigCategories are the accepted values for Gig.Category.
var GigCategories = []string{"ASSIGNMENT", "LAB_RECORD", "PROJECT", "NOTES", "PRESENTATION", "OTHER"}

// Gig is a student marketplace posting.
type Gig struct {
	GigID        string    `json:"id" dynamodbav:"gig_id"`
	Title        string    `json:"title" dynamodbav:"title"`
	Description  string    `json:"description,omitempty" dynamodbav:"description"`
	Category     string    `json:"category" dynamodbav:"category"`
	Budget       int       `json:"budget" dynamodbav:"budget"` // in rupees
	ContactInfo  string    `json:"contact_info" dynamodbav:"contact_info"`
	PostedBy     string    `json:"posted_by" dynamodbav:"posted_by"`
	PostedByName string    `json:"posted_by_name" dynamodbav:"posted_by_name"`
	Status       string    `json:"status" dynamodbav:"status"`
	Deadline     string    `json:"deadline,omitempty" dynamodbav:"deadline"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated" dynamodbav:"updated_at"`
}

type GigInput struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Category    string `json:"category" validate:"required,oneof=ASSIGNMENT LAB_RECORD PROJECT NOTES PRESENTATION OTHER"`
	Budget      int    `json:"budget" validate:"gte=0"`
	ContactInfo string `json:"contact_info" validate:"required"`
	Deadline    string `json:"deadline"`
}

type GigStatusInput struct {
	Status string `json:"status" validate:"required,oneof=OPEN IN_PROGRESS COMPLETED CANCELLED"`
}
