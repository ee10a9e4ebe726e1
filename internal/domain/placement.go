package domain

import "time"

// Placement is an admin-managed placement drive entry.
type Placement struct {
	PlacementID string    `json:"id" dynamodbav:"placement_id"`
	CompanyName string    `json:"company_name" dynamodbav:"company_name"`
	Role        string    `json:"role" dynamodbav:"role"`
	Eligibility string    `json:"eligibility,omitempty" dynamodbav:"eligibility"`
	Deadline    string    `json:"deadline,omitempty" dynamodbav:"deadline"` // YYYY-MM-DD
	CreatedAt   time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt   time.Time `json:"updated" dynamodbav:"updated_at"`
}

type PlacementInput struct {
	CompanyName string `json:"company_name" validate:"required"`
	Role        string `json:"role" validate:"required"`
	Eligibility string `json:"eligibility"`
	Deadline    string `json:"deadline"`
}
