package domain

import "time"

const (
	RoleAdmin   = "ADMIN"
	RoleStudent = "STUDENT"
)

// User is the identity record. The password hash, two-factor secret and
// single-use token fields are never serialized to clients.
//
// EmailVerificationToken and PasswordResetToken are the single source of
// truth for their flows: a presented token must string-match the stored
// copy, not merely carry a valid signature, to be considered live. Issuing
// a new token overwrites the stored copy and thereby invalidates all
// previously issued ones of that purpose.
type User struct {
	UserID       string `json:"id" dynamodbav:"user_id"`
	Name         string `json:"name" dynamodbav:"name"`
	Email        string `json:"email" dynamodbav:"email"`
	StudentID    string `json:"student_id,omitempty" dynamodbav:"student_id"`
	PasswordHash string `json:"-" dynamodbav:"password_hash"`
	Role         string `json:"role" dynamodbav:"role"`

	EmailVerified           bool   `json:"email_verified" dynamodbav:"email_verified"`
	EmailVerificationToken  string `json:"-" dynamodbav:"email_verification_token"`
	EmailVerificationExpiry int64  `json:"-" dynamodbav:"email_verification_expiry"` // Unix seconds, 0 = none

	PasswordResetToken  string `json:"-" dynamodbav:"password_reset_token"`
	PasswordResetExpiry int64  `json:"-" dynamodbav:"password_reset_expiry"` // Unix seconds, 0 = none

	// TwoFactorSecret is present only while 2FA is enabled or a setup is in
	// progress (stored at setup, activated at verify, cleared at disable).
	TwoFactorEnabled bool   `json:"two_factor_enabled" dynamodbav:"two_factor_enabled"`
	TwoFactorSecret  string `json:"-" dynamodbav:"two_factor_secret"`

	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
}

type RegisterRequest struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	StudentID string `json:"student_id" validate:"required"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required"`
	TwoFactorCode string `json:"two_factor_code"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}
