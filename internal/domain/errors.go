package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")

	// Auth flow errors. ErrInvalidCredentials deliberately covers both
	// unknown-email and wrong-password so responses cannot be used to
	// enumerate accounts.
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrInvalidTwoFactorCode = errors.New("invalid two-factor code")
	ErrInvalidToken         = errors.New("invalid token")
	ErrExpired              = errors.New("token expired")
)
