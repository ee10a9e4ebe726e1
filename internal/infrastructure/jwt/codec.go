package jwtinfra

import (
	"errors"
	"fmt"
	"time"

	"github.com/campus-os/api/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

// TokenType tags a token with its purpose. A valid signature is not enough:
// every consumer must check the type, so a password-reset token can never be
// replayed as an API credential.
type TokenType string

const (
	TokenAuth              TokenType = "auth"
	TokenPasswordReset     TokenType = "password_reset"
	TokenEmailVerification TokenType = "email_verification"
)

// Verification failure modes. Expired is a normal, silent condition (the
// client re-authenticates); BadSignature and Malformed indicate possible
// tampering and are surfaced so callers can log them.
var (
	ErrMalformed    = errors.New("token malformed")
	ErrBadSignature = errors.New("token signature invalid")
	ErrExpired      = errors.New("token expired")
)

// Claims holds the JWT payload fields. Subject is the account email.
type Claims struct {
	UserID    string    `json:"user_id,omitempty"`
	Role      string    `json:"role,omitempty"`
	StudentID string    `json:"student_id,omitempty"`
	TokenType TokenType `json:"type"`
	jwt.RegisteredClaims
}

// Email returns the subject the token was issued for.
func (c *Claims) Email() string { return c.Subject }

// Codec signs and verifies HS256 JWTs with a single process-wide secret.
// The secret is injected at construction; there is no ambient key state.
type Codec struct {
	secret    []byte
	authTTL   time.Duration
	resetTTL  time.Duration
	verifyTTL time.Duration
}

func NewCodec(cfg *config.Config) (*Codec, error) {
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 32 bytes, got %d", len(cfg.JWTSecret))
	}
	return &Codec{
		secret:    []byte(cfg.JWTSecret),
		authTTL:   cfg.AuthTokenTTL,
		resetTTL:  cfg.ResetTokenTTL,
		verifyTTL: cfg.VerifyTokenTTL,
	}, nil
}

// IssueAuthToken signs an API credential embedding the caller's identity.
func (c *Codec) IssueAuthToken(userID, email, role, studentID string) (string, error) {
	return c.issue(Claims{
		UserID:    userID,
		Role:      role,
		StudentID: studentID,
		TokenType: TokenAuth,
	}, email, c.authTTL)
}

// IssuePasswordResetToken signs a short-lived reset token for the given email.
func (c *Codec) IssuePasswordResetToken(email string) (string, error) {
	return c.issue(Claims{TokenType: TokenPasswordReset}, email, c.resetTTL)
}

// IssueEmailVerificationToken signs a verification token for the given email.
func (c *Codec) IssueEmailVerificationToken(email string) (string, error) {
	return c.issue(Claims{TokenType: TokenEmailVerification}, email, c.verifyTTL)
}

func (c *Codec) issue(claims Claims, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Verify parses and validates a token string, distinguishing Malformed,
// BadSignature and Expired. Callers verifying for a specific purpose must
// additionally check Claims.TokenType.
func (c *Codec) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrBadSignature
		default:
			return nil, ErrMalformed
		}
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrMalformed
	}
	return claims, nil
}
