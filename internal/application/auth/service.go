package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/campus-os/api/internal/domain"
	jwtinfra "github.com/campus-os/api/internal/infrastructure/jwt"
	"github.com/campus-os/api/internal/pkg/id"
	"golang.org/x/crypto/bcrypt"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldPasswordHash        = "password_hash"
	fieldEmailVerified       = "email_verified"
	fieldVerificationToken   = "email_verification_token"
	fieldVerificationExpiry  = "email_verification_expiry"
	fieldPasswordResetToken  = "password_reset_token"
	fieldPasswordResetExpiry = "password_reset_expiry"
)

// LoginResult is the outcome of a login attempt. Exactly one of the
// three branches is populated: a token for a completed login, or one
// of the two pending flags.
type LoginResult struct {
	Token                     string       `json:"token,omitempty"`
	User                      *domain.User `json:"user,omitempty"`
	EmailVerificationRequired bool         `json:"email_verification_required,omitempty"`
	TwoFactorRequired         bool         `json:"two_factor_required,omitempty"`
}

type Service interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, req domain.LoginRequest) (*LoginResult, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, email string) error
	EnsureAdmin(ctx context.Context, email, password string) error
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByStudentID(ctx context.Context, studentID string) (bool, error)
	Put(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type tokenCodec interface {
	IssueAuthToken(userID, email, role, studentID string) (string, error)
	IssuePasswordResetToken(email string) (string, error)
	IssueEmailVerificationToken(email string) (string, error)
	Verify(token string) (*jwtinfra.Claims, error)
}

type totpVerifier interface {
	VerifyCode(secret, code string) bool
}

type mailSender interface {
	SendVerificationEmail(to, token string) error
	SendPasswordResetEmail(to, token string) error
}

type service struct {
	users    userStore
	codec    tokenCodec
	totp     totpVerifier
	mailer   mailSender
	dispatch func(func())

	verifyTTL time.Duration
	resetTTL  time.Duration
}

type ServiceDeps struct {
	UserRepo userStore
	Codec    tokenCodec
	TOTP     totpVerifier
	Mailer   mailSender

	// Dispatch runs email sends off the request path. Defaults to
	// spawning a goroutine; tests inject a synchronous version.
	Dispatch func(func())

	VerifyTokenTTL time.Duration
	ResetTokenTTL  time.Duration
}

func NewService(deps ServiceDeps) Service {
	dispatch := deps.Dispatch
	if dispatch == nil {
		dispatch = func(fn func()) { go fn() }
	}
	return &service{
		users:     deps.UserRepo,
		codec:     deps.Codec,
		totp:      deps.TOTP,
		mailer:    deps.Mailer,
		dispatch:  dispatch,
		verifyTTL: deps.VerifyTokenTTL,
		resetTTL:  deps.ResetTokenTTL,
	}
}

func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	if taken, err := s.users.ExistsByEmail(ctx, req.Email); err != nil {
		return nil, err
	} else if taken {
		return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
	}
	if taken, err := s.users.ExistsByStudentID(ctx, req.StudentID); err != nil {
		return nil, err
	} else if taken {
		return nil, fmt.Errorf("student id already registered: %w", domain.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	verifyToken, err := s.codec.IssueEmailVerificationToken(req.Email)
	if err != nil {
		return nil, fmt.Errorf("issue verification token: %w", err)
	}

	now := time.Now()
	u := &domain.User{
		UserID:                  id.New(),
		Name:                    req.Name,
		Email:                   req.Email,
		StudentID:               req.StudentID,
		PasswordHash:            string(hash),
		Role:                    domain.RoleStudent,
		EmailVerified:           false,
		EmailVerificationToken:  verifyToken,
		EmailVerificationExpiry: now.Add(s.verifyTTL).Unix(),
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	if err := s.users.Put(ctx, u); err != nil {
		return nil, err
	}

	s.sendAsync("verification email", u.Email, func() error {
		return s.mailer.SendVerificationEmail(u.Email, verifyToken)
	})
	return u, nil
}

// Login walks the credential, email-verification and two-factor gates
// in order. Unknown emails and wrong passwords produce the same error
// so callers cannot probe which accounts exist.
func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*LoginResult, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if !u.EmailVerified {
		return &LoginResult{EmailVerificationRequired: true}, nil
	}

	if u.TwoFactorEnabled {
		if req.TwoFactorCode == "" {
			return &LoginResult{TwoFactorRequired: true}, nil
		}
		if !s.totp.VerifyCode(u.TwoFactorSecret, req.TwoFactorCode) {
			return nil, domain.ErrInvalidTwoFactorCode
		}
	}

	token, err := s.codec.IssueAuthToken(u.UserID, u.Email, u.Role, u.StudentID)
	if err != nil {
		return nil, fmt.Errorf("issue auth token: %w", err)
	}
	return &LoginResult{Token: token, User: u}, nil
}

// ForgotPassword responds identically whether or not the email is
// registered; the reset token only ever leaves via email.
func (s *service) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}

	token, err := s.codec.IssuePasswordResetToken(u.Email)
	if err != nil {
		return fmt.Errorf("issue reset token: %w", err)
	}

	if err := s.users.Update(ctx, u.UserID, map[string]interface{}{
		fieldPasswordResetToken:  token,
		fieldPasswordResetExpiry: time.Now().Add(s.resetTTL).Unix(),
	}); err != nil {
		return err
	}

	s.sendAsync("password reset email", u.Email, func() error {
		return s.mailer.SendPasswordResetEmail(u.Email, token)
	})
	return nil
}

func (s *service) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.codec.Verify(token)
	if err != nil {
		if errors.Is(err, jwtinfra.ErrExpired) {
			return fmt.Errorf("reset token expired: %w", domain.ErrExpired)
		}
		return fmt.Errorf("reset token: %w", domain.ErrInvalidToken)
	}
	if claims.TokenType != jwtinfra.TokenPasswordReset {
		return fmt.Errorf("wrong token type: %w", domain.ErrInvalidToken)
	}

	u, err := s.users.GetByEmail(ctx, claims.Email())
	if err != nil {
		return fmt.Errorf("reset token: %w", domain.ErrInvalidToken)
	}

	// The stored copy enforces single use: a consumed or superseded
	// token no longer matches even while its signature is valid.
	if u.PasswordResetToken == "" || u.PasswordResetToken != token {
		return fmt.Errorf("reset token: %w", domain.ErrInvalidToken)
	}
	if time.Now().Unix() > u.PasswordResetExpiry {
		return fmt.Errorf("reset token expired: %w", domain.ErrExpired)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.users.Update(ctx, u.UserID, map[string]interface{}{
		fieldPasswordHash:        string(hash),
		fieldPasswordResetToken:  "",
		fieldPasswordResetExpiry: int64(0),
	})
}

func (s *service) VerifyEmail(ctx context.Context, token string) error {
	claims, err := s.codec.Verify(token)
	if err != nil {
		if errors.Is(err, jwtinfra.ErrExpired) {
			return fmt.Errorf("verification token expired: %w", domain.ErrExpired)
		}
		return fmt.Errorf("verification token: %w", domain.ErrInvalidToken)
	}
	if claims.TokenType != jwtinfra.TokenEmailVerification {
		return fmt.Errorf("wrong token type: %w", domain.ErrInvalidToken)
	}

	u, err := s.users.GetByEmail(ctx, claims.Email())
	if err != nil {
		return fmt.Errorf("verification token: %w", domain.ErrInvalidToken)
	}
	if u.EmailVerified {
		return nil
	}

	if u.EmailVerificationToken == "" || u.EmailVerificationToken != token {
		return fmt.Errorf("verification token: %w", domain.ErrInvalidToken)
	}
	if time.Now().Unix() > u.EmailVerificationExpiry {
		return fmt.Errorf("verification token expired: %w", domain.ErrExpired)
	}

	return s.users.Update(ctx, u.UserID, map[string]interface{}{
		fieldEmailVerified:      true,
		fieldVerificationToken:  "",
		fieldVerificationExpiry: int64(0),
	})
}

// ResendVerification issues a fresh verification token, superseding any
// previous one. Already-verified accounts are a silent no-op.
func (s *service) ResendVerification(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	if u.EmailVerified {
		return nil
	}

	token, err := s.codec.IssueEmailVerificationToken(u.Email)
	if err != nil {
		return fmt.Errorf("issue verification token: %w", err)
	}
	if err := s.users.Update(ctx, u.UserID, map[string]interface{}{
		fieldVerificationToken:  token,
		fieldVerificationExpiry: time.Now().Add(s.verifyTTL).Unix(),
	}); err != nil {
		return err
	}

	s.sendAsync("verification email", u.Email, func() error {
		return s.mailer.SendVerificationEmail(u.Email, token)
	})
	return nil
}

// EnsureAdmin creates the administrator account at startup when it does
// not already exist. Existing accounts are left untouched.
func (s *service) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	if exists, err := s.users.ExistsByEmail(ctx, email); err != nil {
		return err
	} else if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	now := time.Now()
	u := &domain.User{
		UserID:        id.New(),
		Name:          "Administrator",
		Email:         email,
		PasswordHash:  string(hash),
		Role:          domain.RoleAdmin,
		EmailVerified: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.users.Put(ctx, u); err != nil {
		return err
	}
	slog.Info("admin account seeded", "email", email)
	return nil
}

// sendAsync delivers an email off the request path; failures are logged
// and never surface to the caller.
func (s *service) sendAsync(kind, to string, send func() error) {
	s.dispatch(func() {
		if err := send(); err != nil {
			slog.Error("send "+kind, "to", to, "error", err)
		}
	})
}
