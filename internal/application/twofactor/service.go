package twofactor

import (
	"context"
	"fmt"

	"github.com/campus-os/api/internal/domain"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldTwoFactorEnabled = "two_factor_enabled"
	fieldTwoFactorSecret  = "two_factor_secret"
)

// SetupResult carries everything the client needs to enroll an
// authenticator app.
type SetupResult struct {
	Secret          string `json:"secret"`
	ProvisioningURI string `json:"provisioning_uri"`
	QRCode          string `json:"qr_code"`
}

type Status struct {
	Enabled bool `json:"enabled"`
}

type Service interface {
	Status(ctx context.Context, userID string) (*Status, error)
	Setup(ctx context.Context, userID string) (*SetupResult, error)
	Verify(ctx context.Context, userID, code string) error
	Disable(ctx context.Context, userID, code string) error
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type provisioner interface {
	GenerateSecret() (string, error)
	ProvisioningURI(secret, account string) string
	QRCodeDataURI(secret, account string) (string, error)
	VerifyCode(secret, code string) bool
}

type service struct {
	users userStore
	totp  provisioner
}

type ServiceDeps struct {
	UserRepo userStore
	TOTP     provisioner
}

func NewService(deps ServiceDeps) Service {
	return &service{users: deps.UserRepo, totp: deps.TOTP}
}

func (s *service) Status(ctx context.Context, userID string) (*Status, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Status{Enabled: u.TwoFactorEnabled}, nil
}

// Setup generates a fresh secret and stores it pending confirmation.
// Two-factor is not enforced until Verify succeeds with a valid code.
func (s *service) Setup(ctx context.Context, userID string) (*SetupResult, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.TwoFactorEnabled {
		return nil, fmt.Errorf("two-factor already enabled: %w", domain.ErrConflict)
	}

	secret, err := s.totp.GenerateSecret()
	if err != nil {
		return nil, fmt.Errorf("generate secret: %w", err)
	}
	if err := s.users.Update(ctx, userID, map[string]interface{}{
		fieldTwoFactorSecret: secret,
	}); err != nil {
		return nil, err
	}

	uri := s.totp.ProvisioningURI(secret, u.Email)
	qr, err := s.totp.QRCodeDataURI(secret, u.Email)
	if err != nil {
		return nil, fmt.Errorf("render qr code: %w", err)
	}
	return &SetupResult{Secret: secret, ProvisioningURI: uri, QRCode: qr}, nil
}

func (s *service) Verify(ctx context.Context, userID, code string) error {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return err
	}
	if u.TwoFactorSecret == "" {
		return fmt.Errorf("two-factor setup not started: %w", domain.ErrBadRequest)
	}
	if !s.totp.VerifyCode(u.TwoFactorSecret, code) {
		return domain.ErrInvalidTwoFactorCode
	}
	return s.users.Update(ctx, userID, map[string]interface{}{
		fieldTwoFactorEnabled: true,
	})
}

// Disable requires a valid current code so a hijacked session cannot
// silently strip the second factor.
func (s *service) Disable(ctx context.Context, userID, code string) error {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return err
	}
	if !u.TwoFactorEnabled {
		return fmt.Errorf("two-factor not enabled: %w", domain.ErrBadRequest)
	}
	if !s.totp.VerifyCode(u.TwoFactorSecret, code) {
		return domain.ErrInvalidTwoFactorCode
	}
	return s.users.Update(ctx, userID, map[string]interface{}{
		fieldTwoFactorEnabled: false,
		fieldTwoFactorSecret:  "",
	})
}
