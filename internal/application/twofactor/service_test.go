package twofactor

import (
	"context"
	"testing"

	"github.com/campus-os/api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) Update(ctx context.Context, userID string, updates map[string]interface{}) error {
	return m.Called(ctx, userID, updates).Error(0)
}

// fakeProvisioner returns canned values and accepts one code.
type fakeProvisioner struct {
	secret string
	valid  string
}

func (f *fakeProvisioner) GenerateSecret() (string, error) { return f.secret, nil }
func (f *fakeProvisioner) ProvisioningURI(secret, account string) string {
	return "otpauth://totp/Campus:" + account + "?secret=" + secret
}
func (f *fakeProvisioner) QRCodeDataURI(secret, account string) (string, error) {
	return "data:image/png;base64,AAAA", nil
}
func (f *fakeProvisioner) VerifyCode(secret, code string) bool { return code == f.valid }

func student(enabled bool, secret string) *domain.User {
	return &domain.User{
		UserID:           "u-1",
		Email:            "alice@campus.edu",
		Role:             domain.RoleStudent,
		TwoFactorEnabled: enabled,
		TwoFactorSecret:  secret,
	}
}

func TestStatus(t *testing.T) {
	users := &mockUserStore{}
	users.On("Get", mock.Anything, "u-1").Return(student(true, "SECRET"), nil)

	svc := NewService(ServiceDeps{UserRepo: users, TOTP: &fakeProvisioner{}})
	status, err := svc.Status(context.Background(), "u-1")

	require.NoError(t, err)
	assert.True(t, status.Enabled)
}

func TestSetup_StoresPendingSecret(t *testing.T) {
	users := &mockUserStore{}
	users.On("Get", mock.Anything, "u-1").Return(student(false, ""), nil)
	users.On("Update", mock.Anything, "u-1", map[string]interface{}{
		fieldTwoFactorSecret: "NEWSECRET",
	}).Return(nil)

	svc := NewService(ServiceDeps{UserRepo: users, TOTP: &fakeProvisioner{secret: "NEWSECRET"}})
	result, err := svc.Setup(context.Background(), "u-1")

	require.NoError(t, err)
	assert.Equal(t, "NEWSECRET", result.Secret)
	assert.Contains(t, result.ProvisioningURI, "secret=NEWSECRET")
	assert.NotEmpty(t, result.QRCode)
	users.AssertExpectations(t)
}

func TestSetup_AlreadyEnabled_Conflict(t *testing.T) {
	users := &mockUserStore{}
	users.On("Get", mock.Anything, "u-1").Return(student(true, "SECRET"), nil)

	svc := NewService(ServiceDeps{UserRepo: users, TOTP: &fakeProvisioner{}})
	_, err := svc.Setup(context.Background(), "u-1")

	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestVerify_EnablesTwoFactor(t *testing.T) {
	users := &mockUserStore{}
	users.On("Get", mock.Anything, "u-1").Return(student(false, "SECRET"), nil)
	users.On("Update", mock.Anything, "u-1", map[string]interface{}{
		fieldTwoFactorEnabled: true,
	}).Return(nil)

	svc := NewService(ServiceDeps{UserRepo: users, TOTP: &fakeProvisioner{valid: "123456"}})
	assert.NoError(t, svc.Verify(context.Background(), "u-1", "123456"))
	users.AssertExpectations(t)
}

func TestVerify_WrongCode(t *testing.T) {
	users := &mockUserStore{}
	users.On("Get", mock.Anything, "u-1").Return(student(false, "SECRET"), nil)

	svc := NewService(ServiceDeps{UserRepo: users, TOTP: &fakeProvisioner{valid: "123456"}})
	err := svc.Verify(context.Background(), "u-1", "654321")

	assert.ErrorIs(t, err, domain.ErrInvalidTwoFactorCode)
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerify_SetupNotStarted(t *testing.T) {
	users := &mockUserStore{}
	users.On("Get", mock.Anything, "u-1").Return(student(false, ""), nil)

	svc := NewService(ServiceDeps{UserRepo: users, TOTP: &fakeProvisioner{valid: "123456"}})
	err := svc.Verify(context.Background(), "u-1", "123456")

	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestDisable_RequiresValidCode(t *testing.T) {
	users := &mockUserStore{}
	users.On("Get", mock.Anything, "u-1").Return(student(true, "SECRET"), nil)

	svc := NewService(ServiceDeps{UserRepo: users, TOTP: &fakeProvisioner{valid: "123456"}})
	err := svc.Disable(context.Background(), "u-1", "000000")

	assert.ErrorIs(t, err, domain.ErrInvalidTwoFactorCode)
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestDisable_ClearsSecret(t *testing.T) {
	users := &mockUserStore{}
	users.On("Get", mock.Anything, "u-1").Return(student(true, "SECRET"), nil)
	users.On("Update", mock.Anything, "u-1", map[string]interface{}{
		fieldTwoFactorEnabled: false,
		fieldTwoFactorSecret:  "",
	}).Return(nil)

	svc := NewService(ServiceDeps{UserRepo: users, TOTP: &fakeProvisioner{valid: "123456"}})
	assert.NoError(t, svc.Disable(context.Background(), "u-1", "123456"))
	users.AssertExpectations(t)
}

func TestDisable_NotEnabled(t *testing.T) {
	users := &mockUserStore{}
	users.On("Get", mock.Anything, "u-1").Return(student(false, ""), nil)

	svc := NewService(ServiceDeps{UserRepo: users, TOTP: &fakeProvisioner{}})
	err := svc.Disable(context.Background(), "u-1", "123456")

	assert.ErrorIs(t, err, domain.ErrBadRequest)
}
