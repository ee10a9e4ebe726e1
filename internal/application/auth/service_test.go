package auth

import (
	"context"
	"testing"
	"time"

	"github.com/campus-os/api/internal/config"
	"github.com/campus-os/api/internal/domain"
	jwtinfra "github.com/campus-os/api/internal/infrastructure/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- mocks ---

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}
func (m *mockUserStore) ExistsByStudentID(ctx context.Context, studentID string) (bool, error) {
	args := m.Called(ctx, studentID)
	return args.Bool(0), args.Error(1)
}
func (m *mockUserStore) Put(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}
func (m *mockUserStore) Update(ctx context.Context, userID string, updates map[string]interface{}) error {
	return m.Called(ctx, userID, updates).Error(0)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendVerificationEmail(to, token string) error {
	return m.Called(to, token).Error(0)
}
func (m *mockMailer) SendPasswordResetEmail(to, token string) error {
	return m.Called(to, token).Error(0)
}

// fakeTOTP accepts exactly one code.
type fakeTOTP struct{ valid string }

func (f *fakeTOTP) VerifyCode(secret, code string) bool { return code == f.valid }

// --- helpers ---

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestCodec(t *testing.T) *jwtinfra.Codec {
	t.Helper()
	c, err := jwtinfra.NewCodec(&config.Config{
		JWTSecret:      testSecret,
		AuthTokenTTL:   time.Hour,
		ResetTokenTTL:  15 * time.Minute,
		VerifyTokenTTL: 24 * time.Hour,
	})
	require.NoError(t, err)
	return c
}

// newService wires the service with a real codec, mocks and a synchronous
// dispatcher so email sends finish before assertions run.
func newService(t *testing.T, users *mockUserStore, mailer *mockMailer, totp *fakeTOTP) Service {
	t.Helper()
	if totp == nil {
		totp = &fakeTOTP{}
	}
	return NewService(ServiceDeps{
		UserRepo:       users,
		Codec:          newTestCodec(t),
		TOTP:           totp,
		Mailer:         mailer,
		Dispatch:       func(fn func()) { fn() },
		VerifyTokenTTL: 24 * time.Hour,
		ResetTokenTTL:  15 * time.Minute,
	})
}

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func verifiedUser(t *testing.T) *domain.User {
	return &domain.User{
		UserID:        "u-1",
		Name:          "Alice",
		Email:         "alice@campus.edu",
		StudentID:     "S123",
		PasswordHash:  hash(t, "password123"),
		Role:          domain.RoleStudent,
		EmailVerified: true,
	}
}

func registerReq() domain.RegisterRequest {
	return domain.RegisterRequest{
		Name:      "Alice",
		Email:     "alice@campus.edu",
		StudentID: "S123",
		Password:  "password123",
	}
}

// --- register ---

func TestRegister_Success(t *testing.T) {
	users := &mockUserStore{}
	mailer := &mockMailer{}
	users.On("ExistsByEmail", mock.Anything, "alice@campus.edu").Return(false, nil)
	users.On("ExistsByStudentID", mock.Anything, "S123").Return(false, nil)
	users.On("Put", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)
	mailer.On("SendVerificationEmail", "alice@campus.edu", mock.AnythingOfType("string")).Return(nil)

	svc := newService(t, users, mailer, nil)
	u, err := svc.Register(context.Background(), registerReq())

	require.NoError(t, err)
	assert.Equal(t, domain.RoleStudent, u.Role)
	assert.False(t, u.EmailVerified)
	assert.NotEmpty(t, u.UserID)
	assert.NotEmpty(t, u.EmailVerificationToken)
	assert.NotEqual(t, "password123", u.PasswordHash)
	assert.Greater(t, u.EmailVerificationExpiry, time.Now().Unix())
	mailer.AssertCalled(t, "SendVerificationEmail", "alice@campus.edu", u.EmailVerificationToken)
}

func TestRegister_EmailConflict(t *testing.T) {
	users := &mockUserStore{}
	users.On("ExistsByEmail", mock.Anything, "alice@campus.edu").Return(true, nil)

	svc := newService(t, users, &mockMailer{}, nil)
	_, err := svc.Register(context.Background(), registerReq())

	assert.ErrorIs(t, err, domain.ErrConflict)
	users.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestRegister_StudentIDConflict(t *testing.T) {
	users := &mockUserStore{}
	users.On("ExistsByEmail", mock.Anything, "alice@campus.edu").Return(false, nil)
	users.On("ExistsByStudentID", mock.Anything, "S123").Return(true, nil)

	svc := newService(t, users, &mockMailer{}, nil)
	_, err := svc.Register(context.Background(), registerReq())

	assert.ErrorIs(t, err, domain.ErrConflict)
	users.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestRegister_MailFailureDoesNotFailRegistration(t *testing.T) {
	users := &mockUserStore{}
	mailer := &mockMailer{}
	users.On("ExistsByEmail", mock.Anything, mock.Anything).Return(false, nil)
	users.On("ExistsByStudentID", mock.Anything, mock.Anything).Return(false, nil)
	users.On("Put", mock.Anything, mock.Anything).Return(nil)
	mailer.On("SendVerificationEmail", mock.Anything, mock.Anything).Return(assert.AnError)

	svc := newService(t, users, mailer, nil)
	_, err := svc.Register(context.Background(), registerReq())

	assert.NoError(t, err)
}

// --- login ---

func TestLogin_UnknownEmailAndWrongPasswordLookIdentical(t *testing.T) {
	users := &mockUserStore{}
	users.On("GetByEmail", mock.Anything, "ghost@campus.edu").Return(nil, domain.ErrNotFound)
	users.On("GetByEmail", mock.Anything, "alice@campus.edu").Return(verifiedUser(t), nil)

	svc := newService(t, users, &mockMailer{}, nil)

	_, errUnknown := svc.Login(context.Background(), domain.LoginRequest{
		Email: "ghost@campus.edu", Password: "password123",
	})
	_, errWrongPw := svc.Login(context.Background(), domain.LoginRequest{
		Email: "alice@campus.edu", Password: "wrong-password",
	})

	assert.ErrorIs(t, errUnknown, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPw, domain.ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrongPw.Error())
}

func TestLogin_UnverifiedEmailGatedBeforeTwoFactor(t *testing.T) {
	u := verifiedUser(t)
	u.EmailVerified = false
	u.TwoFactorEnabled = true
	u.TwoFactorSecret = "SECRET"
	users := &mockUserStore{}
	users.On("GetByEmail", mock.Anything, u.Email).Return(u, nil)

	svc := newService(t, users, &mockMailer{}, nil)
	result, err := svc.Login(context.Background(), domain.LoginRequest{
		Email: u.Email, Password: "password123",
	})

	require.NoError(t, err)
	assert.True(t, result.EmailVerificationRequired)
	assert.False(t, result.TwoFactorRequired)
	assert.Empty(t, result.Token)
}

func TestLogin_TwoFactorRequired(t *testing.T) {
	u := verifiedUser(t)
	u.TwoFactorEnabled = true
	u.TwoFactorSecret = "SECRET"
	users := &mockUserStore{}
	users.On("GetByEmail", mock.Anything, u.Email).Return(u, nil)

	svc := newService(t, users, &mockMailer{}, &fakeTOTP{valid: "123456"})
	result, err := svc.Login(context.Background(), domain.LoginRequest{
		Email: u.Email, Password: "password123",
	})

	require.NoError(t, err)
	assert.True(t, result.TwoFactorRequired)
	assert.Empty(t, result.Token)
}

func TestLogin_TwoFactorWrongCode(t *testing.T) {
	u := verifiedUser(t)
	u.TwoFactorEnabled = true
	u.TwoFactorSecret = "SECRET"
	users := &mockUserStore{}
	users.On("GetByEmail", mock.Anything, u.Email).Return(u, nil)

	svc := newService(t, users, &mockMailer{}, &fakeTOTP{valid: "123456"})
	_, err := svc.Login(context.Background(), domain.LoginRequest{
		Email: u.Email, Password: "password123", TwoFactorCode: "654321",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidTwoFactorCode)
}

func TestLogin_SuccessIssuesAuthToken(t *testing.T) {
	u := verifiedUser(t)
	u.TwoFactorEnabled = true
	u.TwoFactorSecret = "SECRET"
	users := &mockUserStore{}
	users.On("GetByEmail", mock.Anything, u.Email).Return(u, nil)

	svc := newService(t, users, &mockMailer{}, &fakeTOTP{valid: "123456"})
	result, err := svc.Login(context.Background(), domain.LoginRequest{
		Email: u.Email, Password: "password123", TwoFactorCode: "123456",
	})

	require.NoError(t, err)
	require.NotEmpty(t, result.Token)

	claims, err := newTestCodec(t).Verify(result.Token)
	require.NoError(t, err)
	assert.Equal(t, jwtinfra.TokenAuth, claims.TokenType)
	assert.Equal(t, u.UserID, claims.UserID)
	assert.Equal(t, u.Role, claims.Role)
	assert.Equal(t, u.StudentID, claims.StudentID)
}

// Repeated wrong-password attempts keep producing the same error; there is
// no lockout state to trip.
func TestLogin_NoLockoutAfterRepeatedFailures(t *testing.T) {
	u := verifiedUser(t)
	users := &mockUserStore{}
	users.On("GetByEmail", mock.Anything, u.Email).Return(u, nil)

	svc := newService(t, users, &mockMailer{}, nil)
	for i := 0; i < 10; i++ {
		_, err := svc.Login(context.Background(), domain.LoginRequest{
			Email: u.Email, Password: "wrong",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	}

	result, err := svc.Login(context.Background(), domain.LoginRequest{
		Email: u.Email, Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
}

// --- forgot / reset password ---

func TestForgotPassword_UnknownEmailSilentlySucceeds(t *testing.T) {
	users := &mockUserStore{}
	mailer := &mockMailer{}
	users.On("GetByEmail", mock.Anything, "ghost@campus.edu").Return(nil, domain.ErrNotFound)

	svc := newService(t, users, mailer, nil)
	err := svc.ForgotPassword(context.Background(), "ghost@campus.edu")

	assert.NoError(t, err)
	mailer.AssertNotCalled(t, "SendPasswordResetEmail", mock.Anything, mock.Anything)
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestForgotPassword_StoresAndMailsToken(t *testing.T) {
	u := verifiedUser(t)
	users := &mockUserStore{}
	mailer := &mockMailer{}
	users.On("GetByEmail", mock.Anything, u.Email).Return(u, nil)

	var stored string
	users.On("Update", mock.Anything, u.UserID, mock.Anything).Run(func(args mock.Arguments) {
		updates := args.Get(2).(map[string]interface{})
		stored = updates[fieldPasswordResetToken].(string)
		assert.Greater(t, updates[fieldPasswordResetExpiry].(int64), time.Now().Unix())
	}).Return(nil)
	mailer.On("SendPasswordResetEmail", u.Email, mock.AnythingOfType("string")).Return(nil)

	svc := newService(t, users, mailer, nil)
	require.NoError(t, svc.ForgotPassword(context.Background(), u.Email))

	require.NotEmpty(t, stored)
	mailer.AssertCalled(t, "SendPasswordResetEmail", u.Email, stored)

	claims, err := newTestCodec(t).Verify(stored)
	require.NoError(t, err)
	assert.Equal(t, jwtinfra.TokenPasswordReset, claims.TokenType)
}

func TestResetPassword_Success(t *testing.T) {
	codec := newTestCodec(t)
	u := verifiedUser(t)
	token, err := codec.IssuePasswordResetToken(u.Email)
	require.NoError(t, err)
	u.PasswordResetToken = token
	u.PasswordResetExpiry = time.Now().Add(10 * time.Minute).Unix()

	users := &mockUserStore{}
	users.On("GetByEmail", mock.Anything, u.Email).Return(u, nil)
	users.On("Update", mock.Anything, u.UserID, mock.Anything).Run(func(args mock.Arguments) {
		updates := args.Get(2).(map[string]interface{})
		assert.Empty(t, updates[fieldPasswordResetToken])
		newHash := updates[fieldPasswordHash].(string)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(newHash), []byte("new-password")))
	}).Return(nil)

	svc := newService(t, users, &mockMailer{}, nil)
	assert.NoError(t, svc.ResetPassword(context.Background(), token, "new-password"))
}

// A signature-valid token that no longer matches the stored copy (consumed
// or superseded by a newer request) is rejected.
func TestResetPassword_SupersededTokenRejected(t *testing.T) {
	codec := newTestCodec(t)
	u := verifiedUser(t)
	oldToken, err := codec.IssuePasswordResetToken(u.Email)
	require.NoError(t, err)

	u.PasswordResetToken = "a-newer-token"
	u.PasswordResetExpiry = time.Now().Add(10 * time.Minute).Unix()
	users := &mockUserStore{}
	users.On("GetByEmail", mock.Anything, u.Email).Return(u, nil)

	svc := newService(t, users, &mockMailer{}, nil)
	err = svc.ResetPassword(context.Background(), oldToken, "new-password")

	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestResetPassword_ReplayAfterUseRejected(t *testing.T) {
	codec := newTestCodec(t)
	u := verifiedUser(t)
	token, err := codec.IssuePasswordResetToken(u.Email)
	require.NoError(t, err)

	// Stored copy already cleared by a previous successful reset.
	u.PasswordResetToken = ""
	users := &mockUserStore{}
	users.On("GetByEmail", mock.Anything, u.Email).Return(u, nil)

	svc := newService(t, users, &mockMailer{}, nil)
	err = svc.ResetPassword(context.Background(), token, "new-password")

	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestResetPassword_WrongTokenTypeRejected(t *testing.T) {
	codec := newTestCodec(t)
	authToken, err := codec.IssueAuthToken("u-1", "alice@campus.edu", domain.RoleStudent, "S123")
	require.NoError(t, err)

	svc := newService(t, &mockUserStore{}, &mockMailer{}, nil)
	err = svc.ResetPassword(context.Background(), authToken, "new-password")

	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestResetPassword_StoredExpiryEnforced(t *testing.T) {
	codec := newTestCodec(t)
	u := verifiedUser(t)
	token, err := codec.IssuePasswordResetToken(u.Email)
	require.NoError(t, err)
	u.PasswordResetToken = token
	u.PasswordResetExpiry = time.Now().Add(-time.Minute).Unix()

	users := &mockUserStore{}
	users.On("GetByEmail", mock.Anything, u.Email).Return(u, nil)

	svc := newService(t, users, &mockMailer{}, nil)
	err = svc.ResetPassword(context.Background(), token, "new-password")

	assert.ErrorIs(t, err, domain.ErrExpired)
}

// --- email verification ---

func TestVerifyEmail_Success(t *testing.T) {
	codec := newTestCodec(t)
	u := verifiedUser(t)
	u.EmailVerified = false
	token, err := codec.IssueEmailVerificationToken(u.Email)
	require.NoError(t, err)
	u.EmailVerificationToken = token
	u.EmailVerificationExpiry = time.Now().Add(time.Hour).Unix()

	users := &mockUserStore{}
	users.On("GetByEmail", mock.Anything, u.Email).Return(u, nil)
	users.On("Update", mock.Anything, u.UserID, mock.Anything).Run(func(args mock.Arguments) {
		updates := args.Get(2).(map[string]interface{})
		assert.Equal(t, true, updates[fieldEmailVerified])
		assert.Empty(t, updates[fieldVerificationToken])
	}).Return(nil)

	svc := newService(t, users, &mockMailer{}, nil)
	assert.NoError(t, svc.VerifyEmail(context.Background(), token))
}

func TestVerifyEmail_AlreadyVerifiedIsNoOp(t *testing.T) {
	codec := newTestCodec(t)
	u := verifiedUser(t)
	token, err := codec.IssueEmailVerificationToken(u.Email)
	require.NoError(t, err)

	users := &mockUserStore{}
	users.On("GetByEmail", mock.Anything, u.Email).Return(u, nil)

	svc := newService(t, users, &mockMailer{}, nil)
	assert.NoError(t, svc.VerifyEmail(context.Background(), token))
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyEmail_SupersededTokenRejected(t *testing.T) {
	codec := newTestCodec(t)
	u := verifiedUser(t)
	u.EmailVerified = false
	oldToken, err := codec.IssueEmailVerificationToken(u.Email)
	require.NoError(t, err)
	u.EmailVerificationToken = "a-newer-token"
	u.EmailVerificationExpiry = time.Now().Add(time.Hour).Unix()

	users := &mockUserStore{}
	users.On("GetByEmail", mock.Anything, u.Email).Return(u, nil)

	svc := newService(t, users, &mockMailer{}, nil)
	err = svc.VerifyEmail(context.Background(), oldToken)

	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestResendVerification_VerifiedAccountIsNoOp(t *testing.T) {
	u := verifiedUser(t)
	users := &mockUserStore{}
	mailer := &mockMailer{}
	users.On("GetByEmail", mock.Anything, u.Email).Return(u, nil)

	svc := newService(t, users, mailer, nil)
	assert.NoError(t, svc.ResendVerification(context.Background(), u.Email))
	mailer.AssertNotCalled(t, "SendVerificationEmail", mock.Anything, mock.Anything)
}

func TestResendVerification_IssuesFreshToken(t *testing.T) {
	u := verifiedUser(t)
	u.EmailVerified = false
	u.EmailVerificationToken = "stale-token"
	users := &mockUserStore{}
	mailer := &mockMailer{}
	users.On("GetByEmail", mock.Anything, u.Email).Return(u, nil)

	var stored string
	users.On("Update", mock.Anything, u.UserID, mock.Anything).Run(func(args mock.Arguments) {
		stored = args.Get(2).(map[string]interface{})[fieldVerificationToken].(string)
	}).Return(nil)
	mailer.On("SendVerificationEmail", u.Email, mock.AnythingOfType("string")).Return(nil)

	svc := newService(t, users, mailer, nil)
	require.NoError(t, svc.ResendVerification(context.Background(), u.Email))

	assert.NotEmpty(t, stored)
	assert.NotEqual(t, "stale-token", stored)
	mailer.AssertCalled(t, "SendVerificationEmail", u.Email, stored)
}

// --- admin seed ---

func TestEnsureAdmin_CreatesVerifiedAdmin(t *testing.T) {
	users := &mockUserStore{}
	users.On("ExistsByEmail", mock.Anything, "admin@campus.edu").Return(false, nil)
	users.On("Put", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Role == domain.RoleAdmin && u.EmailVerified
	})).Return(nil)

	svc := newService(t, users, &mockMailer{}, nil)
	assert.NoError(t, svc.EnsureAdmin(context.Background(), "admin@campus.edu", "admin-password"))
	users.AssertExpectations(t)
}

func TestEnsureAdmin_ExistingAccountUntouched(t *testing.T) {
	users := &mockUserStore{}
	users.On("ExistsByEmail", mock.Anything, "admin@campus.edu").Return(true, nil)

	svc := newService(t, users, &mockMailer{}, nil)
	assert.NoError(t, svc.EnsureAdmin(context.Background(), "admin@campus.edu", "admin-password"))
	users.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestEnsureAdmin_UnsetConfigIsNoOp(t *testing.T) {
	users := &mockUserStore{}

	svc := newService(t, users, &mockMailer{}, nil)
	assert.NoError(t, svc.EnsureAdmin(context.Background(), "", ""))
	users.AssertNotCalled(t, "ExistsByEmail", mock.Anything, mock.Anything)
}
