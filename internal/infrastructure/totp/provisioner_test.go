package totpinfra

import (
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codeAt(t *testing.T, secret string, at time.Time) string {
	t.Helper()
	code, err := totp.GenerateCodeCustom(secret, at, totp.ValidateOpts{
		Period:    30,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	require.NoError(t, err)
	return code
}

func TestGenerateSecret(t *testing.T) {
	p := NewProvisioner("Campus")

	s1, err := p.GenerateSecret()
	require.NoError(t, err)
	s2, err := p.GenerateSecret()
	require.NoError(t, err)

	assert.Len(t, s1, 32)
	assert.NotEqual(t, s1, s2)
	assert.NotContains(t, s1, "=")
}

func TestProvisioningURI(t *testing.T) {
	p := NewProvisioner("Campus Portal")

	uri := p.ProvisioningURI("SECRET", "alice@campus.edu")
	assert.True(t, strings.HasPrefix(uri, "otpauth://totp/"))
	assert.Contains(t, uri, "secret=SECRET")
	assert.Contains(t, uri, "algorithm=SHA1")
	assert.Contains(t, uri, "digits=6")
	assert.Contains(t, uri, "period=30")

	key, err := otp.NewKeyFromURL(uri)
	require.NoError(t, err)
	assert.Equal(t, "Campus Portal", key.Issuer())
	assert.Equal(t, "alice@campus.edu", key.AccountName())
}

func TestQRCodeDataURI(t *testing.T) {
	p := NewProvisioner("Campus")
	secret, err := p.GenerateSecret()
	require.NoError(t, err)

	qr, err := p.QRCodeDataURI(secret, "alice@campus.edu")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(qr, "data:image/png;base64,"))
}

func TestVerifyCode_CurrentStep(t *testing.T) {
	p := NewProvisioner("Campus")
	secret, err := p.GenerateSecret()
	require.NoError(t, err)

	assert.True(t, p.VerifyCode(secret, codeAt(t, secret, time.Now())))
}

func TestVerifyCode_AcceptsOneStepOfDrift(t *testing.T) {
	p := NewProvisioner("Campus")
	secret, err := p.GenerateSecret()
	require.NoError(t, err)

	assert.True(t, p.VerifyCode(secret, codeAt(t, secret, time.Now().Add(-30*time.Second))))
	assert.True(t, p.VerifyCode(secret, codeAt(t, secret, time.Now().Add(30*time.Second))))
}

func TestVerifyCode_RejectsStaleAndGarbage(t *testing.T) {
	p := NewProvisioner("Campus")
	secret, err := p.GenerateSecret()
	require.NoError(t, err)

	// Three steps in the past is outside the accepted window.
	assert.False(t, p.VerifyCode(secret, codeAt(t, secret, time.Now().Add(-90*time.Second))))
	assert.False(t, p.VerifyCode(secret, "000000"))
	assert.False(t, p.VerifyCode(secret, "abcdef"))
	assert.False(t, p.VerifyCode(secret, ""))
}
