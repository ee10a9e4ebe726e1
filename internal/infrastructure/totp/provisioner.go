package totpinfra

import (
	"bytes"
	"crypto/rand"
	"encoding/base32"
	"encoding/base64"
	"fmt"
	"image/png"
	"net/url"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// secretLen is the raw secret size in bytes; 20 bytes encodes to a
// 32-character base32 string, the size authenticator apps expect.
const secretLen = 20

// Provisioner generates TOTP shared secrets and verifies submitted codes.
// Codes are standard RFC 6238: SHA1, 6 digits, 30-second period. Submitted
// codes are never logged or persisted.
type Provisioner struct {
	issuer string
}

func NewProvisioner(issuer string) *Provisioner {
	return &Provisioner{issuer: issuer}
}

// GenerateSecret returns a new cryptographically random base32 secret.
func (p *Provisioner) GenerateSecret() (string, error) {
	b := make([]byte, secretLen)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate totp secret: %w", err)
	}
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(b), nil
}

// ProvisioningURI builds the otpauth:// URI encoding issuer, account label
// and code parameters, suitable for QR rendering by an authenticator app.
func (p *Provisioner) ProvisioningURI(secret, account string) string {
	q := url.Values{}
	q.Set("secret", secret)
	q.Set("issuer", p.issuer)
	q.Set("algorithm", "SHA1")
	q.Set("digits", "6")
	q.Set("period", "30")
	return fmt.Sprintf("otpauth://totp/%s:%s?%s",
		url.PathEscape(p.issuer), url.PathEscape(account), q.Encode())
}

// QRCodeDataURI renders the provisioning URI as a PNG data URI for inline
// display during setup.
func (p *Provisioner) QRCodeDataURI(secret, account string) (string, error) {
	key, err := otp.NewKeyFromURL(p.ProvisioningURI(secret, account))
	if err != nil {
		return "", fmt.Errorf("build totp key: %w", err)
	}
	img, err := key.Image(200, 200)
	if err != nil {
		return "", fmt.Errorf("render qr code: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode qr png: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// VerifyCode checks the submitted code against the current time step,
// accepting one step of clock drift in either direction.
func (p *Provisioner) VerifyCode(secret, code string) bool {
	ok, err := totp.ValidateCustom(code, secret, time.Now(), totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}
