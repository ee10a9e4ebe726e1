package smtp

import (
	"fmt"
	"net/smtp"
	"net/url"

	"github.com/campus-os/api/internal/config"
)

// Mailer sends emails.
type Mailer interface {
	SendEmail(to, subject, body string) error
	SendVerificationEmail(to, token string) error
	SendPasswordResetEmail(to, token string) error
}

type mailer struct {
	host        string
	port        string
	from        string
	username    string
	password    string
	frontendURL string
}

func NewMailer(cfg *config.Config) Mailer {
	return &mailer{
		host:        cfg.SMTPHost,
		port:        cfg.SMTPPort,
		from:        cfg.SMTPFrom,
		username:    cfg.SMTPUsername,
		password:    cfg.SMTPPassword,
		frontendURL: cfg.FrontendBaseURL,
	}
}

func (m *mailer) SendEmail(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", m.from, to, subject, body)
	addr := fmt.Sprintf("%s:%s", m.host, m.port)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	return smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg))
}

// SendVerificationEmail sends the email-verification link for a new account.
func (m *mailer) SendVerificationEmail(to, token string) error {
	link := fmt.Sprintf("%s/verify-email?token=%s", m.frontendURL, url.QueryEscape(token))
	body := fmt.Sprintf(
		"Welcome!\r\n\r\nPlease verify your email address by opening the link below:\r\n\r\n%s\r\n\r\nThe link expires in 24 hours. If you did not create an account, ignore this email.",
		link,
	)
	return m.SendEmail(to, "Verify your email address", body)
}

// SendPasswordResetEmail sends the password-reset link.
func (m *mailer) SendPasswordResetEmail(to, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", m.frontendURL, url.QueryEscape(token))
	body := fmt.Sprintf(
		"A password reset was requested for your account.\r\n\r\nOpen the link below to choose a new password:\r\n\r\n%s\r\n\r\nThe link expires in 15 minutes. If you did not request a reset, ignore this email.",
		link,
	)
	return m.SendEmail(to, "Reset your password", body)
}
