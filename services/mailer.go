package services

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"os"
)

// Mailer sends transactional mail. An interface so tests can substitute a
// recording implementation.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer delivers over implicit-TLS SMTP (port 465 style).
type SMTPMailer struct {
	smtpHost string
	smtpPort string
	username string
	password string
}

// NewSMTPMailer reads SMTP_HOST, SMTP_PORT, EMAIL_USER and EMAIL_PASSWORD.
func NewSMTPMailer() *SMTPMailer {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		host = "smtp.gmail.com"
	}
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "465"
	}
	return &SMTPMailer{
		smtpHost: host,
		smtpPort: port,
		username: os.Getenv("EMAIL_USER"),
		password: os.Getenv("EMAIL_PASSWORD"),
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	from := m.username
	msg := []byte(
		fmt.Sprintf("From: %s\r\n", from) +
			fmt.Sprintf("To: %s\r\n", to) +
			fmt.Sprintf("Subject: %s\r\n", subject) +
			"MIME-Version: 1.0\r\n" + // required for HTML
			"Content-Type: text/html; charset=\"utf-8\"\r\n" +
			"\r\n" +
			body,
	)

	serverAddr := m.smtpHost + ":" + m.smtpPort

	// Implicit TLS for port 465
	tlsConfig := &tls.Config{
		ServerName: m.smtpHost,
	}

	conn, err := tls.Dial("tcp", serverAddr, tlsConfig)
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, m.smtpHost)
	if err != nil {
		return err
	}
	defer client.Quit()

	auth := smtp.PlainAuth("", m.username, m.password, m.smtpHost)
	if err := client.Auth(auth); err != nil {
		return err
	}

	if err := client.Mail(from); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	return nil
}

// PasswordResetBody renders the reset mail for the given link.
func PasswordResetBody(resetURL string) string {
	return fmt.Sprintf(`<h1>Password Reset Request</h1>
<p>You requested a password reset. Click the link below to reset your password:</p>
<a href="%s">Reset Password</a>
<p>This link will expire in 1 hour.</p>`, resetURL)
}
