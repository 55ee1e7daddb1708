package services

import (
	"crypto/tls"
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
)

// EmailService sends transactional mail over SMTP. When SMTP credentials
// are absent the service stays unconfigured and callers fall back to
// logging the token instead of failing the request.
type EmailService struct {
	host        string
	port        int
	username    string
	password    string
	from        string
	frontendURL string
}

// NewEmailService reads SMTP settings from the environment
func NewEmailService(frontendURL string) *EmailService {
	port := 587
	if p := os.Getenv("SMTP_PORT"); p != "" {
		fmt.Sscanf(p, "%d", &port)
	}

	host := os.Getenv("SMTP_HOST")
	if host == "" {
		host = "smtp.gmail.com"
	}
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "noreply@campusgate.example.com"
	}

	return &EmailService{
		host:        host,
		port:        port,
		username:    os.Getenv("SMTP_USERNAME"),
		password:    os.Getenv("SMTP_PASSWORD"),
		from:        from,
		frontendURL: frontendURL,
	}
}

// IsConfigured reports whether SMTP credentials are present
func (e *EmailService) IsConfigured() bool {
	return e.username != "" && e.password != ""
}

// SendPasswordResetEmail mails the reset link to the user. The token
// expires after one hour, matching what the body tells the reader.
func (e *EmailService) SendPasswordResetEmail(toEmail, resetToken, userName string) error {
	if !e.IsConfigured() {
		log.Printf("SMTP not configured. Reset token for %s: %s", toEmail, resetToken)
		return fmt.Errorf("SMTP not configured")
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", e.frontendURL, resetToken)

	return e.send(toEmail, "Reset Your Password - CampusGate Admissions", passwordResetBody(userName, resetLink))
}

func passwordResetBody(userName, resetLink string) string {
	if userName == "" {
		userName = "there"
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Reset Your Password</title>
</head>
<body style="font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; color: #333;">
    <h1 style="color: #1a3c6e;">CampusGate Admissions</h1>
    <h2>Reset Your Password</h2>
    <p>Hello %s,</p>
    <p>We received a request to reset the password for your CampusGate account. Click the button below to choose a new one:</p>
    <p style="text-align: center;">
        <a href="%s" style="display: inline-block; background-color: #1a3c6e; color: #ffffff; padding: 12px 28px; text-decoration: none; border-radius: 6px;">Reset Password</a>
    </p>
    <p>If the button does not work, copy and paste this link into your browser:</p>
    <p style="word-break: break-all; font-size: 12px; color: #666;">%s</p>
    <p style="font-size: 13px; background-color: #fff3cd; border: 1px solid #ffc107; border-radius: 4px; padding: 12px;">
        This link expires in 1 hour. If you did not request a password reset, you can safely ignore this email.
    </p>
</body>
</html>`, userName, resetLink, resetLink)
}

// send delivers one HTML message over SMTP with STARTTLS
func (e *EmailService) send(to, subject, htmlBody string) error {
	var message strings.Builder
	message.WriteString(fmt.Sprintf("From: CampusGate Admissions <%s>\r\n", e.from))
	message.WriteString(fmt.Sprintf("To: %s\r\n", to))
	message.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	message.WriteString("MIME-Version: 1.0\r\n")
	message.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	message.WriteString("\r\n")
	message.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%d", e.host, e.port)
	auth := smtp.PlainAuth("", e.username, e.password, e.host)

	conn, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	if err := conn.StartTLS(&tls.Config{ServerName: e.host}); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}
	if err := conn.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err := conn.Mail(e.from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := conn.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := conn.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}
	if _, err := w.Write([]byte(message.String())); err != nil {
		return fmt.Errorf("failed to write email body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	conn.Quit()

	log.Printf("Password reset email sent to: %s", to)
	return nil
}
