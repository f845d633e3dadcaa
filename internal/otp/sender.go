package otp

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"pguncle/internal/config"
)

// Sender delivers one-time codes by email.
type Sender interface {
	SendOTP(toEmail, code string) error
}

// SMTPSender sends mail through the configured SMTP relay.
type SMTPSender struct {
	cfg      config.SMTPConfig
	siteName string
	send     func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPSender(cfg config.SMTPConfig, siteName string) *SMTPSender {
	return &SMTPSender{cfg: cfg, siteName: siteName, send: smtp.SendMail}
}

func (s *SMTPSender) SendOTP(toEmail, code string) error {
	if !s.cfg.Configured() {
		return fmt.Errorf("smtp is not configured")
	}

	body, err := renderOTPEmail(s.siteName, code)
	if err != nil {
		return err
	}

	message := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Your %s login code\r\n"+
			"MIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n%s",
		s.cfg.From, toEmail, s.siteName, body))

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if err := s.send(s.cfg.Host+":"+s.cfg.Port, auth, s.cfg.From, []string{toEmail}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

var otpTemplate = template.Must(template.New("otp").Parse(
	`<div style="font-family: Arial, sans-serif; max-width: 500px; margin: auto; border: 1px solid #1f6feb; border-radius: 10px; padding: 20px;">
	<div style="text-align: center;">
		<h2 style="color: #1f6feb;">{{.Site}} login code</h2>
		<p style="font-size: 16px; color: #555;">Use the following code to sign in:</p>
		<div style="font-size: 32px; font-weight: bold; letter-spacing: 4px; padding: 10px; display: inline-block; background-color: #eef4ff; border-radius: 8px;">{{.Code}}</div>
		<p style="font-size: 14px; color: #888; margin-top: 15px;">This code expires in 10 minutes. Do not share it with anyone.</p>
	</div>
</div>`))

func renderOTPEmail(site, code string) (string, error) {
	var buf bytes.Buffer
	if err := otpTemplate.Execute(&buf, struct{ Site, Code string }{site, code}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
