package services

import (
	"fmt"
	"log"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/example/pixelcart/internal/config"
)

// OTPSender delivers one-time passwords to users.
type OTPSender interface {
	SendOTP(to, code string) error
}

// Mailer sends transactional email over SMTP.
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	brand    string
}

// NewMailer creates a Mailer from config.
func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.EmailFrom,
		brand:    cfg.BrandName,
	}
}

// SendOTP emails the plain-text OTP code. When SMTP is not configured the
// code is logged instead so local development works without a mail account.
func (m *Mailer) SendOTP(to, code string) error {
	if m.host == "" {
		log.Printf("[Mailer] SMTP not configured, OTP for %s: %s", to, code)
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, m.brand)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Your One-Time Password (OTP)")
	msg.SetBody("text/html", m.otpBody(code))

	dialer := gomail.NewDialer(m.host, m.port, m.username, m.password)
	if err := dialer.DialAndSend(msg); err != nil {
		log.Printf("[Mailer] failed to send OTP to %s: %v", to, err)
		return err
	}

	log.Printf("[Mailer] OTP email sent to %s", to)
	return nil
}

func (m *Mailer) otpBody(code string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto; padding: 20px;">
  <h2 style="text-align: center;">%s Login</h2>
  <p>Your One-Time Password (OTP) for logging in is:</p>
  <p style="text-align: center; font-size: 24px; font-weight: bold; letter-spacing: 2px;">%s</p>
  <p>This OTP is valid for <strong>5 minutes</strong>. Please do not share this code with anyone.</p>
  <hr>
  <p style="font-size: 12px; color: #888; text-align: center;">&copy; %d %s</p>
</div>`, m.brand, code, time.Now().Year(), m.brand)
}
