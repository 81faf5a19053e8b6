package utils

import (
	"fmt"

	"github.com/Govind-619/ScentSphere/models"
	"gopkg.in/gomail.v2"
)

// EmailConfig holds email configuration
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer sends transactional email over SMTP
type Mailer struct {
	config EmailConfig
	dialer *gomail.Dialer
}

// NewMailer creates a Mailer. An empty host yields a mailer that only logs.
func NewMailer(config EmailConfig) *Mailer {
	m := &Mailer{config: config}
	if config.Host != "" {
		m.dialer = gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)
	}
	return m
}

// SendGiftCard emails a gift code to its recipient
func (m *Mailer) SendGiftCard(to string, gift models.GiftCode, senderEmail string) error {
	if m.dialer == nil {
		LogInfo("SMTP not configured, skipping gift card email to %s", to)
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.config.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "You've received a ScentSphere gift card")

	note := ""
	if gift.Message != "" {
		note = fmt.Sprintf(`<p><em>"%s"</em></p>`, SanitizeString(gift.Message))
	}
	body := fmt.Sprintf(`
		<h2>A gift from %s</h2>
		<p>You have received a ScentSphere gift card worth <strong>%s</strong>.</p>
		%s
		<h1 style="color: #8E44AD; font-size: 28px; letter-spacing: 3px;">%s</h1>
		<p>Redeem it from your wallet page to add the balance to your account.</p>
	`, SanitizeString(senderEmail), FormatMoney(gift.Amount), note, gift.Code)
	msg.SetBody("text/html", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}
