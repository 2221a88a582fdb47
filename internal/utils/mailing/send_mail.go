package mailing

import (
	"SmartExpire/internal/utils"
	"fmt"
	"strconv"

	"gopkg.in/gomail.v2"
)

type MailConfig struct {
	AppURL       string
	SMTPHost     string
	SMTPPort     string
	SMTPSender   string
	SMTPEmail    string
	SMTPPassword string
}

func LoadMailConfig() MailConfig {
	return MailConfig{
		AppURL:       utils.GetConfig("APP_URL"),
		SMTPHost:     utils.GetConfig("SMTP_HOST"),
		SMTPPort:     utils.GetConfig("SMTP_PORT"),
		SMTPSender:   utils.GetConfig("SMTP_SENDER_NAME"),
		SMTPEmail:    utils.GetConfig("SMTP_AUTH_EMAIL"),
		SMTPPassword: utils.GetConfig("SMTP_AUTH_PASSWORD"),
	}
}

type (
	Mailer interface {
		SendMail(toEmail string, subject string, body string) error
		Enabled() bool
	}

	smtpMailer struct {
		config MailConfig
	}
)

func NewMailer(config MailConfig) Mailer {
	return &smtpMailer{config: config}
}

// Enabled is false when no SMTP host is configured.
func (m *smtpMailer) Enabled() bool {
	return m.config.SMTPHost != ""
}

func (m *smtpMailer) SendMail(toEmail string, subject string, body string) error {
	mailer := m.message(toEmail, subject, body)
	port, err := strconv.Atoi(m.config.SMTPPort)
	if err != nil {
		return err
	}
	dialer := gomail.NewDialer(
		m.config.SMTPHost,
		port,
		m.config.SMTPEmail,
		m.config.SMTPPassword,
	)

	return dialer.DialAndSend(mailer)
}

func (m *smtpMailer) message(toEmail string, subject string, body string) *gomail.Message {
	mailer := gomail.NewMessage()
	if m.config.SMTPSender != "" {
		mailer.SetAddressHeader("From", m.config.SMTPEmail, m.config.SMTPSender)
	} else {
		mailer.SetHeader("From", m.config.SMTPEmail)
	}
	mailer.SetHeader("To", toEmail)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/html", body)
	return mailer
}

// VerificationBody renders the sign-up confirmation mail.
func VerificationBody(appURL string, firstName string, token string) string {
	link := fmt.Sprintf("%s/api/v1/auth/verify?token=%s", appURL, token)
	return fmt.Sprintf(`<p>Hi %s,</p>
<p>Thanks for signing up for SmartExpire. Confirm your email address to start tracking your pantry:</p>
<p><a href="%s">Verify my email</a></p>
<p>If you did not create an account you can ignore this message.</p>`, firstName, link)
}
