package queue

import (
	"fmt"
	"net/smtp"

	"workshop-management-backend/internal/config"
	"workshop-management-backend/pkg/logger"
)

// Mailer delivers rendered emails over SMTP.
type Mailer struct {
	addr string
	host string
	user string
	pass string
	from string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		addr: fmt.Sprintf("%s:%s", cfg.SMTPHost, cfg.SMTPPort),
		host: cfg.SMTPHost,
		user: cfg.SMTPUser,
		pass: cfg.SMTPPass,
		from: cfg.SMTPFrom,
	}
}

func (m *Mailer) Send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		m.from, to, subject, body,
	)

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.pass, m.host)
	}

	if err := smtp.SendMail(m.addr, auth, m.from, []string{to}, []byte(msg)); err != nil {
		logger.Get().Warnf("failed to send email to %s: %v", to, err)
		return fmt.Errorf("send email: %w", err)
	}

	logger.Get().Infof("email sent to %s", to)
	return nil
}
