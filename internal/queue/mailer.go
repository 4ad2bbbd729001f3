package queue

import (
    "github.com/sirupsen/logrus"
    "gopkg.in/gomail.v2"

    "github.com/iliyamo/stay-reservation/internal/config"
)

// Mailer delivers one rendered e-mail.
type Mailer interface {
    Send(to, subject, body string) error
}

// SMTPMailer sends mail through an SMTP relay.
type SMTPMailer struct {
    cfg config.SMTPConfig
}

// NewMailer returns an SMTPMailer, or a LogMailer when no SMTP host is set.
func NewMailer(cfg config.SMTPConfig, log logrus.FieldLogger) Mailer {
    if cfg.Host == "" {
        return LogMailer{Log: log}
    }
    return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
    msg := gomail.NewMessage()
    msg.SetHeader("From", m.cfg.From)
    msg.SetHeader("To", to)
    msg.SetHeader("Subject", subject)
    msg.SetBody("text/plain", body)

    d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.User, m.cfg.Pass)
    return d.DialAndSend(msg)
}

// LogMailer logs messages instead of sending them.
type LogMailer struct {
    Log logrus.FieldLogger
}

func (m LogMailer) Send(to, subject, body string) error {
    m.Log.WithFields(logrus.Fields{"to": to, "subject": subject}).Info(body)
    return nil
}
