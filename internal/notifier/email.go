package notifier

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"
)

// SMTPConfig holds the mail server settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	To       []string
	Subject  string
	Body     string
}

// EmailNotifier mails the attachment. The SMTP username is the sender.
type EmailNotifier struct {
	cfg  SMTPConfig
	send func(mail *email.Email, addr string, auth smtp.Auth) error
}

// NewEmailNotifier creates an EmailNotifier.
func NewEmailNotifier(cfg SMTPConfig) (*EmailNotifier, error) {
	if cfg.Host == "" || cfg.Username == "" || len(cfg.To) == 0 {
		return nil, fmt.Errorf("%w: smtp host, username and recipient are required", ErrNotConfigured)
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.Subject == "" {
		cfg.Subject = "Judgments export"
	}
	if cfg.Body == "" {
		cfg.Body = "Please find the latest judgments attached."
	}

	return &EmailNotifier{
		cfg: cfg,
		send: func(mail *email.Email, addr string, auth smtp.Auth) error {
			return mail.Send(addr, auth)
		},
	}, nil
}

func (n *EmailNotifier) message(a *Attachment) (*email.Email, error) {
	mail := email.NewEmail()
	mail.From = n.cfg.Username
	mail.To = n.cfg.To
	mail.Subject = n.cfg.Subject
	mail.Text = []byte(n.cfg.Body)

	if _, err := mail.Attach(bytes.NewReader(a.Data), a.Filename, a.ContentType); err != nil {
		return nil, fmt.Errorf("attaching %s: %w", a.Filename, err)
	}
	return mail, nil
}

// Notify implements Notifier. The client upgrades to STARTTLS when the
// server offers it; servers without AUTH are retried unauthenticated.
// The SMTP client itself ignores ctx, so Notify returns when ctx ends and
// leaves the exchange to finish in the background.
func (n *EmailNotifier) Notify(ctx context.Context, a *Attachment) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	mail, err := n.message(a)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)

	done := make(chan error, 1)
	go func() {
		err := n.send(mail, addr, auth)
		if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
			err = n.send(mail, addr, nil)
		}
		done <- err
	}()

	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	return nil
}
