package notifier

import (
	"context"
	"fmt"
	"io"
	"os"
)

// DryRunNotifier prints what would be sent without sending anything.
type DryRunNotifier struct {
	w        io.Writer
	email    *SMTPConfig
	sms      *SMSConfig
	telegram *TelegramConfig
}

// NewDryRunNotifier creates a dry-run notifier writing to w (stdout if nil).
// email and sms describe the channels that would be used; either may be nil.
func NewDryRunNotifier(w io.Writer, email *SMTPConfig, sms *SMSConfig) *DryRunNotifier {
	if w == nil {
		w = os.Stdout
	}
	return &DryRunNotifier{w: w, email: email, sms: sms}
}

// WithTelegram adds the Telegram channel to the dry run.
func (n *DryRunNotifier) WithTelegram(cfg *TelegramConfig) *DryRunNotifier {
	n.telegram = cfg
	return n
}

// Notify prints the messages that would be sent.
func (n *DryRunNotifier) Notify(ctx context.Context, a *Attachment) error {
	if n.email != nil {
		fmt.Fprintln(n.w, "--- Email (dry run) ---")
		fmt.Fprintf(n.w, "From: %s\n", n.email.Username)
		fmt.Fprintf(n.w, "To: %v\n", n.email.To)
		fmt.Fprintf(n.w, "Subject: %s\n", n.email.Subject)
		fmt.Fprintf(n.w, "Attachment: %s (%d bytes, %d records)\n\n", a.Filename, len(a.Data), a.Records)
	}
	if n.sms != nil {
		fmt.Fprintln(n.w, "--- SMS (dry run) ---")
		fmt.Fprintf(n.w, "To: %s\n", n.sms.To)
		fmt.Fprintf(n.w, "Message: %s\n\n", n.sms.Message)
	}
	if n.telegram != nil {
		fmt.Fprintln(n.w, "--- Telegram (dry run) ---")
		fmt.Fprintf(n.w, "Chat: %s\n", n.telegram.ChatID)
		fmt.Fprintf(n.w, "Document: %s (%s)\n\n", a.Filename, caption(a))
	}
	if n.email == nil && n.sms == nil && n.telegram == nil {
		fmt.Fprintf(n.w, "Would deliver %s (%d bytes); no channel configured\n", a.Filename, len(a.Data))
	}
	return nil
}
