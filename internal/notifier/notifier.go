package notifier

import (
	"context"
	"errors"
)

// Attachment is an exported artifact ready to be delivered.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
	Records     int
}

// Notifier delivers an attachment to its recipients.
type Notifier interface {
	Notify(ctx context.Context, a *Attachment) error
}

// ErrNotConfigured is returned when a notifier lacks a required setting.
var ErrNotConfigured = errors.New("notifier not configured")

// Multi sends through each notifier in order and stops at the first error.
type Multi []Notifier

// Notify implements Notifier.
func (m Multi) Notify(ctx context.Context, a *Attachment) error {
	for _, n := range m {
		if err := n.Notify(ctx, a); err != nil {
			return err
		}
	}
	return nil
}
