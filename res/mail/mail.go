package mail

import (
	"context"
)

// MailService defines the interface for outbound email delivery
type MailService interface {
	// Send delivers a single HTML email. From is "Name <address>".
	Send(ctx context.Context, from string, to []string, subject, htmlBody string) error
}
