// Package notify delivers budget emails through a transactional email
// provider. The ledger treats delivery as best-effort: failures are
// reported to the caller for logging and never roll anything back.
package notify

import "context"

// Recipient is a single email recipient.
type Recipient struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Notifier sends an HTML email to a set of recipients.
type Notifier interface {
	Send(ctx context.Context, to []Recipient, subject, htmlBody string) error
}
