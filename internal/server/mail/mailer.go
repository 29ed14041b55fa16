// Package mail is the outbound e-mail collaborator: a narrow send-HTML
// interface plus the SMTP implementation and the message bodies the reset
// protocol dispatches.
package mail

import "context"

// Mailer sends a single HTML message. Implementations must not retry or
// queue; delivery management is out of scope for the caller.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
