package mail

import (
	"context"
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/dmitrijs2005/vaultkeeper/internal/common"
)

// SMTPMailer delivers messages over SMTP with STARTTLS.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer constructs a mailer for the given SMTP endpoint. from is the
// sender address placed in the From header.
func NewSMTPMailer(host string, port int, user, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
	}
}

// Send delivers one HTML message. Failures are wrapped in common.ErrDelivery;
// message bodies are never logged here.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("%w: %v", common.ErrDelivery, err)
	}

	return nil
}
