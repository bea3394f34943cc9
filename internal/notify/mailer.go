package notify

import (
	"context"

	"github.com/m365ops/contactsync/pkg/errors"
	"github.com/m365ops/contactsync/pkg/logging"
	"github.com/m365ops/contactsync/pkg/sync"
)

// Mailer delivers a message to a list of recipients.
type Mailer interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

// MailSender is the part of the Graph client that sends mail.
type MailSender interface {
	SendMail(ctx context.Context, sender string, to []string, subject, text string) error
}

// GraphMailer sends mail from one mailbox through Microsoft Graph.
type GraphMailer struct {
	client MailSender
	from   string
}

// NewGraphMailer returns a mailer that sends as from.
func NewGraphMailer(client MailSender, from string) *GraphMailer {
	return &GraphMailer{client: client, from: from}
}

// Send implements Mailer.
func (m *GraphMailer) Send(ctx context.Context, to []string, subject, body string) error {
	if m.from == "" {
		return &errors.ValidationError{Field: "notify_from", Message: "sender mailbox is required"}
	}
	if len(to) == 0 {
		return nil
	}
	return m.client.SendMail(ctx, m.from, to, subject, body)
}

// Deliver mails the summary of result to the recipients in opts.
// It is a no-op when no recipients are configured.
func Deliver(ctx context.Context, mailer Mailer, opts *sync.Options, result *sync.Result) error {
	if opts == nil || len(opts.NotifyTo) == 0 {
		return nil
	}
	if mailer == nil {
		return &errors.ValidationError{Field: "mailer", Message: "cannot be nil"}
	}

	body, err := RenderMarkdown(result)
	if err != nil {
		return err
	}

	if err := mailer.Send(ctx, opts.NotifyTo, Subject(result), body); err != nil {
		return errors.WrapResource("send", "summary", opts.Sender(), err)
	}

	logging.FromContext(ctx).Info().
		Strs("to", opts.NotifyTo).
		Str("from", opts.Sender()).
		Msg("Sent sync summary")
	return nil
}
