package events

import (
	"context"
	"fmt"

	"buffet/pkg/logger"

	"github.com/mailersend/mailersend-go"
)

type Email struct {
	ToName  string
	ToEmail string
	Subject string
	Text    string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, email Email) error
}

type mailerSendMailer struct {
	client *mailersend.Mailersend
	from   mailersend.From
	log    *logger.Logger
}

// NewMailer sends through MailerSend, or only logs when apiKey is empty.
func NewMailer(apiKey, fromEmail, fromName string, log *logger.Logger) Mailer {
	if apiKey == "" {
		return &logMailer{log: log}
	}
	return &mailerSendMailer{
		client: mailersend.NewMailersend(apiKey),
		from:   mailersend.From{Name: fromName, Email: fromEmail},
		log:    log,
	}
}

func (m *mailerSendMailer) Send(ctx context.Context, email Email) error {
	message := m.client.Email.NewMessage()
	message.SetFrom(m.from)
	message.SetRecipients([]mailersend.Recipient{{Name: email.ToName, Email: email.ToEmail}})
	message.SetSubject(email.Subject)
	message.SetText(email.Text)
	if email.HTML != "" {
		message.SetHTML(email.HTML)
	}

	res, err := m.client.Email.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("mailersend: %w", err)
	}
	m.log.Info("Email sent", "to", email.ToEmail, "subject", email.Subject, "message_id", res.Header.Get("X-Message-Id"))
	return nil
}

type logMailer struct {
	log *logger.Logger
}

func (m *logMailer) Send(ctx context.Context, email Email) error {
	m.log.Info("Mailer not configured, email skipped", "to", email.ToEmail, "subject", email.Subject)
	return nil
}
