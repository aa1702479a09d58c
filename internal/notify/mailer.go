// Package notify delivers outbound document emails over SMTP.
package notify

import (
	"bytes"
	"errors"

	"github.com/wneessen/go-mail"

	"github.com/inhaus-automation/backend/internal/common"
	"github.com/inhaus-automation/backend/internal/obs"
)

// Instrument wraps a sender with delivery outcome metrics for one document type.
func Instrument(inner common.EmailSender, docType string) common.EmailSender {
	return instrumented{inner: inner, docType: docType}
}

type instrumented struct {
	inner   common.EmailSender
	docType string
}

func (i instrumented) Send(to, subject, html string, attachment *common.Attachment) error {
	err := i.inner.Send(to, subject, html, attachment)
	obs.ObserveEmail(i.docType, err)
	return err
}

// Mailer sends HTML emails with an optional PDF attachment via SMTP.
// It implements common.EmailSender.
type Mailer struct {
	client *mail.Client
	from   string
}

// MailerConfig configures the SMTP connection.
type MailerConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// NewMailer constructs a Mailer. Returns an error when the host or sender
// address is missing.
func NewMailer(cfg MailerConfig) (*Mailer, error) {
	if cfg.Host == "" {
		return nil, errors.New("notify: smtp host is required")
	}
	if cfg.From == "" {
		return nil, errors.New("notify: from address is required")
	}
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, err
	}
	return &Mailer{client: client, from: cfg.From}, nil
}

// Send delivers a single message. A nil attachment sends a plain HTML email.
func (m *Mailer) Send(to, subject, html string, attachment *common.Attachment) error {
	if m == nil || m.client == nil {
		return common.ErrEmailUnavailable
	}
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, html)
	if attachment != nil {
		if err := msg.AttachReader(attachment.Filename, bytes.NewReader(attachment.Data),
			mail.WithFileContentType(mail.ContentType(attachment.ContentType))); err != nil {
			return err
		}
	}
	return m.client.DialAndSend(msg)
}
