package common

import "errors"

// ErrEmailUnavailable indicates the mailer is not configured or unreachable.
var ErrEmailUnavailable = errors.New("email: sender unavailable")

// Attachment is a binary payload delivered alongside an email.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// EmailSender defines the contract for sending HTML emails with an
// optional attachment.
type EmailSender interface {
	Send(to, subject, html string, attachment *Attachment) error
}

// Email represents a single email message captured by InMemoryEmail.
type Email struct {
	To         string
	Subject    string
	HTML       string
	Attachment *Attachment
}

// InMemoryEmail provides a test-friendly email sender that records messages.
type InMemoryEmail struct {
	Outbox []Email
	Err    error
}

// Send records the email in memory, returning the configured error if set.
func (m *InMemoryEmail) Send(to, subject, html string, attachment *Attachment) error {
	if m == nil {
		return nil
	}
	if m.Err != nil {
		return m.Err
	}
	m.Outbox = append(m.Outbox, Email{To: to, Subject: subject, HTML: html, Attachment: attachment})
	return nil
}

// NopEmailSender implements EmailSender without performing any action.
type NopEmailSender struct{}

// Send implements EmailSender.
func (NopEmailSender) Send(string, string, string, *Attachment) error { return nil }
