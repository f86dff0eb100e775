package services

import (
	"context"
	"strings"

	"puravida/internal/domain"
	applog "puravida/internal/log"
	"puravida/internal/mail"
	"puravida/internal/validate"
)

const (
	msgContactRequired = "All fields are required"
	msgContactEmail    = "Please enter a valid email address"
	msgContactSend     = "Failed to send email. Please try again."
	msgContactInternal = "An unexpected error occurred. Please try again."
)

// ContactService validates contact form submissions and mails them to the
// site owner. Failures are reported in the result, never as a Go error.
type ContactService struct {
	Sender mail.Sender
	Site   string
	From   string
	To     string
}

func NewContactService(sender mail.Sender, site, from, to string) *ContactService {
	return &ContactService{Sender: sender, Site: site, From: from, To: to}
}

func (s *ContactService) Send(ctx context.Context, msg domain.ContactMessage) domain.ContactResult {
	msg = domain.ContactMessage{
		Name:    strings.TrimSpace(msg.Name),
		Email:   strings.TrimSpace(msg.Email),
		Subject: strings.TrimSpace(msg.Subject),
		Message: strings.TrimSpace(msg.Message),
	}
	if !validate.Required(msg.Name, msg.Email, msg.Subject, msg.Message) {
		return domain.ContactResult{Error: msgContactRequired}
	}
	if _, ok := validate.Email(msg.Email); !ok {
		return domain.ContactResult{Error: msgContactEmail}
	}

	m, err := mail.ContactEmail(s.Site, s.From, s.To, msg)
	if err != nil {
		applog.Error(nil, "contact.render", err, nil)
		return domain.ContactResult{Error: msgContactInternal}
	}
	if err := s.Sender.Send(ctx, m); err != nil {
		applog.Error(nil, "contact.send", err, map[string]any{"subject": msg.Subject})
		return domain.ContactResult{Error: msgContactSend}
	}
	applog.Info(nil, "contact.sent", map[string]any{"subject": msg.Subject})
	return domain.ContactResult{Success: true}
}
