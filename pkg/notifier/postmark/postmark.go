// Package postmark delivers notifications as transactional email.
package postmark

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/mrz1836/postmark"

	"domainctl/pkg/notifier"
	"domainctl/pkg/serrors"
)

var _ notifier.Notifier = (*Sink)(nil)

// Config holds the Postmark credentials and addresses.
type Config struct {
	ServerToken  string
	AccountToken string
	From         string
	// To receives every notification.
	To string
}

type sender interface {
	SendEmail(ctx context.Context, email postmark.Email) (postmark.EmailResponse, error)
}

// Sink sends one email per event.
type Sink struct {
	client sender
	config Config
}

// New creates a Postmark-backed sink.
func New(cfg Config) (*Sink, error) {
	if cfg.ServerToken == "" {
		return nil, errors.New("postmark server token is required")
	}
	if cfg.From == "" || cfg.To == "" {
		return nil, errors.New("postmark sender and recipient are required")
	}

	return &Sink{
		client: postmark.NewClient(cfg.ServerToken, cfg.AccountToken),
		config: cfg,
	}, nil
}

func (s *Sink) Notify(ctx context.Context, event notifier.Event) error {
	subject, body := render(event)

	resp, err := s.client.SendEmail(ctx, postmark.Email{
		From:     s.config.From,
		To:       s.config.To,
		Subject:  subject,
		Tag:      string(event.Type),
		TextBody: body,
		HTMLBody: "<p>" + strings.ReplaceAll(html.EscapeString(body), "\n", "<br>") + "</p>",
		Metadata: map[string]string{
			"domain_id": event.DomainID.String(),
			"owner":     event.Owner.String(),
		},
	})
	if err != nil {
		return serrors.Wrap(serrors.ErrUnavailable, err, "could not send email")
	}
	if resp.ErrorCode > 0 {
		return fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message)
	}

	return nil
}

func render(event notifier.Event) (string, string) {
	var subject, lead string
	switch event.Type {
	case notifier.VerificationSucceeded:
		subject, lead = "Domain verified", "is verified. A TLS certificate is being issued."
	case notifier.VerificationFailed:
		subject, lead = "Domain verification failing", "could not be verified yet. Check its CNAME record; we keep retrying hourly."
	case notifier.SslRenewed:
		subject, lead = "Certificate renewed", "has a renewed TLS certificate."
	case notifier.SslRenewalFailed:
		subject, lead = "Certificate renewal failed", "could not renew its TLS certificate. The current certificate stays in place."
	case notifier.ReconfirmationFailed:
		subject, lead = "Domain ownership could not be confirmed", "no longer points at the platform and needs attention."
	default:
		subject, lead = string(event.Type), "changed."
	}

	body := event.Hostname + " " + lead
	if event.Message != "" {
		body += "\nDetails: " + event.Message
	}

	return subject + ": " + event.Hostname, body
}
