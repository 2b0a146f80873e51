package postmark

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mrz1836/postmark"
	"github.com/stretchr/testify/require"

	"domainctl/pkg/domain"
	"domainctl/pkg/notifier"
	"domainctl/pkg/serrors"
)

type fakeSender struct {
	sent []postmark.Email
	resp postmark.EmailResponse
	err  error
}

func (f *fakeSender) SendEmail(_ context.Context, email postmark.Email) (postmark.EmailResponse, error) {
	f.sent = append(f.sent, email)

	return f.resp, f.err
}

func testEvent() notifier.Event {
	return notifier.Event{
		Type:     notifier.SslRenewalFailed,
		DomainID: domain.ID(uuid.New()),
		Hostname: "links.acme.com",
		Owner:    domain.UserOwner(uuid.New()),
		Message:  "CAA record forbids issuance",
		At:       time.Now(),
	}
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)

	_, err = New(Config{ServerToken: "t", From: "noreply@shortlinks.net"})
	require.Error(t, err)

	s, err := New(Config{ServerToken: "t", From: "noreply@shortlinks.net", To: "ops@shortlinks.net"})
	require.NoError(t, err)
	require.NotNil(t, s.client)
}

func TestSink_Notify(t *testing.T) {
	fake := &fakeSender{}
	s := &Sink{client: fake, config: Config{From: "noreply@shortlinks.net", To: "ops@shortlinks.net"}}

	ev := testEvent()
	require.NoError(t, s.Notify(context.Background(), ev))
	require.Len(t, fake.sent, 1)

	email := fake.sent[0]
	require.Equal(t, "ops@shortlinks.net", email.To)
	require.Equal(t, "SslRenewalFailed", email.Tag)
	require.Equal(t, "Certificate renewal failed: links.acme.com", email.Subject)
	require.Contains(t, email.TextBody, "CAA record forbids issuance")
	require.Equal(t, ev.DomainID.String(), email.Metadata["domain_id"])
}

func TestSink_NotifyErrors(t *testing.T) {
	fake := &fakeSender{err: errors.New("connection reset")}
	s := &Sink{client: fake, config: Config{From: "a@b.co", To: "c@d.co"}}

	err := s.Notify(context.Background(), testEvent())
	require.ErrorIs(t, err, serrors.ErrUnavailable)

	fake.err = nil
	fake.resp = postmark.EmailResponse{ErrorCode: 406, Message: "inactive recipient"}
	err = s.Notify(context.Background(), testEvent())
	require.ErrorContains(t, err, "inactive recipient")
}
