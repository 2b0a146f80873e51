// Package notifier delivers tenant-facing lifecycle notifications.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"domainctl/pkg/domain"
	"domainctl/pkg/logger"
)

// EventType names a notification.
type EventType string

const (
	VerificationSucceeded EventType = "VerificationSucceeded"
	VerificationFailed    EventType = "VerificationFailed"
	SslRenewed            EventType = "SslRenewed"
	SslRenewalFailed      EventType = "SslRenewalFailed"
	ReconfirmationFailed  EventType = "ReconfirmationFailed"
)

// Event is a notification about one domain.
type Event struct {
	Type     EventType       `json:"type"`
	DomainID domain.ID       `json:"domainId"`
	Hostname string          `json:"hostname"`
	Owner    domain.OwnerRef `json:"owner"`
	Message  string          `json:"message,omitempty"`
	At       time.Time       `json:"at"`
}

// NewEvent builds an event for d.
func NewEvent(typ EventType, d domain.Domain, message string, at time.Time) Event {
	return Event{
		Type:     typ,
		DomainID: d.ID,
		Hostname: d.Hostname,
		Owner:    d.Owner,
		Message:  message,
		At:       at,
	}
}

//go:generate mockgen -package mocknotifier -source=notifier.go -destination=mock/mocknotifier.go *
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// Log writes every event to the structured audit log.
type Log struct{}

func (Log) Notify(ctx context.Context, event Event) error {
	logger.Info(ctx, "domain notification",
		zap.String("event", string(event.Type)),
		zap.Stringer("domainID", event.DomainID),
		zap.String("hostname", event.Hostname),
		zap.Stringer("owner", event.Owner),
		zap.String("message", event.Message),
		zap.Time("at", event.At))

	return nil
}

// Multi fans an event out to every sink. All sinks are attempted; the errors
// of those that failed are joined.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, event Event) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("could not deliver %s: %w", event.Type, errors.Join(errs...))
	}

	return nil
}
