package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidTransition is returned when an event does not apply to the current status.
	ErrInvalidTransition = errors.New("invalid lifecycle transition")
	// ErrBlacklisted is returned for any event applied to a blacklisted domain.
	ErrBlacklisted = errors.New("domain is blacklisted")
)

// EventKind names a lifecycle event.
type EventKind string

const (
	EventCheckSucceeded        EventKind = "CHECK_SUCCEEDED"
	EventCheckFailed           EventKind = "CHECK_FAILED"
	EventReconfirmSucceeded    EventKind = "RECONFIRM_SUCCEEDED"
	EventReconfirmFailed       EventKind = "RECONFIRM_FAILED"
	EventVerificationRestarted EventKind = "VERIFICATION_RESTARTED"
)

// Event is an input to the lifecycle state machine. Reason is only used by
// failure events and ends up in VerificationError.
type Event struct {
	Kind   EventKind
	Reason string
}

type transitionKey struct {
	from  Status
	event EventKind
}

type transition struct {
	to     Status
	effect func(d *Domain, ev Event, now time.Time, p Policy)
}

var transitions = map[transitionKey]transition{
	{StatusReserved, EventCheckSucceeded}: {StatusVerified, verified},
	{StatusPending, EventCheckSucceeded}:  {StatusVerified, verified},

	{StatusReserved, EventCheckFailed}: {StatusPending, checkFailed},
	{StatusPending, EventCheckFailed}:  {StatusPending, checkFailed},

	{StatusVerified, EventReconfirmSucceeded}: {StatusVerified, reconfirmed},
	{StatusVerified, EventReconfirmFailed}:    {StatusError, reconfirmFailed},

	{StatusError, EventVerificationRestarted}:   {StatusPending, restarted},
	{StatusPending, EventVerificationRestarted}: {StatusPending, restarted},
}

// Transition describes the outcome of Apply.
type Transition struct {
	From Status
	To   Status
	// CeilingReached is true when this very event pushed the attempts counter
	// onto the retry ceiling.
	CeilingReached bool
}

// Apply moves the domain through the lifecycle table. The domain is left
// unchanged when an error is returned.
func (d *Domain) Apply(ev Event, now time.Time, p Policy) (Transition, error) {
	if d.IsBlacklisted {
		return Transition{}, ErrBlacklisted
	}

	t, ok := transitions[transitionKey{from: d.Status, event: ev.Kind}]
	if !ok {
		return Transition{}, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, ev.Kind, d.Status)
	}

	from := d.Status
	before := d.VerificationAttempts
	d.Status = t.to
	t.effect(d, ev, now, p)
	d.UpdatedAt = now

	return Transition{
		From:           from,
		To:             t.to,
		CeilingReached: ev.Kind == EventCheckFailed && !p.CeilingReached(before) && p.CeilingReached(d.VerificationAttempts),
	}, nil
}

func verified(d *Domain, _ Event, now time.Time, p Policy) {
	d.VerificationError = ""
	d.ReservedUntil = time.Time{}
	d.LastVerificationAttempt = now
	d.NextCheckAt = time.Time{}
	d.NextReconfirmationDue = now.Add(p.ReconfirmationInterval)
}

func checkFailed(d *Domain, ev Event, now time.Time, p Policy) {
	d.VerificationAttempts++
	d.LastVerificationAttempt = now
	d.ReservedUntil = time.Time{}
	d.NextCheckAt = now.Add(p.NextCheckDelay(d.VerificationAttempts))
	if p.CeilingReached(d.VerificationAttempts) {
		d.VerificationError = MaxAttemptsError
	} else {
		d.VerificationError = ev.Reason
	}
}

func reconfirmed(d *Domain, _ Event, now time.Time, p Policy) {
	d.LastVerificationAttempt = now
	d.NextReconfirmationDue = now.Add(p.ReconfirmationInterval)
}

func reconfirmFailed(d *Domain, ev Event, now time.Time, _ Policy) {
	d.LastVerificationAttempt = now
	d.NextReconfirmationDue = time.Time{}
	d.VerificationError = ev.Reason
	if d.VerificationError == "" {
		d.VerificationError = "reconfirmation failed"
	}
}

func restarted(d *Domain, _ Event, now time.Time, _ Policy) {
	d.VerificationAttempts = 0
	d.NextCheckAt = now
	d.VerificationError = ""
}
