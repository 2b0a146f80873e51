package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// OwnerKind discriminates between the two kinds of tenants that can own a domain.
type OwnerKind string

const (
	// OwnerKindUser marks a domain owned by an individual user account.
	OwnerKindUser OwnerKind = "USER"
	// OwnerKindTeam marks a domain owned by a team.
	OwnerKindTeam OwnerKind = "TEAM"
)

// OwnerRef identifies the tenant that owns a domain.
type OwnerRef struct {
	Kind OwnerKind `json:"kind"`
	ID   uuid.UUID `json:"id"`
}

// UserOwner returns an OwnerRef for the given user.
func UserOwner(id uuid.UUID) OwnerRef { return OwnerRef{Kind: OwnerKindUser, ID: id} }

// TeamOwner returns an OwnerRef for the given team.
func TeamOwner(id uuid.UUID) OwnerRef { return OwnerRef{Kind: OwnerKindTeam, ID: id} }

// Valid reports whether the reference has a known kind and a non-nil id.
func (o OwnerRef) Valid() bool {
	return (o.Kind == OwnerKindUser || o.Kind == OwnerKindTeam) && o.ID != uuid.Nil
}

// String renders the reference as "<kind>:<id>", e.g. "USER:6f1c...".
func (o OwnerRef) String() string {
	return string(o.Kind) + ":" + o.ID.String()
}

// ParseOwnerRef parses the "<kind>:<id>" form produced by String.
func ParseOwnerRef(s string) (OwnerRef, error) {
	kind, id, ok := strings.Cut(s, ":")
	if !ok {
		return OwnerRef{}, fmt.Errorf("invalid owner reference %q", s)
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return OwnerRef{}, fmt.Errorf("invalid owner id: %w", err)
	}
	ref := OwnerRef{Kind: OwnerKind(strings.ToUpper(kind)), ID: parsed}
	if !ref.Valid() {
		return OwnerRef{}, fmt.Errorf("invalid owner reference %q", s)
	}

	return ref, nil
}

// OwnershipEntry is one record of the append-only ownership history.
type OwnershipEntry struct {
	Owner  OwnerRef  `json:"owner"`
	At     time.Time `json:"at"`
	Reason string    `json:"reason"`
}
