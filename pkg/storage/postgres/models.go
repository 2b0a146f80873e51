package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"domainctl/pkg/domain"
)

// PgDomain is the row layout of the domains table.
type PgDomain struct {
	ID      uuid.UUID `db:"id"`
	Version int64     `db:"version"`

	Hostname          string `db:"hostname"`
	VerificationToken string `db:"verification_token"`
	CNAMETarget       string `db:"cname_target"`

	OwnerKind        string          `db:"owner_kind"`
	OwnerID          uuid.UUID       `db:"owner_id"`
	OwnershipHistory json.RawMessage `db:"ownership_history"`

	Status        string       `db:"status"`
	ReservedUntil sql.NullTime `db:"reserved_until"`

	VerificationAttempts    int            `db:"verification_attempts"`
	LastVerificationAttempt sql.NullTime   `db:"last_verification_attempt"`
	NextCheckAt             sql.NullTime   `db:"next_check_at"`
	VerificationError       sql.NullString `db:"verification_error"`
	NextReconfirmationDue   sql.NullTime   `db:"next_reconfirmation_due"`

	SSLStatus              string         `db:"ssl_status"`
	SSLProvider            sql.NullString `db:"ssl_provider"`
	SSLIssuedAt            sql.NullTime   `db:"ssl_issued_at"`
	SSLExpiresAt           sql.NullTime   `db:"ssl_expires_at"`
	SSLError               sql.NullString `db:"ssl_error"`
	ProviderHandleProvider sql.NullString `db:"provider_handle_provider"`
	ProviderHandleID       sql.NullString `db:"provider_handle_id"`
	SSLPollAttempts        int            `db:"ssl_poll_attempts"`
	SSLNextPollAt          sql.NullTime   `db:"ssl_next_poll_at"`
	SSLRenewing            bool           `db:"ssl_renewing"`
	SSLRenewAfter          sql.NullTime   `db:"ssl_renew_after"`
	SSLWarning             sql.NullString `db:"ssl_warning"`

	IsBlacklisted   bool           `db:"is_blacklisted"`
	BlacklistReason sql.NullString `db:"blacklist_reason"`

	TotalRedirects int64        `db:"total_redirects" goqu:"skipinsert,skipupdate"`
	LastUsed       sql.NullTime `db:"last_used"       goqu:"skipinsert,skipupdate"`

	CreatedAt time.Time    `db:"created_at" goqu:"skipupdate"`
	UpdatedAt sql.NullTime `db:"updated_at"`
}

func (p *PgDomain) ToDomain() (*domain.Domain, error) {
	var history []domain.OwnershipEntry
	if len(p.OwnershipHistory) > 0 {
		if err := json.Unmarshal(p.OwnershipHistory, &history); err != nil {
			return nil, fmt.Errorf("could not unmarshal ownership history: %w", err)
		}
	}

	var handle *domain.ProviderHandle
	if p.ProviderHandleID.Valid {
		handle = &domain.ProviderHandle{
			Provider: domain.SSLProvider(p.ProviderHandleProvider.String),
			ID:       p.ProviderHandleID.String,
		}
	}

	return &domain.Domain{
		ID:                      domain.ID(p.ID),
		Version:                 p.Version,
		Hostname:                p.Hostname,
		VerificationToken:       p.VerificationToken,
		CNAMETarget:             p.CNAMETarget,
		Owner:                   domain.OwnerRef{Kind: domain.OwnerKind(p.OwnerKind), ID: p.OwnerID},
		OwnershipHistory:        history,
		Status:                  domain.Status(p.Status),
		ReservedUntil:           p.ReservedUntil.Time,
		VerificationAttempts:    p.VerificationAttempts,
		LastVerificationAttempt: p.LastVerificationAttempt.Time,
		NextCheckAt:             p.NextCheckAt.Time,
		VerificationError:       p.VerificationError.String,
		NextReconfirmationDue:   p.NextReconfirmationDue.Time,
		SSLStatus:               domain.SSLStatus(p.SSLStatus),
		SSLProvider:             domain.SSLProvider(p.SSLProvider.String),
		SSLIssuedAt:             p.SSLIssuedAt.Time,
		SSLExpiresAt:            p.SSLExpiresAt.Time,
		SSLError:                p.SSLError.String,
		ProviderHandle:          handle,
		SSLPollAttempts:         p.SSLPollAttempts,
		SSLNextPollAt:           p.SSLNextPollAt.Time,
		SSLRenewing:             p.SSLRenewing,
		SSLRenewAfter:           p.SSLRenewAfter.Time,
		SSLWarning:              p.SSLWarning.String,
		IsBlacklisted:           p.IsBlacklisted,
		BlacklistReason:         p.BlacklistReason.String,
		TotalRedirects:          p.TotalRedirects,
		LastUsed:                p.LastUsed.Time,
		CreatedAt:               p.CreatedAt,
		UpdatedAt:               p.UpdatedAt.Time,
	}, nil
}

func (p *PgDomain) FromDomain(d domain.Domain) error {
	history := d.OwnershipHistory
	if history == nil {
		history = []domain.OwnershipEntry{}
	}
	rawHistory, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("could not marshal ownership history: %w", err)
	}

	var handleProvider, handleID sql.NullString
	if d.ProviderHandle != nil {
		handleProvider = nullString(string(d.ProviderHandle.Provider))
		handleID = sql.NullString{String: d.ProviderHandle.ID, Valid: true}
	}

	createdAt := d.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	*p = PgDomain{
		ID:                      uuid.UUID(d.ID),
		Version:                 d.Version,
		Hostname:                d.Hostname,
		VerificationToken:       d.VerificationToken,
		CNAMETarget:             d.CNAMETarget,
		OwnerKind:               string(d.Owner.Kind),
		OwnerID:                 d.Owner.ID,
		OwnershipHistory:        rawHistory,
		Status:                  string(d.Status),
		ReservedUntil:           nullTime(d.ReservedUntil),
		VerificationAttempts:    d.VerificationAttempts,
		LastVerificationAttempt: nullTime(d.LastVerificationAttempt),
		NextCheckAt:             nullTime(d.NextCheckAt),
		VerificationError:       nullString(d.VerificationError),
		NextReconfirmationDue:   nullTime(d.NextReconfirmationDue),
		SSLStatus:               string(d.SSLStatus),
		SSLProvider:             nullString(string(d.SSLProvider)),
		SSLIssuedAt:             nullTime(d.SSLIssuedAt),
		SSLExpiresAt:            nullTime(d.SSLExpiresAt),
		SSLError:                nullString(d.SSLError),
		ProviderHandleProvider:  handleProvider,
		ProviderHandleID:        handleID,
		SSLPollAttempts:         d.SSLPollAttempts,
		SSLNextPollAt:           nullTime(d.SSLNextPollAt),
		SSLRenewing:             d.SSLRenewing,
		SSLRenewAfter:           nullTime(d.SSLRenewAfter),
		SSLWarning:              nullString(d.SSLWarning),
		IsBlacklisted:           d.IsBlacklisted,
		BlacklistReason:         nullString(d.BlacklistReason),
		TotalRedirects:          d.TotalRedirects,
		LastUsed:                nullTime(d.LastUsed),
		CreatedAt:               createdAt,
		UpdatedAt:               nullTime(d.UpdatedAt),
	}

	return nil
}

func pgDomainsToDomain(rows []PgDomain) ([]domain.Domain, error) {
	out := make([]domain.Domain, 0, len(rows))
	for _, row := range rows {
		d, err := row.ToDomain()
		if err != nil {
			return nil, err
		}

		out = append(out, *d)
	}

	return out, nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
