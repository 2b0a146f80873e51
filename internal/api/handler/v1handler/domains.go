package v1handler

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"domainctl/pkg/domain"
	"domainctl/pkg/serrors"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100

	maxBodyBytes = 4 << 10
)

// CreateDomainRequest is the body of POST /v1/domains.
type CreateDomainRequest struct {
	Hostname string
}

// Decode reads the request from d. Unknown fields are ignored.
func (req *CreateDomainRequest) Decode(d *jx.Decoder) error {
	return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "hostname":
			v, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "decode hostname")
			}
			req.Hostname = v

			return nil
		default:
			return d.Skip()
		}
	})
}

// EncodeDomain writes the tenant-visible view of d. Provider handles and the
// raw verification token are never exposed.
func EncodeDomain(e *jx.Encoder, d *domain.Domain) {
	str := func(name, v string) {
		if v != "" {
			e.Field(name, func(e *jx.Encoder) { e.Str(v) })
		}
	}
	ts := func(name string, t time.Time) {
		if !t.IsZero() {
			e.Field(name, func(e *jx.Encoder) { e.Str(t.UTC().Format(time.RFC3339)) })
		}
	}

	e.ObjStart()
	str("id", d.ID.String())
	str("hostname", d.Hostname)
	str("cnameTarget", d.CNAMETarget)
	e.Field("owner", func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("kind", func(e *jx.Encoder) { e.Str(string(d.Owner.Kind)) })
			e.Field("id", func(e *jx.Encoder) { e.Str(d.Owner.ID.String()) })
		})
	})
	str("status", string(d.Status))
	ts("reservedUntil", d.ReservedUntil)
	e.Field("verificationAttempts", func(e *jx.Encoder) { e.Int(d.VerificationAttempts) })
	ts("lastVerificationAttempt", d.LastVerificationAttempt)
	ts("nextCheckAt", d.NextCheckAt)
	str("verificationError", d.VerificationError)
	ts("nextReconfirmationDue", d.NextReconfirmationDue)
	str("sslStatus", string(d.SSLStatus))
	str("sslProvider", string(d.SSLProvider))
	ts("sslIssuedAt", d.SSLIssuedAt)
	ts("sslExpiresAt", d.SSLExpiresAt)
	str("sslError", d.SSLError)
	str("sslWarning", d.SSLWarning)
	e.Field("isBlacklisted", func(e *jx.Encoder) { e.Bool(d.IsBlacklisted) })
	e.Field("totalRedirects", func(e *jx.Encoder) { e.Int64(d.TotalRedirects) })
	ts("lastUsed", d.LastUsed)
	ts("createdAt", d.CreatedAt)
	ts("updatedAt", d.UpdatedAt)
	e.ObjEnd()
}

func domainID(r *http.Request) (domain.ID, error) {
	id, err := domain.ParseID(r.PathValue("id"))
	if err != nil {
		return domain.ID{}, serrors.Wrap(serrors.ErrBadRequest, err, "invalid domain id")
	}

	return id, nil
}

// CreateDomain reserves a hostname for the caller.
func (h Handler) CreateDomain(w http.ResponseWriter, r *http.Request) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return serrors.Wrap(serrors.ErrBadRequest, err, "could not read request body")
	}

	var req CreateDomainRequest
	if err := req.Decode(jx.DecodeBytes(body)); err != nil {
		return serrors.Wrap(serrors.ErrBadRequest, err, "invalid payload")
	}
	if req.Hostname == "" {
		return serrors.With(serrors.ErrBadRequest, "invalid payload: missing hostname")
	}

	d, err := h.deps.Reservations.Reserve(r.Context(), req.Hostname, GetOwnerFromContext(r.Context()))
	if err != nil {
		return err //nolint: wrapcheck
	}

	enc := &jx.Encoder{}
	EncodeDomain(enc, d)
	writeJSON(w, http.StatusCreated, enc)

	return nil
}

// ListDomains returns a page of the caller's domains, newest first.
func (h Handler) ListDomains(w http.ResponseWriter, r *http.Request) error {
	limit := DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > MaxLimit {
			return serrors.With(serrors.ErrBadRequest, "limit must be between 1 and %d", MaxLimit)
		}
		limit = v
	}

	domains, next, err := h.deps.Reservations.List(r.Context(),
		GetOwnerFromContext(r.Context()),
		r.URL.Query().Get("cursor"),
		uint(limit)) //nolint: gosec
	if err != nil {
		return err //nolint: wrapcheck
	}

	enc := &jx.Encoder{}
	enc.Obj(func(enc *jx.Encoder) {
		enc.Field("items", func(enc *jx.Encoder) {
			enc.Arr(func(enc *jx.Encoder) {
				for i := range domains {
					EncodeDomain(enc, &domains[i])
				}
			})
		})
		enc.Field("nextCursor", func(enc *jx.Encoder) {
			if next == "" {
				enc.Null()

				return
			}
			enc.Str(next)
		})
	})
	writeJSON(w, http.StatusOK, enc)

	return nil
}

// GetDomain returns the status of one domain.
func (h Handler) GetDomain(w http.ResponseWriter, r *http.Request) error {
	id, err := domainID(r)
	if err != nil {
		return err
	}

	d, err := h.deps.Reservations.Get(r.Context(), GetOwnerFromContext(r.Context()), id)
	if err != nil {
		return err //nolint: wrapcheck
	}

	enc := &jx.Encoder{}
	EncodeDomain(enc, d)
	writeJSON(w, http.StatusOK, enc)

	return nil
}

// DeleteDomain deprovisions the certificate and deletes the domain.
func (h Handler) DeleteDomain(w http.ResponseWriter, r *http.Request) error {
	id, err := domainID(r)
	if err != nil {
		return err
	}

	if err := h.deps.Reservations.Delete(r.Context(), GetOwnerFromContext(r.Context()), id); err != nil {
		return err //nolint: wrapcheck
	}
	w.WriteHeader(http.StatusNoContent)

	return nil
}

// VerifyDomain restarts verification of a PENDING or ERROR domain.
func (h Handler) VerifyDomain(w http.ResponseWriter, r *http.Request) error {
	id, err := domainID(r)
	if err != nil {
		return err
	}

	d, err := h.deps.Reservations.Reverify(r.Context(), GetOwnerFromContext(r.Context()), id)
	if err != nil {
		return err //nolint: wrapcheck
	}

	enc := &jx.Encoder{}
	EncodeDomain(enc, d)
	writeJSON(w, http.StatusAccepted, enc)

	return nil
}
