// Package certstore persists the PEM artifacts of certificates issued by the
// platform itself (the ACME fallback path).
package certstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Artifact object names inside a hostname's folder.
const (
	CertificateFile = "cert.pem"
	PrivateKeyFile  = "key.pem"
	IssuerFile      = "issuer.pem"
)

// ErrInvalidHostname is returned for names that cannot be used as a storage key.
var ErrInvalidHostname = errors.New("invalid hostname for certificate storage")

// Bundle is the set of PEM blocks making up an issued certificate.
type Bundle struct {
	Certificate       []byte
	PrivateKey        []byte
	IssuerCertificate []byte
}

// Store keeps one Bundle per hostname. Get returns an error carrying
// serrors.ErrNotFound when nothing is stored; Delete of a missing bundle succeeds.
type Store interface {
	Put(ctx context.Context, hostname string, bundle Bundle) error
	Get(ctx context.Context, hostname string) (Bundle, error)
	Delete(ctx context.Context, hostname string) error
	Exists(ctx context.Context, hostname string) (bool, error)
}

// Key validates hostname as a single path segment.
func Key(hostname string) (string, error) {
	h := strings.ToLower(strings.TrimSpace(hostname))
	if h == "" || h == "." || h == ".." || strings.ContainsAny(h, `/\`) || strings.Contains(h, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidHostname, hostname)
	}

	return h, nil
}
