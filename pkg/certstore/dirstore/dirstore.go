// Package dirstore implements certstore.Store on the local filesystem, one
// directory per hostname.
package dirstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"domainctl/pkg/certstore"
	"domainctl/pkg/serrors"
)

var _ certstore.Store = (*Store)(nil)

// Store writes bundles below a root directory.
type Store struct {
	dir string
}

// New creates the root directory when missing.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create certificate directory: %w", err)
	}

	return &Store{dir: dir}, nil
}

func (s *Store) path(hostname string) (string, error) {
	key, err := certstore.Key(hostname)
	if err != nil {
		return "", err
	}

	return filepath.Join(s.dir, key), nil
}

// Put writes every artifact atomically. The private key is only readable by
// the owner.
func (s *Store) Put(_ context.Context, hostname string, bundle certstore.Bundle) error {
	dir, err := s.path(hostname)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("could not create directory for %s: %w", hostname, err)
	}

	files := []struct {
		name string
		data []byte
		mode os.FileMode
	}{
		{certstore.PrivateKeyFile, bundle.PrivateKey, 0o600},
		{certstore.CertificateFile, bundle.Certificate, 0o644},
		{certstore.IssuerFile, bundle.IssuerCertificate, 0o644},
	}
	for _, f := range files {
		if len(f.data) == 0 {
			continue
		}
		if err := writeAtomic(filepath.Join(dir, f.name), f.data, f.mode); err != nil {
			return fmt.Errorf("could not write %s for %s: %w", f.name, hostname, err)
		}
	}

	return nil
}

func (s *Store) Get(_ context.Context, hostname string) (certstore.Bundle, error) {
	dir, err := s.path(hostname)
	if err != nil {
		return certstore.Bundle{}, err
	}

	read := func(name string, required bool) ([]byte, error) {
		b, err := os.ReadFile(filepath.Join(dir, name))
		switch {
		case err == nil:
			return b, nil
		case errors.Is(err, os.ErrNotExist) && !required:
			return nil, nil
		case errors.Is(err, os.ErrNotExist):
			return nil, serrors.Wrap(serrors.ErrNotFound, err, "no certificate stored for %s", hostname)
		default:
			return nil, fmt.Errorf("could not read %s for %s: %w", name, hostname, err)
		}
	}

	var bundle certstore.Bundle
	if bundle.Certificate, err = read(certstore.CertificateFile, true); err != nil {
		return certstore.Bundle{}, err
	}
	if bundle.PrivateKey, err = read(certstore.PrivateKeyFile, true); err != nil {
		return certstore.Bundle{}, err
	}
	if bundle.IssuerCertificate, err = read(certstore.IssuerFile, false); err != nil {
		return certstore.Bundle{}, err
	}

	return bundle, nil
}

func (s *Store) Delete(_ context.Context, hostname string) error {
	dir, err := s.path(hostname)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("could not delete certificate for %s: %w", hostname, err)
	}

	return nil
}

func (s *Store) Exists(_ context.Context, hostname string) (bool, error) {
	dir, err := s.path(hostname)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(filepath.Join(dir, certstore.CertificateFile))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("could not stat certificate for %s: %w", hostname, err)
	}
}

func writeAtomic(path string, data []byte, mode os.FileMode) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, mode); err != nil {
		return err //nolint: wrapcheck
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)

		return err //nolint: wrapcheck
	}

	return nil
}
