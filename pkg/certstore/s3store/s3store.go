// Package s3store implements certstore.Store on Amazon S3 and S3-compatible
// object storage.
package s3store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"domainctl/pkg/certstore"
	"domainctl/pkg/serrors"
)

var _ certstore.Store = (*Store)(nil)

// Client is the subset of the S3 API the store uses.
type Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Config locates the bucket. Static credentials are optional; without them the
// default AWS credential chain applies.
type Config struct {
	Bucket         string
	Region         string
	Prefix         string
	Endpoint       string // For S3-compatible services like MinIO
	AccessKeyID    string
	SecretKey      string
	ForcePathStyle bool
}

// Store keeps each bundle under <prefix>/<hostname>/.
type Store struct {
	client Client
	bucket string
	prefix string
}

// Option customizes New.
type Option func(*Store)

// WithClient replaces the SDK client, mostly for tests.
func WithClient(client Client) Option {
	return func(s *Store) { s.client = client }
}

// New builds a Store, loading the AWS configuration unless WithClient is given.
func New(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}

	s := &Store{bucket: cfg.Bucket, prefix: strings.Trim(cfg.Prefix, "/")}
	for _, opt := range opts {
		opt(s)
	}
	if s.client != nil {
		return s, nil
	}

	loadOpts := []func(*config.LoadOptions) error{}
	if cfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, "")))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("could not load aws config: %w", err)
	}

	s.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})

	return s, nil
}

func (s *Store) key(hostname, file string) (string, error) {
	h, err := certstore.Key(hostname)
	if err != nil {
		return "", err
	}

	return path.Join(s.prefix, h, file), nil
}

func (s *Store) Put(ctx context.Context, hostname string, bundle certstore.Bundle) error {
	files := []struct {
		name string
		data []byte
	}{
		{certstore.PrivateKeyFile, bundle.PrivateKey},
		{certstore.IssuerFile, bundle.IssuerCertificate},
		// written last so Exists only reports complete bundles
		{certstore.CertificateFile, bundle.Certificate},
	}

	for _, f := range files {
		if len(f.data) == 0 {
			continue
		}
		key, err := s.key(hostname, f.name)
		if err != nil {
			return err
		}

		_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:               aws.String(s.bucket),
			Key:                  aws.String(key),
			Body:                 bytes.NewReader(f.data),
			ContentType:          aws.String("application/x-pem-file"),
			ServerSideEncryption: types.ServerSideEncryptionAes256,
		})
		if err != nil {
			return classify(err, "put "+key)
		}
	}

	return nil
}

func (s *Store) Get(ctx context.Context, hostname string) (certstore.Bundle, error) {
	read := func(file string, required bool) ([]byte, error) {
		key, err := s.key(hostname, file)
		if err != nil {
			return nil, err
		}

		out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(key)})
		if err != nil {
			err = classify(err, "get "+key)
			if !required && errors.Is(err, serrors.ErrNotFound) {
				return nil, nil
			}

			return nil, err
		}
		defer func() {
			_ = out.Body.Close()
		}()

		b, err := io.ReadAll(out.Body)
		if err != nil {
			return nil, fmt.Errorf("could not read %s: %w", key, err)
		}

		return b, nil
	}

	var (
		bundle certstore.Bundle
		err    error
	)
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

// Delete removes every artifact. S3 deletes of missing keys succeed.
func (s *Store) Delete(ctx context.Context, hostname string) error {
	for _, file := range []string{certstore.CertificateFile, certstore.PrivateKeyFile, certstore.IssuerFile} {
		key, err := s.key(hostname, file)
		if err != nil {
			return err
		}

		_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(key)})
		if err != nil {
			if err = classify(err, "delete "+key); !errors.Is(err, serrors.ErrNotFound) {
				return err
			}
		}
	}

	return nil
}

func (s *Store) Exists(ctx context.Context, hostname string) (bool, error) {
	key, err := s.key(hostname, certstore.CertificateFile)
	if err != nil {
		return false, err
	}

	_, err = s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(key)})
	if err != nil {
		err = classify(err, "head "+key)
		if errors.Is(err, serrors.ErrNotFound) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

// classify maps SDK errors onto semantic kinds.
func classify(err error, operation string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return serrors.Wrap(serrors.ErrTimeout, err, "%s", operation)
	}

	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return serrors.Wrap(serrors.ErrNotFound, err, "%s", operation)
	}
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return serrors.Wrap(serrors.ErrNotFound, err, "%s", operation)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return serrors.Wrap(serrors.ErrNotFound, err, "%s", operation)
		case "AccessDenied":
			return serrors.Wrap(serrors.ErrForbidden, err, "%s", operation)
		case "RequestTimeout":
			return serrors.Wrap(serrors.ErrTimeout, err, "%s", operation)
		case "SlowDown", "ServiceUnavailable":
			return serrors.Wrap(serrors.ErrUnavailable, err, "%s", operation)
		}
	}

	return fmt.Errorf("%s failed: %w", operation, err)
}
