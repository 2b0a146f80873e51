package s3store_test

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/require"

	"domainctl/pkg/certstore"
	"domainctl/pkg/certstore/s3store"
	"domainctl/pkg/serrors"
)

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	err     error
}

func newFakeS3() *fakeS3 { return &fakeS3{objects: map[string][]byte{}} }

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	b, _ := io.ReadAll(in.Body)
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = b

	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}

	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if _, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]; !ok {
		return nil, &types.NotFound{}
	}

	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key))

	return &s3.DeleteObjectOutput{}, nil
}

func TestStore_RoundTrip(t *testing.T) {
	fake := newFakeS3()
	ctx := context.Background()
	s, err := s3store.New(ctx, s3store.Config{Bucket: "certs", Prefix: "/acme/"}, s3store.WithClient(fake))
	require.NoError(t, err)

	ok, err := s.Exists(ctx, "links.acme.com")
	require.NoError(t, err)
	require.False(t, ok)

	_, err = s.Get(ctx, "links.acme.com")
	require.ErrorIs(t, err, serrors.ErrNotFound)

	bundle := certstore.Bundle{
		Certificate:       []byte("cert"),
		PrivateKey:        []byte("key"),
		IssuerCertificate: []byte("issuer"),
	}
	require.NoError(t, s.Put(ctx, "links.acme.com", bundle))
	require.Contains(t, fake.objects, "certs/acme/links.acme.com/cert.pem")
	require.Contains(t, fake.objects, "certs/acme/links.acme.com/key.pem")

	ok, err = s.Exists(ctx, "links.acme.com")
	require.NoError(t, err)
	require.True(t, ok)

	got, err := s.Get(ctx, "links.acme.com")
	require.NoError(t, err)
	require.Equal(t, bundle, got)

	require.NoError(t, s.Delete(ctx, "links.acme.com"))
	require.Empty(t, fake.objects)
}

func TestStore_ClassifiesErrors(t *testing.T) {
	fake := newFakeS3()
	ctx := context.Background()
	s, err := s3store.New(ctx, s3store.Config{Bucket: "certs"}, s3store.WithClient(fake))
	require.NoError(t, err)

	fake.err = &smithy.GenericAPIError{Code: "AccessDenied", Message: "denied"}
	_, err = s.Exists(ctx, "links.acme.com")
	require.ErrorIs(t, err, serrors.ErrForbidden)

	fake.err = &smithy.GenericAPIError{Code: "SlowDown"}
	err = s.Put(ctx, "links.acme.com", certstore.Bundle{Certificate: []byte("x")})
	require.ErrorIs(t, err, serrors.ErrUnavailable)
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := s3store.New(context.Background(), s3store.Config{}, s3store.WithClient(newFakeS3()))
	require.Error(t, err)
}
