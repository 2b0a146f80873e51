// Package acme provides the fallback certprovider.Provider: certificates are
// obtained directly from an ACME CA with HTTP-01 challenges and their
// artifacts written to a certstore.Store for the TLS edge to pick up.
package acme

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/go-acme/lego/v4/certcrypto"
	"github.com/go-acme/lego/v4/certificate"
	"github.com/go-acme/lego/v4/challenge"
	"github.com/go-acme/lego/v4/challenge/http01"
	"github.com/go-acme/lego/v4/lego"
	"github.com/go-acme/lego/v4/registration"
	"go.uber.org/zap"

	"domainctl/pkg/certprovider"
	"domainctl/pkg/certstore"
	"domainctl/pkg/domain"
	"domainctl/pkg/logger"
	"domainctl/pkg/serrors"
)

const (
	handlePrefix         = "acme:"
	defaultHTTPPort      = "80"
	defaultMaxConcurrent = 4
)

var _ certprovider.Provider = (*Provider)(nil)

// Options configures the ACME account and the HTTP-01 challenge server.
type Options struct {
	Email string
	// CADirURL defaults to Let's Encrypt production.
	CADirURL string
	// HTTP01Address is the host:port the challenge server binds; port 80 on all
	// interfaces when empty.
	HTTP01Address string
	// ProxyHeader is inspected for host matching behind a proxy (e.g. X-Forwarded-Host).
	ProxyHeader string
	KeyType     certcrypto.KeyType
	// MaxConcurrent bounds simultaneous issuances.
	MaxConcurrent int
}

type attempt struct {
	done bool
	err  error
}

// Provider issues certificates asynchronously: CreateHostname starts an
// issuance and QueryStatus reports its progress.
type Provider struct {
	options Options
	store   certstore.Store

	clientFactory   clientFactory
	accountKeyMaker func() (crypto.PrivateKey, error)

	clientMu sync.Mutex
	client   acmeClient

	mu       sync.Mutex
	attempts map[string]*attempt
	slots    chan struct{}
}

// New validates options and builds a Provider. The ACME account is registered
// lazily on the first issuance.
func New(options Options, store certstore.Store) (*Provider, error) {
	if strings.TrimSpace(options.Email) == "" {
		return nil, errors.New("acme account email is required")
	}
	if options.CADirURL == "" {
		options.CADirURL = lego.LEDirectoryProduction
	}
	if options.KeyType == "" {
		options.KeyType = certcrypto.RSA2048
	}
	if options.MaxConcurrent <= 0 {
		options.MaxConcurrent = defaultMaxConcurrent
	}
	if options.HTTP01Address != "" {
		if _, _, err := net.SplitHostPort(options.HTTP01Address); err != nil {
			return nil, fmt.Errorf("invalid http-01 address %q: %w", options.HTTP01Address, err)
		}
	}

	return &Provider{
		options:       options,
		store:         store,
		clientFactory: defaultClientFactory,
		accountKeyMaker: func() (crypto.PrivateKey, error) {
			return ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		},
		attempts: map[string]*attempt{},
		slots:    make(chan struct{}, options.MaxConcurrent),
	}, nil
}

func (p *Provider) Name() domain.SSLProvider { return domain.SSLProviderFallback }

// CreateHostname starts an issuance for hostname unless one is already running.
func (p *Provider) CreateHostname(ctx context.Context, hostname string) (domain.ProviderHandle, error) {
	key, err := certstore.Key(hostname)
	if err != nil {
		return domain.ProviderHandle{}, serrors.Wrap(serrors.ErrRejected, err, "invalid hostname")
	}

	p.start(ctx, key)

	return domain.ProviderHandle{Provider: p.Name(), ID: handlePrefix + key}, nil
}

// QueryStatus reports pending while the issuance runs, active once it stored
// the artifacts and error when it failed. Finished issuances are kept until
// DeleteHostname or the next CreateHostname. An issuance unknown to this
// process (e.g. lost in a restart) is active when its artifacts are stored and
// is started again otherwise.
func (p *Provider) QueryStatus(ctx context.Context, handle domain.ProviderHandle) (certprovider.Status, error) {
	hostname, err := hostnameOf(handle)
	if err != nil {
		return certprovider.Status{}, err
	}

	p.mu.Lock()
	a, ok := p.attempts[hostname]
	var done bool
	var attemptErr error
	if ok {
		done, attemptErr = a.done, a.err
	}
	p.mu.Unlock()

	switch {
	case !ok:
		stored, err := p.store.Exists(ctx, hostname)
		if err != nil {
			return certprovider.Status{}, fmt.Errorf("could not check certificate artifacts: %w", err)
		}
		if stored {
			return certprovider.Status{State: certprovider.StateActive}, nil
		}
		p.start(ctx, hostname)

		return certprovider.Status{State: certprovider.StatePending}, nil
	case !done:
		return certprovider.Status{State: certprovider.StatePending}, nil
	case attemptErr != nil:
		return certprovider.Status{State: certprovider.StateError, Message: attemptErr.Error()}, nil
	default:
		return certprovider.Status{State: certprovider.StateActive}, nil
	}
}

// DeleteHostname forgets the issuance and removes stored artifacts.
func (p *Provider) DeleteHostname(ctx context.Context, handle domain.ProviderHandle) error {
	hostname, err := hostnameOf(handle)
	if err != nil {
		return err
	}

	p.mu.Lock()
	delete(p.attempts, hostname)
	p.mu.Unlock()

	if err := p.store.Delete(ctx, hostname); err != nil {
		return fmt.Errorf("could not delete certificate artifacts: %w", err)
	}

	return nil
}

func hostnameOf(handle domain.ProviderHandle) (string, error) {
	hostname, ok := strings.CutPrefix(handle.ID, handlePrefix)
	if !ok || hostname == "" {
		return "", serrors.With(serrors.ErrBadRequest, "malformed acme handle %q", handle.ID)
	}

	return hostname, nil
}

func (p *Provider) start(ctx context.Context, hostname string) {
	p.mu.Lock()
	if a, ok := p.attempts[hostname]; ok && !a.done {
		p.mu.Unlock()

		return
	}
	a := &attempt{}
	p.attempts[hostname] = a
	p.mu.Unlock()

	ctx = logger.WithFields(context.WithoutCancel(ctx), zap.String("hostname", hostname))
	go func() {
		p.slots <- struct{}{}
		err := p.obtain(ctx, hostname)
		<-p.slots

		if err != nil {
			logger.Warn(ctx, "acme issuance failed", zap.Error(err))
		} else {
			logger.Info(ctx, "acme certificate stored")
		}

		p.mu.Lock()
		a.done = true
		a.err = err
		p.mu.Unlock()
	}()
}

func (p *Provider) obtain(ctx context.Context, hostname string) error {
	client, err := p.acmeClient()
	if err != nil {
		return err
	}

	res, err := client.Obtain(certificate.ObtainRequest{
		Domains: []string{hostname},
		Bundle:  true,
	})
	if err != nil {
		return fmt.Errorf("could not obtain certificate: %w", err)
	}
	if res == nil || len(res.Certificate) == 0 || len(res.PrivateKey) == 0 {
		return errors.New("acme server returned an empty certificate")
	}

	if err := p.store.Put(ctx, hostname, certstore.Bundle{
		Certificate:       res.Certificate,
		PrivateKey:        res.PrivateKey,
		IssuerCertificate: res.IssuerCertificate,
	}); err != nil {
		return fmt.Errorf("could not store certificate: %w", err)
	}

	return nil
}

// acmeClient returns the registered lego client, registering the account on
// first use. A failed registration is retried on the next issuance.
func (p *Provider) acmeClient() (acmeClient, error) {
	p.clientMu.Lock()
	defer p.clientMu.Unlock()

	if p.client != nil {
		return p.client, nil
	}

	accountKey, err := p.accountKeyMaker()
	if err != nil {
		return nil, fmt.Errorf("could not generate account key: %w", err)
	}
	user := &accountUser{email: p.options.Email, key: accountKey}

	cfg := lego.NewConfig(user)
	cfg.CADirURL = p.options.CADirURL
	cfg.Certificate.KeyType = p.options.KeyType

	client, err := p.clientFactory(cfg)
	if err != nil {
		return nil, fmt.Errorf("could not create acme client: %w", err)
	}

	host, port := "", defaultHTTPPort
	if p.options.HTTP01Address != "" {
		host, port, _ = net.SplitHostPort(p.options.HTTP01Address)
	}
	server := http01.NewProviderServer(host, port)
	if p.options.ProxyHeader != "" {
		server.SetProxyHeader(p.options.ProxyHeader)
	}
	if err := client.SetHTTP01Provider(server); err != nil {
		return nil, fmt.Errorf("could not configure http-01 provider: %w", err)
	}

	reg, err := client.Register(registration.RegisterOptions{TermsOfServiceAgreed: true})
	if err != nil {
		return nil, fmt.Errorf("could not register acme account: %w", err)
	}
	user.registration = reg
	p.client = client

	return client, nil
}

type clientFactory func(*lego.Config) (acmeClient, error)

type acmeClient interface {
	Register(options registration.RegisterOptions) (*registration.Resource, error)
	SetHTTP01Provider(provider challenge.Provider) error
	Obtain(request certificate.ObtainRequest) (*certificate.Resource, error)
}

func defaultClientFactory(cfg *lego.Config) (acmeClient, error) {
	client, err := lego.NewClient(cfg)
	if err != nil {
		return nil, err //nolint: wrapcheck
	}

	return &legoClient{client: client}, nil
}

type legoClient struct {
	client *lego.Client
}

func (l *legoClient) Register(options registration.RegisterOptions) (*registration.Resource, error) {
	return l.client.Registration.Register(options) //nolint: wrapcheck
}

func (l *legoClient) SetHTTP01Provider(provider challenge.Provider) error {
	return l.client.Challenge.SetHTTP01Provider(provider) //nolint: wrapcheck
}

func (l *legoClient) Obtain(request certificate.ObtainRequest) (*certificate.Resource, error) {
	return l.client.Certificate.Obtain(request) //nolint: wrapcheck
}

type accountUser struct {
	email        string
	registration *registration.Resource
	key          crypto.PrivateKey
}

func (u *accountUser) GetEmail() string                        { return u.email }
func (u *accountUser) GetRegistration() *registration.Resource { return u.registration }
func (u *accountUser) GetPrivateKey() crypto.PrivateKey        { return u.key }
