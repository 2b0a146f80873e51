package certprovider_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"domainctl/pkg/certprovider"
	mockcertprovider "domainctl/pkg/certprovider/mock"
	"domainctl/pkg/domain"
	"domainctl/pkg/serrors"
)

func newProviders(ctrl *gomock.Controller) (*mockcertprovider.MockProvider, *mockcertprovider.MockProvider) {
	primary := mockcertprovider.NewMockProvider(ctrl)
	primary.EXPECT().Name().Return(domain.SSLProviderPrimary).AnyTimes()
	fallback := mockcertprovider.NewMockProvider(ctrl)
	fallback.EXPECT().Name().Return(domain.SSLProviderFallback).AnyTimes()

	return primary, fallback
}

func TestChain_CreatePrefersPrimary(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary, fallback := newProviders(ctrl)
	chain := certprovider.NewChain(primary, fallback)

	want := domain.ProviderHandle{Provider: domain.SSLProviderPrimary, ID: "ch_1"}
	primary.EXPECT().CreateHostname(gomock.Any(), "links.acme.com").Return(want, nil)

	got, err := chain.Create(context.Background(), "links.acme.com", "")
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestChain_CreateFallsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary, fallback := newProviders(ctrl)
	chain := certprovider.NewChain(primary, fallback)

	want := domain.ProviderHandle{Provider: domain.SSLProviderFallback, ID: "acme:links.acme.com"}
	primary.EXPECT().CreateHostname(gomock.Any(), "links.acme.com").Return(domain.ProviderHandle{}, errors.New("502"))
	fallback.EXPECT().CreateHostname(gomock.Any(), "links.acme.com").Return(want, nil)

	got, err := chain.Create(context.Background(), "links.acme.com", "")
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestChain_CreateAfter(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary, fallback := newProviders(ctrl)
	chain := certprovider.NewChain(primary, fallback)
	ctx := context.Background()

	want := domain.ProviderHandle{Provider: domain.SSLProviderFallback, ID: "acme:x"}
	fallback.EXPECT().CreateHostname(gomock.Any(), "x.acme.com").Return(want, nil)

	got, err := chain.Create(ctx, "x.acme.com", domain.SSLProviderPrimary)
	require.NoError(t, err)
	require.Equal(t, want, got)

	_, err = chain.Create(ctx, "x.acme.com", domain.SSLProviderFallback)
	require.ErrorIs(t, err, certprovider.ErrNoProvider)
	require.True(t, certprovider.Rejected(err))
}

func TestChain_CreateErrorKinds(t *testing.T) {
	ctx := context.Background()
	rejected := serrors.With(serrors.ErrRejected, "hostname not allowed")

	t.Run("all rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		primary, fallback := newProviders(ctrl)
		primary.EXPECT().CreateHostname(gomock.Any(), gomock.Any()).Return(domain.ProviderHandle{}, rejected)
		fallback.EXPECT().CreateHostname(gomock.Any(), gomock.Any()).Return(domain.ProviderHandle{}, rejected)

		_, err := certprovider.NewChain(primary, fallback).Create(ctx, "x.acme.com", "")
		require.Error(t, err)
		require.True(t, certprovider.Rejected(err))
	})

	t.Run("one transient", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		primary, fallback := newProviders(ctrl)
		primary.EXPECT().CreateHostname(gomock.Any(), gomock.Any()).Return(domain.ProviderHandle{}, rejected)
		fallback.EXPECT().CreateHostname(gomock.Any(), gomock.Any()).Return(domain.ProviderHandle{}, errors.New("timeout"))

		_, err := certprovider.NewChain(primary, fallback).Create(ctx, "x.acme.com", "")
		require.Error(t, err)
		require.False(t, certprovider.Rejected(err))
		require.ErrorIs(t, err, serrors.ErrUnavailable)
	})
}

func TestChain_QueryAndDeleteRouteByHandle(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary, fallback := newProviders(ctrl)
	chain := certprovider.NewChain(primary, fallback)
	ctx := context.Background()

	handle := domain.ProviderHandle{Provider: domain.SSLProviderFallback, ID: "acme:x"}
	fallback.EXPECT().QueryStatus(gomock.Any(), handle).Return(certprovider.Status{State: certprovider.StateActive}, nil)
	fallback.EXPECT().DeleteHostname(gomock.Any(), handle).Return(nil)

	status, err := chain.Query(ctx, handle)
	require.NoError(t, err)
	require.Equal(t, certprovider.StateActive, status.State)
	require.NoError(t, chain.Delete(ctx, handle))

	_, err = chain.Query(ctx, domain.ProviderHandle{Provider: "OTHER", ID: "1"})
	require.ErrorIs(t, err, certprovider.ErrUnknownProvider)
}
