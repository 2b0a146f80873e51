package api_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"domainctl/internal/api"
	"domainctl/internal/api/handler/v1handler"
	mockreservation "domainctl/internal/reservation/mock"
	"domainctl/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Setup(logger.DevelopmentEnvironment, "")
	m.Run()
}

func publicKeyPEM(t *testing.T) string {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	require.NoError(t, err)

	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}

func newTestServer(t *testing.T, opts api.Options) *http.Server {
	t.Helper()
	ctrl := gomock.NewController(t)
	deps := api.Deps{Deps: v1handler.Deps{Reservations: mockreservation.NewMockManager(ctrl)}}

	opts.SecHandlerOptions = &v1handler.SecHandlerOptions{PublicKey: publicKeyPEM(t)}
	srv, err := api.NewServer(context.Background(), deps, opts)
	require.NoError(t, err)

	return srv
}

func TestNewServer_Routes(t *testing.T) {
	srv := newTestServer(t, api.Options{
		Addr:           ":0",
		MetricsPath:    "/metrics",
		RequestTimeout: 5 * time.Second,
	})
	require.Equal(t, ":0", srv.Addr)

	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"openapi document", http.MethodGet, "/specs/v1.yaml", http.StatusOK},
		{"swagger ui", http.MethodGet, "/v1/docs/", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK},
		{"pprof index", http.MethodGet, "/debug/pprof/", http.StatusOK},
		{"api requires token", http.MethodGet, "/v1/domains", http.StatusUnauthorized},
		{"preflight", http.MethodOptions, "/v1/domains", http.StatusNoContent},
		{"unknown route", http.MethodGet, "/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.Handler.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			require.Equal(t, tt.status, rec.Code)
			require.NotEmpty(t, rec.Header().Get("X-Request-Id"))
		})
	}
}

func TestNewServer_SpecDocument(t *testing.T) {
	srv := newTestServer(t, api.Options{})

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/specs/v1.yaml", nil))
	require.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Body.String(), "/v1/domains/{id}/verify")
}

func TestNewServer_Errors(t *testing.T) {
	_, err := api.NewServer(context.Background(), api.Deps{}, api.Options{
		SecHandlerOptions: &v1handler.SecHandlerOptions{PublicKey: "garbage"},
	})
	require.Error(t, err)

	_, err = api.NewServer(context.Background(), api.Deps{}, api.Options{
		SecHandlerOptions: &v1handler.SecHandlerOptions{PublicKey: publicKeyPEM(t)},
		RiverUI:           true,
	})
	require.Error(t, err)
}
