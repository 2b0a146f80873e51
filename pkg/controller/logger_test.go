package controller_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"domainctl/pkg/controller"
	"domainctl/pkg/logger"
)

func TestWithLogger_RequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Info(r.Context(), "inside handler")
		w.WriteHeader(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/domains", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	req.Header.Set("X-Forwarded-For", "1.2.3.4, 5.6.7.8")
	req = req.WithContext(logger.WithLogger(req.Context(), zap.New(core)))
	rec := httptest.NewRecorder()
	controller.WithLogger(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "abc-123", rec.Header().Get("X-Request-Id"))

	entries := logs.All()
	require.Len(t, entries, 2)
	require.Equal(t, "abc-123", entries[0].ContextMap()["request_id"])

	access := entries[1].ContextMap()
	require.Equal(t, "access log", entries[1].Message)
	require.Equal(t, "abc-123", access["request_id"])
	require.EqualValues(t, http.StatusCreated, access["status_code"])
	require.Equal(t, "1.2.3.4", access["client_ip"])
}

func TestWithLogger_GeneratesRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	for _, c := range []struct {
		remoteAddr, realIP, want string
	}{
		{remoteAddr: "10.0.0.1:12345", want: "10.0.0.1"},
		{remoteAddr: "10.0.0.1:12345", realIP: "9.8.7.6", want: "9.8.7.6"},
		{remoteAddr: "not-an-addr", want: "not-an-addr"},
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = c.remoteAddr
		if c.realIP != "" {
			req.Header.Set("X-Real-IP", c.realIP)
		}
		req = req.WithContext(logger.WithLogger(req.Context(), zap.New(core)))
		rec := httptest.NewRecorder()
		controller.WithLogger(next).ServeHTTP(rec, req)

		require.NotEmpty(t, rec.Header().Get("X-Request-Id"))
		entries := logs.TakeAll()
		require.Len(t, entries, 1)
		require.Equal(t, rec.Header().Get("X-Request-Id"), entries[0].ContextMap()["request_id"])
		require.Equal(t, c.want, entries[0].ContextMap()["client_ip"])
	}
}

func TestWithRecover(t *testing.T) {
	logger.Setup(logger.DevelopmentEnvironment, "")

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/domains", nil)
	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		controller.WithRecover(next).ServeHTTP(rec, req)
	})

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"code":"INTERNAL","message":"internal error"}`, rec.Body.String())
}
