// Package v1handler implements the tenant-facing /v1 domain API.
package v1handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-faster/jx"
	"go.uber.org/zap"

	"domainctl/internal/reservation"
	"domainctl/pkg/logger"
	"domainctl/pkg/serrors"
)

// Deps are the services the handlers call.
type Deps struct {
	Reservations reservation.Manager
}

type Handler struct {
	deps Deps
}

func New(deps Deps) *Handler {
	return &Handler{deps: deps}
}

// Register mounts the v1 routes on mux. Every route goes through auth.
func (h Handler) Register(mux *http.ServeMux, auth func(http.Handler) http.Handler) {
	handle := func(pattern string, fn func(w http.ResponseWriter, r *http.Request) error) {
		mux.Handle(pattern, auth(h.wrap(fn)))
	}

	handle("POST /v1/domains", h.CreateDomain)
	handle("GET /v1/domains", h.ListDomains)
	handle("GET /v1/domains/{id}", h.GetDomain)
	handle("DELETE /v1/domains/{id}", h.DeleteDomain)
	handle("POST /v1/domains/{id}/verify", h.VerifyDomain)
}

// wrap renders the error returned by fn.
func (h Handler) wrap(fn func(w http.ResponseWriter, r *http.Request) error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			h.NewError(r.Context(), err).Write(w)
		}
	})
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    string
	Message string
}

// ErrorStatusCode pairs an ErrorResponse with its HTTP status.
type ErrorStatusCode struct {
	StatusCode int
	Response   ErrorResponse
}

// Write renders the error as {"code": ..., "message": ...}.
func (e *ErrorStatusCode) Write(w http.ResponseWriter) {
	enc := &jx.Encoder{}
	enc.Obj(func(enc *jx.Encoder) {
		enc.Field("code", func(enc *jx.Encoder) { enc.Str(e.Response.Code) })
		enc.Field("message", func(enc *jx.Encoder) { enc.Str(e.Response.Message) })
	})
	writeJSON(w, e.StatusCode, enc)
}

type kindResponse struct {
	status  int
	message string
	// public kinds may show the error's own message to the caller
	public bool
}

var kindResponses = map[serrors.Kind]kindResponse{ //nolint: gochecknoglobals
	serrors.ErrNotFound:     {http.StatusNotFound, "resource not found", true},
	serrors.ErrUnauthorized: {http.StatusUnauthorized, "unauthorized", true},
	serrors.ErrForbidden:    {http.StatusForbidden, "forbidden", true},
	serrors.ErrBadRequest:   {http.StatusBadRequest, "bad request", true},
	serrors.ErrConflict:     {http.StatusConflict, "conflict", true},
	serrors.ErrBlacklisted:  {http.StatusForbidden, "hostname is blocked", true},
	serrors.ErrRateLimited:  {http.StatusTooManyRequests, "too many requests", false},
	serrors.ErrTimeout:      {http.StatusGatewayTimeout, "request timed out", false},
	serrors.ErrUnavailable:  {http.StatusServiceUnavailable, "service unavailable", false},
	serrors.ErrInternal:     {http.StatusInternalServerError, "internal error", false},
}

// NewError maps err onto a status code and a stable body. Internal details are
// logged and never returned.
func (h Handler) NewError(ctx context.Context, err error) *ErrorStatusCode {
	kind := serrors.KindOf(err)
	res, ok := kindResponses[kind]
	if !ok {
		kind = serrors.ErrInternal
		res = kindResponses[kind]
	}

	if res.status >= http.StatusInternalServerError {
		logger.Error(ctx, "request failed", zap.Error(err))
	} else {
		logger.Debug(ctx, "request rejected", zap.Error(err))
	}

	message := res.message
	var semErr *serrors.Error
	if res.public && errors.As(err, &semErr) && semErr.Message() != "" {
		message = semErr.Message()
	}

	return &ErrorStatusCode{
		StatusCode: res.status,
		Response: ErrorResponse{
			Code:    kind.Error(),
			Message: message,
		},
	}
}

func writeJSON(w http.ResponseWriter, status int, enc *jx.Encoder) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(enc.Bytes())
}
