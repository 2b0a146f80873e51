package v1handler

import (
	"context"
	"crypto/rsa"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"domainctl/internal/config"
	"domainctl/pkg/domain"
	"domainctl/pkg/logger"
	"domainctl/pkg/serrors"
)

// CtxKey is the type of the context keys set by the security handler.
type CtxKey string

// OwnerKey stores the authenticated domain.OwnerRef.
const OwnerKey CtxKey = "Owner"

// Claims are the bearer token claims. The subject is the user id; a team_id
// claim makes the team the owner of everything the request creates or reads.
type Claims struct {
	jwt.RegisteredClaims

	TeamID string `json:"team_id,omitempty"`
}

// SecHandlerOptions configure bearer authentication.
type SecHandlerOptions struct {
	// PublicKey is the PEM encoded RSA key tokens are verified with.
	PublicKey string
}

// NewSecHandlerOptions constructs SecHandlerOptions from the application config.
func NewSecHandlerOptions(cfg *config.Config) *SecHandlerOptions {
	return &SecHandlerOptions{PublicKey: cfg.JWT.PublicKey}
}

type SecHandler struct {
	publicKey *rsa.PublicKey
	parser    *jwt.Parser
}

func NewSecHandler(opts *SecHandlerOptions) (*SecHandler, error) {
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(opts.PublicKey))
	if err != nil {
		return nil, fmt.Errorf("could not parse RSA public key: %w", err)
	}

	return &SecHandler{
		publicKey: key,
		parser:    jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}), jwt.WithExpirationRequired()),
	}, nil
}

// HandleBearerAuth verifies token and stores the owner it grants in ctx.
func (s *SecHandler) HandleBearerAuth(ctx context.Context, token string) (context.Context, error) {
	var claims Claims
	_, err := s.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) { return s.publicKey, nil })
	if err != nil {
		return ctx, serrors.Wrap(serrors.ErrUnauthorized, err, "invalid token")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, serrors.Wrap(serrors.ErrUnauthorized, err, "invalid token subject")
	}
	owner := domain.UserOwner(userID)

	if claims.TeamID != "" {
		teamID, err := uuid.Parse(claims.TeamID)
		if err != nil {
			return ctx, serrors.Wrap(serrors.ErrUnauthorized, err, "invalid team claim")
		}
		owner = domain.TeamOwner(teamID)
	}

	ctx = context.WithValue(ctx, OwnerKey, owner)
	ctx = logger.WithFields(ctx, zap.Stringer("userID", userID), zap.Stringer("owner", owner))

	return ctx, nil
}

// Middleware authenticates the Authorization header and renders failures
// through h.
func (s *SecHandler) Middleware(h *Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				h.NewError(r.Context(), serrors.With(serrors.ErrUnauthorized, "missing bearer token")).Write(w)

				return
			}

			ctx, err := s.HandleBearerAuth(r.Context(), token)
			if err != nil {
				h.NewError(r.Context(), err).Write(w)

				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetOwnerFromContext returns the authenticated owner, or the zero OwnerRef.
func GetOwnerFromContext(ctx context.Context) domain.OwnerRef {
	owner, _ := ctx.Value(OwnerKey).(domain.OwnerRef)

	return owner
}
