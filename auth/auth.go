package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/diewo77/go-identity/gate"
	"github.com/diewo77/go-identity/httpx"
)

type ctxKey struct{}

// Caller is the verified identity behind a request.
type Caller struct {
	UserID   uint
	PublicID uuid.UUID
	Email    string
}

var (
	// ErrInvalidToken wraps every token parsing failure.
	ErrInvalidToken = errors.New("invalid token")
	// ErrUnknownCaller is returned by resolvers when a token names no user.
	ErrUnknownCaller = errors.New("unknown caller")
)

// CallerResolver maps a token's public identifier to a caller.
type CallerResolver = gate.Resolver[uuid.UUID, Caller]

// WithCaller stores the caller in the context.
func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// CallerFromContext extracts the caller.
func CallerFromContext(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(ctxKey{}).(Caller)
	return c, ok
}

// Authenticator verifies bearer tokens and resolves the caller.
type Authenticator struct {
	tokens   *Tokens
	resolver CallerResolver
}

func NewAuthenticator(tokens *Tokens, resolver CallerResolver) *Authenticator {
	return &Authenticator{tokens: tokens, resolver: resolver}
}

// Verify turns an Authorization header into a caller.
func (a *Authenticator) Verify(ctx context.Context, header string) (Caller, error) {
	raw := BearerToken(header)
	if raw == "" {
		return Caller{}, ErrMissingToken
	}
	publicID, err := a.tokens.Parse(raw)
	if err != nil {
		return Caller{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return a.resolver.Resolve(ctx, publicID)
}

// RequireAuth rejects requests without a valid token for an existing user
// with 401 and otherwise attaches the caller to the request context.
func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, err := a.Verify(r.Context(), r.Header.Get("Authorization"))
		switch {
		case err == nil:
			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
			return
		case errors.Is(err, ErrMissingToken):
			httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", "token is missing")
		case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrUnknownCaller), errors.Is(err, gate.ErrUnknown):
			httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", "token is invalid")
		default:
			// Anything else from the resolver is a storage problem, not a bad token.
			log.Ctx(r.Context()).Error().Err(err).Msg("resolve caller")
			httpx.JSONError(w, http.StatusInternalServerError, "Unexpected Error", nil)
		}
	})
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
